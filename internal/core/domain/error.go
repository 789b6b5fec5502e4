package domain

import (
	"errors"
)

var (
	ErrInternal = errors.New("internal error")

	// * Data errors.
	ErrDataNotFound    = errors.New("data not found")
	ErrNoUpdatedData   = errors.New("no data to update")
	ErrConflictingData = errors.New("data conflicts with existing data in unique column")

	// * Communication errors.
	ErrBadRequest = errors.New("error parsing request")

	// * Authority errors.
	ErrTokenCreation              = errors.New("error creating token")
	ErrInvalidToken               = errors.New("access token is invalid")
	ErrInvalidCredentials         = errors.New("invalid login or password")
	ErrEmptyAuthorizationHeader   = errors.New("authorization header is not provided")
	ErrInvalidAuthorizationHeader = errors.New("authorization header format is invalid")
	ErrInvalidAuthorizationType   = errors.New("authorization type is not supported")
	ErrUnauthorized               = errors.New("user is unauthorized to access the resource")
	ErrForbidden                  = errors.New("user is forbidden to access the resource")

	// * Business errors.
	ErrInvalidPaymentMethod  = errors.New("payment method does not match the gateway")
	ErrPaymentNotInitiated   = errors.New("payment was not initiated for the order")
	ErrPaymentAlreadySettled = errors.New("order payment is already settled")
	ErrUnresolvedCallback    = errors.New("callback could not be matched to an order")
	ErrGatewayUnreachable    = errors.New("payment gateway is unreachable")
	ErrSignatureFields       = errors.New("missing field for signature")
	ErrOrderBadAmount        = errors.New("order amount is not valid")
)
