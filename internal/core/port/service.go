package port

import (
	"context"

	"github.com/merobazar/payrecon/internal/core/domain"
)

// PaymentInit is the response of a successful payment initiation.
type PaymentInit struct {
	OrderNumber uint64
	PaymentData *domain.PaymentRequest
}

//go:generate mockgen -source=service.go -destination=mock/service.go -package=mock
type Service interface {
	RegisterUser(ctx context.Context, user *domain.User) (*domain.User, error)
	LoginUser(ctx context.Context, login string, password string) (string, error)

	CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetOrdersByUser(ctx context.Context, userID uint64) ([]*domain.Order, error)

	BeginPayment(ctx context.Context, auth TokenPayload, orderNumber uint64) (*PaymentInit, error)
	HandleSuccessCallback(ctx context.Context, cb domain.Callback) (*domain.Order, error)
	HandleFailureCallback(ctx context.Context, cb domain.Callback) (*domain.Order, error)
	VerifyPayment(ctx context.Context, auth TokenPayload, orderNumber uint64, refID string) (*domain.Order, error)
	VerifyPendingPayments(ctx context.Context, userID uint64) (int, error)
}
