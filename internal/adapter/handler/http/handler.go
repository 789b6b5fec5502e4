package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/merobazar/payrecon/internal/core/domain"
	"go.uber.org/zap"
)

var errorStatusMap = map[error]int{
	domain.ErrInternal:        http.StatusInternalServerError,
	domain.ErrDataNotFound:    http.StatusNotFound,
	domain.ErrConflictingData: http.StatusConflict,

	domain.ErrInvalidCredentials:         http.StatusUnauthorized,
	domain.ErrUnauthorized:               http.StatusUnauthorized,
	domain.ErrEmptyAuthorizationHeader:   http.StatusUnauthorized,
	domain.ErrInvalidAuthorizationHeader: http.StatusUnauthorized,
	domain.ErrInvalidAuthorizationType:   http.StatusUnauthorized,
	domain.ErrInvalidToken:               http.StatusUnauthorized,
	domain.ErrForbidden:                  http.StatusForbidden,

	domain.ErrNoUpdatedData: http.StatusBadRequest,
	domain.ErrBadRequest:    http.StatusBadRequest,

	domain.ErrInvalidPaymentMethod:  http.StatusBadRequest,
	domain.ErrPaymentNotInitiated:   http.StatusBadRequest,
	domain.ErrPaymentAlreadySettled: http.StatusConflict,
	domain.ErrOrderBadAmount:        http.StatusUnprocessableEntity,
	domain.ErrUnresolvedCallback:    http.StatusNotFound,
	domain.ErrGatewayUnreachable:    http.StatusBadGateway,
}

// statusForError maps a (possibly wrapped) domain error to an HTTP status.
func statusForError(err error) (int, bool) {
	if code, ok := errorStatusMap[err]; ok {
		return code, true
	}
	for sentinel, code := range errorStatusMap {
		if errors.Is(err, sentinel) {
			return code, true
		}
	}
	return http.StatusInternalServerError, false
}

type Handler struct {
	logger *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{logger: logger}
}

// jsonResponse is the envelope for authenticated payment endpoints.
type jsonResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// handleValidationError sends an error response for some specific request validation error
func (h *Handler) handleValidationError(ctx *gin.Context, err error) {
	ctx.JSON(http.StatusBadRequest, jsonResponse{Success: false, Message: err.Error()})
}

// handleAbort sends an error response and aborts the request with the specified status code and error message
func (h *Handler) handleAbort(ctx *gin.Context, err error) {
	statusCode, ok := statusForError(err)
	if !ok {
		h.logger.Error("aborting request", zap.Error(err))
	}
	ctx.AbortWithStatusJSON(statusCode, jsonResponse{Success: false, Message: err.Error()})
}

func (h *Handler) handleError(ctx *gin.Context, err error) {
	statusCode, ok := statusForError(err)
	if !ok {
		h.logger.Error("error processing request", zap.Error(err))
	}
	ctx.JSON(statusCode, jsonResponse{Success: false, Message: err.Error()})
}

// handleSuccess sends a success response with the optional data payload
func (h *Handler) handleSuccess(ctx *gin.Context, data any) {
	ctx.JSON(http.StatusOK, data)
}
