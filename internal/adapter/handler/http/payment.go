package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/merobazar/payrecon/internal/adapter/config"
	"github.com/merobazar/payrecon/internal/core/domain"
	"github.com/merobazar/payrecon/internal/core/port"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	Handler
	service     port.Service
	frontendURL string
	esewaConf   *config.Esewa
}

func NewPaymentHandler(service port.Service, conf *config.HTTP, esewaConf *config.Esewa, logger *zap.Logger) (*PaymentHandler, error) {
	return &PaymentHandler{
		Handler:     *NewHandler(logger),
		service:     service,
		frontendURL: conf.FrontendURL,
		esewaConf:   esewaConf,
	}, nil
}

type initPaymentRequest struct {
	OrderID uint64 `json:"orderId"`
}

type initPaymentResponse struct {
	PaymentData *domain.PaymentRequest `json:"paymentData"`
	OrderID     uint64                 `json:"orderId"`
}

// InitEsewaPayment assigns a transaction id to the order and returns the
// signed payment request for the client to forward to the gateway.
func (ph *PaymentHandler) InitEsewaPayment(ctx *gin.Context) {
	req := initPaymentRequest{}
	err := ctx.ShouldBindBodyWithJSON(&req)
	if err != nil || req.OrderID == 0 {
		ph.handleValidationError(ctx, domain.ErrBadRequest)
		return
	}

	init, err := ph.service.BeginPayment(ctx, *getAuthPayload(ctx), req.OrderID)
	if err != nil {
		ph.handleError(ctx, err)
		return
	}

	ph.handleSuccess(ctx, initPaymentResponse{
		PaymentData: init.PaymentData,
		OrderID:     init.OrderNumber,
	})
}

// EsewaSuccess is the gateway's success callback. It always redirects the
// browser, never returns a raw error to the gateway.
func (ph *PaymentHandler) EsewaSuccess(ctx *gin.Context) {
	cb := domain.ParseCallback(ctx.Request.URL.Query())

	order, err := ph.service.HandleSuccessCallback(ctx, cb)
	if order == nil {
		ph.logger.Warn("Success callback not resolved",
			zap.String("transaction_uuid", cb.TransactionUUID),
			zap.Error(err))
		ctx.Redirect(http.StatusFound, ph.frontendURL+"/orders?payment=unidentified")
		return
	}
	if err != nil {
		// Outcome decided but not persisted; the confirmation page is
		// still the right destination for the shopper.
		ph.logger.Error("Success callback settle error",
			zap.Uint64("order", order.Number), zap.Error(err))
	}

	ctx.Redirect(http.StatusFound,
		fmt.Sprintf("%s/order-confirmation/%d?payment=success", ph.frontendURL, order.Number))
}

// EsewaFailure is the gateway's failure callback.
func (ph *PaymentHandler) EsewaFailure(ctx *gin.Context) {
	cb := domain.ParseCallback(ctx.Request.URL.Query())

	order, err := ph.service.HandleFailureCallback(ctx, cb)
	if order == nil {
		ph.logger.Warn("Failure callback not resolved",
			zap.String("transaction_uuid", cb.TransactionUUID),
			zap.Error(err))
		ctx.Redirect(http.StatusFound, ph.frontendURL+"/orders?payment=failed")
		return
	}
	if err != nil {
		ph.logger.Error("Failure callback settle error",
			zap.Uint64("order", order.Number), zap.Error(err))
	}

	ctx.Redirect(http.StatusFound,
		fmt.Sprintf("%s/payment/%d?payment=failed", ph.frontendURL, order.Number))
}

type verifyPaymentRequest struct {
	OrderID uint64 `json:"orderId"`
	RefID   string `json:"refId"`
}

// VerifyEsewaPayment re-checks a single order against the gateway.
func (ph *PaymentHandler) VerifyEsewaPayment(ctx *gin.Context) {
	req := verifyPaymentRequest{}
	err := ctx.ShouldBindBodyWithJSON(&req)
	if err != nil || req.OrderID == 0 {
		ph.handleValidationError(ctx, domain.ErrBadRequest)
		return
	}

	order, err := ph.service.VerifyPayment(ctx, *getAuthPayload(ctx), req.OrderID, req.RefID)
	if err != nil {
		ph.handleError(ctx, err)
		return
	}

	if order.PaymentStatus != domain.PaymentStatusCompleted {
		ctx.JSON(http.StatusBadRequest, jsonResponse{
			Success: false,
			Message: "Payment verification failed",
		})
		return
	}

	message := "Payment verified successfully"
	if !order.PaymentVerified {
		message = "Payment completed without gateway confirmation"
	}
	ph.handleSuccess(ctx, jsonResponse{Success: true, Message: message})
}

type batchVerifyResponse struct {
	Success bool `json:"success"`
	Updated int  `json:"updated"`
}

// VerifyPendingPayments batch-verifies all pending gateway orders of the
// caller.
func (ph *PaymentHandler) VerifyPendingPayments(ctx *gin.Context) {
	updated, err := ph.service.VerifyPendingPayments(ctx, getAuthPayload(ctx).UserID)
	if err != nil {
		ph.handleError(ctx, err)
		return
	}

	ph.handleSuccess(ctx, batchVerifyResponse{Success: true, Updated: updated})
}

// ConfigInfo echoes the sanitized gateway configuration for diagnostics.
// The secret itself is never exposed.
func (ph *PaymentHandler) ConfigInfo(ctx *gin.Context) {
	ph.handleSuccess(ctx, gin.H{
		"esewa": gin.H{
			"gateway":            ph.esewaConf.GatewayURL,
			"productCode":        ph.esewaConf.ProductCode,
			"secretKeyAvailable": ph.esewaConf.SecretKey != "",
		},
		"urls": gin.H{
			"frontend": ph.frontendURL,
			"success":  ph.esewaConf.SuccessURL,
			"failure":  ph.esewaConf.FailureURL,
		},
	})
}
