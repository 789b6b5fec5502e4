package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/govalues/decimal"
	"github.com/merobazar/payrecon/internal/core/domain"
	"github.com/merobazar/payrecon/internal/core/port"
	"go.uber.org/zap"
)

type OrderHandler struct {
	Handler
	service port.Service
}

func NewOrderHandler(service port.Service, logger *zap.Logger) (*OrderHandler, error) {
	return &OrderHandler{
		Handler: *NewHandler(logger),
		service: service,
	}, nil
}

type createOrderRequest struct {
	TotalAmount   float64 `json:"totalAmount"`
	PaymentMethod string  `json:"paymentMethod"`
}

func (oh *OrderHandler) CreateOrder(ctx *gin.Context) {
	userID := getAuthPayload(ctx).UserID

	req := createOrderRequest{}
	err := ctx.ShouldBindBodyWithJSON(&req)
	if err != nil {
		oh.handleValidationError(ctx, domain.ErrBadRequest)
		return
	}

	amount, err := decimal.NewFromFloat64(req.TotalAmount)
	if err != nil {
		oh.handleValidationError(ctx, domain.ErrOrderBadAmount)
		return
	}

	order := &domain.Order{
		UserID:        userID,
		TotalAmount:   amount,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
	}
	newOrder, err := oh.service.CreateOrder(ctx, order)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, orderResponse(newOrder))
}

type OrderResp struct {
	Number          uint64              `json:"number"`
	TotalAmount     decimal.Decimal     `json:"totalAmount"`
	PaymentMethod   string              `json:"paymentMethod"`
	PaymentStatus   string              `json:"paymentStatus"`
	TransactionID   string              `json:"transactionId,omitempty"`
	PaymentVerified bool                `json:"paymentVerified"`
	Status          string              `json:"status"`
	CreatedAt       time.Time           `json:"createdAt"`
	PaymentDetails  *paymentDetailsResp `json:"paymentDetails,omitempty"`
}

type paymentDetailsResp struct {
	Gateway     string          `json:"gateway"`
	ReferenceID string          `json:"referenceId"`
	Amount      decimal.Decimal `json:"amount"`
	PaidAt      time.Time       `json:"paidAt"`
}

func orderResponse(o *domain.Order) OrderResp {
	r := OrderResp{
		Number:          o.Number,
		TotalAmount:     o.TotalAmount,
		PaymentMethod:   string(o.PaymentMethod),
		PaymentStatus:   string(o.PaymentStatus),
		TransactionID:   o.TransactionID,
		PaymentVerified: o.PaymentVerified,
		Status:          string(o.Status),
		CreatedAt:       o.CreatedAt,
	}
	if o.PaymentDetails != nil {
		r.PaymentDetails = &paymentDetailsResp{
			Gateway:     o.PaymentDetails.Gateway,
			ReferenceID: o.PaymentDetails.ReferenceID,
			Amount:      o.PaymentDetails.Amount,
			PaidAt:      o.PaymentDetails.PaidAt,
		}
	}
	return r
}

func (oh *OrderHandler) ListOrdersByUser(ctx *gin.Context) {
	userID := getAuthPayload(ctx).UserID

	list, err := oh.service.GetOrdersByUser(ctx, userID)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	result := make([]OrderResp, 0, len(list))
	for _, o := range list {
		result = append(result, orderResponse(o))
	}

	oh.handleSuccess(ctx, result)
}
