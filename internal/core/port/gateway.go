package port

import (
	"context"

	"github.com/govalues/decimal"
	"github.com/merobazar/payrecon/internal/core/domain"
)

//go:generate mockgen -source=gateway.go -destination=mock/gateway.go -package=mock
type Gateway interface {
	// BuildPaymentRequest assembles and signs the payment payload for an
	// order that already has a transaction identifier assigned.
	BuildPaymentRequest(order *domain.Order, transactionID string) (*domain.PaymentRequest, error)

	// CheckTransaction queries the gateway's transaction status endpoint
	// out of band. Network and timeout failures are reported as
	// domain.ErrGatewayUnreachable.
	CheckTransaction(ctx context.Context, transactionID string, amount decimal.Decimal) (*domain.TransactionStatus, error)
}
