package port

import (
	"context"

	"github.com/merobazar/payrecon/internal/core/domain"
)

//go:generate mockgen -source=repository.go -destination=mock/repository.go -package=mock
type Repository interface {
	// User
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	GetUserByLogin(ctx context.Context, login string) (*domain.User, error)

	// Order
	CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)
	ReadOrder(ctx context.Context, number uint64) (*domain.Order, error)
	ListOrdersByUser(ctx context.Context, userID uint64) ([]*domain.Order, error)

	// Payment correlation
	SetTransactionID(ctx context.Context, number uint64, transactionID string) error
	FindOrderByTransactionID(ctx context.Context, transactionID string) (*domain.Order, error)
	FindLatestPendingOrder(ctx context.Context, method domain.PaymentMethod) (*domain.Order, error)
	ListPendingOrdersByUser(ctx context.Context, userID uint64, method domain.PaymentMethod) ([]*domain.Order, error)

	// SettlePayment writes the terminal payment state of an order. The
	// update is conditional on the stored status still being pending, so
	// racing writers cannot both win; a lost race surfaces as
	// domain.ErrNoUpdatedData.
	SettlePayment(ctx context.Context, order *domain.Order) (*domain.Order, error)
}
