package domain

import (
	"time"

	"github.com/govalues/decimal"
)

type PaymentMethod string

const (
	PaymentMethodCOD    PaymentMethod = "cod"
	PaymentMethodEsewa  PaymentMethod = "esewa"
	PaymentMethodKhalti PaymentMethod = "khalti"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCOD, PaymentMethodEsewa, PaymentMethodKhalti:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Terminal reports whether the payment state admits no further transitions.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusFailed
}

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// PaymentDetails is populated only when a payment reaches completed.
type PaymentDetails struct {
	Gateway     string
	ReferenceID string
	Amount      decimal.Decimal
	PaidAt      time.Time
}

type Order struct {
	Number          uint64
	UserID          uint64
	TotalAmount     decimal.Decimal
	PaymentMethod   PaymentMethod
	PaymentStatus   PaymentStatus
	TransactionID   string
	PaymentDetails  *PaymentDetails
	PaymentVerified bool
	Status          OrderStatus
	CreatedAt       time.Time
	User            *User
}
