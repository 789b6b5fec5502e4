package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/merobazar/payrecon/internal/core/domain"
	"github.com/merobazar/payrecon/internal/core/port"
	"go.uber.org/zap"
)

// Gateway status codes from the transaction status endpoint.
const (
	gatewayStatusComplete   = "COMPLETE"
	gatewayStatusCanceled   = "CANCELED"
	gatewayStatusNotFound   = "NOT_FOUND"
	gatewayStatusFullRefund = "FULL_REFUND"
)

func newTransactionID() string {
	return fmt.Sprintf("TX%d", time.Now().UnixMilli())
}

// BeginPayment assigns a transaction identifier to the order and returns
// the signed payment request. The identifier is persisted before the
// request is handed out, so a callback racing the client can still be
// resolved.
func (s *Service) BeginPayment(ctx context.Context, auth port.TokenPayload, orderNumber uint64) (*port.PaymentInit, error) {
	order, err := s.repo.ReadOrder(ctx, orderNumber)
	if err != nil {
		return nil, err
	}

	if order.UserID != auth.UserID && auth.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	if order.PaymentMethod != domain.PaymentMethodEsewa {
		return nil, domain.ErrInvalidPaymentMethod
	}
	if order.PaymentStatus.Terminal() {
		return nil, domain.ErrPaymentAlreadySettled
	}

	transactionID := newTransactionID()
	err = s.repo.SetTransactionID(ctx, order.Number, transactionID)
	if errors.Is(err, domain.ErrConflictingData) {
		// Millisecond timestamps can collide under load. One retry with a
		// random suffix keeps the identifier unique.
		transactionID = transactionID + "-" + uuid.NewString()[:8]
		err = s.repo.SetTransactionID(ctx, order.Number, transactionID)
	}
	if err != nil {
		s.logger.Error("Assign transaction id",
			zap.Uint64("order", order.Number),
			zap.String("transaction_id", transactionID),
			zap.Error(err))
		return nil, err
	}
	order.TransactionID = transactionID

	request, err := s.gateway.BuildPaymentRequest(order, transactionID)
	if err != nil {
		s.logger.Error("Build payment request",
			zap.Uint64("order", order.Number), zap.Error(err))
		return nil, err
	}

	return &port.PaymentInit{
		OrderNumber: order.Number,
		PaymentData: request,
	}, nil
}

// resolveCallback maps an inbound callback to an order. Strategies are
// attempted in a fixed order: encoded-payload transaction id, plain
// transaction id, then the most recent pending gateway order. The last
// strategy is ambiguous under concurrent pending orders and is logged
// whenever it decides.
func (s *Service) resolveCallback(ctx context.Context, cb domain.Callback) (*domain.Order, error) {
	if cb.Encoded != nil && cb.Encoded.TransactionUUID != "" {
		order, err := s.repo.FindOrderByTransactionID(ctx, cb.Encoded.TransactionUUID)
		if err == nil {
			return order, nil
		}
		if !errors.Is(err, domain.ErrDataNotFound) {
			return nil, err
		}
	}

	if cb.TransactionUUID != "" {
		order, err := s.repo.FindOrderByTransactionID(ctx, cb.TransactionUUID)
		if err == nil {
			return order, nil
		}
		if !errors.Is(err, domain.ErrDataNotFound) {
			return nil, err
		}
	}

	order, err := s.repo.FindLatestPendingOrder(ctx, domain.PaymentMethodEsewa)
	if err == nil {
		s.logger.Warn("Callback resolved by pending-order fallback",
			zap.Uint64("order", order.Number),
			zap.String("callback_transaction_uuid", cb.TransactionUUID),
			zap.String("callback_status", cb.Status))
		return order, nil
	}
	if !errors.Is(err, domain.ErrDataNotFound) {
		return nil, err
	}

	return nil, domain.ErrUnresolvedCallback
}

// applyOutcome drives the pending → completed|failed transition. Terminal
// states are idempotent: re-applying the same outcome is a no-op, a
// conflicting outcome is ignored with a warning. The store's conditional
// update arbitrates racing writers.
func (s *Service) applyOutcome(ctx context.Context, order *domain.Order,
	outcome domain.PaymentOutcome, referenceID string, verified bool) (*domain.Order, error) {
	if order.PaymentStatus.Terminal() {
		want := domain.PaymentStatusCompleted
		if outcome == domain.OutcomeFailure {
			want = domain.PaymentStatusFailed
		}
		if order.PaymentStatus != want {
			s.logger.Warn("Outcome for settled order ignored",
				zap.Uint64("order", order.Number),
				zap.String("payment_status", string(order.PaymentStatus)),
				zap.String("outcome", string(outcome)))
		}
		return order, nil
	}

	if outcome == domain.OutcomeSuccess {
		if referenceID == "" {
			referenceID = order.TransactionID
		}
		order.PaymentStatus = domain.PaymentStatusCompleted
		order.PaymentVerified = verified
		order.PaymentDetails = &domain.PaymentDetails{
			Gateway:     "esewa",
			ReferenceID: referenceID,
			Amount:      order.TotalAmount,
			PaidAt:      time.Now(),
		}
	} else {
		order.PaymentStatus = domain.PaymentStatusFailed
		order.PaymentDetails = nil
	}

	updated, err := s.repo.SettlePayment(ctx, order)
	if errors.Is(err, domain.ErrNoUpdatedData) {
		// Another writer settled the order first. Monotonicity says their
		// result stands.
		current, readErr := s.repo.ReadOrder(ctx, order.Number)
		if readErr != nil {
			return order, readErr
		}
		s.logger.Warn("Lost settlement race",
			zap.Uint64("order", order.Number),
			zap.String("payment_status", string(current.PaymentStatus)),
			zap.String("outcome", string(outcome)))
		return current, nil
	}
	if err != nil {
		// The outcome is decided; gateway and store now disagree.
		s.logger.Error("Settled payment not persisted",
			zap.Uint64("order", order.Number),
			zap.String("transaction_id", order.TransactionID),
			zap.String("outcome", string(outcome)),
			zap.Error(err))
		return order, err
	}

	return updated, nil
}

func (s *Service) HandleSuccessCallback(ctx context.Context, cb domain.Callback) (*domain.Order, error) {
	order, err := s.resolveCallback(ctx, cb)
	if err != nil {
		return nil, err
	}
	return s.applyOutcome(ctx, order, domain.OutcomeSuccess, cb.ReferenceID(), false)
}

func (s *Service) HandleFailureCallback(ctx context.Context, cb domain.Callback) (*domain.Order, error) {
	order, err := s.resolveCallback(ctx, cb)
	if err != nil {
		return nil, err
	}
	return s.applyOutcome(ctx, order, domain.OutcomeFailure, "", false)
}

// VerifyPayment is the single-order verification fallback. A settled order
// returns immediately; otherwise the gateway's status endpoint decides,
// and on gateway unreachability the configured fallback policy does.
func (s *Service) VerifyPayment(ctx context.Context, auth port.TokenPayload, orderNumber uint64, refID string) (*domain.Order, error) {
	order, err := s.repo.ReadOrder(ctx, orderNumber)
	if err != nil {
		return nil, err
	}

	if order.UserID != auth.UserID && auth.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	if order.PaymentMethod != domain.PaymentMethodEsewa {
		return nil, domain.ErrInvalidPaymentMethod
	}

	return s.verifyOrder(ctx, order, refID)
}

func (s *Service) verifyOrder(ctx context.Context, order *domain.Order, refID string) (*domain.Order, error) {
	if order.PaymentStatus.Terminal() {
		return order, nil
	}
	if order.TransactionID == "" {
		return nil, domain.ErrPaymentNotInitiated
	}

	status, err := s.gateway.CheckTransaction(ctx, order.TransactionID, order.TotalAmount)
	if err != nil {
		s.logger.Error("Gateway status query failed",
			zap.Uint64("order", order.Number),
			zap.String("transaction_id", order.TransactionID),
			zap.Bool("assume_completed", s.policy.AssumeCompleted),
			zap.Error(err))
		if !s.policy.AssumeCompleted {
			return nil, err
		}
		return s.applyOutcome(ctx, order, domain.OutcomeSuccess, refID, false)
	}

	if status.RefID != "" {
		refID = status.RefID
	}

	switch status.Status {
	case gatewayStatusComplete:
		return s.applyOutcome(ctx, order, domain.OutcomeSuccess, refID, true)
	case gatewayStatusCanceled, gatewayStatusNotFound, gatewayStatusFullRefund:
		return s.applyOutcome(ctx, order, domain.OutcomeFailure, "", true)
	default:
		// Still pending on the gateway side; nothing to reconcile yet.
		return order, nil
	}
}

// VerifyPendingPayments sweeps every pending gateway order of a user
// through the single-order verification path. Orders fail independently;
// one bad order does not block the rest.
func (s *Service) VerifyPendingPayments(ctx context.Context, userID uint64) (int, error) {
	orders, err := s.repo.ListPendingOrdersByUser(ctx, userID, domain.PaymentMethodEsewa)
	if err != nil && !errors.Is(err, domain.ErrDataNotFound) {
		return 0, err
	}

	updated := 0
	for _, order := range orders {
		result, err := s.verifyOrder(ctx, order, "")
		if err != nil {
			s.logger.Warn("Batch verify skipped order",
				zap.Uint64("order", order.Number), zap.Error(err))
			continue
		}
		if result.PaymentStatus.Terminal() {
			updated++
		}
	}

	return updated, nil
}
