package service

import (
	"context"
	"errors"
	"time"

	"github.com/govalues/decimal"
	"github.com/merobazar/payrecon/internal/core/domain"
	"github.com/merobazar/payrecon/internal/core/port"
	"github.com/merobazar/payrecon/internal/core/utils"
	"go.uber.org/zap"
)

// FallbackPolicy governs what happens when the gateway's verification
// endpoint cannot be reached. AssumeCompleted preserves the historical
// mark-as-paid behavior for test environments; it weakens payment
// integrity and must stay off in production.
type FallbackPolicy struct {
	AssumeCompleted bool
}

type Service struct {
	repo         port.Repository
	tokenService port.TokenService
	gateway      port.Gateway
	policy       FallbackPolicy
	logger       *zap.Logger
}

func NewService(repo port.Repository, tokenService port.TokenService,
	gateway port.Gateway, policy FallbackPolicy, logger *zap.Logger) (*Service, error) {
	return &Service{
		repo:         repo,
		tokenService: tokenService,
		gateway:      gateway,
		policy:       policy,
		logger:       logger,
	}, nil
}

func (s *Service) RegisterUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	exUser, err := s.repo.GetUserByLogin(ctx, user.Login)
	if err != nil && !errors.Is(err, domain.ErrDataNotFound) {
		s.logger.Error("Get user", zap.Error(err))
		return nil, domain.ErrInternal
	}

	if exUser != nil {
		return nil, domain.ErrConflictingData
	}

	if user.Role == "" {
		user.Role = domain.RoleCustomer
	}

	newUser, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		s.logger.Error("Create user", zap.Error(err))
		return nil, domain.ErrInternal
	}

	return newUser, nil
}

func (s *Service) LoginUser(ctx context.Context, login string, password string) (string, error) {
	user, err := s.repo.GetUserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, domain.ErrDataNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", domain.ErrInternal
	}

	err = utils.ComparePassword(password, user.Password)
	if err != nil {
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.tokenService.CreateToken(user)
	if err != nil {
		s.logger.Error("Create token", zap.Error(err))
		return "", domain.ErrTokenCreation
	}

	return token, nil
}

func (s *Service) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if !order.PaymentMethod.Valid() {
		return nil, domain.ErrInvalidPaymentMethod
	}
	if order.TotalAmount.Cmp(decimal.Zero) <= 0 {
		return nil, domain.ErrOrderBadAmount
	}

	order.CreatedAt = time.Now()
	order.Status = domain.OrderStatusPending
	order.PaymentStatus = domain.PaymentStatusPending
	order.PaymentDetails = nil
	order.TransactionID = ""

	newOrder, err := s.repo.CreateOrder(ctx, order)
	if err != nil {
		s.logger.Error("Create order", zap.Error(err))
		return nil, err
	}

	return newOrder, nil
}

func (s *Service) GetOrdersByUser(ctx context.Context, userID uint64) ([]*domain.Order, error) {
	list, err := s.repo.ListOrdersByUser(ctx, userID)
	if err != nil {
		s.logger.Error("Get orders for user", zap.Error(err))
		return nil, err
	}
	return list, nil
}
