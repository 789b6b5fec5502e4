package esewa

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/govalues/decimal"
	"github.com/merobazar/payrecon/internal/adapter/config"
	"github.com/merobazar/payrecon/internal/core/domain"
	"go.uber.org/zap"
)

// Client talks to the eSewa ePay gateway: it signs outbound payment
// requests and queries transaction status out of band.
type Client struct {
	secretKey   string
	productCode string
	gatewayURL  string
	successURL  string
	failureURL  string
	client      *http.Client
	logger      *zap.Logger
}

func NewClient(cfg *config.Esewa, log *zap.Logger) (*Client, error) {
	return &Client{
		secretKey:   cfg.SecretKey,
		productCode: cfg.ProductCode,
		gatewayURL:  cfg.GatewayURL,
		successURL:  cfg.SuccessURL,
		failureURL:  cfg.FailureURL,
		client:      &http.Client{Timeout: cfg.Timeout},
		logger:      log,
	}, nil
}

// BuildPaymentRequest assembles the signed form payload for an order.
// The gateway accepts whole units only; the amount is truncated, not
// rounded — a deliberate policy inherited from the checkout flow.
func (c *Client) BuildPaymentRequest(order *domain.Order, transactionID string) (*domain.PaymentRequest, error) {
	amount := order.TotalAmount.Trunc(0).String()

	signature, err := Sign(amount, transactionID, c.productCode, c.secretKey)
	if err != nil {
		return nil, err
	}

	return &domain.PaymentRequest{
		Amount:           amount,
		TotalAmount:      amount,
		TransactionUUID:  transactionID,
		ProductCode:      c.productCode,
		SuccessURL:       c.successURL,
		FailureURL:       c.failureURL,
		SignedFieldNames: SignedFieldNames,
		Signature:        signature,
	}, nil
}

// CheckTransaction asks the gateway for the current state of a payment
// attempt. Transport failures and non-200 answers are reported as
// domain.ErrGatewayUnreachable with the query URL attached for audit.
func (c *Client) CheckTransaction(ctx context.Context, transactionID string, amount decimal.Decimal) (*domain.TransactionStatus, error) {
	query := url.Values{}
	query.Set("product_code", c.productCode)
	query.Set("transaction_uuid", transactionID)
	query.Set("total_amount", amount.Trunc(0).String())

	requestURL := c.gatewayURL + "/api/epay/transaction/status/?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("error on %s : %w", requestURL, err)
	}

	c.logger.Debug("Fire transaction status request",
		zap.String("transaction_id", transactionID))

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", domain.ErrGatewayUnreachable, requestURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("unexpected status for transaction status request",
			zap.String("transaction_id", transactionID),
			zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: bad response %v for request %s",
			domain.ErrGatewayUnreachable, resp.StatusCode, requestURL)
	}

	var result domain.TransactionStatus
	err = json.NewDecoder(resp.Body).Decode(&result)
	if err != nil {
		return nil, fmt.Errorf("%w: error on response decode: %s",
			domain.ErrGatewayUnreachable, err)
	}

	return &result, nil
}
