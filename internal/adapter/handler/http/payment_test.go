package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/govalues/decimal"
	"github.com/merobazar/payrecon/internal/adapter/config"
	"github.com/merobazar/payrecon/internal/core/domain"
	"github.com/merobazar/payrecon/internal/core/port"
	"github.com/merobazar/payrecon/internal/core/port/mock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

const testFrontend = "http://localhost:5173"

func setupPaymentRouter(t *testing.T, svc port.Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ph, err := NewPaymentHandler(svc, &config.HTTP{FrontendURL: testFrontend},
		&config.Esewa{ProductCode: "EPAYTEST", GatewayURL: "https://rc-epay.esewa.com.np"},
		zap.NewNop())
	assert.NoError(t, err)

	asUser := func(ctx *gin.Context) {
		ctx.Set(userPayloadKey, &port.TokenPayload{UserID: 1, Role: domain.RoleCustomer})
		ctx.Next()
	}

	router := gin.New()
	router.GET("/esewa/success", ph.EsewaSuccess)
	router.GET("/esewa/failure", ph.EsewaFailure)
	router.POST("/esewa/init", asUser, ph.InitEsewaPayment)
	router.POST("/esewa/verify", asUser, ph.VerifyEsewaPayment)
	router.POST("/esewa/verify-pending", asUser, ph.VerifyPendingPayments)

	return router
}

func TestPaymentHandler_SuccessCallback(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	tests := []struct {
		name        string
		target      string
		mock        func(svc *mock.MockService)
		expLocation string
	}{
		{
			name:   "resolved callback redirects to confirmation",
			target: "/esewa/success?transaction_uuid=TX1700000000000&status=COMPLETE&refId=ABC123",
			mock: func(svc *mock.MockService) {
				svc.EXPECT().HandleSuccessCallback(gomock.Any(), gomock.Any()).
					Return(&domain.Order{Number: 7, PaymentStatus: domain.PaymentStatusCompleted}, nil)
			},
			expLocation: testFrontend + "/order-confirmation/7?payment=success",
		},
		{
			name:   "unresolved callback redirects to unidentified",
			target: "/esewa/success?transaction_uuid=TXNOBODY",
			mock: func(svc *mock.MockService) {
				svc.EXPECT().HandleSuccessCallback(gomock.Any(), gomock.Any()).
					Return(nil, domain.ErrUnresolvedCallback)
			},
			expLocation: testFrontend + "/orders?payment=unidentified",
		},
		{
			name:   "persistence error still redirects the shopper",
			target: "/esewa/success?transaction_uuid=TX1700000000000",
			mock: func(svc *mock.MockService) {
				svc.EXPECT().HandleSuccessCallback(gomock.Any(), gomock.Any()).
					Return(&domain.Order{Number: 7, PaymentStatus: domain.PaymentStatusCompleted},
						domain.ErrInternal)
			},
			expLocation: testFrontend + "/order-confirmation/7?payment=success",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			svc := mock.NewMockService(mockCtrl)
			test.mock(svc)
			router := setupPaymentRouter(t, svc)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, test.target, nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusFound, w.Code)
			assert.Equal(t, test.expLocation, w.Header().Get("Location"))
		})
	}
}

func TestPaymentHandler_FailureCallback(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	tests := []struct {
		name        string
		mock        func(svc *mock.MockService)
		expLocation string
	}{
		{
			name: "resolved failure redirects to retry",
			mock: func(svc *mock.MockService) {
				svc.EXPECT().HandleFailureCallback(gomock.Any(), gomock.Any()).
					Return(&domain.Order{Number: 7, PaymentStatus: domain.PaymentStatusFailed}, nil)
			},
			expLocation: testFrontend + "/payment/7?payment=failed",
		},
		{
			name: "unresolved failure redirects to orders",
			mock: func(svc *mock.MockService) {
				svc.EXPECT().HandleFailureCallback(gomock.Any(), gomock.Any()).
					Return(nil, domain.ErrUnresolvedCallback)
			},
			expLocation: testFrontend + "/orders?payment=failed",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			svc := mock.NewMockService(mockCtrl)
			test.mock(svc)
			router := setupPaymentRouter(t, svc)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/esewa/failure?transaction_uuid=TX1", nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusFound, w.Code)
			assert.Equal(t, test.expLocation, w.Header().Get("Location"))
		})
	}
}

func TestPaymentHandler_InitEsewaPayment(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	t.Run("good init returns payment data", func(t *testing.T) {
		svc := mock.NewMockService(mockCtrl)
		svc.EXPECT().BeginPayment(gomock.Any(), port.TokenPayload{UserID: 1, Role: domain.RoleCustomer}, uint64(7)).
			Return(&port.PaymentInit{
				OrderNumber: 7,
				PaymentData: &domain.PaymentRequest{
					Amount:          "500",
					TotalAmount:     "500",
					TransactionUUID: "TX1700000000000",
					ProductCode:     "EPAYTEST",
					Signature:       "sig",
				},
			}, nil)
		router := setupPaymentRouter(t, svc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/esewa/init", strings.NewReader(`{"orderId":7}`))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			PaymentData domain.PaymentRequest `json:"paymentData"`
			OrderID     uint64                `json:"orderId"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, uint64(7), resp.OrderID)
		assert.Equal(t, "TX1700000000000", resp.PaymentData.TransactionUUID)
	})

	t.Run("missing order id is a validation error", func(t *testing.T) {
		svc := mock.NewMockService(mockCtrl)
		router := setupPaymentRouter(t, svc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/esewa/init", strings.NewReader(`{}`))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("foreign order is forbidden", func(t *testing.T) {
		svc := mock.NewMockService(mockCtrl)
		svc.EXPECT().BeginPayment(gomock.Any(), gomock.Any(), uint64(8)).
			Return(nil, domain.ErrForbidden)
		router := setupPaymentRouter(t, svc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/esewa/init", strings.NewReader(`{"orderId":8}`))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestPaymentHandler_VerifyEsewaPayment(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	completed := &domain.Order{
		Number:          7,
		PaymentStatus:   domain.PaymentStatusCompleted,
		PaymentVerified: true,
		TotalAmount:     decimal.MustParse("500"),
	}

	t.Run("verified payment", func(t *testing.T) {
		svc := mock.NewMockService(mockCtrl)
		svc.EXPECT().VerifyPayment(gomock.Any(), gomock.Any(), uint64(7), "ABC123").
			Return(completed, nil)
		router := setupPaymentRouter(t, svc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/esewa/verify",
			strings.NewReader(`{"orderId":7,"refId":"ABC123"}`))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp jsonResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
	})

	t.Run("still pending reports failure", func(t *testing.T) {
		svc := mock.NewMockService(mockCtrl)
		svc.EXPECT().VerifyPayment(gomock.Any(), gomock.Any(), uint64(7), "").
			Return(&domain.Order{Number: 7, PaymentStatus: domain.PaymentStatusPending}, nil)
		router := setupPaymentRouter(t, svc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/esewa/verify", strings.NewReader(`{"orderId":7}`))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp jsonResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
	})

	t.Run("gateway unreachable maps to bad gateway", func(t *testing.T) {
		svc := mock.NewMockService(mockCtrl)
		svc.EXPECT().VerifyPayment(gomock.Any(), gomock.Any(), uint64(7), "").
			Return(nil, domain.ErrGatewayUnreachable)
		router := setupPaymentRouter(t, svc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/esewa/verify", strings.NewReader(`{"orderId":7}`))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestPaymentHandler_VerifyPendingPayments(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	svc := mock.NewMockService(mockCtrl)
	svc.EXPECT().VerifyPendingPayments(gomock.Any(), uint64(1)).Return(3, nil)
	router := setupPaymentRouter(t, svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/esewa/verify-pending", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp batchVerifyResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 3, resp.Updated)
}
