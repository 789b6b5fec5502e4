package http

import (
	"github.com/gin-gonic/gin"
	"github.com/merobazar/payrecon/internal/adapter/config"
	"github.com/merobazar/payrecon/internal/core/port"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

type Router struct {
	*gin.Engine
}

func NewRouter(
	conf *config.HTTP,
	tokenService port.TokenService,
	userHandler *UserHandler,
	orderHandler *OrderHandler,
	paymentHandler *PaymentHandler,
	logger *zap.Logger) (*Router, error) {

	router := gin.New()

	base := NewHandler(logger)

	// Swagger
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api")
	{
		user := api.Group("/user")
		{
			user.POST("/register", userHandler.RegisterUser)
			user.POST("/login", userHandler.LoginUser)
		}

		orders := api.Group("/orders")
		{
			orders.Use(authCheck(tokenService, base))
			orders.POST("", orderHandler.CreateOrder)
			orders.GET("", orderHandler.ListOrdersByUser)
		}

		payments := api.Group("/payments")
		{
			// Gateway-invoked callbacks stay public.
			payments.GET("/esewa/success", paymentHandler.EsewaSuccess)
			payments.GET("/esewa/failure", paymentHandler.EsewaFailure)

			authed := payments.Group("")
			{
				authed.Use(authCheck(tokenService, base))
				authed.POST("/esewa/init", paymentHandler.InitEsewaPayment)
				authed.POST("/esewa/verify", paymentHandler.VerifyEsewaPayment)
				authed.POST("/esewa/verify-pending", paymentHandler.VerifyPendingPayments)
				authed.GET("/config/info", adminCheck(base), paymentHandler.ConfigInfo)
			}
		}
	}

	return &Router{router}, nil
}

// Serve starts the HTTP server
func (r *Router) Serve(listenAddr string) error {
	return r.Run(listenAddr)
}
