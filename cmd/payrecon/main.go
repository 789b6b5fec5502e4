package main

import (
	"context"
	"fmt"

	"github.com/merobazar/payrecon/internal/adapter/auth"
	"github.com/merobazar/payrecon/internal/adapter/client/esewa"
	"github.com/merobazar/payrecon/internal/adapter/config"
	"github.com/merobazar/payrecon/internal/adapter/handler/http"
	"github.com/merobazar/payrecon/internal/adapter/logger"
	"github.com/merobazar/payrecon/internal/adapter/storage"
	"github.com/merobazar/payrecon/internal/adapter/storage/repository"
	"github.com/merobazar/payrecon/internal/core/service"
	"go.uber.org/zap"
)

func main() {
	conf, err := config.NewConfig()
	if err != nil {
		fmt.Printf("config error:%s", err)
		return
	}

	log := logger.NewLogger(conf.App)
	if log == nil {
		fmt.Printf("error creating log")
		return
	}
	defer func() {
		err := log.Sync()
		if err != nil {
			fmt.Printf("log error: %s", err)
		}
	}()

	ctx := context.Background()

	db, err := storage.NewDBStorage(ctx, conf.Database)
	if err != nil {
		log.Error("database error", zap.Error(err))
		return
	}
	err = db.RunMigrations()
	if err != nil {
		log.Error("database migration error", zap.Error(err))
		return
	}

	repo, err := repository.NewRepository(db)
	if err != nil {
		log.Error("order repo creating error", zap.Error(err))
		return
	}
	tokenService, err := auth.New()
	if err != nil {
		log.Error("token service creating error", zap.Error(err))
		return
	}

	gateway, err := esewa.NewClient(conf.Esewa, log.Named("Esewa"))
	if err != nil {
		log.Error("gateway client creating error", zap.Error(err))
		return
	}

	policy := service.FallbackPolicy{
		AssumeCompleted: conf.Esewa.AssumeCompletedOnError(conf.App.Mode),
	}
	svc, err := service.NewService(repo, tokenService, gateway, policy, log.Named("Service"))
	if err != nil {
		log.Error("service creating error", zap.Error(err))
		return
	}

	userHandler, err := http.NewUserHandler(svc, log.Named("User handler"))
	if err != nil {
		log.Error("user handler creating error", zap.Error(err))
		return
	}
	orderHandler, err := http.NewOrderHandler(svc, log.Named("Order handler"))
	if err != nil {
		log.Error("order handler creating error", zap.Error(err))
		return
	}
	paymentHandler, err := http.NewPaymentHandler(svc, conf.HTTP, conf.Esewa, log.Named("Payment handler"))
	if err != nil {
		log.Error("payment handler creating error", zap.Error(err))
		return
	}

	r, err := http.NewRouter(conf.HTTP, tokenService, userHandler, orderHandler, paymentHandler, log.Named("Router"))
	if err != nil {
		log.Error("router creating error", zap.Error(err))
		return
	}

	err = r.Serve(conf.HTTP.HostString)
	if err != nil {
		log.Error("router serve error", zap.Error(err))
		return
	}
}
