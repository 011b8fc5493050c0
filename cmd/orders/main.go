package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/avGenie/go-order-system/internal/app/config"
	server "github.com/avGenie/go-order-system/internal/app/controller/http/server"
	"github.com/avGenie/go-order-system/internal/app/logger"
	"github.com/avGenie/go-order-system/internal/app/storage/api"
	"github.com/avGenie/go-order-system/internal/app/usecase/events"
)

func main() {
	config := config.InitConfig()

	err := logger.Initialize(config)
	if err != nil {
		panic(err)
	}
	defer zap.L().Sync()

	storage, err := storage.InitStorage(context.Background(), config)
	if err != nil {
		zap.L().Fatal("error while initializing storage", zap.Error(err))
	}

	httpServer := server.New(config, storage, events.New(config))
	httpServer.StartHTTPServer()

	err = httpServer.Close()
	if err != nil {
		zap.L().Error("error while releasing resources", zap.Error(err))
	}
}
