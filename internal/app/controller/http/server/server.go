package http

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/avGenie/go-order-system/internal/app/config"
	"github.com/avGenie/go-order-system/internal/app/controller/http/middleware/metrics"
	"github.com/avGenie/go-order-system/internal/app/controller/http/orders"
	router "github.com/avGenie/go-order-system/internal/app/controller/http/router"
	storage "github.com/avGenie/go-order-system/internal/app/storage/api/model"
	"github.com/avGenie/go-order-system/internal/app/usecase/events"
	"github.com/avGenie/go-order-system/internal/app/usecase/idgen"
	"github.com/avGenie/go-order-system/internal/app/usecase/order"
	"github.com/avGenie/go-order-system/internal/app/usecase/postal"
)

const shutdownTimeout = 10 * time.Second

type HTTPServer struct {
	server *http.Server

	config    config.Config
	storage   storage.Storage
	publisher events.Publisher
}

func New(config config.Config, storage storage.Storage, publisher events.Publisher) *HTTPServer {
	service := order.New(storage, idgen.New(), publisher)
	handler := orders.New(service, postal.NewResolver(config))

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	serverMetrics := metrics.NewServerMetrics(registry)

	mux := router.CreateRouter(config, storage, handler, serverMetrics)

	server := &http.Server{
		Addr:    config.NetAddr,
		Handler: mux,
	}

	return &HTTPServer{
		server:    server,
		config:    config,
		storage:   storage,
		publisher: publisher,
	}
}

func (s *HTTPServer) StartHTTPServer() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, os.Interrupt)
	defer cancel()

	go func() {
		err := s.server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("fatal error while starting server", zap.Error(err))
		}
	}()

	zap.L().Info("HTTP server is started", zap.String("address", s.config.NetAddr))

	<-ctx.Done()

	zap.L().Info("Got interruption signal. Shutting down HTTP server gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	err := s.server.Shutdown(shutdownCtx)
	if err != nil {
		zap.L().Error("error while shutting down server", zap.Error(err))
	}
}

// Close releases the event publisher and the storage after shutdown.
func (s *HTTPServer) Close() error {
	return multierr.Combine(
		s.publisher.Close(),
		s.storage.Close(),
	)
}
