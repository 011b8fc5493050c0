package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/avGenie/go-order-system/internal/app/config"
	"github.com/avGenie/go-order-system/internal/app/controller/http/middleware/logger"
	"github.com/avGenie/go-order-system/internal/app/controller/http/middleware/metrics"
	"github.com/avGenie/go-order-system/internal/app/controller/http/middleware/token"
	"github.com/avGenie/go-order-system/internal/app/controller/http/orders"
	httputils "github.com/avGenie/go-order-system/internal/app/controller/http/utils"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

func CreateRouter(config config.Config, pinger Pinger, order orders.Order, serverMetrics *metrics.ServerMetrics) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(logger.LoggerMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(serverMetrics.Middleware)

	r.Handle("/metrics", serverMetrics.Handler())
	r.Get("/ping", ping(pinger))

	order.Register(r, token.TokenParserMiddleware(config.TokenSecret))

	return r
}

func ping(pinger Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), httputils.RequestTimeout)
		defer cancel()

		err := pinger.Ping(ctx)
		if err != nil {
			zap.L().Error("database is unreachable", zap.Error(err))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}
