package apikey

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/avGenie/go-order-system/internal/app/entity"
)

const queryParam = "apiKey"

// APIKeyParserMiddleware puts the apiKey query parameter into the request context.
func APIKeyParserMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		keyCtx := processAPIKey(r.URL.Query()[queryParam])

		ctx := context.WithValue(r.Context(), entity.APIKeyCtxKey{}, keyCtx)
		r = r.WithContext(ctx)

		next.ServeHTTP(w, r)
	})
}

func processAPIKey(values []string) entity.APIKeyCtx {
	if len(values) != 1 || len(values[0]) == 0 {
		zap.L().Info("api key is absent or ambiguous", zap.Int("values", len(values)))

		return entity.CreateAPIKeyCtx("", http.StatusBadRequest)
	}

	return entity.CreateAPIKeyCtx(values[0], http.StatusOK)
}
