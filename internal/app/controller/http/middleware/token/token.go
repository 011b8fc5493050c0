package token

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/avGenie/go-order-system/internal/app/entity"
	usecase "github.com/avGenie/go-order-system/internal/app/usecase/converter"
	usecaseErrors "github.com/avGenie/go-order-system/internal/app/usecase/errors"
)

// TokenParserMiddleware puts the team member from the bearer token into the
// request context, together with the status the handler must answer with.
func TokenParserMiddleware(secret string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header[usecase.AuthHeader]
			memberCtx := processAuthMember(authHeader, secret)

			ctx := context.WithValue(r.Context(), entity.MemberCtxKey{}, memberCtx)
			r = r.WithContext(ctx)

			next.ServeHTTP(w, r)
		})
	}
}

func processAuthMember(authHeader []string, secret string) entity.MemberCtx {
	if len(authHeader) == 0 {
		zap.L().Info("authorization header is empty")

		return entity.CreateMemberCtx(entity.Member{}, http.StatusUnauthorized)
	}

	member, err := usecase.GetMemberFromAuthHeader(authHeader[0], secret)
	if err != nil {
		if errors.Is(err, usecaseErrors.ErrTokenExpired) {
			zap.L().Info("token has expired")
		} else {
			zap.L().Error("error while parsing auth header", zap.Error(err))
		}

		return entity.CreateMemberCtx(entity.Member{}, http.StatusUnauthorized)
	}

	if !member.UserID.Valid() || !member.TeamID.Valid() {
		zap.L().Error("empty member in authorization header")

		return entity.CreateMemberCtx(entity.Member{}, http.StatusBadRequest)
	}

	return entity.CreateMemberCtx(member, http.StatusOK)
}
