package httputils

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/avGenie/go-order-system/internal/app/entity"
	"github.com/avGenie/go-order-system/internal/app/model"
)

const (
	RequestTimeout = 3 * time.Second
)

func GetMemberFromContext(r *http.Request) (entity.MemberCtx, error) {
	memberCtx, ok := r.Context().Value(entity.MemberCtxKey{}).(entity.MemberCtx)
	if !ok {
		return entity.MemberCtx{}, fmt.Errorf("member couldn't obtain from context")
	}

	if memberCtx.StatusCode == http.StatusOK && (!memberCtx.Member.UserID.Valid() || !memberCtx.Member.TeamID.Valid()) {
		return entity.MemberCtx{}, fmt.Errorf("invalid member with status ok")
	}

	return memberCtx, nil
}

func GetAPIKeyFromContext(r *http.Request) (entity.APIKeyCtx, error) {
	keyCtx, ok := r.Context().Value(entity.APIKeyCtxKey{}).(entity.APIKeyCtx)
	if !ok {
		return entity.APIKeyCtx{}, fmt.Errorf("api key couldn't obtain from context")
	}

	if keyCtx.StatusCode == http.StatusOK && len(keyCtx.Key) == 0 {
		return entity.APIKeyCtx{}, fmt.Errorf("empty api key with status ok")
	}

	return keyCtx, nil
}

// WriteError writes the {"error": {"message": ...}} body.
func WriteError(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, model.ErrorResponse{
		Error: model.ErrorMessage{
			Message: message,
		},
	})
}
