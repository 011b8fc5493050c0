package orders

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avGenie/go-order-system/internal/app/controller/http/middleware/apikey"
)

// Register mounts the api key surface on /api/order and the team member
// surface on /api/teams/{teamID}/orders.
func (p *Order) Register(r chi.Router, memberAuth func(http.Handler) http.Handler) {
	r.Route("/api/order", func(r chi.Router) {
		r.MethodNotAllowed(p.MethodNotAllowed())

		r.With(apikey.APIKeyParserMiddleware).Get("/", p.GetOrdersByAPIKey())
		r.With(apikey.APIKeyParserMiddleware).Post("/", p.CreateOrderByAPIKey())
	})

	r.Route("/api/teams/{"+TeamIDParam+"}/orders", func(r chi.Router) {
		r.Use(memberAuth)

		r.Get("/", p.GetTeamOrders())
		r.Post("/", p.CreateTeamOrder())
		r.Get("/{"+OrderIDParam+"}", p.GetTeamOrder())
		r.Patch("/{"+OrderIDParam+"}", p.UpdateTeamOrder())
		r.Patch("/{"+OrderIDParam+"}/status", p.UpdateTeamOrderStatus())
		r.Delete("/{"+OrderIDParam+"}", p.DeleteTeamOrder())
	})
}
