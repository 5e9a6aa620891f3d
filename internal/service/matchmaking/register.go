package matchmaking

import (
	"github.com/go-chi/chi/v5"

	"github.com/vkotliar/matchmaker/internal/app"
	"github.com/vkotliar/matchmaker/internal/config"
	"github.com/vkotliar/matchmaker/internal/geo"
)

// Registrar ties the matchmaking service into the HTTP server.
type Registrar struct {
	svc *Service
}

// NewRegistrar creates a new Registrar for the matchmaking service.
func NewRegistrar(appCtx *app.AppContext, cfg *config.Config, geocoder geo.Geocoder, notifier Notifier) *Registrar {
	return &Registrar{svc: New(appCtx, cfg, geocoder, notifier)}
}

// Register attaches the matchmaking routes to the router.
func (r *Registrar) Register(router chi.Router) {
	h := NewHandler(r.svc)

	router.Route("/v1/profiles", func(pr chi.Router) {
		pr.Post("/", h.RegisterProfile)
		pr.Get("/{id}", h.GetProfile)
		pr.Patch("/{id}", h.EditField)
		pr.Put("/{id}/visibility", h.SetVisibility)
		pr.Get("/{id}/candidate", h.NextCandidate)
		pr.Post("/{id}/likes", h.Like)
		pr.Post("/{id}/skips", h.Skip)
		pr.Get("/{id}/matches", h.ListMatches)
		pr.Get("/{id}/admirers/count", h.CountAdmirers)
	})
}
