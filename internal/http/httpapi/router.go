package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/refinance/crowdfund/internal/http/handlers"
	"github.com/refinance/crowdfund/internal/middleware"
)

// RouterConfig carries the router's own knobs; everything else reaches the
// handlers through the App container.
type RouterConfig struct {
	JWTSecret          string
	RateLimitPerMin    int
	CORSAllowedOrigins []string
}

// NewRouter wires the HTTP surface. Reads are public; every mutating route
// sits behind JWT auth, which binds the caller identity the escrow core's
// authorization checks run against.
func NewRouter(app *handlers.App, log zerolog.Logger, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(log),
		middleware.CORS(cfg.CORSAllowedOrigins),
		middleware.RateLimit(cfg.RateLimitPerMin, time.Minute),
	)

	r.Get("/v1/healthz", app.Health)

	// Public reads.
	r.Group(func(r chi.Router) {
		r.Get("/v1/campaigns/{id}", app.CampaignsGet)
		r.Get("/v1/campaigns/{id}/milestones", app.MilestonesList)
		r.Get("/v1/campaigns/{id}/milestones/{seq}", app.MilestonesGet)
		r.Get("/v1/campaigns/{id}/proofs/{proofID}", app.ProofsGet)
		r.Get("/v1/credentials/{id}", app.CredentialsGet)
	})

	// Authenticated mutations.
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthJWT(cfg.JWTSecret))

		r.Post("/v1/platform/initialize", app.PlatformInitialize)
		r.Post("/v1/campaigns", app.CampaignsCreate)
		r.Post("/v1/campaigns/{id}/contributions", app.ContributionsCreate)
		r.Post("/v1/campaigns/{id}/refunds", app.RefundsCreate)
		r.Post("/v1/campaigns/{id}/milestones", app.MilestonesCreate)
		r.Post("/v1/campaigns/{id}/proofs", app.ProofsSubmit)
		r.Post("/v1/campaigns/{id}/milestones/{seq}/validate", app.MilestonesValidate)
		r.Post("/v1/campaigns/{id}/milestones/{seq}/withdraw", app.MilestonesWithdraw)
		r.Post("/v1/campaigns/{id}/withdraw", app.CampaignsWithdraw)
	})

	return r
}
