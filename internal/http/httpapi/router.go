package httpapi

import (
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/caspiansol/adspark/internal/http/handlers"
	"github.com/caspiansol/adspark/internal/infra/geoip"
	"github.com/caspiansol/adspark/internal/middleware"
)

// Options carries the cross-cutting pieces the router wires in front of the
// handlers.
type Options struct {
	Log            zerolog.Logger
	JWTSecret      string
	AllowedOrigins []string
	GeoResolver    geoip.Resolver
	RateLimit      int
	RatePer        time.Duration
}

func NewRouter(app *handlers.App, opts Options) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, chimw.RealIP, chimw.Recoverer)
	r.Use(middleware.Logger(opts.Log))
	r.Use(middleware.CORS(opts.AllowedOrigins))
	if opts.RateLimit > 0 {
		r.Use(middleware.RateLimit(opts.RateLimit, opts.RatePer))
	}

	// Health and vendor callbacks stay outside auth.
	r.Get("/v1/healthz", app.Healthz)
	r.Post("/webhooks/captions", app.CaptionsWebhook)

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.AuthJWT(opts.JWTSecret))

		r.Route("/wizard", func(r chi.Router) {
			r.Post("/validate", app.WizardValidate)
			r.With(middleware.Geo(opts.GeoResolver)).Get("/defaults", app.WizardDefaults)
			r.Get("/draft", app.DraftGet)
			r.Put("/draft", app.DraftPut)
			r.Delete("/draft", app.DraftDelete)
		})

		r.Post("/scripts/generate", app.ScriptGenerate)

		r.Route("/templates", func(r chi.Router) {
			r.Get("/", app.TemplatesList)
			r.Post("/", app.TemplatesSave)
			r.Patch("/{id}", app.TemplatesRename)
			r.Delete("/{id}", app.TemplatesDelete)
		})

		r.Route("/videos", func(r chi.Router) {
			r.Post("/", app.VideosCreate)
			r.Get("/", app.VideosList)
			r.Get("/{job_id}/status", app.VideoStatus)
			r.Post("/{id}/retry", app.VideoRetry)
			r.Get("/{id}/download", app.VideoDownload)
		})
	})

	return r
}
