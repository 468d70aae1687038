package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/caspiansol/adspark/internal/domain"
	"github.com/caspiansol/adspark/internal/middleware"
	"github.com/caspiansol/adspark/internal/providers/captions"
	"github.com/caspiansol/adspark/internal/providers/script"
)

// App bundles the dependencies every handler needs.
type App struct {
	Log       zerolog.Logger
	Jobs      domain.JobRepository
	Templates domain.TemplateRepository
	Drafts    domain.DraftStore
	Scripts   script.Generator
	Captions  captions.API

	// WebhookSecret signs inbound vendor callbacks. Empty disables
	// verification (development only).
	WebhookSecret string

	// Downloader fetches rendered videos for proxied downloads.
	Downloader *http.Client
}

func NewApp(log zerolog.Logger, jobs domain.JobRepository, templates domain.TemplateRepository, drafts domain.DraftStore, scripts script.Generator, vendor captions.API) *App {
	return &App{
		Log:        log,
		Jobs:       jobs,
		Templates:  templates,
		Drafts:     drafts,
		Scripts:    scripts,
		Captions:   vendor,
		Downloader: &http.Client{Timeout: 5 * time.Minute},
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}
