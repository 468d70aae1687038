package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/caspiansol/adspark/internal/creators"
	"github.com/caspiansol/adspark/internal/domain"
	"github.com/caspiansol/adspark/internal/middleware"
	"github.com/caspiansol/adspark/internal/placeholder"
)

type wizardValidateRequest struct {
	State domain.WizardState `json:"state"`
	Step  int                `json:"step"`
}

type wizardValidateResponse struct {
	CanAdvance bool     `json:"can_advance"`
	Missing    []string `json:"missing"`
}

// WizardValidate reports whether the given step has everything it needs
// to advance, and which fields are still missing if not.
func (a *App) WizardValidate(w http.ResponseWriter, r *http.Request) {
	var req wizardValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	if req.Step < 1 || req.Step > domain.TotalSteps {
		a.error(w, http.StatusBadRequest, "bad_request", "step out of range")
		return
	}

	missing := req.State.MissingFields(req.Step)
	if missing == nil {
		missing = []string{}
	}
	a.json(w, http.StatusOK, wizardValidateResponse{
		CanAdvance: len(missing) == 0,
		Missing:    missing,
	})
}

// WizardDefaults returns the static choices the wizard offers plus a
// geo-based targeting suggestion when the client IP resolves.
func (a *App) WizardDefaults(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"total_steps":        domain.TotalSteps,
		"creators":           creators.Catalog(),
		"placeholder_styles": placeholder.Styles,
	}
	if loc, ok := middleware.LocationFromContext(r.Context()); ok {
		if s := loc.Suggestion(); s != "" {
			resp["geo_suggestion"] = s
		}
	}
	a.json(w, http.StatusOK, resp)
}
