package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/caspiansol/adspark/internal/domain"
	"github.com/caspiansol/adspark/internal/placeholder"
	"github.com/caspiansol/adspark/internal/prompt"
)

type scriptGenerateRequest struct {
	State domain.WizardState `json:"state"`

	// TemplateStyle, when set, asks for a reusable script skeleton with
	// placeholder tokens in the given style instead of a concrete script.
	TemplateStyle placeholder.Style `json:"template_style,omitempty"`
}

type scriptGenerateResponse struct {
	Script         string  `json:"script"`
	Provider       string  `json:"provider"`
	Fallback       bool    `json:"fallback"`
	FallbackReason string  `json:"fallback_reason,omitempty"`
	WordTarget     float64 `json:"word_target"`
}

// ScriptGenerate builds the copywriting prompt for the submitted wizard
// state and runs it through the configured generator. Generation never
// hard-fails: when the provider is unavailable the demo script comes
// back with fallback set.
func (a *App) ScriptGenerate(w http.ResponseWriter, r *http.Request) {
	var req scriptGenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	var p string
	if req.TemplateStyle != "" {
		if !placeholder.ValidStyle(req.TemplateStyle) {
			a.error(w, http.StatusBadRequest, "bad_request", "unknown template style")
			return
		}
		p = placeholder.TemplatePrompt(req.TemplateStyle)
	} else {
		if err := req.State.Validate(); err != nil {
			a.error(w, http.StatusUnprocessableEntity, "incomplete_state", err.Error())
			return
		}
		p = prompt.BuildScriptPrompt(req.State)
	}

	res, err := a.Scripts.Generate(r.Context(), p)
	if err != nil {
		a.Log.Error().Err(err).Msg("script generation failed")
		a.error(w, http.StatusBadGateway, "provider_failure", "script generation failed")
		return
	}
	if res.Fallback {
		a.Log.Warn().Str("reason", res.FallbackReason).Msg("script generation fell back to demo copy")
	}

	a.json(w, http.StatusOK, scriptGenerateResponse{
		Script:         res.Script,
		Provider:       res.Provider,
		Fallback:       res.Fallback,
		FallbackReason: res.FallbackReason,
		WordTarget:     prompt.WordTarget(prompt.DurationSeconds(req.State.Length)),
	})
}
