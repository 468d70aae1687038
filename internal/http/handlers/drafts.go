package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/caspiansol/adspark/internal/domain"
)

// DraftGet returns the caller's saved wizard draft, if any.
func (a *App) DraftGet(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	draft, err := a.Drafts.Load(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "no draft saved")
			return
		}
		a.Log.Error().Err(err).Msg("draft load failed")
		a.error(w, http.StatusInternalServerError, "internal", "could not load draft")
		return
	}
	a.json(w, http.StatusOK, draft)
}

// DraftPut saves or replaces the caller's wizard draft.
func (a *App) DraftPut(w http.ResponseWriter, r *http.Request) {
	var draft domain.WizardDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	if draft.Step < 1 || draft.Step > domain.TotalSteps {
		a.error(w, http.StatusBadRequest, "bad_request", "step out of range")
		return
	}

	userID := a.currentUserID(r)
	if err := a.Drafts.Save(r.Context(), userID, &draft); err != nil {
		a.Log.Error().Err(err).Msg("draft save failed")
		a.error(w, http.StatusInternalServerError, "internal", "could not save draft")
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "saved"})
}

// DraftDelete clears the caller's wizard draft. Deleting a missing
// draft is not an error.
func (a *App) DraftDelete(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if err := a.Drafts.Clear(r.Context(), userID); err != nil {
		a.Log.Error().Err(err).Msg("draft clear failed")
		a.error(w, http.StatusInternalServerError, "internal", "could not clear draft")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
