package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/caspiansol/adspark/internal/domain"
)

type templateSaveRequest struct {
	Name  string             `json:"name"`
	State domain.WizardState `json:"state"`
}

// TemplatesSave extracts the reusable part of a wizard state (steps 1-6,
// never the creator selection) and upserts it under the given name.
func (a *App) TemplatesSave(w http.ResponseWriter, r *http.Request) {
	var req templateSaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "template name is required")
		return
	}

	userID := a.currentUserID(r)
	tpl, err := a.Templates.Upsert(r.Context(), &domain.AdTemplate{
		UserID:  userID,
		Name:    req.Name,
		Payload: domain.ExtractTemplate(req.State),
	})
	if err != nil {
		a.Log.Error().Err(err).Msg("template upsert failed")
		a.error(w, http.StatusInternalServerError, "internal", "could not save template")
		return
	}
	a.json(w, http.StatusOK, tpl)
}

// TemplatesList returns the caller's templates, newest first.
func (a *App) TemplatesList(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	list, err := a.Templates.ListByUser(r.Context(), userID)
	if err != nil {
		a.Log.Error().Err(err).Msg("template list failed")
		a.error(w, http.StatusInternalServerError, "internal", "could not list templates")
		return
	}
	if list == nil {
		list = []domain.AdTemplate{}
	}
	a.json(w, http.StatusOK, map[string]any{"templates": list})
}

type templateRenameRequest struct {
	Name string `json:"name"`
}

func (a *App) TemplatesRename(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req templateRenameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "template name is required")
		return
	}

	userID := a.currentUserID(r)
	tpl, err := a.Templates.Rename(r.Context(), id, userID, req.Name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "template not found")
			return
		}
		a.Log.Error().Err(err).Msg("template rename failed")
		a.error(w, http.StatusInternalServerError, "internal", "could not rename template")
		return
	}
	a.json(w, http.StatusOK, tpl)
}

func (a *App) TemplatesDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	userID := a.currentUserID(r)
	if err := a.Templates.Delete(r.Context(), id, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "template not found")
			return
		}
		a.Log.Error().Err(err).Msg("template delete failed")
		a.error(w, http.StatusInternalServerError, "internal", "could not delete template")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
