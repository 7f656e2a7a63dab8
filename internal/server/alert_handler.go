package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/scrapperhq/scrapper/internal/db"
	"github.com/scrapperhq/scrapper/internal/server/middleware"
	"github.com/scrapperhq/scrapper/internal/types"
)

// Alert quotas: every account gets at most maxAlerts; free accounts get
// maxFreeAlerts.
const (
	maxAlerts     = 3
	maxFreeAlerts = 1
)

// ---------------------------------------------------------------------
// Job Alert Handlers (authenticated)
// ---------------------------------------------------------------------

// handleListAlerts returns the authenticated user's alerts
func (s *Server) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	alerts, err := s.db.ListAlertsByUser(r.Context(), userID)
	if err != nil {
		http.Error(w, "Database error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if alerts == nil {
		alerts = []db.JobAlert{}
	}

	writeJSON(w, http.StatusOK, alerts)
}

// handleCreateAlert creates a job alert, enforcing the per-account quota
func (s *Server) handleCreateAlert(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req types.CreateAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := s.validator.Struct(req); err != nil {
		http.Error(w, extractValidationErrors(err), http.StatusBadRequest)
		return
	}

	user, err := s.userService.GetProfile(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), HTTPStatus(err))
		return
	}

	count, err := s.db.CountAlertsByUser(r.Context(), userID)
	if err != nil {
		http.Error(w, "Database error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if count >= maxAlerts {
		err := &ErrAlertLimit{Message: "You can only create 3 job alerts"}
		http.Error(w, err.Error(), HTTPStatus(err))
		return
	}
	if !user.IsPremium && count >= maxFreeAlerts {
		err := &ErrAlertLimit{Message: "Upgrade to premium to create more job alerts"}
		http.Error(w, err.Error(), HTTPStatus(err))
		return
	}

	alert, err := s.db.CreateAlert(r.Context(), &db.AlertCreateInput{
		UserID:       userID,
		Name:         req.Name,
		Search:       req.Search,
		Description:  req.Description,
		IncludeWords: req.IncludeWords,
		OmitWords:    req.OmitWords,
	})
	if err != nil {
		http.Error(w, "Database error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, alert)
}

// handleUpdateAlert applies a partial edit to an owned alert
func (s *Server) handleUpdateAlert(w http.ResponseWriter, r *http.Request) {
	alert, ok := s.ownedAlert(w, r)
	if !ok {
		return
	}

	var req types.EditAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := s.validator.Struct(req); err != nil {
		http.Error(w, extractValidationErrors(err), http.StatusBadRequest)
		return
	}

	input := &db.AlertCreateInput{
		UserID:       alert.UserID,
		Name:         alert.Name,
		Search:       alert.Search,
		Description:  alert.Description,
		IncludeWords: alert.IncludeWords,
		OmitWords:    alert.OmitWords,
	}
	if req.Name != nil {
		input.Name = *req.Name
	}
	if req.Search != nil {
		input.Search = *req.Search
	}
	if req.Description != nil {
		input.Description = *req.Description
	}
	if req.IncludeWords != nil {
		input.IncludeWords = *req.IncludeWords
	}
	if req.OmitWords != nil {
		input.OmitWords = *req.OmitWords
	}

	updated, err := s.db.UpdateAlert(r.Context(), alert.ID, input)
	if err != nil {
		http.Error(w, "Database error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// handleDeleteAlert removes an owned alert and its jobs
func (s *Server) handleDeleteAlert(w http.ResponseWriter, r *http.Request) {
	alert, ok := s.ownedAlert(w, r)
	if !ok {
		return
	}

	if err := s.db.DeleteAlert(r.Context(), alert.ID); err != nil {
		http.Error(w, "Database error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleListAlertJobs returns the stored jobs for an owned alert
func (s *Server) handleListAlertJobs(w http.ResponseWriter, r *http.Request) {
	alert, ok := s.ownedAlert(w, r)
	if !ok {
		return
	}

	jobs, err := s.db.ListJobsByAlert(r.Context(), alert.ID)
	if err != nil {
		http.Error(w, "Database error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if jobs == nil {
		jobs = []db.Job{}
	}

	writeJSON(w, http.StatusOK, jobs)
}

// ownedAlert resolves the {id} path value to an alert owned by the
// authenticated user, writing the error response itself when it cannot.
func (s *Server) ownedAlert(w http.ResponseWriter, r *http.Request) (*db.JobAlert, bool) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil, false
	}

	alertID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid alert ID", http.StatusBadRequest)
		return nil, false
	}

	alert, err := s.db.GetAlert(r.Context(), alertID)
	if err != nil {
		http.Error(w, "Database error: "+err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	if alert == nil || alert.UserID != userID {
		notFound := &ErrAlertNotFound{AlertID: alertID}
		http.Error(w, notFound.Error(), HTTPStatus(notFound))
		return nil, false
	}

	return alert, true
}
