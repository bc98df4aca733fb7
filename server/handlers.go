package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"growth-hub/models"
	"growth-hub/storage"
	"growth-hub/utils"
)

type handler struct {
	store    Store
	analyses Analyses
	logger   *utils.Logger
}

type createBusinessRequest struct {
	BusinessName     string   `json:"business_name"`
	Description      string   `json:"description"`
	Industry         string   `json:"industry"`
	TargetAudience   string   `json:"target_audience"`
	BudgetRange      string   `json:"budget_range"`
	CurrentPlatforms []string `json:"current_platforms"`
	Goals            string   `json:"goals"`
}

type dashboardSummary struct {
	TotalPlatforms int     `json:"total_platforms"`
	BestPlatform   string  `json:"best_platform"`
	AvgScore       float64 `json:"avg_score"`
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *handler) createBusiness(w http.ResponseWriter, r *http.Request) {
	var req createBusinessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	b := models.Business{
		OwnerID:     ownerFrom(r.Context()),
		Name:        strings.TrimSpace(req.BusinessName),
		Description: strings.TrimSpace(req.Description),
		Industry:    strings.TrimSpace(req.Industry),

		TargetAudience:   strings.TrimSpace(req.TargetAudience),
		BudgetRange:      strings.TrimSpace(req.BudgetRange),
		CurrentPlatforms: nonNil(req.CurrentPlatforms),
		Goals:            strings.TrimSpace(req.Goals),
	}
	if b.Name == "" || b.Description == "" || b.Industry == "" {
		respondWithError(w, http.StatusBadRequest, "Business name, description, and industry are required")
		return
	}

	if err := h.store.CreateBusiness(r.Context(), &b); err != nil {
		h.serverError(w, "Failed to create business", err)
		return
	}

	runID := h.analyses.Start(b)
	h.logger.Info("[api] Business %d created by owner %d, analysis %s started", b.ID, b.OwnerID, runID)

	respondWithJSON(w, http.StatusAccepted, map[string]any{
		"message":     "Business created successfully. Analysis in progress...",
		"business_id": b.ID,
		"run_id":      runID,
	})
}

func (h *handler) listBusinesses(w http.ResponseWriter, r *http.Request) {
	businesses, err := h.store.ListOwnerBusinesses(r.Context(), ownerFrom(r.Context()))
	if err != nil {
		h.serverError(w, "Failed to get businesses", err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"businesses": nonNil(businesses)})
}

func (h *handler) getAnalysis(w http.ResponseWriter, r *http.Request) {
	runID, err := uuid.Parse(chi.URLParam(r, "runID"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid run ID")
		return
	}

	st, ok := h.analyses.Status(runID)
	if !ok || st.OwnerID != ownerFrom(r.Context()) {
		respondWithError(w, http.StatusNotFound, "Analysis not found")
		return
	}
	respondWithJSON(w, http.StatusOK, st)
}

func (h *handler) getPlatformAnalytics(w http.ResponseWriter, r *http.Request) {
	b, ok := h.ownedBusiness(w, r)
	if !ok {
		return
	}
	analytics, err := h.store.ListAnalytics(r.Context(), b.ID)
	if err != nil {
		h.serverError(w, "Failed to get analytics", err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"platforms": nonNil(analytics)})
}

func (h *handler) getInsights(w http.ResponseWriter, r *http.Request) {
	b, ok := h.ownedBusiness(w, r)
	if !ok {
		return
	}
	insights, err := h.store.ListInsights(r.Context(), b.ID)
	if err != nil {
		h.serverError(w, "Failed to get insights", err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{
		"business_name": b.Name,
		"insights":      nonNil(insights),
	})
}

func (h *handler) getDashboard(w http.ResponseWriter, r *http.Request) {
	b, ok := h.ownedBusiness(w, r)
	if !ok {
		return
	}
	analytics, err := h.store.ListAnalytics(r.Context(), b.ID)
	if err != nil {
		h.serverError(w, "Failed to get dashboard data", err)
		return
	}
	insights, err := h.store.ListInsights(r.Context(), b.ID)
	if err != nil {
		h.serverError(w, "Failed to get dashboard data", err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"business":  b,
		"platforms": nonNil(analytics),
		"insights":  nonNil(insights),
		"summary":   summarize(analytics),
	})
}

// summarize expects analytics ordered best score first.
func summarize(analytics []models.PlatformAnalytic) dashboardSummary {
	s := dashboardSummary{TotalPlatforms: len(analytics), BestPlatform: "No data"}
	if len(analytics) == 0 {
		return s
	}
	s.BestPlatform = string(analytics[0].Platform)
	var total float64
	for _, a := range analytics {
		total += a.RecommendationScore
	}
	s.AvgScore = total / float64(len(analytics))
	return s
}

// ownedBusiness resolves {businessID} for the calling owner, writing the error
// response itself when it cannot.
func (h *handler) ownedBusiness(w http.ResponseWriter, r *http.Request) (*models.Business, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "businessID"), 10, 64)
	if err != nil || id <= 0 {
		respondWithError(w, http.StatusBadRequest, "Invalid business ID")
		return nil, false
	}

	b, err := h.store.GetBusiness(r.Context(), id, ownerFrom(r.Context()))
	if errors.Is(err, storage.ErrNotFound) {
		respondWithError(w, http.StatusNotFound, "Business not found")
		return nil, false
	}
	if err != nil {
		h.serverError(w, "Failed to load business", err)
		return nil, false
	}
	return b, true
}

func (h *handler) serverError(w http.ResponseWriter, message string, err error) {
	h.logger.Error("[api] %s: %v", message, err)
	respondWithError(w, http.StatusInternalServerError, message)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}
