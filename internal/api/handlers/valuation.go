package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/paweenawitch/Net-Net-Global-Scanner/internal/contracts"
	"github.com/paweenawitch/Net-Net-Global-Scanner/pkg/logger"
)

// ValuationHandler handles valuation read endpoints
type ValuationHandler struct {
	valuations contracts.ValuationRepository
	candidates contracts.CandidateRepository
	logger     *logger.Logger
}

// NewValuationHandler creates a new valuation handler
func NewValuationHandler(
	valuations contracts.ValuationRepository,
	candidates contracts.CandidateRepository,
	log *logger.Logger,
) *ValuationHandler {
	return &ValuationHandler{
		valuations: valuations,
		candidates: candidates,
		logger:     log,
	}
}

// List returns stored valuations ordered by margin of safety
// GET /api/valuations?limit=100
func (h *ValuationHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 100
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	results, err := h.valuations.ListValuations(ctx, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list valuations")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve valuations")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(results),
		"results": results,
	})
}

// Get returns the stored valuation for one ticker
// GET /api/valuations/{ticker}
func (h *ValuationHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ticker := mux.Vars(r)["ticker"]

	if ticker == "" {
		respondError(w, http.StatusBadRequest, "ticker is required")
		return
	}

	result, err := h.valuations.GetValuation(ctx, ticker)
	if err != nil {
		h.logger.WithError(err).WithField("ticker", ticker).Error("Failed to get valuation")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve valuation")
		return
	}
	if result == nil {
		respondError(w, http.StatusNotFound, "No valuation for ticker")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetCandidate returns the cached shortlist candidate for one ticker
// GET /api/candidates/{ticker}
func (h *ValuationHandler) GetCandidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ticker := mux.Vars(r)["ticker"]

	if ticker == "" {
		respondError(w, http.StatusBadRequest, "ticker is required")
		return
	}

	candidate, err := h.candidates.GetCandidate(ctx, ticker)
	if err != nil {
		h.logger.WithError(err).WithField("ticker", ticker).Error("Failed to get candidate")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve candidate")
		return
	}
	if candidate == nil {
		respondError(w, http.StatusNotFound, "No candidate for ticker")
		return
	}

	respondJSON(w, http.StatusOK, candidate)
}
