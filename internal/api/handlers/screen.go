package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/paweenawitch/Net-Net-Global-Scanner/internal/contracts"
	"github.com/paweenawitch/Net-Net-Global-Scanner/internal/screening"
	"github.com/paweenawitch/Net-Net-Global-Scanner/pkg/logger"
)

// ScreenHandler handles screening trigger endpoints
type ScreenHandler struct {
	service    *screening.Service
	builder    *screening.ShortlistBuilder
	shortlists contracts.ShortlistRepository
	logger     *logger.Logger
}

// NewScreenHandler creates a new screening handler
func NewScreenHandler(
	service *screening.Service,
	builder *screening.ShortlistBuilder,
	shortlists contracts.ShortlistRepository,
	log *logger.Logger,
) *ScreenHandler {
	return &ScreenHandler{
		service:    service,
		builder:    builder,
		shortlists: shortlists,
		logger:     log,
	}
}

// ScreenRequest optionally overrides the stored shortlist
type ScreenRequest struct {
	Shortlist []contracts.ShortlistItem `json:"shortlist,omitempty"`
}

// ScreenResponse summarizes a screening run
type ScreenResponse struct {
	Total   int      `json:"total"`
	Success int      `json:"success"`
	Failed  []string `json:"failed,omitempty"`
}

// RunScreen values every shortlist entry and persists the results
// POST /api/screen
func (h *ScreenHandler) RunScreen(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ScreenRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	shortlist := req.Shortlist
	if len(shortlist) == 0 {
		stored, err := h.shortlists.LoadShortlist(ctx)
		if err != nil {
			h.logger.WithError(err).Error("Failed to load shortlist")
			respondError(w, http.StatusInternalServerError, "Failed to load shortlist")
			return
		}
		shortlist = stored
	}
	if len(shortlist) == 0 {
		respondError(w, http.StatusBadRequest, "Shortlist is empty")
		return
	}

	results, err := h.service.Screen(ctx, shortlist)
	if err != nil {
		h.logger.WithError(err).Error("Screening run failed")
		respondError(w, http.StatusInternalServerError, "Screening run failed")
		return
	}

	resp := ScreenResponse{Total: len(results)}
	for _, res := range results {
		if res.Error != nil {
			resp.Failed = append(resp.Failed, res.Ticker)
		} else {
			resp.Success++
		}
	}

	respondJSON(w, http.StatusOK, resp)
}

// BuildShortlistRequest names the tickers to pre-screen
type BuildShortlistRequest struct {
	Tickers []string `json:"tickers"`
}

// BuildShortlist runs the candidate pre-pass for the given tickers
// POST /api/shortlist/build
func (h *ScreenHandler) BuildShortlist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req BuildShortlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Tickers) == 0 {
		respondError(w, http.StatusBadRequest, "tickers is required")
		return
	}

	candidates, err := h.builder.Build(ctx, req.Tickers)
	if err != nil {
		h.logger.WithError(err).Error("Shortlist build failed")
		respondError(w, http.StatusInternalServerError, "Shortlist build failed")
		return
	}

	viable := 0
	for _, c := range candidates {
		if c.Note == nil {
			viable++
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"total":      len(candidates),
		"viable":     viable,
		"candidates": candidates,
	})
}
