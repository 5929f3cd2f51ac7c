package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/annaraight/funnel-core/internal/usecase"
)

type LeadHandler struct {
	FunnelUC *usecase.FunnelStatusUseCase
}

func NewLeadHandler(funnelUC *usecase.FunnelStatusUseCase) *LeadHandler {
	return &LeadHandler{FunnelUC: funnelUC}
}

func (h *LeadHandler) HandleGetStatus(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadId")

	out, err := h.FunnelUC.LeadStatus(r.Context(), leadID)
	if err != nil {
		if usecase.IsDomainError(err) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

func (h *LeadHandler) HandleGetStats(w http.ResponseWriter, r *http.Request) {
	out, err := h.FunnelUC.EngagementStats(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}
