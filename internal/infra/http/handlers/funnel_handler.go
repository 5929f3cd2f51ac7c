package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/annaraight/funnel-core/internal/entity"
	"github.com/annaraight/funnel-core/internal/usecase"
)

// FunnelStartHandler é a porta de entrada do funil: captura (ou enriquece)
// o lead e agenda o primeiro passo da cadeia (video_reminder, 3h após o
// play do vídeo).
type FunnelStartHandler struct {
	LeadRepo entity.LeadRepositoryInterface
	EnrollUC *usecase.EnrollReminderUseCase
}

func NewFunnelStartHandler(leadRepo entity.LeadRepositoryInterface, enrollUC *usecase.EnrollReminderUseCase) *FunnelStartHandler {
	return &FunnelStartHandler{LeadRepo: leadRepo, EnrollUC: enrollUC}
}

func (h *FunnelStartHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email     string `json:"email"`
		FirstName string `json:"first_name"`
		VideoURL  string `json:"video_url"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "JSON inválido: "+err.Error(), http.StatusBadRequest)
		return
	}

	if input.Email == "" {
		http.Error(w, "email é obrigatório", http.StatusBadRequest)
		return
	}

	lead := &entity.Lead{
		ID:    uuid.New().String(),
		Email: input.Email,
		Name:  input.FirstName,
	}

	if err := h.LeadRepo.Upsert(r.Context(), lead); err != nil {
		log.Printf("❌ Erro ao salvar lead: %v", err)
		http.Error(w, "erro ao salvar lead", http.StatusInternalServerError)
		return
	}

	enrolled, err := h.EnrollUC.ExecuteVideoReminder(r.Context(), usecase.EnrollVideoReminderInput{
		Email:     input.Email,
		FirstName: input.FirstName,
		VideoURL:  input.VideoURL,
	})
	if err != nil {
		if usecase.IsDomainError(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{
		"lead_id":      lead.ID,
		"funnel_stage": lead.FunnelStage,
		"reminder":     enrolled,
		"msg":          "lead capturado",
	})
}
