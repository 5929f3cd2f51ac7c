package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/annaraight/funnel-core/internal/entity"
	"github.com/annaraight/funnel-core/internal/infra/http/middleware"
	"github.com/annaraight/funnel-core/internal/usecase"
)

// ReminderHandler expõe o tick manual (botão da página de admin) e a
// contagem de reminders por status.
type ReminderHandler struct {
	ProcessUC    *usecase.ProcessRemindersUseCase
	ReminderRepo entity.ReminderRepositoryInterface
}

func NewReminderHandler(processUC *usecase.ProcessRemindersUseCase, repo entity.ReminderRepositoryInterface) *ReminderHandler {
	return &ReminderHandler{ProcessUC: processUC, ReminderRepo: repo}
}

func (h *ReminderHandler) HandleProcess(w http.ResponseWriter, r *http.Request) {
	out, err := h.ProcessUC.Execute(r.Context(), time.Now())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	middleware.RecordReminderTick(out.Sent, out.Failed)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

func (h *ReminderHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	counts, err := h.ReminderRepo.CountByStatus(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"pending":   counts[entity.ReminderPending],
		"sent":      counts[entity.ReminderSent],
		"failed":    counts[entity.ReminderFailed],
		"cancelled": counts[entity.ReminderCancelled],
	})
}
