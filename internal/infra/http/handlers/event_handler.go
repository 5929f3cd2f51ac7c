package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/annaraight/funnel-core/internal/infra/http/middleware"
	"github.com/annaraight/funnel-core/internal/infra/queue"
	"github.com/annaraight/funnel-core/internal/usecase"
)

// EventHandler recebe eventos de domínio (telemetria do player, booking) e
// só publica na fila — quem mexe no funil é o worker consumidor.
type EventHandler struct {
	Producer queue.FunnelEventProducerInterface
	EnrollUC *usecase.EnrollReminderUseCase
	CancelUC *usecase.CancelChainUseCase
}

func NewEventHandler(
	producer queue.FunnelEventProducerInterface,
	enrollUC *usecase.EnrollReminderUseCase,
	cancelUC *usecase.CancelChainUseCase,
) *EventHandler {
	return &EventHandler{
		Producer: producer,
		EnrollUC: enrollUC,
		CancelUC: cancelUC,
	}
}

func (h *EventHandler) HandleVideoProgress(w http.ResponseWriter, r *http.Request) {
	var input struct {
		LeadID     string `json:"lead_id"`
		Page       string `json:"page"`
		Percentage int    `json:"percentage"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "JSON inválido: "+err.Error(), http.StatusBadRequest)
		return
	}

	if input.LeadID == "" {
		http.Error(w, "lead_id é obrigatório", http.StatusBadRequest)
		return
	}

	h.publish(w, r, queue.FunnelEventPayload{
		LeadID:     input.LeadID,
		EventType:  "video_progress",
		VideoPage:  input.Page,
		Percentage: input.Percentage,
	})
}

// HandleAppointmentBooked faz três coisas: publica o evento de estágio,
// cancela a cadeia de emails pendente (o lead agendou, a sequência de
// convites perdeu o sentido) e agenda o lembrete de 1h antes da call.
func (h *EventHandler) HandleAppointmentBooked(w http.ResponseWriter, r *http.Request) {
	var input struct {
		LeadID        string `json:"lead_id"`
		Email         string `json:"email"`
		FirstName     string `json:"first_name"`
		AppointmentID string `json:"appointment_id"`
		AppointmentAt string `json:"appointment_at"` // RFC3339
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "JSON inválido: "+err.Error(), http.StatusBadRequest)
		return
	}

	if input.LeadID == "" || input.Email == "" {
		http.Error(w, "lead_id e email são obrigatórios", http.StatusBadRequest)
		return
	}

	apptAt, err := time.Parse(time.RFC3339, input.AppointmentAt)
	if err != nil {
		http.Error(w, "appointment_at inválido: "+err.Error(), http.StatusBadRequest)
		return
	}

	cancelled, err := h.CancelUC.Execute(r.Context(), input.Email)
	if err != nil {
		log.Printf("⚠️ Erro ao cancelar cadeia de %s: %v", input.Email, err)
	} else {
		middleware.RecordRemindersCancelled(cancelled)
	}

	if _, err := h.EnrollUC.ExecuteAppointmentReminder(r.Context(), usecase.EnrollAppointmentReminderInput{
		Email:         input.Email,
		FirstName:     input.FirstName,
		AppointmentAt: apptAt,
	}); err != nil {
		log.Printf("⚠️ Erro ao agendar lembrete de consulta: %v", err)
	}

	h.publish(w, r, queue.FunnelEventPayload{
		LeadID:        input.LeadID,
		EventType:     "appointment_scheduled",
		AppointmentID: input.AppointmentID,
	})
}

func (h *EventHandler) HandleAppointmentAttended(w http.ResponseWriter, r *http.Request) {
	var input struct {
		LeadID        string `json:"lead_id"`
		AppointmentID string `json:"appointment_id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "JSON inválido: "+err.Error(), http.StatusBadRequest)
		return
	}

	if input.LeadID == "" {
		http.Error(w, "lead_id é obrigatório", http.StatusBadRequest)
		return
	}

	h.publish(w, r, queue.FunnelEventPayload{
		LeadID:        input.LeadID,
		EventType:     "appointment_attended",
		AppointmentID: input.AppointmentID,
	})
}

func (h *EventHandler) HandleInvoiceSent(w http.ResponseWriter, r *http.Request) {
	var input struct {
		LeadID    string `json:"lead_id"`
		InvoiceID string `json:"invoice_id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "JSON inválido: "+err.Error(), http.StatusBadRequest)
		return
	}

	if input.LeadID == "" {
		http.Error(w, "lead_id é obrigatório", http.StatusBadRequest)
		return
	}

	h.publish(w, r, queue.FunnelEventPayload{
		LeadID:    input.LeadID,
		EventType: "invoice_sent",
		InvoiceID: input.InvoiceID,
	})
}

func (h *EventHandler) publish(w http.ResponseWriter, r *http.Request, payload queue.FunnelEventPayload) {
	if err := h.Producer.PublishFunnelEvent(r.Context(), payload); err != nil {
		log.Printf("❌ Erro fila: %v", err)
		http.Error(w, "erro ao publicar evento", http.StatusInternalServerError)
		return
	}

	middleware.RecordFunnelEvent(payload.EventType)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{"msg": "evento aceito"})
}
