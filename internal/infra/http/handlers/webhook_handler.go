package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/annaraight/funnel-core/internal/entity"
	"github.com/annaraight/funnel-core/internal/infra/http/middleware"
	"github.com/annaraight/funnel-core/internal/infra/queue"
)

// WebhookHandler recebe o callback do provedor de pagamento. O provedor só
// conhece o email do cliente; a ponte para o lead_id é feita aqui.
type WebhookHandler struct {
	LeadRepo entity.LeadRepositoryInterface
	Producer queue.FunnelEventProducerInterface
}

func NewWebhookHandler(leadRepo entity.LeadRepositoryInterface, producer queue.FunnelEventProducerInterface) *WebhookHandler {
	return &WebhookHandler{LeadRepo: leadRepo, Producer: producer}
}

func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var event struct {
		Event   string `json:"event"`
		Payment struct {
			InvoiceID     string `json:"invoice_id"`
			AmountCents   int64  `json:"amount_cents"`
			CustomerEmail string `json:"customer_email"`
		} `json:"payment"`
	}

	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		http.Error(w, "Bad JSON", 400)
		return
	}

	if event.Event != "PAYMENT_RECEIVED" && event.Event != "PAYMENT_CONFIRMED" {
		w.WriteHeader(200)
		return
	}

	lead, err := h.LeadRepo.FindByEmail(r.Context(), event.Payment.CustomerEmail)
	if err != nil {
		// 5xx de propósito: o provedor re-entrega e o banco pode ter sido
		// só um soluço. 200 aqui perderia o pagamento pra sempre.
		log.Printf("❌ Erro ao buscar lead do pagamento de %s: %v", event.Payment.CustomerEmail, err)
		w.WriteHeader(500)
		return
	}
	if lead == nil {
		// 200: email desconhecido não se resolve com retry do provedor
		log.Printf("❌ Lead não encontrado para pagamento de %s", event.Payment.CustomerEmail)
		w.WriteHeader(200)
		return
	}

	payload := queue.FunnelEventPayload{
		LeadID:      lead.ID,
		EventType:   "payment_completed",
		InvoiceID:   event.Payment.InvoiceID,
		AmountCents: event.Payment.AmountCents,
	}

	if err := h.Producer.PublishFunnelEvent(r.Context(), payload); err != nil {
		log.Printf("❌ Erro fila: %v", err)
		w.WriteHeader(500)
		return
	}

	middleware.RecordFunnelEvent(payload.EventType)
	log.Printf("💰 Pagamento de %s recebido em %s", lead.Email, time.Now().Format(time.RFC3339))
	w.WriteHeader(200)
}
