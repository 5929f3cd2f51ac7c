package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)


// FunnelEventPayload carrega os eventos de domínio que movem o funil.
// EventType decide quais campos importam; o resto viaja zerado.
type FunnelEventPayload struct {
	LeadID    string `json:"lead_id"`
	EventType string `json:"event_type"` // video_progress | appointment_scheduled | appointment_attended | invoice_sent | payment_completed

	VideoPage  string `json:"video_page,omitempty"`
	Percentage int    `json:"percentage,omitempty"`

	AppointmentID string `json:"appointment_id,omitempty"`

	InvoiceID   string `json:"invoice_id,omitempty"`
	AmountCents int64  `json:"amount_cents,omitempty"`
}

type FunnelEventProducerInterface interface {
	PublishFunnelEvent(ctx context.Context, payload FunnelEventPayload) error
}

type RabbitMQProducer struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}


func NewProducer(conn *amqp.Connection, ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{
		Conn: conn,
		Ch:   ch,
	}
}

func (p *RabbitMQProducer) PublishFunnelEvent(ctx context.Context, payload FunnelEventPayload) error {

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("erro ao converter payload: %v", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName, // ex.funnel
		RoutingKey,   // k.funnel_event
		false,        // Mandatory
		false,        // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent, // Mensagem salva no disco (segurança!)
		},
	)

	if err != nil {
		return fmt.Errorf("falha ao publicar no RabbitMQ: %v", err)
	}

	return nil
}
