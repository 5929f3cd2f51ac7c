package queue

import (
	"context"
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// FunnelStatusService define o contrato com a máquina de estados do funil.
type FunnelStatusService interface {
	HandleVideoProgress(ctx context.Context, leadID, page string, pct int) error
	HandleAppointmentScheduled(ctx context.Context, leadID, appointmentID string) error
	HandleAppointmentAttended(ctx context.Context, leadID, appointmentID string) error
	HandleInvoiceSent(ctx context.Context, leadID, invoiceID string) error
	HandlePaymentCompleted(ctx context.Context, leadID, invoiceID string, amountCents int64) error
}

type Worker struct {
	Channel *amqp.Channel
	Funnel  FunnelStatusService
}

func NewWorker(ch *amqp.Channel, funnel FunnelStatusService) *Worker {
	return &Worker{
		Channel: ch,
		Funnel:  funnel,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName, // fila
		"",        // consumer
		false,     // auto-ack (manual é mais seguro)
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		log.Fatalf("❌ Falha ao registrar consumidor RabbitMQ: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload FunnelEventPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("❌ [WORKER] JSON Inválido: %s", err)
				// Mensagem podre (malformada). Rejeita sem requeue para não travar a fila.
				d.Nack(false, false)
				continue
			}

			log.Printf("📥 [WORKER] Evento %s para lead %s", payload.EventType, payload.LeadID)

			if err := w.processMessage(context.Background(), payload); err != nil {
				log.Printf("❌ [WORKER] Erro ao aplicar evento: %s", err)
				// Lead inexistente ou estágio inválido não se resolve com retry;
				// vai pra DLQ e alguém olha depois.
				d.Nack(false, false)
			} else {
				d.Ack(false)
			}
		}
	}()

	log.Printf(" [*] Worker rodando e aguardando na fila '%s'", queueName)
	<-forever
}

func (w *Worker) processMessage(ctx context.Context, payload FunnelEventPayload) error {
	switch payload.EventType {
	case "video_progress":
		return w.Funnel.HandleVideoProgress(ctx, payload.LeadID, payload.VideoPage, payload.Percentage)

	case "appointment_scheduled":
		return w.Funnel.HandleAppointmentScheduled(ctx, payload.LeadID, payload.AppointmentID)

	case "appointment_attended":
		return w.Funnel.HandleAppointmentAttended(ctx, payload.LeadID, payload.AppointmentID)

	case "invoice_sent":
		return w.Funnel.HandleInvoiceSent(ctx, payload.LeadID, payload.InvoiceID)

	case "payment_completed":
		return w.Funnel.HandlePaymentCompleted(ctx, payload.LeadID, payload.InvoiceID, payload.AmountCents)

	default:
		log.Printf("⚠️ Evento desconhecido: %s. Apenas logando.", payload.EventType)
		// nil aqui dá ACK e tira a mensagem da fila, já que não sabemos tratar
		return nil
	}
}
