package usecase

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/annaraight/funnel-core/internal/entity"
)

const defaultBatchLimit = 50

// ProcessRemindersUseCase é o coração do scheduler: pega o lote vencido,
// despacha cada um pela capability certa e, no sucesso, agenda o próximo
// passo da cadeia. Falha de envio NÃO agenda sucessor: a cadeia daquele
// lead para ali (um passo quebrado não pode ser pulado em silêncio).
type ProcessRemindersUseCase struct {
	Reminders    entity.ReminderRepositoryInterface
	Capabilities CapabilityTable
	BatchLimit   int

	// ChainContentEmail liga o pulo testimonial_3 -> content_1. Fica
	// desligado por padrão (política anti-spam do deployment).
	ChainContentEmail bool
}

func NewProcessRemindersUseCase(
	reminders entity.ReminderRepositoryInterface,
	capabilities CapabilityTable,
	chainContentEmail bool,
) *ProcessRemindersUseCase {
	return &ProcessRemindersUseCase{
		Reminders:         reminders,
		Capabilities:      capabilities,
		BatchLimit:        defaultBatchLimit,
		ChainContentEmail: chainContentEmail,
	}
}

// Execute roda um tick. Cada reminder é independente: erro num deles não
// derruba o lote.
func (uc *ProcessRemindersUseCase) Execute(ctx context.Context, now time.Time) (*ProcessOutput, error) {
	limit := uc.BatchLimit
	if limit <= 0 {
		limit = defaultBatchLimit
	}

	due, err := uc.Reminders.FindDue(ctx, now, limit)
	if err != nil {
		return nil, &TechnicalError{
			Code:    CodeDatabase,
			Message: "falha ao buscar reminders vencidos: " + err.Error(),
		}
	}

	out := &ProcessOutput{Processed: len(due)}

	for i := range due {
		reminder := due[i]

		send, exists := uc.Capabilities[reminder.Type]
		if !exists {
			// Tipo sem capability = falha de dispatch, não de storage
			uc.fail(ctx, &reminder, "nenhuma capability de envio para "+string(reminder.Type))
			out.Failed++
			continue
		}

		ok, detail := send(reminder.Recipient, reminder.Payload)
		if !ok {
			if detail == "" {
				detail = "unknown error"
			}
			uc.fail(ctx, &reminder, detail)
			out.Failed++
			continue
		}

		if err := uc.Reminders.MarkSent(ctx, reminder.ID, now); err != nil {
			// Storage caiu depois do envio. O email saiu, então não é
			// Failed; o reminder segue pending e o próximo tick re-entrega.
			log.Printf("⚠️ [SCHEDULER] Erro ao marcar sent %s: %v", reminder.ID, err)
			out.Requeued++
			continue
		}

		out.Sent++
		log.Printf("✅ [SCHEDULER] Enviado %s para %s", reminder.Type, reminder.Recipient)

		uc.scheduleSuccessor(ctx, &reminder, now)
	}

	log.Printf("📊 [SCHEDULER] Processed: %d, Sent: %d, Failed: %d, Requeued: %d", out.Processed, out.Sent, out.Failed, out.Requeued)
	return out, nil
}

func (uc *ProcessRemindersUseCase) fail(ctx context.Context, reminder *entity.Reminder, detail string) {
	log.Printf("❌ [SCHEDULER] Falha ao enviar %s para %s: %s", reminder.Type, reminder.Recipient, detail)
	if err := uc.Reminders.MarkFailed(ctx, reminder.ID, detail); err != nil {
		log.Printf("⚠️ [SCHEDULER] Erro ao marcar failed %s: %v", reminder.ID, err)
	}
}

// scheduleSuccessor agenda o próximo passo da cadeia com o mesmo payload.
// Dedup: se já existir um pendente para (recipient, tipo sucessor), o
// Enqueue absorve em silêncio.
func (uc *ProcessRemindersUseCase) scheduleSuccessor(ctx context.Context, reminder *entity.Reminder, now time.Time) {
	next, hasNext := reminder.Type.Successor()
	if !hasNext {
		return
	}

	if reminder.Type == entity.TypeTestimonial3 && !uc.ChainContentEmail {
		log.Printf("⏭️ [SCHEDULER] content_1 desligado por política, cadeia de %s termina aqui", reminder.Recipient)
		return
	}

	successor := &entity.Reminder{
		ID:           uuid.New().String(),
		Recipient:    reminder.Recipient,
		Type:         next,
		Payload:      reminder.Payload,
		ScheduledFor: now.Add(next.Delay()),
	}

	created, err := uc.Reminders.Enqueue(ctx, successor)
	if err != nil {
		// Transiente: o passo atual já está sent, então esse elo se perde
		// até alguém re-enrolar. Fica gritando no log de propósito.
		log.Printf("❌ [SCHEDULER] Erro ao agendar %s para %s: %v", next, reminder.Recipient, err)
		return
	}

	if !created {
		log.Printf("⏭️ [SCHEDULER] %s já pendente para %s, pulando", next, reminder.Recipient)
		return
	}

	log.Printf("📅 [SCHEDULER] Agendado %s para %s em %s", next, reminder.Recipient, successor.ScheduledFor.Format(time.RFC3339))
}
