package worker

import (
	"context"
	"log"
	"time"

	"github.com/annaraight/funnel-core/internal/infra/http/middleware"
	"github.com/annaraight/funnel-core/internal/usecase"
)

// ReminderWorker é o relógio do scheduler: chama o processamento de
// reminders vencidos a cada tick. Um tick lento sobrepondo o próximo não
// quebra nada — a dedup do Enqueue e o MarkSent idempotente seguram.
type ReminderWorker struct {
	uc           *usecase.ProcessRemindersUseCase
	tickInterval time.Duration
}


func NewReminderWorker(uc *usecase.ProcessRemindersUseCase, tickInterval time.Duration) *ReminderWorker {
	if tickInterval <= 0 {
		tickInterval = 10 * time.Minute // Roda a cada 10 min
	}
	return &ReminderWorker{
		uc:           uc,
		tickInterval: tickInterval,
	}
}


func (w *ReminderWorker) Start(ctx context.Context) {
	log.Printf("🕒 Reminder Worker iniciado (tick a cada %s)", w.tickInterval)

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	// Primeiro tick imediato, igual o processor original
	w.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ Reminder Worker encerrado")
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}


func (w *ReminderWorker) tick(ctx context.Context) {
	out, err := w.uc.Execute(ctx, time.Now())
	if err != nil {
		// Storage fora do ar: nada commitou, o próximo tick tenta de novo
		log.Printf("❌ [WORKER] Erro no tick de reminders: %v", err)
		return
	}

	middleware.RecordReminderTick(out.Sent, out.Failed)
}
