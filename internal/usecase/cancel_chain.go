package usecase

import (
	"context"
	"log"

	"github.com/annaraight/funnel-core/internal/entity"
)

// CancelChainUseCase encerra a cadeia de um recipient: todo pendente vira
// 'cancelled' (terminal). Usado quando o lead agenda a call ou converte
// antes da cadeia acabar.
type CancelChainUseCase struct {
	Reminders entity.ReminderRepositoryInterface
}

func NewCancelChainUseCase(reminders entity.ReminderRepositoryInterface) *CancelChainUseCase {
	return &CancelChainUseCase{Reminders: reminders}
}

func (uc *CancelChainUseCase) Execute(ctx context.Context, recipient string) (int64, error) {
	cancelled, err := uc.Reminders.CancelPending(ctx, recipient)
	if err != nil {
		return 0, &TechnicalError{
			Code:    CodeDatabase,
			Message: "falha ao cancelar reminders: " + err.Error(),
		}
	}

	if cancelled > 0 {
		log.Printf("✅ [SCHEDULER] %d reminder(s) cancelados para %s", cancelled, recipient)
	}

	return cancelled, nil
}
