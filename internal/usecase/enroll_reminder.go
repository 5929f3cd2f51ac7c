package usecase

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/annaraight/funnel-core/internal/entity"
)

// EnrollReminderUseCase agenda os pontos de ENTRADA da cadeia: o primeiro
// video_reminder (disparado pelo play do vídeo) e o appointment_reminder
// (relativo ao horário da call, fora da cadeia linear).
type EnrollReminderUseCase struct {
	Reminders entity.ReminderRepositoryInterface
}

func NewEnrollReminderUseCase(reminders entity.ReminderRepositoryInterface) *EnrollReminderUseCase {
	return &EnrollReminderUseCase{Reminders: reminders}
}

func (uc *EnrollReminderUseCase) ExecuteVideoReminder(ctx context.Context, input EnrollVideoReminderInput) (*EnrollOutput, error) {
	if input.Email == "" {
		return nil, &DomainError{
			Code:    CodeValidation,
			Message: "email é obrigatório",
		}
	}

	reminder := &entity.Reminder{
		ID:        uuid.New().String(),
		Recipient: input.Email,
		Type:      entity.TypeVideoReminder,
		Payload: entity.Payload{
			FirstName: input.FirstName,
			VideoURL:  input.VideoURL,
		},
		ScheduledFor: time.Now().Add(entity.TypeVideoReminder.Delay()),
	}

	return uc.enqueue(ctx, reminder)
}

// ExecuteAppointmentReminder agenda o lembrete para 1h ANTES da call. O
// horário da consulta viaja no payload, no lugar da URL do vídeo (mesma
// coluna, semântica por tipo).
func (uc *EnrollReminderUseCase) ExecuteAppointmentReminder(ctx context.Context, input EnrollAppointmentReminderInput) (*EnrollOutput, error) {
	if input.Email == "" {
		return nil, &DomainError{
			Code:    CodeValidation,
			Message: "email é obrigatório",
		}
	}
	if input.AppointmentAt.IsZero() {
		return nil, &DomainError{
			Code:    CodeValidation,
			Message: "appointment_at é obrigatório",
		}
	}

	reminder := &entity.Reminder{
		ID:        uuid.New().String(),
		Recipient: input.Email,
		Type:      entity.TypeAppointmentReminder,
		Payload: entity.Payload{
			FirstName: input.FirstName,
			VideoURL:  input.AppointmentAt.Format(time.RFC3339),
		},
		ScheduledFor: input.AppointmentAt.Add(-entity.AppointmentReminderLead),
	}

	return uc.enqueue(ctx, reminder)
}

func (uc *EnrollReminderUseCase) enqueue(ctx context.Context, reminder *entity.Reminder) (*EnrollOutput, error) {
	created, err := uc.Reminders.Enqueue(ctx, reminder)
	if err != nil {
		return nil, &TechnicalError{
			Code:    CodeDatabase,
			Message: "falha ao agendar reminder: " + err.Error(),
		}
	}

	if !created {
		// Re-enrollment com pendente vivo = sucesso silencioso, não erro
		log.Printf("⏭️ [ENROLL] %s já pendente para %s, pulando", reminder.Type, reminder.Recipient)
		return &EnrollOutput{
			Created:      false,
			ScheduledFor: reminder.ScheduledFor,
			Msg:          "reminder já agendado",
		}, nil
	}

	log.Printf("📅 [ENROLL] Agendado %s para %s em %s", reminder.Type, reminder.Recipient, reminder.ScheduledFor.Format(time.RFC3339))
	return &EnrollOutput{
		ReminderID:   reminder.ID,
		Created:      true,
		ScheduledFor: reminder.ScheduledFor,
		Msg:          "reminder agendado",
	}, nil
}
