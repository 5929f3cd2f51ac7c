package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/annaraight/funnel-core/internal/entity"
)

func alwaysOK(recipient string, p entity.Payload) (bool, string) {
	return true, ""
}

func fullCapabilities() CapabilityTable {
	caps := CapabilityTable{}
	for _, typ := range []entity.ReminderType{
		entity.TypeVideoReminder, entity.TypeCheckingIn, entity.TypeDirectOffer,
		entity.TypeFinalReminder, entity.TypeTestimonial1, entity.TypeTestimonial2,
		entity.TypeTestimonial3, entity.TypeContent1, entity.TypeAppointmentReminder,
	} {
		caps[typ] = alwaysOK
	}
	return caps
}

func dueReminder(typ entity.ReminderType) entity.Reminder {
	return entity.Reminder{
		ID:        "rem-1",
		Recipient: "a@x.com",
		Type:      typ,
		Payload:   entity.Payload{FirstName: "Ann", VideoURL: "/v/1"},
		Status:    entity.ReminderPending,
	}
}

// TestProcessSendsAndChainsSuccessor - sucesso marca sent e agenda o próximo
// passo com o mesmo payload e o delay do sucessor
func TestProcessSendsAndChainsSuccessor(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	mockRepo := new(MockReminderRepository)
	mockRepo.On("FindDue", ctx, now, defaultBatchLimit).
		Return([]entity.Reminder{dueReminder(entity.TypeVideoReminder)}, nil)
	mockRepo.On("MarkSent", ctx, "rem-1", now).Return(nil)
	mockRepo.On("Enqueue", ctx, mock.MatchedBy(func(r *entity.Reminder) bool {
		return r.Type == entity.TypeCheckingIn &&
			r.Recipient == "a@x.com" &&
			r.Payload.FirstName == "Ann" &&
			r.ScheduledFor.Equal(now.Add(entity.TypeCheckingIn.Delay()))
	})).Return(true, nil)

	uc := NewProcessRemindersUseCase(mockRepo, fullCapabilities(), false)

	out, err := uc.Execute(ctx, now)

	assert.NoError(t, err)
	assert.Equal(t, 1, out.Processed)
	assert.Equal(t, 1, out.Sent)
	assert.Equal(t, 0, out.Failed)
	mockRepo.AssertExpectations(t)
}

// TestProcessFailureHaltsChain - falha de envio marca failed e NÃO agenda
// o sucessor (política: passo quebrado para a cadeia)
func TestProcessFailureHaltsChain(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	mockRepo := new(MockReminderRepository)
	mockRepo.On("FindDue", ctx, now, defaultBatchLimit).
		Return([]entity.Reminder{dueReminder(entity.TypeCheckingIn)}, nil)
	mockRepo.On("MarkFailed", ctx, "rem-1", "smtp timeout").Return(nil)

	caps := fullCapabilities()
	caps[entity.TypeCheckingIn] = func(recipient string, p entity.Payload) (bool, string) {
		return false, "smtp timeout"
	}

	uc := NewProcessRemindersUseCase(mockRepo, caps, false)

	out, err := uc.Execute(ctx, now)

	assert.NoError(t, err)
	assert.Equal(t, 1, out.Failed)
	assert.Equal(t, 0, out.Sent)
	mockRepo.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "MarkSent", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessMissingCapabilityFails(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	mockRepo := new(MockReminderRepository)
	mockRepo.On("FindDue", ctx, now, defaultBatchLimit).
		Return([]entity.Reminder{dueReminder(entity.TypeDirectOffer)}, nil)
	mockRepo.On("MarkFailed", ctx, "rem-1", mock.AnythingOfType("string")).Return(nil)

	uc := NewProcessRemindersUseCase(mockRepo, CapabilityTable{}, false)

	out, err := uc.Execute(ctx, now)

	assert.NoError(t, err)
	assert.Equal(t, 1, out.Failed)
	mockRepo.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
}

// TestProcessDuplicateSuccessorIsNoOp - Enqueue achando pendente igual é
// absorvido: tick sobreposto não duplica a cadeia nem vira erro
func TestProcessDuplicateSuccessorIsNoOp(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	mockRepo := new(MockReminderRepository)
	mockRepo.On("FindDue", ctx, now, defaultBatchLimit).
		Return([]entity.Reminder{dueReminder(entity.TypeVideoReminder)}, nil)
	mockRepo.On("MarkSent", ctx, "rem-1", now).Return(nil)
	mockRepo.On("Enqueue", ctx, mock.Anything).Return(false, nil)

	uc := NewProcessRemindersUseCase(mockRepo, fullCapabilities(), false)

	out, err := uc.Execute(ctx, now)

	assert.NoError(t, err)
	assert.Equal(t, 1, out.Sent)
	assert.Equal(t, 0, out.Failed)
}

// TestProcessContentChainPolicy - testimonial_3 só agenda content_1 com a
// flag ligada; content_1 nunca agenda nada
func TestProcessContentChainPolicy(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	// Flag desligada: cadeia termina no testimonial_3
	mockRepo := new(MockReminderRepository)
	mockRepo.On("FindDue", ctx, now, defaultBatchLimit).
		Return([]entity.Reminder{dueReminder(entity.TypeTestimonial3)}, nil)
	mockRepo.On("MarkSent", ctx, "rem-1", now).Return(nil)

	uc := NewProcessRemindersUseCase(mockRepo, fullCapabilities(), false)
	_, err := uc.Execute(ctx, now)
	assert.NoError(t, err)
	mockRepo.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)

	// Flag ligada: content_1 entra na fila
	mockRepo2 := new(MockReminderRepository)
	mockRepo2.On("FindDue", ctx, now, defaultBatchLimit).
		Return([]entity.Reminder{dueReminder(entity.TypeTestimonial3)}, nil)
	mockRepo2.On("MarkSent", ctx, "rem-1", now).Return(nil)
	mockRepo2.On("Enqueue", ctx, mock.MatchedBy(func(r *entity.Reminder) bool {
		return r.Type == entity.TypeContent1
	})).Return(true, nil)

	uc2 := NewProcessRemindersUseCase(mockRepo2, fullCapabilities(), true)
	_, err = uc2.Execute(ctx, now)
	assert.NoError(t, err)
	mockRepo2.AssertExpectations(t)

	// content_1 é terminal mesmo com a flag
	mockRepo3 := new(MockReminderRepository)
	mockRepo3.On("FindDue", ctx, now, defaultBatchLimit).
		Return([]entity.Reminder{dueReminder(entity.TypeContent1)}, nil)
	mockRepo3.On("MarkSent", ctx, "rem-1", now).Return(nil)

	uc3 := NewProcessRemindersUseCase(mockRepo3, fullCapabilities(), true)
	_, err = uc3.Execute(ctx, now)
	assert.NoError(t, err)
	mockRepo3.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
}

func TestProcessAppointmentReminderNeverChains(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	mockRepo := new(MockReminderRepository)
	mockRepo.On("FindDue", ctx, now, defaultBatchLimit).
		Return([]entity.Reminder{dueReminder(entity.TypeAppointmentReminder)}, nil)
	mockRepo.On("MarkSent", ctx, "rem-1", now).Return(nil)

	uc := NewProcessRemindersUseCase(mockRepo, fullCapabilities(), true)

	_, err := uc.Execute(ctx, now)
	assert.NoError(t, err)
	mockRepo.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
}

// TestProcessMarkSentErrorCountsRequeued - o email saiu, então falha do
// MarkSent não é dispatch failure: conta como requeued, não mexe no failed
// e não marca o reminder como failed (ele segue pending para o próximo tick)
func TestProcessMarkSentErrorCountsRequeued(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	mockRepo := new(MockReminderRepository)
	mockRepo.On("FindDue", ctx, now, defaultBatchLimit).
		Return([]entity.Reminder{dueReminder(entity.TypeVideoReminder)}, nil)
	mockRepo.On("MarkSent", ctx, "rem-1", now).Return(errors.New("connection refused"))

	uc := NewProcessRemindersUseCase(mockRepo, fullCapabilities(), false)

	out, err := uc.Execute(ctx, now)

	assert.NoError(t, err)
	assert.Equal(t, 1, out.Processed)
	assert.Equal(t, 0, out.Sent)
	assert.Equal(t, 0, out.Failed)
	assert.Equal(t, 1, out.Requeued)
	mockRepo.AssertNotCalled(t, "MarkFailed", mock.Anything, mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
}

func TestProcessStorageErrorIsTechnical(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	mockRepo := new(MockReminderRepository)
	mockRepo.On("FindDue", ctx, now, defaultBatchLimit).
		Return(nil, errors.New("connection refused"))

	uc := NewProcessRemindersUseCase(mockRepo, fullCapabilities(), false)

	out, err := uc.Execute(ctx, now)

	assert.Nil(t, out)
	assert.True(t, IsTechnicalError(err))
}

// TestProcessBatchMixedResults - um lote com sucesso e falha devolve as duas
// contagens e não deixa um reminder contaminar o outro
func TestProcessBatchMixedResults(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	ok := dueReminder(entity.TypeVideoReminder)
	bad := entity.Reminder{
		ID:        "rem-2",
		Recipient: "b@x.com",
		Type:      entity.TypeCheckingIn,
		Payload:   entity.Payload{FirstName: "Bia"},
		Status:    entity.ReminderPending,
	}

	mockRepo := new(MockReminderRepository)
	mockRepo.On("FindDue", ctx, now, defaultBatchLimit).
		Return([]entity.Reminder{ok, bad}, nil)
	mockRepo.On("MarkSent", ctx, "rem-1", now).Return(nil)
	mockRepo.On("Enqueue", ctx, mock.Anything).Return(true, nil)
	mockRepo.On("MarkFailed", ctx, "rem-2", "mailbox full").Return(nil)

	caps := fullCapabilities()
	caps[entity.TypeCheckingIn] = func(recipient string, p entity.Payload) (bool, string) {
		return false, "mailbox full"
	}

	uc := NewProcessRemindersUseCase(mockRepo, caps, false)

	out, err := uc.Execute(ctx, now)

	assert.NoError(t, err)
	assert.Equal(t, 2, out.Processed)
	assert.Equal(t, 1, out.Sent)
	assert.Equal(t, 1, out.Failed)
}
