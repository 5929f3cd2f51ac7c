package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/annaraight/funnel-core/internal/entity"
)

// MockReminderRepository
type MockReminderRepository struct {
	mock.Mock
}

func (m *MockReminderRepository) Enqueue(ctx context.Context, r *entity.Reminder) (bool, error) {
	args := m.Called(ctx, r)
	return args.Bool(0), args.Error(1)
}

func (m *MockReminderRepository) FindDue(ctx context.Context, now time.Time, limit int) ([]entity.Reminder, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Reminder), args.Error(1)
}

func (m *MockReminderRepository) MarkSent(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockReminderRepository) MarkFailed(ctx context.Context, id string, errorMessage string) error {
	args := m.Called(ctx, id, errorMessage)
	return args.Error(0)
}

func (m *MockReminderRepository) CancelPending(ctx context.Context, recipient string) (int64, error) {
	args := m.Called(ctx, recipient)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReminderRepository) CountByStatus(ctx context.Context) (map[entity.ReminderStatus]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[entity.ReminderStatus]int), args.Error(1)
}

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Upsert(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindByEmail(ctx context.Context, email string) (*entity.Lead, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) UpdateStage(ctx context.Context, id string, stage entity.FunnelStage) error {
	args := m.Called(ctx, id, stage)
	return args.Error(0)
}

func (m *MockLeadRepository) AddScore(ctx context.Context, id string, delta int) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

func (m *MockLeadRepository) StageStats(ctx context.Context) ([]entity.StageStat, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.StageStat), args.Error(1)
}

// MockStatusHistoryRepository
type MockStatusHistoryRepository struct {
	mock.Mock
}

func (m *MockStatusHistoryRepository) Record(ctx context.Context, h *entity.StatusHistory) error {
	args := m.Called(ctx, h)
	return args.Error(0)
}

func (m *MockStatusHistoryRepository) ListByLead(ctx context.Context, leadID string) ([]entity.StatusHistory, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.StatusHistory), args.Error(1)
}

// MockEngagementEventRepository
type MockEngagementEventRepository struct {
	mock.Mock
}

func (m *MockEngagementEventRepository) Record(ctx context.Context, e *entity.EngagementEvent) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEngagementEventRepository) ListByLead(ctx context.Context, leadID string) ([]entity.EngagementEvent, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.EngagementEvent), args.Error(1)
}
