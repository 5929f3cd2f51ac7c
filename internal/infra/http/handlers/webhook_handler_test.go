package handlers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/annaraight/funnel-core/internal/entity"
	"github.com/annaraight/funnel-core/internal/infra/queue"
)

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

const paymentBody = `{"event":"PAYMENT_CONFIRMED","payment":{"invoice_id":"inv-1","amount_cents":150000,"customer_email":"a@x.com"}}`

func TestWebhookPublishesPayment(t *testing.T) {
	leads := new(MockLeadRepository)
	leads.On("FindByEmail", mock.Anything, "a@x.com").
		Return(&entity.Lead{ID: "lead-1", Email: "a@x.com"}, nil)

	producer := new(MockProducer)
	producer.On("PublishFunnelEvent", mock.Anything, queue.FunnelEventPayload{
		LeadID:      "lead-1",
		EventType:   "payment_completed",
		InvoiceID:   "inv-1",
		AmountCents: 150000,
	}).Return(nil)

	h := NewWebhookHandler(leads, producer)

	req := httptest.NewRequest(http.MethodPost, "/webhook/payment", bytes.NewBufferString(paymentBody))
	rec := httptest.NewRecorder()

	h.Handle(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	producer.AssertExpectations(t)
}

// TestWebhookStorageErrorReturns500 - banco fora durante o webhook tem que
// virar 5xx: o provedor re-entrega e o pagamento não se perde
func TestWebhookStorageErrorReturns500(t *testing.T) {
	leads := new(MockLeadRepository)
	leads.On("FindByEmail", mock.Anything, "a@x.com").
		Return(nil, errors.New("connection refused"))

	producer := new(MockProducer)
	h := NewWebhookHandler(leads, producer)

	req := httptest.NewRequest(http.MethodPost, "/webhook/payment", bytes.NewBufferString(paymentBody))
	rec := httptest.NewRecorder()

	h.Handle(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	producer.AssertNotCalled(t, "PublishFunnelEvent", mock.Anything, mock.Anything)
}

// TestWebhookUnknownLeadReturns200 - email desconhecido não se resolve com
// retry do provedor; responder 5xx só geraria re-entrega infinita
func TestWebhookUnknownLeadReturns200(t *testing.T) {
	leads := new(MockLeadRepository)
	leads.On("FindByEmail", mock.Anything, "a@x.com").Return(nil, nil)

	producer := new(MockProducer)
	h := NewWebhookHandler(leads, producer)

	req := httptest.NewRequest(http.MethodPost, "/webhook/payment", bytes.NewBufferString(paymentBody))
	rec := httptest.NewRecorder()

	h.Handle(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	producer.AssertNotCalled(t, "PublishFunnelEvent", mock.Anything, mock.Anything)
}

func TestWebhookIgnoresOtherEvents(t *testing.T) {
	leads := new(MockLeadRepository)
	producer := new(MockProducer)
	h := NewWebhookHandler(leads, producer)

	body := bytes.NewBufferString(`{"event":"PAYMENT_REFUNDED","payment":{"customer_email":"a@x.com"}}`)
	req := httptest.NewRequest(http.MethodPost, "/webhook/payment", body)
	rec := httptest.NewRecorder()

	h.Handle(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	leads.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
	producer.AssertNotCalled(t, "PublishFunnelEvent", mock.Anything, mock.Anything)
}
