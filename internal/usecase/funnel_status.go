package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/annaraight/funnel-core/internal/entity"
)

// FunnelStatusUseCase é a máquina de estados do funil. Estágio só anda para
// frente; pedido de transição para trás (ou para o mesmo estágio) é ignorado
// de propósito — as fontes de evento (webhook, telemetria do player)
// re-entregam, e replay não pode corromper o funil.
//
// Score de engajamento conta DUAS vezes por transição: o incremento da tabela
// de estágio + o score do evento que disparou. É herdado e intencional.
type FunnelStatusUseCase struct {
	Leads   entity.LeadRepositoryInterface
	History entity.StatusHistoryRepositoryInterface
	Events  entity.EngagementEventRepositoryInterface
}

func NewFunnelStatusUseCase(
	leads entity.LeadRepositoryInterface,
	history entity.StatusHistoryRepositoryInterface,
	events entity.EngagementEventRepositoryInterface,
) *FunnelStatusUseCase {
	return &FunnelStatusUseCase{
		Leads:   leads,
		History: history,
		Events:  events,
	}
}

// Transition move o lead para newStage se (e só se) for um avanço. Devolve
// true quando a transição de fato aconteceu.
func (uc *FunnelStatusUseCase) Transition(ctx context.Context, leadID string, newStage entity.FunnelStage, triggerEvent string) (bool, error) {
	if !newStage.Valid() {
		return false, &DomainError{
			Code:    CodeInvalidStage,
			Message: "estágio desconhecido: " + string(newStage),
		}
	}

	lead, err := uc.findLead(ctx, leadID)
	if err != nil {
		return false, err
	}

	if newStage.Rank() <= lead.FunnelStage.Rank() {
		log.Printf("⏭️ [FUNNEL] Transição %s -> %s ignorada para lead %s (não avança)", lead.FunnelStage, newStage, leadID)
		return false, nil
	}

	if err := uc.Leads.UpdateStage(ctx, leadID, newStage); err != nil {
		return false, &TechnicalError{
			Code:    CodeDatabase,
			Message: "falha ao atualizar estágio: " + err.Error(),
		}
	}

	// O estágio já avançou; se histórico ou score falharem o erro precisa
	// subir mesmo assim, senão a mensagem é ack'ada e o incremento some de
	// vez (o replay cai no branch de "não avança" acima).
	oldStage := lead.FunnelStage
	if err := uc.History.Record(ctx, &entity.StatusHistory{
		ID:           uuid.New().String(),
		LeadID:       leadID,
		OldStage:     &oldStage,
		NewStage:     newStage,
		TriggerEvent: triggerEvent,
	}); err != nil {
		return true, &TechnicalError{
			Code:    CodeDatabase,
			Message: "falha ao gravar histórico: " + err.Error(),
		}
	}

	if delta := newStage.Score(); delta > 0 {
		if err := uc.Leads.AddScore(ctx, leadID, delta); err != nil {
			return true, &TechnicalError{
				Code:    CodeDatabase,
				Message: "falha ao somar score: " + err.Error(),
			}
		}
	}

	log.Printf("📈 [FUNNEL] Lead %s: %s -> %s (%s)", leadID, oldStage, newStage, triggerEvent)
	return true, nil
}

// HandleVideoProgress: >= 80%% conta como vídeo completo (direto, mesmo
// vindo de 'new'); 25–79%% só tira o lead de 'new'. O evento proporcional
// (1 ponto a cada 10%%) é registrado sempre, cruzando threshold ou não.
func (uc *FunnelStatusUseCase) HandleVideoProgress(ctx context.Context, leadID, page string, pct int) error {
	lead, err := uc.findLead(ctx, leadID)
	if err != nil {
		return err
	}

	if pct >= 80 {
		if _, err := uc.Transition(ctx, leadID, entity.StageVideoCompleted, fmt.Sprintf("video_completion_%s", page)); err != nil {
			return err
		}
	} else if pct >= 25 && lead.FunnelStage == entity.StageNew {
		if _, err := uc.Transition(ctx, leadID, entity.StageVideoStarted, fmt.Sprintf("video_start_%s", page)); err != nil {
			return err
		}
	}

	return uc.recordEvent(ctx, leadID, "video_progress", map[string]any{
		"video_page":            page,
		"completion_percentage": pct,
	}, pct/10)
}

func (uc *FunnelStatusUseCase) HandleAppointmentScheduled(ctx context.Context, leadID, appointmentID string) error {
	if _, err := uc.Transition(ctx, leadID, entity.StageAppointmentScheduled, "appointment_booked_"+appointmentID); err != nil {
		return err
	}
	return uc.recordEvent(ctx, leadID, "appointment_scheduled", map[string]any{
		"appointment_id": appointmentID,
	}, 50)
}

func (uc *FunnelStatusUseCase) HandleAppointmentAttended(ctx context.Context, leadID, appointmentID string) error {
	if _, err := uc.Transition(ctx, leadID, entity.StageAppointmentAttended, "appointment_attended_"+appointmentID); err != nil {
		return err
	}
	return uc.recordEvent(ctx, leadID, "appointment_attended", map[string]any{
		"appointment_id": appointmentID,
	}, 25)
}

func (uc *FunnelStatusUseCase) HandleInvoiceSent(ctx context.Context, leadID, invoiceID string) error {
	if _, err := uc.Transition(ctx, leadID, entity.StageInvoiceSent, "invoice_sent_"+invoiceID); err != nil {
		return err
	}
	return uc.recordEvent(ctx, leadID, "invoice_sent", map[string]any{
		"invoice_id": invoiceID,
	}, 10)
}

func (uc *FunnelStatusUseCase) HandlePaymentCompleted(ctx context.Context, leadID, invoiceID string, amountCents int64) error {
	if _, err := uc.Transition(ctx, leadID, entity.StagePaidCustomer, "payment_completed_"+invoiceID); err != nil {
		return err
	}
	return uc.recordEvent(ctx, leadID, "payment_completed", map[string]any{
		"invoice_id":   invoiceID,
		"amount_cents": amountCents,
	}, 100)
}

func (uc *FunnelStatusUseCase) LeadStatus(ctx context.Context, leadID string) (*LeadStatusOutput, error) {
	lead, err := uc.findLead(ctx, leadID)
	if err != nil {
		return nil, err
	}

	history, err := uc.History.ListByLead(ctx, leadID)
	if err != nil {
		return nil, &TechnicalError{Code: CodeDatabase, Message: err.Error()}
	}

	events, err := uc.Events.ListByLead(ctx, leadID)
	if err != nil {
		return nil, &TechnicalError{Code: CodeDatabase, Message: err.Error()}
	}

	return &LeadStatusOutput{Lead: lead, History: history, Events: events}, nil
}

// EngagementStats agrega o funil por estágio e calcula conversão entre
// estágios adjacentes. Leitura pura; o job diário só loga o resultado.
func (uc *FunnelStatusUseCase) EngagementStats(ctx context.Context) (*EngagementStatsOutput, error) {
	stats, err := uc.Leads.StageStats(ctx)
	if err != nil {
		return nil, &TechnicalError{Code: CodeDatabase, Message: err.Error()}
	}

	counts := make(map[entity.FunnelStage]int)
	total := 0
	for _, s := range stats {
		counts[s.Stage] = s.Count
		total += s.Count
	}

	order := []entity.FunnelStage{
		entity.StageNew,
		entity.StageVideoStarted,
		entity.StageVideoCompleted,
		entity.StageAppointmentScheduled,
		entity.StageAppointmentAttended,
		entity.StageInvoiceSent,
		entity.StagePaidCustomer,
	}

	rates := make(map[string]float64)
	for i := 1; i < len(order); i++ {
		prev, curr := order[i-1], order[i]
		key := fmt.Sprintf("%s_to_%s", prev, curr)
		if counts[prev] > 0 {
			rates[key] = float64(counts[curr]) / float64(counts[prev]) * 100
		} else {
			rates[key] = 0
		}
	}

	return &EngagementStatsOutput{
		ByStage:         stats,
		TotalLeads:      total,
		ConversionRates: rates,
	}, nil
}

func (uc *FunnelStatusUseCase) findLead(ctx context.Context, leadID string) (*entity.Lead, error) {
	lead, err := uc.Leads.FindByID(ctx, leadID)
	if err != nil {
		return nil, &TechnicalError{
			Code:    CodeDatabase,
			Message: "falha ao buscar lead: " + err.Error(),
		}
	}
	if lead == nil {
		return nil, &DomainError{
			Code:    CodeLeadNotFound,
			Message: "lead não encontrado: " + leadID,
		}
	}
	return lead, nil
}

func (uc *FunnelStatusUseCase) recordEvent(ctx context.Context, leadID, eventType string, data map[string]any, score int) error {
	if score < 0 {
		score = 0 // score nunca desce
	}

	if err := uc.Events.Record(ctx, &entity.EngagementEvent{
		ID:         uuid.New().String(),
		LeadID:     leadID,
		EventType:  eventType,
		EventData:  data,
		ScoreValue: score,
	}); err != nil {
		return &TechnicalError{
			Code:    CodeDatabase,
			Message: "falha ao gravar evento: " + err.Error(),
		}
	}

	if score > 0 {
		if err := uc.Leads.AddScore(ctx, leadID, score); err != nil {
			return &TechnicalError{
				Code:    CodeDatabase,
				Message: "falha ao somar score: " + err.Error(),
			}
		}
	}

	return nil
}
