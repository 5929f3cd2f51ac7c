package entity

import (
	"context"
	"time"
)

// StatusHistory é append-only: toda transição de estágio vira uma linha.
type StatusHistory struct {
	ID           string       `json:"id"`
	LeadID       string       `json:"lead_id"`
	OldStage     *FunnelStage `json:"old_stage,omitempty"` // nil na primeira entrada
	NewStage     FunnelStage  `json:"new_stage"`
	TriggerEvent string       `json:"trigger_event,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}

type StatusHistoryRepositoryInterface interface {
	Record(ctx context.Context, h *StatusHistory) error
	ListByLead(ctx context.Context, leadID string) ([]StatusHistory, error)
}
