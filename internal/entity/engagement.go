package entity

import (
	"context"
	"time"
)

// EngagementEvent é append-only. ScoreValue é sempre >= 0; o score do lead
// só anda para frente.
type EngagementEvent struct {
	ID         string         `json:"id"`
	LeadID     string         `json:"lead_id"`
	EventType  string         `json:"event_type"`
	EventData  map[string]any `json:"event_data,omitempty"`
	ScoreValue int            `json:"score_value"`
	CreatedAt  time.Time      `json:"created_at"`
}

type EngagementEventRepositoryInterface interface {
	Record(ctx context.Context, e *EngagementEvent) error
	ListByLead(ctx context.Context, leadID string) ([]EngagementEvent, error)
}
