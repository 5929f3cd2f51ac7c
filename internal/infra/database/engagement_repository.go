package database

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/annaraight/funnel-core/internal/entity"
)

type EngagementEventRepository struct {
	DB *sql.DB
}

func NewEngagementEventRepository(db *sql.DB) *EngagementEventRepository {
	return &EngagementEventRepository{DB: db}
}

func (r *EngagementEventRepository) Record(ctx context.Context, e *entity.EngagementEvent) error {
	query := `
		INSERT INTO engagement_events (id, lead_id, event_type, event_data, score_value)
		VALUES ($1, $2, $3, $4, $5)
	`

	var eventData *string
	if e.EventData != nil {
		b, err := json.Marshal(e.EventData)
		if err != nil {
			return err
		}
		s := string(b)
		eventData = &s
	}

	_, err := r.DB.ExecContext(ctx, query, e.ID, e.LeadID, e.EventType, eventData, e.ScoreValue)
	return err
}

func (r *EngagementEventRepository) ListByLead(ctx context.Context, leadID string) ([]entity.EngagementEvent, error) {
	query := `
		SELECT id, lead_id, event_type, event_data, score_value, created_at
		FROM engagement_events
		WHERE lead_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.DB.QueryContext(ctx, query, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []entity.EngagementEvent
	for rows.Next() {
		var e entity.EngagementEvent
		var eventData sql.NullString

		if err := rows.Scan(&e.ID, &e.LeadID, &e.EventType, &eventData, &e.ScoreValue, &e.CreatedAt); err != nil {
			return nil, err
		}

		if eventData.Valid && eventData.String != "" {
			// event_data é opaco; se não parsear, segue sem ele
			_ = json.Unmarshal([]byte(eventData.String), &e.EventData)
		}

		events = append(events, e)
	}

	return events, rows.Err()
}
