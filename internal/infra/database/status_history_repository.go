package database

import (
	"context"
	"database/sql"

	"github.com/annaraight/funnel-core/internal/entity"
)

type StatusHistoryRepository struct {
	DB *sql.DB
}

func NewStatusHistoryRepository(db *sql.DB) *StatusHistoryRepository {
	return &StatusHistoryRepository{DB: db}
}

func (r *StatusHistoryRepository) Record(ctx context.Context, h *entity.StatusHistory) error {
	query := `
		INSERT INTO status_history (id, lead_id, old_stage, new_stage, trigger_event)
		VALUES ($1, $2, $3, $4, $5)
	`

	var oldStage *string
	if h.OldStage != nil {
		s := string(*h.OldStage)
		oldStage = &s
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		h.ID,
		h.LeadID,
		oldStage,
		string(h.NewStage),
		nullString(h.TriggerEvent),
	)
	return err
}

func (r *StatusHistoryRepository) ListByLead(ctx context.Context, leadID string) ([]entity.StatusHistory, error) {
	query := `
		SELECT id, lead_id, old_stage, new_stage, COALESCE(trigger_event, ''), created_at
		FROM status_history
		WHERE lead_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.DB.QueryContext(ctx, query, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []entity.StatusHistory
	for rows.Next() {
		var h entity.StatusHistory
		var oldStage sql.NullString
		var newStage string

		if err := rows.Scan(&h.ID, &h.LeadID, &oldStage, &newStage, &h.TriggerEvent, &h.CreatedAt); err != nil {
			return nil, err
		}

		if oldStage.Valid {
			s := entity.FunnelStage(oldStage.String)
			h.OldStage = &s
		}
		h.NewStage = entity.FunnelStage(newStage)

		entries = append(entries, h)
	}

	return entries, rows.Err()
}
