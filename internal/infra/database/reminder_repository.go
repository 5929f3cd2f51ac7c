package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/annaraight/funnel-core/internal/entity"
)

type ReminderRepository struct {
	DB *sql.DB
}

func NewReminderRepository(db *sql.DB) *ReminderRepository {
	return &ReminderRepository{DB: db}
}

// Enqueue insere o reminder pendente SE não existir outro pendente para o
// mesmo (recipient, reminder_type). O check e o insert são um statement só:
// é aqui que a dedup precisa ser atômica (dois ticks sobrepostos não podem
// duplicar a cadeia).
func (r *ReminderRepository) Enqueue(ctx context.Context, rem *entity.Reminder) (bool, error) {
	query := `
		INSERT INTO email_reminders (id, recipient, reminder_type, first_name, video_url, scheduled_for, status)
		SELECT $1, $2, $3, $4, $5, $6, 'pending'
		WHERE NOT EXISTS (
			SELECT 1 FROM email_reminders
			WHERE recipient = $2 AND reminder_type = $3 AND status = 'pending'
		)
	`

	result, err := r.DB.ExecContext(
		ctx,
		query,
		rem.ID,
		rem.Recipient,
		string(rem.Type),
		rem.Payload.FirstName,
		rem.Payload.VideoURL,
		rem.ScheduledFor.UTC(),
	)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

// FindDue busca pendentes vencidos, mais antigos primeiro, limitado para não
// estourar o tick.
func (r *ReminderRepository) FindDue(ctx context.Context, now time.Time, limit int) ([]entity.Reminder, error) {
	query := `
		SELECT id, recipient, reminder_type, first_name, video_url, scheduled_for, status, created_at, sent_at, error_message
		FROM email_reminders
		WHERE status = 'pending' AND scheduled_for <= $1
		ORDER BY scheduled_for ASC
		LIMIT $2
	`

	rows, err := r.DB.QueryContext(ctx, query, now.UTC(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reminders []entity.Reminder
	for rows.Next() {
		var rem entity.Reminder
		var remType, status string
		var sentAt sql.NullTime
		var errMsg sql.NullString

		if err := rows.Scan(
			&rem.ID,
			&rem.Recipient,
			&remType,
			&rem.Payload.FirstName,
			&rem.Payload.VideoURL,
			&rem.ScheduledFor,
			&status,
			&rem.CreatedAt,
			&sentAt,
			&errMsg,
		); err != nil {
			return nil, err
		}

		rem.Type = entity.ReminderType(remType)
		rem.Status = entity.ReminderStatus(status)
		if sentAt.Valid {
			t := sentAt.Time
			rem.SentAt = &t
		}
		if errMsg.Valid {
			m := errMsg.String
			rem.ErrorMessage = &m
		}

		reminders = append(reminders, rem)
	}

	return reminders, rows.Err()
}

// MarkSent é one-way: só sai de 'pending'. Re-entrega em cima de um reminder
// já terminal vira no-op silencioso.
func (r *ReminderRepository) MarkSent(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE email_reminders
		SET status = 'sent', sent_at = $2
		WHERE id = $1 AND status = 'pending'
	`
	_, err := r.DB.ExecContext(ctx, query, id, at.UTC())
	return err
}

func (r *ReminderRepository) MarkFailed(ctx context.Context, id string, errorMessage string) error {
	query := `
		UPDATE email_reminders
		SET status = 'failed', error_message = $2
		WHERE id = $1 AND status = 'pending'
	`
	_, err := r.DB.ExecContext(ctx, query, id, errorMessage)
	return err
}

// CancelPending marca todos os pendentes do recipient como cancelados
// (ex: lead agendou a call, a cadeia de emails não faz mais sentido).
func (r *ReminderRepository) CancelPending(ctx context.Context, recipient string) (int64, error) {
	query := `
		UPDATE email_reminders
		SET status = 'cancelled'
		WHERE recipient = $1 AND status = 'pending'
	`

	result, err := r.DB.ExecContext(ctx, query, recipient)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

func (r *ReminderRepository) CountByStatus(ctx context.Context) (map[entity.ReminderStatus]int, error) {
	query := `SELECT status, COUNT(*) FROM email_reminders GROUP BY status`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[entity.ReminderStatus]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[entity.ReminderStatus(status)] = count
	}

	return counts, rows.Err()
}
