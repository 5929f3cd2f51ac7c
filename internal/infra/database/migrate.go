package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
)

// EnsureSchema cria as tabelas do core se ainda não existirem. Roda no boot,
// antes de qualquer worker subir.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS leads (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			name TEXT,
			funnel_stage TEXT NOT NULL DEFAULT 'new',
			engagement_score INTEGER NOT NULL DEFAULT 0,
			last_activity TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS email_reminders (
			id UUID PRIMARY KEY,
			recipient TEXT NOT NULL,
			reminder_type TEXT NOT NULL,
			first_name TEXT NOT NULL DEFAULT '',
			video_url TEXT NOT NULL DEFAULT '',
			scheduled_for TIMESTAMPTZ NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			sent_at TIMESTAMPTZ,
			error_message TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_email_reminders_due
			ON email_reminders (scheduled_for, status)`,
		`CREATE INDEX IF NOT EXISTS idx_email_reminders_recipient
			ON email_reminders (recipient)`,
		`CREATE TABLE IF NOT EXISTS status_history (
			id UUID PRIMARY KEY,
			lead_id UUID NOT NULL REFERENCES leads(id),
			old_stage TEXT,
			new_stage TEXT NOT NULL,
			trigger_event TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS engagement_events (
			id UUID PRIMARY KEY,
			lead_id UUID NOT NULL REFERENCES leads(id),
			event_type TEXT NOT NULL,
			event_data TEXT,
			score_value INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("erro ao criar schema: %w", err)
		}
	}

	log.Println("✅ Schema do funil verificado")
	return nil
}
