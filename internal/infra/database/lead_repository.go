package database

import (
	"context"
	"database/sql"

	"github.com/annaraight/funnel-core/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

// Upsert cria o lead no primeiro contato; depois só enriquece o nome e toca
// updated_at. Email é a chave de negócio.
func (r *LeadRepository) Upsert(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (id, email, name, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (email)
		DO UPDATE SET
			name = COALESCE(EXCLUDED.name, leads.name),
			updated_at = NOW()
		RETURNING id, created_at, updated_at, funnel_stage, engagement_score, last_activity
	`

	var stage string
	err := r.DB.QueryRowContext(
		ctx,
		query,
		lead.ID,
		lead.Email,
		nullString(lead.Name),
	).Scan(
		&lead.ID,
		&lead.CreatedAt,
		&lead.UpdatedAt,
		&stage,
		&lead.EngagementScore,
		&lead.LastActivityAt,
	)
	if err != nil {
		return err
	}

	lead.FunnelStage = entity.FunnelStage(stage)
	return nil
}

// FindByID devolve (nil, nil) quando o lead não existe; o usecase decide o
// que fazer com isso.
func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	return r.findOne(ctx, `WHERE id = $1`, id)
}

func (r *LeadRepository) FindByEmail(ctx context.Context, email string) (*entity.Lead, error) {
	return r.findOne(ctx, `WHERE email = $1`, email)
}

func (r *LeadRepository) findOne(ctx context.Context, where string, arg any) (*entity.Lead, error) {
	query := `
		SELECT id, email, COALESCE(name, ''), funnel_stage, engagement_score, last_activity, created_at, updated_at
		FROM leads ` + where

	var lead entity.Lead
	var stage string
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&lead.ID,
		&lead.Email,
		&lead.Name,
		&stage,
		&lead.EngagementScore,
		&lead.LastActivityAt,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	lead.FunnelStage = entity.FunnelStage(stage)
	return &lead, nil
}

func (r *LeadRepository) UpdateStage(ctx context.Context, id string, stage entity.FunnelStage) error {
	query := `
		UPDATE leads
		SET funnel_stage = $2, last_activity = NOW(), updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.DB.ExecContext(ctx, query, id, string(stage))
	return err
}

// AddScore só anda para frente: delta negativo nunca chega aqui (invariante
// do usecase), e o SQL também não subtrai.
func (r *LeadRepository) AddScore(ctx context.Context, id string, delta int) error {
	query := `
		UPDATE leads
		SET engagement_score = engagement_score + $2, last_activity = NOW(), updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.DB.ExecContext(ctx, query, id, delta)
	return err
}

func (r *LeadRepository) StageStats(ctx context.Context) ([]entity.StageStat, error) {
	query := `
		SELECT funnel_stage, COUNT(*), AVG(engagement_score), MAX(engagement_score)
		FROM leads
		GROUP BY funnel_stage
	`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []entity.StageStat
	for rows.Next() {
		var s entity.StageStat
		var stage string
		if err := rows.Scan(&stage, &s.Count, &s.AvgScore, &s.MaxScore); err != nil {
			return nil, err
		}
		s.Stage = entity.FunnelStage(stage)
		stats = append(stats, s)
	}

	return stats, rows.Err()
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
