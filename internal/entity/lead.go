package entity

import (
	"context"
	"time"
)

// FunnelStage é a posição do lead no funil. Ordem estrita, sem voltar.
type FunnelStage string

const (
	StageNew                  FunnelStage = "new"
	StageVideoStarted         FunnelStage = "video_started"
	StageVideoCompleted       FunnelStage = "video_completed"
	StageAppointmentScheduled FunnelStage = "appointment_scheduled"
	StageAppointmentAttended  FunnelStage = "appointment_attended"
	StageInvoiceSent          FunnelStage = "invoice_sent"
	StagePaidCustomer         FunnelStage = "paid_customer"
)

// Rank dá a posição na ordem do funil (0 = new). -1 para estágio desconhecido.
func (s FunnelStage) Rank() int {
	switch s {
	case StageNew:
		return 0
	case StageVideoStarted:
		return 1
	case StageVideoCompleted:
		return 2
	case StageAppointmentScheduled:
		return 3
	case StageAppointmentAttended:
		return 4
	case StageInvoiceSent:
		return 5
	case StagePaidCustomer:
		return 6
	}
	return -1
}

func (s FunnelStage) Valid() bool {
	return s.Rank() >= 0
}

// Score é o incremento de engajamento somado quando o lead ENTRA no estágio.
// É delta acumulativo, não valor absoluto (decisão herdada e intencional:
// o score de estágio soma com o score do evento que disparou a transição).
func (s FunnelStage) Score() int {
	switch s {
	case StageNew:
		return 0
	case StageVideoStarted:
		return 10
	case StageVideoCompleted:
		return 25
	case StageAppointmentScheduled:
		return 50
	case StageAppointmentAttended:
		return 75
	case StageInvoiceSent:
		return 85
	case StagePaidCustomer:
		return 100
	}
	return 0
}

type Lead struct {
	ID              string      `json:"id"`
	Email           string      `json:"email"`
	Name            string      `json:"name,omitempty"`
	FunnelStage     FunnelStage `json:"funnel_stage"`
	EngagementScore int         `json:"engagement_score"`
	LastActivityAt  time.Time   `json:"last_activity_at"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

type LeadRepositoryInterface interface {

	// Upsert cria o lead no primeiro contato ou enriquece o existente (email
	// é a chave de negócio). Preenche ID/stage/score de volta na struct.
	Upsert(ctx context.Context, lead *Lead) error

	FindByID(ctx context.Context, id string) (*Lead, error)
	FindByEmail(ctx context.Context, email string) (*Lead, error)

	// UpdateStage grava o novo estágio e atualiza last_activity.
	UpdateStage(ctx context.Context, id string, stage FunnelStage) error

	// AddScore incrementa engagement_score (nunca decrementa) e atualiza
	// last_activity.
	AddScore(ctx context.Context, id string, delta int) error

	StageStats(ctx context.Context) ([]StageStat, error)
}

// StageStat agrega leads por estágio (job diário de estatísticas).
type StageStat struct {
	Stage    FunnelStage `json:"funnel_stage"`
	Count    int         `json:"count"`
	AvgScore float64     `json:"avg_score"`
	MaxScore int         `json:"max_score"`
}
