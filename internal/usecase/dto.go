package usecase

import (
	"time"

	"github.com/annaraight/funnel-core/internal/entity"
)

type ProcessOutput struct {
	Processed int `json:"processed"`
	Sent      int `json:"sent"`
	Failed    int `json:"failed"`

	// Requeued = email saiu mas o MarkSent falhou; o reminder continua
	// pending e volta no próximo tick.
	Requeued int `json:"requeued"`
}

type EnrollVideoReminderInput struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	VideoURL  string `json:"video_url"`
}

type EnrollAppointmentReminderInput struct {
	Email         string    `json:"email"`
	FirstName     string    `json:"first_name"`
	AppointmentAt time.Time `json:"appointment_at"`
}

type EnrollOutput struct {
	ReminderID   string    `json:"reminder_id,omitempty"`
	Created      bool      `json:"created"`
	ScheduledFor time.Time `json:"scheduled_for"`
	Msg          string    `json:"msg"`
}

type LeadStatusOutput struct {
	Lead    *entity.Lead             `json:"lead"`
	History []entity.StatusHistory   `json:"history"`
	Events  []entity.EngagementEvent `json:"events"`
}

type EngagementStatsOutput struct {
	ByStage         []entity.StageStat `json:"by_stage"`
	TotalLeads      int                `json:"total_leads"`
	ConversionRates map[string]float64 `json:"conversion_rates"`
}
