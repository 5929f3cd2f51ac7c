package entity

import (
	"context"
	"time"
)

// ReminderStatus é o ciclo de vida do reminder. Pending é o único estado
// vivo; sent, failed e cancelled são terminais e one-way.
type ReminderStatus string

const (
	ReminderPending   ReminderStatus = "pending"
	ReminderSent      ReminderStatus = "sent"
	ReminderFailed    ReminderStatus = "failed"
	ReminderCancelled ReminderStatus = "cancelled"
)

// ReminderType identifica o passo da cadeia de nutrição (ou o lembrete de
// call, que vive fora da cadeia).
type ReminderType string

const (
	TypeVideoReminder       ReminderType = "video_reminder"
	TypeCheckingIn          ReminderType = "checking_in"
	TypeDirectOffer         ReminderType = "direct_offer"
	TypeFinalReminder       ReminderType = "final_reminder"
	TypeTestimonial1        ReminderType = "testimonial_1"
	TypeTestimonial2        ReminderType = "testimonial_2"
	TypeTestimonial3        ReminderType = "testimonial_3"
	TypeContent1            ReminderType = "content_1"
	TypeAppointmentReminder ReminderType = "appointment_reminder"
)

// AppointmentReminderLead é quanto tempo ANTES da call o lembrete dispara.
const AppointmentReminderLead = 1 * time.Hour

func (t ReminderType) Valid() bool {
	switch t {
	case TypeVideoReminder, TypeCheckingIn, TypeDirectOffer, TypeFinalReminder,
		TypeTestimonial1, TypeTestimonial2, TypeTestimonial3, TypeContent1,
		TypeAppointmentReminder:
		return true
	}
	return false
}

// Successor devolve o próximo passo da cadeia linear. content_1 é o fim da
// cadeia e appointment_reminder nunca encadeia nada.
func (t ReminderType) Successor() (ReminderType, bool) {
	switch t {
	case TypeVideoReminder:
		return TypeCheckingIn, true
	case TypeCheckingIn:
		return TypeDirectOffer, true
	case TypeDirectOffer:
		return TypeFinalReminder, true
	case TypeFinalReminder:
		return TypeTestimonial1, true
	case TypeTestimonial1:
		return TypeTestimonial2, true
	case TypeTestimonial2:
		return TypeTestimonial3, true
	case TypeTestimonial3:
		return TypeContent1, true
	}
	return "", false
}

// Delay é o intervalo contado a partir do evento de origem (opt-in para o
// video_reminder, envio do passo anterior para o resto da cadeia).
func (t ReminderType) Delay() time.Duration {
	switch t {
	case TypeVideoReminder:
		return 3 * time.Hour
	case TypeCheckingIn:
		return 2 * 24 * time.Hour
	case TypeDirectOffer:
		return 3 * 24 * time.Hour
	case TypeFinalReminder:
		return 5 * 24 * time.Hour
	case TypeTestimonial1:
		return 7 * 24 * time.Hour
	case TypeTestimonial2:
		return 10 * 24 * time.Hour
	case TypeTestimonial3:
		return 14 * 24 * time.Hour
	case TypeContent1:
		return 21 * 24 * time.Hour
	case TypeAppointmentReminder:
		return AppointmentReminderLead
	}
	return 0
}

// Payload é o que o template do email precisa. No appointment_reminder o
// campo VideoURL carrega o horário da call em RFC3339.
type Payload struct {
	FirstName string `json:"first_name"`
	VideoURL  string `json:"video_url"`
}

type Reminder struct {
	ID           string         `json:"id"`
	Recipient    string         `json:"recipient"`
	Type         ReminderType   `json:"reminder_type"`
	Payload      Payload        `json:"payload"`
	ScheduledFor time.Time      `json:"scheduled_for"`
	Status       ReminderStatus `json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
	SentAt       *time.Time     `json:"sent_at,omitempty"`
	ErrorMessage *string        `json:"error_message,omitempty"`
}

type ReminderRepositoryInterface interface {
	// Enqueue insere o reminder se não houver outro pendente para o mesmo
	// (recipient, type). Retorna false quando a dedup absorveu o insert.
	Enqueue(ctx context.Context, reminder *Reminder) (bool, error)
	FindDue(ctx context.Context, now time.Time, limit int) ([]Reminder, error)
	MarkSent(ctx context.Context, id string, at time.Time) error
	MarkFailed(ctx context.Context, id string, errorMessage string) error
	CancelPending(ctx context.Context, recipient string) (int64, error)
	CountByStatus(ctx context.Context) (map[ReminderStatus]int, error)
}
