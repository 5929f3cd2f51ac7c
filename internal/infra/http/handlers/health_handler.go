package handlers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// HealthHandler expõe o estado das dependências (Postgres, RabbitMQ, SMTP)
// e o backlog de reminders vencidos, que é o sinal mais cedo de que o
// scheduler parou de andar.
type HealthHandler struct {
	DB        *sql.DB
	RabbitMQ  *amqp091.Connection
	StartTime time.Time
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
	OverdueTasks int               `json:"overdue_tasks"`
}

func NewHealthHandler(db *sql.DB, rabbitMQ *amqp091.Connection) *HealthHandler {
	return &HealthHandler{
		DB:        db,
		RabbitMQ:  rabbitMQ,
		StartTime: time.Now(),
	}
}

func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	deps := map[string]string{
		"database": h.checkDatabase(),
		"rabbitmq": h.checkRabbitMQ(),
		"smtp":     h.checkSMTP(),
	}

	status := "healthy"
	for _, v := range deps {
		if v != "healthy" && v != "configured" && v != "not configured" {
			status = "degraded"
			break
		}
	}

	response := HealthResponse{
		Status:       status,
		Version:      "1.0.0",
		Uptime:       time.Since(h.StartTime).Round(time.Second).String(),
		Dependencies: deps,
		OverdueTasks: h.countOverdue(r),
	}

	w.Header().Set("Content-Type", "application/json")
	if status == "degraded" {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	json.NewEncoder(w).Encode(response)
}

func (h *HealthHandler) checkDatabase() string {
	if h.DB == nil {
		return "not configured"
	}
	if err := h.DB.Ping(); err != nil {
		return fmt.Sprintf("unhealthy: %v", err)
	}
	return "healthy"
}

func (h *HealthHandler) checkRabbitMQ() string {
	if h.RabbitMQ == nil {
		return "not configured"
	}
	if h.RabbitMQ.IsClosed() {
		return "unhealthy: connection closed"
	}
	return "healthy"
}

// SMTP não tem ping barato; presença de config já conta como ok.
func (h *HealthHandler) checkSMTP() string {
	if os.Getenv("MAIL_HOST") != "" {
		return "configured"
	}
	return "not configured"
}

// countOverdue conta pendentes já vencidos há mais de um tick. Alguns logo
// após o vencimento é normal; crescendo sem parar é scheduler travado.
func (h *HealthHandler) countOverdue(r *http.Request) int {
	if h.DB == nil {
		return 0
	}

	var count int
	query := `SELECT COUNT(*) FROM email_reminders WHERE status = 'pending' AND scheduled_for < NOW() - INTERVAL '15 minutes'`
	if err := h.DB.QueryRowContext(r.Context(), query).Scan(&count); err != nil {
		return -1
	}
	return count
}
