package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/annaraight/funnel-core/internal/infra/database"
	"github.com/annaraight/funnel-core/internal/infra/http/handlers"
	funnelmw "github.com/annaraight/funnel-core/internal/infra/http/middleware"
	"github.com/annaraight/funnel-core/internal/infra/mail"
	"github.com/annaraight/funnel-core/internal/infra/queue"
	"github.com/annaraight/funnel-core/internal/infra/worker"
	"github.com/annaraight/funnel-core/internal/usecase"
)

func main() {
	godotenv.Load()

	db, err := database.NewDBConnection(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatal(err)
	}

	rabbitMQ, err := queue.NewRabbitMQ(
		envOr("RABBITMQ_USER", "user"),
		envOr("RABBITMQ_PASS", "password"),
		envOr("RABBITMQ_HOST", "localhost"),
		envOr("RABBITMQ_PORT", "5672"),
	)
	if err != nil {
		panic(err)
	}
	defer rabbitMQ.Close()

	// 1. Repositórios
	leadRepo := database.NewLeadRepository(db)
	reminderRepo := database.NewReminderRepository(db)
	historyRepo := database.NewStatusHistoryRepository(db)
	eventRepo := database.NewEngagementEventRepository(db)

	// 2. Capabilities de envio (SMTP)
	mailPort, _ := strconv.Atoi(envOr("MAIL_PORT", "587"))
	mailSender := mail.NewEmailSender(
		os.Getenv("MAIL_HOST"), mailPort, os.Getenv("MAIL_USER"), os.Getenv("MAIL_PASS"),
		os.Getenv("MAIL_FROM"),
	)
	capabilities := mail.Capabilities(mailSender)

	// 3. UseCases
	chainContent := os.Getenv("CHAIN_CONTENT_EMAIL") == "true"
	processUC := usecase.NewProcessRemindersUseCase(reminderRepo, capabilities, chainContent)
	enrollUC := usecase.NewEnrollReminderUseCase(reminderRepo)
	cancelUC := usecase.NewCancelChainUseCase(reminderRepo)
	funnelUC := usecase.NewFunnelStatusUseCase(leadRepo, historyRepo, eventRepo)

	// 4. Worker de eventos (consome a fila e aplica no funil)
	producer := queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)
	eventWorker := queue.NewWorker(rabbitMQ.Ch, funnelUC)
	go eventWorker.Start(queue.QueueName)

	// 5. Relógio do scheduler
	tickMinutes, _ := strconv.Atoi(envOr("REMINDER_TICK_MINUTES", "10"))
	reminderWorker := worker.NewReminderWorker(processUC, time.Duration(tickMinutes)*time.Minute)
	go reminderWorker.Start(ctx)

	// 6. Job diário de stats
	cronManager := worker.NewCronManager(funnelUC)
	if err := cronManager.SetupJobs(); err != nil {
		log.Fatal(err)
	}
	cronManager.Start()
	defer cronManager.Stop()

	// 7. Handlers
	startHandler := handlers.NewFunnelStartHandler(leadRepo, enrollUC)
	eventHandler := handlers.NewEventHandler(producer, enrollUC, cancelUC)
	webhookHandler := handlers.NewWebhookHandler(leadRepo, producer)
	reminderHandler := handlers.NewReminderHandler(processUC, reminderRepo)
	leadHandler := handlers.NewLeadHandler(funnelUC)
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn)

	// 8. Router
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(funnelmw.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://annaraight.com", "*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	}))

	r.Post("/funnel/start", startHandler.Handle)
	r.Post("/events/video-progress", eventHandler.HandleVideoProgress)
	r.Post("/appointments/booked", eventHandler.HandleAppointmentBooked)
	r.Post("/appointments/attended", eventHandler.HandleAppointmentAttended)
	r.Post("/invoices/send", eventHandler.HandleInvoiceSent)
	r.Post("/webhook/payment", webhookHandler.Handle)
	r.Post("/reminders/process", reminderHandler.HandleProcess)
	r.Get("/reminders/status", reminderHandler.HandleStatus)
	r.Get("/leads/{leadId}/status", leadHandler.HandleGetStatus)
	r.Get("/funnel/stats", leadHandler.HandleGetStats)
	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	port := ":" + envOr("PORT", "8080")
	log.Printf("🔥 Funnel Core rodando na porta %s", port)
	http.ListenAndServe(port, r)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
