package worker

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/annaraight/funnel-core/internal/usecase"
)

// CronManager agenda os jobs recorrentes que não são o tick de reminders.
// Hoje é só o relatório diário do funil.
type CronManager struct {
	cron   *cron.Cron
	funnel *usecase.FunnelStatusUseCase
}

func NewCronManager(funnel *usecase.FunnelStatusUseCase) *CronManager {
	return &CronManager{
		cron:   cron.New(),
		funnel: funnel,
	}
}

// SetupJobs registra os jobs. Chamar antes de Start.
func (cm *CronManager) SetupJobs() error {
	// Todo dia às 6h: snapshot do funil no log (contagem por estágio +
	// taxas de conversão entre estágios adjacentes)
	_, err := cm.cron.AddFunc("0 6 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		stats, err := cm.funnel.EngagementStats(ctx)
		if err != nil {
			log.Printf("❌ [CRON] Falha ao calcular stats do funil: %v", err)
			return
		}

		log.Printf("📊 [CRON] Funil: %d leads no total", stats.TotalLeads)
		for _, s := range stats.ByStage {
			log.Printf("📊 [CRON] %-22s count=%d avg_score=%.1f max_score=%d", s.Stage, s.Count, s.AvgScore, s.MaxScore)
		}
		for k, v := range stats.ConversionRates {
			log.Printf("📊 [CRON] conversão %s = %.1f%%", k, v)
		}
	})
	return err
}

func (cm *CronManager) Start() {
	log.Println("🕐 Cron jobs iniciados")
	cm.cron.Start()
}

func (cm *CronManager) Stop() {
	cm.cron.Stop()
}
