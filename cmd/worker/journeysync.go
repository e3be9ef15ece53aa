package worker

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/navipath/navigation-platform/internal/kafka"
	"github.com/navipath/navigation-platform/internal/logger"
	"github.com/navipath/navigation-platform/internal/outbox"
	"github.com/navipath/navigation-platform/internal/repository"
	"github.com/navipath/navigation-platform/internal/service/journeys"
	"github.com/navipath/navigation-platform/internal/worker"
	"github.com/spf13/cobra"
)

var journeySyncCmd = &cobra.Command{
	Use:   "journeysync",
	Short: "Run the journey-side worker (consumes daily-goal-achieved)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		dbx, err := newMySQL(cfg)
		if err != nil {
			return err
		}
		defer dbx.Close()

		ob := outbox.NewWriter(repository.NewOutboxRepository(dbx))
		svc := journeys.New(dbx, repository.NewJourneysRepository(dbx), ob, logger.Log)

		disp := worker.NewDispatcher()
		disp.Register(kafka.TopicDailyGoalAchieved, svc.HandleDailyGoalAchieved)

		consumer := newConsumer(cfg, kafka.TopicDailyGoalAchieved, "journeys")
		loop := worker.NewLoop(consumer, disp, logger.Log)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log.Printf(">> journeysync worker started topic=%s", kafka.TopicDailyGoalAchieved)

		if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}
