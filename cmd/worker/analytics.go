package worker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/navipath/navigation-platform/internal/db"
	"github.com/navipath/navigation-platform/internal/kafka"
	"github.com/navipath/navigation-platform/internal/logger"
	"github.com/navipath/navigation-platform/internal/repository"
	"github.com/navipath/navigation-platform/internal/service/reports"
	"github.com/navipath/navigation-platform/internal/worker"
	"github.com/spf13/cobra"
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Run the analytics archiver (journey-created into ClickHouse)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		chDB, err := db.NewClickHouseConnection(db.ClickHouseOpts{
			DSN:             cfg.ClickHouse.DSN,
			MaxOpenConns:    cfg.ClickHouse.MaxOpenConns,
			MaxIdleConns:    cfg.ClickHouse.MaxIdleConns,
			ConnMaxLifetime: cfg.ClickHouse.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.ClickHouse.ConnMaxIdleTime,
			PingTimeout:     cfg.ClickHouse.PingTimeout,
		})
		if err != nil {
			return fmt.Errorf("clickhouse connect: %w", err)
		}
		defer func() { _ = chDB.Close() }()

		svc := reports.New(repository.NewAnalyticsRepository(chDB), logger.Log)

		disp := worker.NewDispatcher()
		disp.Register(kafka.TopicJourneyCreated, svc.HandleJourneyCreated)

		// separate group id: the reward worker reads the same topic
		consumer := newConsumer(cfg, kafka.TopicJourneyCreated, "analytics")
		loop := worker.NewLoop(consumer, disp, logger.Log)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log.Printf(">> analytics worker started topic=%s", kafka.TopicJourneyCreated)

		if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}
