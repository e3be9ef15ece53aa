package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/navipath/navigation-platform/internal/config"
	"github.com/navipath/navigation-platform/internal/db"
	"github.com/navipath/navigation-platform/internal/kafka"
	"github.com/navipath/navigation-platform/internal/logger"
	"github.com/navipath/navigation-platform/internal/metrics"
	"github.com/navipath/navigation-platform/internal/outbox"
	"github.com/navipath/navigation-platform/internal/repository"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Run the outbox relay (one instance per service)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		logger.Init(cfg.LogLevel)
		metrics.MustRegister(prometheus.DefaultRegisterer)

		dbx, err := db.NewMySQLConnection(cfg.MySQL.DSN, db.MySQLOpts{
			MaxOpenConns:    cfg.MySQL.MaxOpenConns,
			MaxIdleConns:    cfg.MySQL.MaxIdleConns,
			ConnMaxLifetime: cfg.MySQL.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.MySQL.ConnMaxIdleTime,
			PingTimeout:     cfg.MySQL.PingTimeout,
		})
		if err != nil {
			return fmt.Errorf("mysql connect: %w", err)
		}
		defer dbx.Close()

		producer := kafka.NewProducerFromConfig(kafka.ProducerConfig{
			Brokers:      cfg.Kafka.Brokers,
			MaxAttempts:  cfg.Kafka.Producer.MaxAttempts,
			WriteTimeout: cfg.Kafka.Producer.WriteTimeout,
		})
		defer producer.Close()

		relay := outbox.NewRelay(repository.NewOutboxRepository(dbx), producer, logger.Log)
		if cfg.Outbox.PollInterval > 0 {
			relay.PollInterval = cfg.Outbox.PollInterval
		}
		if cfg.Outbox.BatchSize > 0 {
			relay.BatchSize = cfg.Outbox.BatchSize
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log.Printf(">> relay started interval=%s batch=%d", relay.PollInterval, relay.BatchSize)

		if err := relay.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}
