package worker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/navipath/navigation-platform/internal/cache"
	"github.com/navipath/navigation-platform/internal/db"
	"github.com/navipath/navigation-platform/internal/kafka"
	"github.com/navipath/navigation-platform/internal/logger"
	"github.com/navipath/navigation-platform/internal/outbox"
	"github.com/navipath/navigation-platform/internal/repository"
	"github.com/navipath/navigation-platform/internal/reward"
	"github.com/navipath/navigation-platform/internal/worker"
	"github.com/spf13/cobra"
)

var rewardCmd = &cobra.Command{
	Use:   "reward",
	Short: "Run the reward worker (consumes journey-created)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		if cfg.Rewards.DailyGoalThresholdKm <= 0 {
			return fmt.Errorf("invalid daily goal threshold: %f", cfg.Rewards.DailyGoalThresholdKm)
		}

		dbx, err := newMySQL(cfg)
		if err != nil {
			return err
		}
		defer dbx.Close()

		rdb, err := db.NewRedisClient(db.RedisOpts{
			Addr:        cfg.Redis.Addr,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			DialTimeout: cfg.Redis.DialTimeout,
		})
		if err != nil {
			return fmt.Errorf("redis connect: %w", err)
		}
		defer func() { _ = rdb.Close() }()

		totals := cache.NewDailyTotals(rdb, cfg.Rewards.DailyTotalsTTL)
		achievementsRepo := repository.NewAchievementsRepository(dbx)
		ob := outbox.NewWriter(repository.NewOutboxRepository(dbx))

		acc := reward.NewAccumulator(dbx, totals, achievementsRepo, ob, logger.Log)
		acc.ThresholdKm = cfg.Rewards.DailyGoalThresholdKm

		disp := worker.NewDispatcher()
		disp.Register(kafka.TopicJourneyCreated, acc.HandleJourneyCreated)

		consumer := newConsumer(cfg, kafka.TopicJourneyCreated, "reward")
		loop := worker.NewLoop(consumer, disp, logger.Log)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log.Printf(">> reward worker started topic=%s threshold=%.1fkm",
			kafka.TopicJourneyCreated, acc.ThresholdKm)

		if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}
