package worker

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/navipath/navigation-platform/internal/kafka"
	"github.com/navipath/navigation-platform/internal/logger"
	"github.com/navipath/navigation-platform/internal/repository"
	"github.com/navipath/navigation-platform/internal/service/profiles"
	"github.com/navipath/navigation-platform/internal/worker"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var userSyncCmd = &cobra.Command{
	Use:   "usersync",
	Short: "Run the profile sync worker (consumes user events)",
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

		svc := profiles.New(repository.NewProfilesRepository(dbx), logger.Log)

		disp := worker.NewDispatcher()
		disp.Register(kafka.TopicUserCreated, svc.HandleUserCreated)
		disp.Register(kafka.TopicUserStatusChanged, svc.HandleUserStatusChanged)

		// one loop per inbound topic, same dispatcher
		createdLoop := worker.NewLoop(newConsumer(cfg, kafka.TopicUserCreated, "usersync"), disp, logger.Log)
		statusLoop := worker.NewLoop(newConsumer(cfg, kafka.TopicUserStatusChanged, "usersync"), disp, logger.Log)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log.Printf(">> usersync worker started topics=%s,%s",
			kafka.TopicUserCreated, kafka.TopicUserStatusChanged)

		var wg sync.WaitGroup
		for _, l := range []*worker.Loop{createdLoop, statusLoop} {
			wg.Add(1)
			go func(l *worker.Loop) {
				defer wg.Done()
				if err := l.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Log.Error("consumer loop exited", zap.Error(err))
				}
			}(l)
		}
		wg.Wait()

		return nil
	},
}
