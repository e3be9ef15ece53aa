package worker

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/navipath/navigation-platform/internal/config"
	"github.com/navipath/navigation-platform/internal/db"
	"github.com/navipath/navigation-platform/internal/kafka"
	"github.com/navipath/navigation-platform/internal/logger"
	"github.com/navipath/navigation-platform/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// loadConfig reads the --config flag from the root command and initializes
// logging and metrics.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfgPath, _ := cmd.Root().PersistentFlags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}

	logger.Init(cfg.LogLevel)
	metrics.MustRegister(prometheus.DefaultRegisterer)

	return cfg, nil
}

func newMySQL(cfg config.Config) (*sqlx.DB, error) {
	dbx, err := db.NewMySQLConnection(cfg.MySQL.DSN, db.MySQLOpts{
		MaxOpenConns:    cfg.MySQL.MaxOpenConns,
		MaxIdleConns:    cfg.MySQL.MaxIdleConns,
		ConnMaxLifetime: cfg.MySQL.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.MySQL.ConnMaxIdleTime,
		PingTimeout:     cfg.MySQL.PingTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("mysql connect: %w", err)
	}
	return dbx, nil
}

// newConsumer builds a consumer for one topic. The group id is suffixed per
// worker so each service keeps its own offsets.
func newConsumer(cfg config.Config, topic, groupSuffix string) *kafka.Consumer {
	groupID := cfg.Kafka.GroupID
	if groupID == "" {
		groupID = "navp"
	}
	groupID = groupID + "-" + groupSuffix

	return kafka.NewConsumerFromConfig(kafka.ConsumerConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: cfg.Kafka.MinBytes,
		MaxBytes: cfg.Kafka.MaxBytes,
		MaxWait:  cfg.Kafka.MaxWait,
	})
}
