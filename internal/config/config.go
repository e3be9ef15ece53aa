package config

import (
	"bytes"
	_ "embed"
	"time"

	"github.com/spf13/viper"
)

//go:embed defaults.yaml
var defaults []byte

// ---- Root ----

type Config struct {
	HTTP       HTTPConfig     `mapstructure:"http"`
	MySQL      DatabaseConfig `mapstructure:"mysql"`
	ClickHouse DatabaseConfig `mapstructure:"clickhouse"`
	Redis      RedisConfig    `mapstructure:"redis"`
	Kafka      KafkaConfig    `mapstructure:"kafka"`
	Outbox     OutboxConfig   `mapstructure:"outbox"`
	Rewards    RewardsConfig  `mapstructure:"rewards"`
	LogLevel   string         `mapstructure:"log_level"`
}

// ---- Leaf structs ----

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idletime"`
	PingTimeout     time.Duration `mapstructure:"ping_timeout"`
}

type RedisConfig struct {
	Addr        string        `mapstructure:"addr"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

type KafkaConfig struct {
	Brokers  []string            `mapstructure:"brokers"`
	GroupID  string              `mapstructure:"group_id"`
	MinBytes int                 `mapstructure:"min_bytes"`
	MaxBytes int                 `mapstructure:"max_bytes"`
	MaxWait  time.Duration       `mapstructure:"max_wait"`
	Producer KafkaProducerConfig `mapstructure:"producer"`
}

type KafkaProducerConfig struct {
	MaxAttempts  int           `mapstructure:"max_attempts"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type OutboxConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
	BatchSize    int           `mapstructure:"batch_size"`
}

type RewardsConfig struct {
	DailyGoalThresholdKm float64       `mapstructure:"daily_goal_threshold_km"`
	DailyTotalsTTL       time.Duration `mapstructure:"daily_totals_ttl"`
}

// Load reads embedded defaults, merges user YAML (if provided), and applies env overrides (NAVP_*).
func Load(path string) (Config, error) {
	v := viper.New()

	// embedded defaults
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return Config{}, err
	}

	if path != "" {
		v.SetConfigFile(path)
		_ = v.MergeInConfig()
	}

	// env override (NAVP_*)
	v.SetEnvPrefix("NAVP")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
