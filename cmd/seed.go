package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/navipath/navigation-platform/internal/config"
	"github.com/navipath/navigation-platform/internal/db"
	"github.com/navipath/navigation-platform/internal/model"
	"github.com/navipath/navigation-platform/internal/repository"
	"github.com/navipath/navigation-platform/internal/util"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with demo users and journeys",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		sqlDB, err := db.NewMySQLConnection(cfg.MySQL.DSN, db.MySQLOpts{
			MaxOpenConns:    cfg.MySQL.MaxOpenConns,
			MaxIdleConns:    cfg.MySQL.MaxIdleConns,
			ConnMaxLifetime: cfg.MySQL.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.MySQL.ConnMaxIdleTime,
			PingTimeout:     cfg.MySQL.PingTimeout,
		})
		if err != nil {
			return fmt.Errorf("mysql connect: %w", err)
		}
		defer sqlDB.Close()

		log.Println(">> Seeding demo users and journeys...")

		if err := seedDemoData(sqlDB); err != nil {
			return err
		}

		log.Println(">> Seed completed")
		return nil
	},
}

// seedDemoData inserts a couple of demo users with a few journeys each.
// Emails are deterministic; re-running replaces nothing and duplicate emails
// fail loudly, so use a clean schema.
func seedDemoData(dbx *sqlx.DB) error {
	ctx := context.Background()
	usersRepo := repository.NewUsersRepository(dbx)
	journeysRepo := repository.NewJourneysRepository(dbx)

	demo := []struct {
		email string
		role  string
		kms   []float64
	}{
		{"alice@example.com", "member", []float64{8, 7, 6}},
		{"bob@example.com", "member", []float64{3.5}},
		{"carol@example.com", "admin", nil},
	}

	for _, d := range demo {
		userID := util.New()
		if err := usersRepo.Insert(ctx, nil, model.User{
			ID:     userID,
			Email:  d.email,
			Status: model.UserStatusActive,
			Role:   d.role,
		}); err != nil {
			return fmt.Errorf("seed user %s: %w", d.email, err)
		}

		start := time.Now().UTC().Add(-2 * time.Hour)
		for i, km := range d.kms {
			end := start.Add(30 * time.Minute)
			if err := journeysRepo.Insert(ctx, nil, model.Journey{
				ID:         util.New(),
				UserID:     userID,
				StartTime:  start.Add(time.Duration(i) * 40 * time.Minute),
				EndTime:    &end,
				DistanceKm: km,
			}); err != nil {
				return fmt.Errorf("seed journey for %s: %w", d.email, err)
			}
		}
	}

	return nil
}
