package http

import (
	"context"
	"log"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	echoMid "github.com/labstack/echo/v4/middleware"
	"github.com/navipath/navigation-platform/internal/config"
	"github.com/navipath/navigation-platform/internal/logger"
	"github.com/navipath/navigation-platform/internal/metrics"
	"github.com/navipath/navigation-platform/internal/outbox"
	"github.com/navipath/navigation-platform/internal/repository"
	"github.com/navipath/navigation-platform/internal/service/journeys"
	"github.com/navipath/navigation-platform/internal/service/reports"
	"github.com/navipath/navigation-platform/internal/service/users"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct{ e *echo.Echo }

func NewServer(cfg config.Config, mysqlDB, clickhouseDB *sqlx.DB) *Server {
	// repos (MySQL)
	journeysRepo := repository.NewJourneysRepository(mysqlDB)
	usersRepo := repository.NewUsersRepository(mysqlDB)
	achievementsRepo := repository.NewAchievementsRepository(mysqlDB)
	outboxRepo := repository.NewOutboxRepository(mysqlDB)

	// repos (ClickHouse)
	analyticsRepo := repository.NewAnalyticsRepository(clickhouseDB)

	// services
	ob := outbox.NewWriter(outboxRepo)
	journeysSvc := journeys.New(mysqlDB, journeysRepo, ob, logger.Log)
	usersSvc := users.New(mysqlDB, usersRepo, ob)
	reportsSvc := reports.New(analyticsRepo, logger.Log)

	// echo
	e := echo.New()
	e.HideBanner = true
	e.Use(echoMid.Recover(), echoMid.Logger())

	metrics.MustRegister(prometheus.DefaultRegisterer)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// health
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	// routes
	v1 := e.Group("/v1")
	v1.POST("/journeys", createJourneyHandler(journeysSvc))
	v1.GET("/journeys/:id", getJourneyHandler(journeysSvc))
	v1.POST("/users", createUserHandler(usersSvc))
	v1.POST("/users/:id/status", changeUserStatusHandler(usersSvc))
	v1.GET("/users/:id/achievements", listAchievementsHandler(achievementsRepo))
	v1.GET("/reports/monthly-distances", monthlyDistancesHandler(reportsSvc))

	return &Server{e: e}
}

func (s *Server) Start(addr string) error {
	log.Printf("http: listening on %s", addr)
	return s.e.Start(addr)
}
func (s *Server) Shutdown(ctx context.Context) error { return s.e.Shutdown(ctx) }
