package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/navipath/navigation-platform/internal/service/journeys"
)

type createJourneyReq struct {
	UserID     string  `json:"userId"`
	StartTime  string  `json:"startTime"` // RFC 3339
	EndTime    string  `json:"endTime"`   // optional
	DistanceKm float64 `json:"distanceKm"`
}

func createJourneyHandler(svc *journeys.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req createJourneyReq
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad request"})
		}

		req.UserID = strings.TrimSpace(req.UserID)
		if req.UserID == "" {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "userId required"})
		}

		start, err := time.Parse(time.RFC3339, req.StartTime)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid startTime"})
		}

		var end *time.Time
		if strings.TrimSpace(req.EndTime) != "" {
			t, err := time.Parse(time.RFC3339, req.EndTime)
			if err != nil {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid endTime"})
			}
			end = &t
		}

		// journey row + outbox event in one TX
		id, err := svc.Create(c.Request().Context(), req.UserID, start, end, req.DistanceKm)
		if err != nil {
			if errors.Is(err, journeys.ErrInvalidDistance) {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "distanceKm must be positive"})
			}

			log.Errorf("create journey failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
		}

		return c.JSON(http.StatusCreated, map[string]any{
			"id":     id,
			"userId": req.UserID,
		})
	}
}

func getJourneyHandler(svc *journeys.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		j, err := svc.Get(c.Request().Context(), c.Param("id"))
		if err != nil {
			log.Errorf("get journey failed: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
		}
		if j == nil {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "not found"})
		}
		return c.JSON(http.StatusOK, j)
	}
}
