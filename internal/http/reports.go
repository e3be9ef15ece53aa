package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/navipath/navigation-platform/internal/service/reports"
)

func monthlyDistancesHandler(svc *reports.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID := strings.TrimSpace(c.QueryParam("userId"))
		if userID == "" {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "userId required"})
		}

		year := time.Now().UTC().Year()
		if v := c.QueryParam("year"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 2000 && n <= 2100 {
				year = n
			}
		}

		rows, err := svc.MonthlyDistances(c.Request().Context(), userID, year)
		if err != nil {
			log.Errorf("clickhouse report failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "query failed"})
		}

		return c.JSON(http.StatusOK, map[string]any{
			"userId":  userID,
			"year":    year,
			"results": rows,
		})
	}
}
