package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/navipath/navigation-platform/internal/model"
	"github.com/navipath/navigation-platform/internal/repository"
	"github.com/navipath/navigation-platform/internal/service/users"
)

type createUserReq struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

func createUserHandler(svc *users.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req createUserReq
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad request"})
		}

		req.Email = strings.TrimSpace(req.Email)
		if req.Email == "" || !strings.Contains(req.Email, "@") {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid email"})
		}
		if req.Role == "" {
			req.Role = "member"
		}

		id, err := svc.Create(c.Request().Context(), req.Email, req.Role)
		if err != nil {
			log.Errorf("create user failed: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
		}

		return c.JSON(http.StatusCreated, map[string]string{"id": id})
	}
}

type changeStatusReq struct {
	Status      string `json:"status"`
	Reason      string `json:"reason"`
	AdminUserID string `json:"adminUserId"`
}

func changeUserStatusHandler(svc *users.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req changeStatusReq
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad request"})
		}

		status, ok := model.ParseUserStatus(req.Status)
		if !ok {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid status"})
		}

		err := svc.ChangeStatus(c.Request().Context(), c.Param("id"), status, req.Reason, req.AdminUserID)
		if err != nil {
			if errors.Is(err, users.ErrUserNotFound) {
				return c.JSON(http.StatusNotFound, map[string]string{"error": "not found"})
			}

			log.Errorf("change user status failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
		}

		return c.JSON(http.StatusOK, map[string]string{"status": status.String()})
	}
}

func listAchievementsHandler(repo repository.AchievementsRepository) echo.HandlerFunc {
	return func(c echo.Context) error {
		rows, err := repo.ListByUser(c.Request().Context(), c.Param("id"))
		if err != nil {
			log.Errorf("list achievements failed: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
		}

		return c.JSON(http.StatusOK, map[string]any{
			"count":   len(rows),
			"results": rows,
		})
	}
}
