package v1

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/neurosphere-lab/lumi/store"
)

const (
	userCookieName   = "user_id"
	userCookieMaxAge = 7 * 24 * time.Hour
)

// GetUserIDResponse carries the caller's stable anonymous identity.
type GetUserIDResponse struct {
	UserID string `json:"user_id"`
}

// GetUserID returns the caller's user id, minting one when the cookie is
// absent. Known cookies are re-upserted so a wiped database heals itself.
// GET /api/v1/user
func (s *APIV1Service) GetUserID(c echo.Context) error {
	ctx := c.Request().Context()

	var userID string
	if cookie, err := c.Cookie(userCookieName); err == nil && cookie.Value != "" {
		userID = cookie.Value
	} else {
		userID = uuid.NewString()
		slog.Info("issuing new user id", "user_id", userID)
		c.SetCookie(&http.Cookie{
			Name:     userCookieName,
			Value:    userID,
			HttpOnly: true,
			Path:     "/",
			MaxAge:   int(userCookieMaxAge.Seconds()),
		})
	}

	if _, err := s.Store.UpsertUser(ctx, &store.User{ID: userID}); err != nil {
		slog.Error("failed to upsert user", "user_id", userID, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to process user id"})
	}
	return c.JSON(http.StatusOK, GetUserIDResponse{UserID: userID})
}
