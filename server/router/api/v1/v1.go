// Package v1 exposes the HTTP API surface of the chat service.
package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/neurosphere-lab/lumi/internal/profile"
	"github.com/neurosphere-lab/lumi/plugin/ai/agent"
	"github.com/neurosphere-lab/lumi/server/middleware"
	"github.com/neurosphere-lab/lumi/server/service/appointment"
	"github.com/neurosphere-lab/lumi/store"
)

type APIV1Service struct {
	Profile   *profile.Profile
	Store     *store.Store
	Agent     *agent.Agent
	Scheduler *appointment.Service

	rateLimiter *middleware.RateLimiter
}

// NewAPIV1Service creates the API surface. Agent may be nil when no model
// credentials are configured; chat turns then report the capability as
// unavailable while the rest of the API keeps working.
func NewAPIV1Service(profile *profile.Profile, store *store.Store, agent *agent.Agent, scheduler *appointment.Service) *APIV1Service {
	return &APIV1Service{
		Profile:     profile,
		Store:       store,
		Agent:       agent,
		Scheduler:   scheduler,
		rateLimiter: middleware.NewRateLimiter(),
	}
}

// Register mounts all routes on the given Echo instance.
func (s *APIV1Service) Register(e *echo.Echo) {
	e.GET("/healthz", s.HealthCheck)

	g := e.Group("/api/v1")
	g.GET("/user", s.GetUserID)
	g.POST("/users/:userID/chats", s.CreateChat)
	g.GET("/users/:userID/chats", s.ListChats)
	g.GET("/users/:userID/reservations", s.ListReservations)
	g.GET("/chats/:chatID/messages", s.ListChatMessages)
	g.POST("/users/:userID/chats/:chatID/messages", s.PostChatMessage, middleware.PerUserRateLimit(s.rateLimiter))
}

// HealthCheck reports process liveness.
// GET /healthz
func (s *APIV1Service) HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}
