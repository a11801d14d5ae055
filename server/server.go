// Package server wires the HTTP surface, the agent, and the background
// runners into one process.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/neurosphere-lab/lumi/internal/profile"
	"github.com/neurosphere-lab/lumi/plugin/ai"
	"github.com/neurosphere-lab/lumi/plugin/ai/agent"
	"github.com/neurosphere-lab/lumi/plugin/ai/rag"
	apiv1 "github.com/neurosphere-lab/lumi/server/router/api/v1"
	"github.com/neurosphere-lab/lumi/server/runner/embedding"
	"github.com/neurosphere-lab/lumi/server/service/appointment"
	"github.com/neurosphere-lab/lumi/store"
)

type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer      *echo.Echo
	embeddingRunner *embedding.Runner
}

// NewServer assembles the full service. When no model credentials are
// configured the chat agent and embedding runner stay disabled and only
// the plain data endpoints are served.
func NewServer(ctx context.Context, profile *profile.Profile, store *store.Store) (*Server, error) {
	s := &Server{
		Profile: profile,
		Store:   store,
	}

	echoServer := echo.New()
	echoServer.HideBanner = true
	echoServer.HidePort = true
	echoServer.Use(echomw.Recover())
	echoServer.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowCredentials: true,
	}))
	s.echoServer = echoServer

	scheduler := appointment.NewService(store)

	var chatAgent *agent.Agent
	if profile.IsAIEnabled() {
		provider, err := ai.NewProvider(&ai.Config{
			BaseURL:        profile.AIBaseURL,
			APIKey:         profile.AIAPIKey,
			ChatModel:      profile.AIChatModel,
			EmbeddingModel: profile.AIEmbeddingModel,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to create ai provider")
		}
		retriever := rag.NewRetriever(provider, store)
		answerer := rag.NewAnswerer(provider, retriever)
		extractor := appointment.NewIntentExtractor(provider)
		chatAgent = agent.New(provider, answerer, scheduler, extractor)
		s.embeddingRunner = embedding.NewRunner(store, provider, profile.AIEmbeddingModel)
		slog.Info("ai capabilities enabled", "chat_model", profile.AIChatModel, "embedding_model", profile.AIEmbeddingModel)
	} else {
		slog.Warn("no ai api key configured, chat agent disabled")
	}

	apiService := apiv1.NewAPIV1Service(profile, store, chatAgent, scheduler)
	apiService.Register(echoServer)

	if profile.Frontend != "" {
		echoServer.Static("/", profile.Frontend)
	}

	return s, nil
}

// Start serves HTTP and launches the background runners. It blocks until
// the listener fails or the context is cancelled via Shutdown.
func (s *Server) Start(ctx context.Context) error {
	if s.embeddingRunner != nil {
		go s.embeddingRunner.Run(ctx)
	}

	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	slog.Info("server started", "address", address, "mode", s.Profile.Mode, "version", s.Profile.Version)
	return s.echoServer.Start(address)
}

// Shutdown gracefully drains in-flight requests and closes the store.
func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}
	if err := s.Store.Close(); err != nil {
		slog.Error("failed to close store", "error", err)
	}
	slog.Info("server shutdown complete")
}
