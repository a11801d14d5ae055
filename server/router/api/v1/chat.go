package v1

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v4"

	chaterrors "github.com/neurosphere-lab/lumi/internal/errors"
	"github.com/neurosphere-lab/lumi/internal/observability"
	"github.com/neurosphere-lab/lumi/store"
)

type ChatResponse struct {
	ChatID string `json:"chat_id"`
}

type ListChatsResponse struct {
	Chats []ChatResponse `json:"chats"`
}

type MessageResponse struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type ListMessagesResponse struct {
	Messages []MessageResponse `json:"messages"`
}

type PostMessageRequest struct {
	Question string `json:"question"`
}

type PostMessageResponse struct {
	Response string `json:"response"`
}

// CreateChat creates a conversation for the user, or returns the existing
// one so each browser session maps to a single thread.
// POST /api/v1/users/:userID/chats
func (s *APIV1Service) CreateChat(c echo.Context) error {
	ctx := c.Request().Context()
	userID := c.Param("userID")

	existing, err := s.Store.GetChat(ctx, &store.FindChat{UserID: &userID})
	if err != nil {
		slog.Error("failed to look up chat", "user_id", userID, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to create chat"})
	}
	if existing != nil {
		return c.JSON(http.StatusOK, ChatResponse{ChatID: existing.ID})
	}

	chat, err := s.Store.CreateChat(ctx, &store.Chat{
		ID:     shortuuid.New(),
		UserID: userID,
	})
	if err != nil {
		slog.Error("failed to create chat", "user_id", userID, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to create chat"})
	}
	return c.JSON(http.StatusOK, ChatResponse{ChatID: chat.ID})
}

// ListChats returns the user's conversations.
// GET /api/v1/users/:userID/chats
func (s *APIV1Service) ListChats(c echo.Context) error {
	ctx := c.Request().Context()
	userID := c.Param("userID")

	chats, err := s.Store.ListChats(ctx, &store.FindChat{UserID: &userID})
	if err != nil {
		slog.Error("failed to list chats", "user_id", userID, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get chats"})
	}

	resp := ListChatsResponse{Chats: []ChatResponse{}}
	for _, chat := range chats {
		resp.Chats = append(resp.Chats, ChatResponse{ChatID: chat.ID})
	}
	return c.JSON(http.StatusOK, resp)
}

// ListChatMessages returns a conversation's messages in send order.
// GET /api/v1/chats/:chatID/messages
func (s *APIV1Service) ListChatMessages(c echo.Context) error {
	ctx := c.Request().Context()
	chatID := c.Param("chatID")

	messages, err := s.Store.ListMessages(ctx, &store.FindMessage{ChatID: &chatID})
	if err != nil {
		slog.Error("failed to list messages", "chat_id", chatID, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get messages"})
	}
	if len(messages) == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "no messages found for this chat"})
	}

	resp := ListMessagesResponse{Messages: []MessageResponse{}}
	for _, msg := range messages {
		resp.Messages = append(resp.Messages, MessageResponse{
			Type: string(msg.Type),
			Text: msg.Text,
		})
	}
	return c.JSON(http.StatusOK, resp)
}

// PostChatMessage runs one chat turn: the question and the agent's reply
// are both persisted to the conversation history.
// POST /api/v1/users/:userID/chats/:chatID/messages
func (s *APIV1Service) PostChatMessage(c echo.Context) error {
	ctx := c.Request().Context()
	userID := c.Param("userID")
	chatID := c.Param("chatID")

	var req PostMessageRequest
	if err := c.Bind(&req); err != nil || req.Question == "" {
		return errorResponse(c, chaterrors.InvalidArgument("question is required"), "question is required")
	}
	if s.Agent == nil {
		return errorResponse(c, chaterrors.LLMUnavailable("chat is not available", nil), "chat is not available")
	}

	chat, err := s.Store.GetChat(ctx, &store.FindChat{ID: &chatID, UserID: &userID})
	if err != nil {
		slog.Error("failed to look up chat", "chat_id", chatID, "error", err)
		return errorResponse(c, chaterrors.Internal("failed to process chat", err), "failed to process chat")
	}
	if chat == nil {
		return errorResponse(c, chaterrors.NotFound("chat not found"), "chat not found")
	}

	logger := observability.NewRequestContext(slog.Default(), userID, chatID)
	logger.Info("chat turn started", slog.Int("question_len", len(req.Question)))

	if _, err := s.Store.CreateMessage(ctx, &store.Message{
		ChatID: chatID,
		Text:   req.Question,
		Type:   store.MessageTypeSent,
	}); err != nil {
		logger.Error("failed to persist question", err)
		return errorResponse(c, chaterrors.Internal("failed to process chat", err), "failed to process chat")
	}

	reply, err := s.Agent.Respond(observability.WithRequestContext(ctx, logger), userID, chatID, req.Question)
	if err != nil {
		logger.Error("failed to generate response", err)
		return errorResponse(c, err, "failed to generate response")
	}

	if _, err := s.Store.CreateMessage(ctx, &store.Message{
		ChatID: chatID,
		Text:   reply,
		Type:   store.MessageTypeReceived,
	}); err != nil {
		logger.Error("failed to persist reply", err)
		return errorResponse(c, chaterrors.Internal("failed to process chat", err), "failed to process chat")
	}

	logger.Info("chat turn finished", slog.Int64(observability.LogFieldDuration, logger.DurationMs()))
	return c.JSON(http.StatusOK, PostMessageResponse{Response: reply})
}
