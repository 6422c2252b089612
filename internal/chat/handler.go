package chat

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ferdiebergado/chatrelay/internal/pkg/message"
	"github.com/ferdiebergado/chatrelay/internal/pkg/web"
	"github.com/ferdiebergado/chatrelay/internal/platform/jwt"
)

const maskChar = "*"

var errMissingUserID = errors.New("userId query parameter is required")

type ChatService interface {
	StartConversation(ctx context.Context, subject Subject) (Started, error)
	SendMessage(ctx context.Context, params SendMessageParams) (string, error)
	ListConversations(ctx context.Context, userID string) ([]Conversation, error)
	ListMessages(ctx context.Context, conversationID, userID string) ([]Message, error)
	RenameConversation(ctx context.Context, params RenameParams) (Conversation, error)
	ListSubjects() []Subject
}

type Handler struct {
	svc ChatService
}

func NewHandler(svc ChatService) *Handler {
	return &Handler{svc: svc}
}

type ConversationData struct {
	ID        string    `json:"id"`
	Subject   string    `json:"subject"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newConversationData(c Conversation) ConversationData {
	return ConversationData{
		ID:        c.ID,
		Subject:   c.Subject,
		UserID:    c.UserID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

type MessageData struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Role           Role      `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

type StartConversationRequest struct {
	Subject Subject `json:"subject" validate:"required,oneof=autoestima inteligencia_emocional prosperidade relacionamento"`
}

type StartConversationResponse struct {
	Conversation ConversationData `json:"conversation"`
	Message      string           `json:"message,omitempty"`
	UserID       string           `json:"userId"`
}

func (h *Handler) StartConversation(w http.ResponseWriter, r *http.Request) {
	req, err := web.ParamsFromContext[StartConversationRequest](r.Context())
	if err != nil {
		web.Fail(w, http.StatusBadRequest, err, message.InvalidInput, nil)
		return
	}

	started, err := h.svc.StartConversation(r.Context(), req.Subject)
	if err != nil {
		switch {
		case errors.Is(err, ErrRelayFailed):
			web.Fail(w, http.StatusBadGateway, err, message.ConversationFailed, nil)
		case !failRejectedClaims(w, err):
			web.Fail(w, http.StatusInternalServerError, err, message.ServerError, nil)
		}
		return
	}

	msg := message.ConversationStarted
	data := &StartConversationResponse{
		Conversation: newConversationData(started.Conversation),
		Message:      started.Greeting,
		UserID:       started.UserID,
	}
	web.OK(w, http.StatusOK, &msg, data)
}

type SendMessageRequest struct {
	Text   string `json:"text" validate:"required"`
	ChatID string `json:"chatId" validate:"required"`
	UserID string `json:"userId" validate:"required"`
}

func (r SendMessageRequest) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("text", maskChar),
		slog.String("chatId", r.ChatID),
		slog.String("userId", r.UserID),
	)
}

type SendMessageResponse struct {
	Output string `json:"output"`
}

func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	req, err := web.ParamsFromContext[SendMessageRequest](r.Context())
	if err != nil {
		web.Fail(w, http.StatusBadRequest, err, message.InvalidInput, nil)
		return
	}

	params := SendMessageParams{
		ChatID: req.ChatID,
		UserID: req.UserID,
		Text:   req.Text,
	}
	output, err := h.svc.SendMessage(r.Context(), params)
	if err != nil {
		switch {
		case errors.Is(err, ErrConversationNotFound):
			web.Fail(w, http.StatusNotFound, err, message.ConversationNotFound, nil)
		case errors.Is(err, ErrRelayFailed):
			web.Fail(w, http.StatusBadGateway, err, message.MessageFailed, nil)
		case !failRejectedClaims(w, err):
			web.Fail(w, http.StatusInternalServerError, err, message.ServerError, nil)
		}
		return
	}

	web.OK(w, http.StatusOK, nil, &SendMessageResponse{Output: output})
}

// failRejectedClaims writes a client error for claims the token issuer refused.
func failRejectedClaims(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, jwt.ErrClaimsTooLarge):
		web.Fail(w, http.StatusRequestEntityTooLarge, err, message.PayloadTooLarge, nil)
	case errors.Is(err, jwt.ErrSerialization):
		web.Fail(w, http.StatusUnprocessableEntity, err, message.InvalidInput, nil)
	default:
		return false
	}
	return true
}

type ListSubjectsResponse struct {
	Subjects []Subject `json:"subjects"`
}

func (h *Handler) ListSubjects(w http.ResponseWriter, _ *http.Request) {
	web.OK(w, http.StatusOK, nil, &ListSubjectsResponse{Subjects: h.svc.ListSubjects()})
}

type ListConversationsResponse struct {
	Conversations []ConversationData `json:"conversations"`
}

func (h *Handler) ListConversations(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	convs, err := h.svc.ListConversations(r.Context(), userID)
	if err != nil {
		web.Fail(w, http.StatusInternalServerError, err, message.ServerError, nil)
		return
	}

	data := make([]ConversationData, 0, len(convs))
	for _, c := range convs {
		data = append(data, newConversationData(c))
	}
	web.OK(w, http.StatusOK, nil, &ListConversationsResponse{Conversations: data})
}

type ListMessagesResponse struct {
	Messages []MessageData `json:"messages"`
}

func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	msgs, err := h.svc.ListMessages(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		if errors.Is(err, ErrConversationNotFound) {
			web.Fail(w, http.StatusNotFound, err, message.ConversationNotFound, nil)
			return
		}
		web.Fail(w, http.StatusInternalServerError, err, message.ServerError, nil)
		return
	}

	data := make([]MessageData, 0, len(msgs))
	for _, m := range msgs {
		data = append(data, MessageData(m))
	}
	web.OK(w, http.StatusOK, nil, &ListMessagesResponse{Messages: data})
}

type RenameConversationRequest struct {
	Subject string `json:"subject" validate:"required,max=100"`
	UserID  string `json:"userId" validate:"required"`
}

func (h *Handler) RenameConversation(w http.ResponseWriter, r *http.Request) {
	req, err := web.ParamsFromContext[RenameConversationRequest](r.Context())
	if err != nil {
		web.Fail(w, http.StatusBadRequest, err, message.InvalidInput, nil)
		return
	}

	params := RenameParams{
		ID:      r.PathValue("id"),
		UserID:  req.UserID,
		Subject: req.Subject,
	}
	conv, err := h.svc.RenameConversation(r.Context(), params)
	if err != nil {
		if errors.Is(err, ErrConversationNotFound) {
			web.Fail(w, http.StatusNotFound, err, message.ConversationNotFound, nil)
			return
		}
		web.Fail(w, http.StatusInternalServerError, err, message.ServerError, nil)
		return
	}

	msg := message.ConversationRenamed
	data := newConversationData(conv)
	web.OK(w, http.StatusOK, &msg, &data)
}

func requireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		web.Fail(w, http.StatusBadRequest, errMissingUserID, message.InvalidInput,
			map[string]string{"userId": "userId is required"})
		return "", false
	}
	return userID, true
}
