package chat

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ferdiebergado/chatrelay/internal/config"
	"github.com/ferdiebergado/chatrelay/internal/platform/db"
	"github.com/ferdiebergado/chatrelay/internal/platform/jwt"
	"github.com/ferdiebergado/chatrelay/internal/webhook"
	"github.com/google/uuid"
)

const userIDPrefix = "user_"

type Repository interface {
	CreateConversation(ctx context.Context, conv Conversation) (Conversation, error)
	FindConversation(ctx context.Context, id string) (Conversation, error)
	ListConversations(ctx context.Context, userID string) ([]Conversation, error)
	RenameConversation(ctx context.Context, id, subject string) (Conversation, error)
	CreateMessage(ctx context.Context, msg Message) (Message, error)
	ListMessages(ctx context.Context, conversationID string) ([]Message, error)
}

type Providers struct {
	Issuer jwt.Issuer
	Poster webhook.Poster
	TxMgr  db.TxManager
}

type Service struct {
	repo   Repository
	issuer jwt.Issuer
	poster webhook.Poster
	txMgr  db.TxManager
	hooks  *config.Webhook
	relay  *config.Relay
	newID  func() string
}

var _ ChatService = (*Service)(nil)

func NewService(repo Repository, providers *Providers, cfg *config.Config) *Service {
	return &Service{
		repo:   repo,
		issuer: providers.Issuer,
		poster: providers.Poster,
		txMgr:  providers.TxMgr,
		hooks:  cfg.Webhook,
		relay:  cfg.Relay,
		newID:  uuid.NewString,
	}
}

// Started is the outcome of StartConversation. Greeting is the assistant's
// opening line and may be empty.
type Started struct {
	Conversation Conversation
	Greeting     string
	UserID       string
}

type startPayload struct {
	Subject Subject `json:"subject"`
}

type startReply struct {
	Conversation struct {
		ID      string `json:"id"`
		Subject string `json:"subject"`
	} `json:"conversation"`
	Message string `json:"message"`
}

// StartConversation assigns a fresh user id, asks the conversation webhook to
// open a chat on subject and records the result.
func (s *Service) StartConversation(ctx context.Context, subject Subject) (Started, error) {
	userID := userIDPrefix + s.newID()

	token, err := s.issuer.Issue(jwt.Claims{"id": userID})
	if err != nil {
		return Started{}, fmt.Errorf("issue conversation token: %w", err)
	}

	var reply startReply
	if err := s.poster.Post(ctx, s.hooks.ConversationURL, token, startPayload{Subject: subject}, &reply); err != nil {
		return Started{}, fmt.Errorf("%w: start conversation: %w", ErrRelayFailed, err)
	}

	if reply.Conversation.ID == "" {
		return Started{}, fmt.Errorf("%w: %w: missing conversation id", ErrRelayFailed, ErrInvalidReply)
	}

	conv := Conversation{
		ID:      reply.Conversation.ID,
		Subject: string(subject),
		UserID:  userID,
	}
	if reply.Conversation.Subject != "" {
		conv.Subject = reply.Conversation.Subject
	}

	err = s.txMgr.RunInTx(ctx, func(txCtx context.Context) error {
		created, err := s.repo.CreateConversation(txCtx, conv)
		if err != nil {
			return fmt.Errorf("save conversation %s: %w", conv.ID, err)
		}
		conv = created

		if reply.Message == "" {
			return nil
		}

		greeting := Message{
			ID:             s.newID(),
			ConversationID: conv.ID,
			Role:           RoleAssistant,
			Content:        reply.Message,
		}
		if _, err := s.repo.CreateMessage(txCtx, greeting); err != nil {
			return fmt.Errorf("save greeting for %s: %w", conv.ID, err)
		}
		return nil
	})
	if err != nil {
		return Started{}, err
	}

	slog.Info("Conversation started", "conversation_id", conv.ID, "subject", conv.Subject)
	return Started{Conversation: conv, Greeting: reply.Message, UserID: userID}, nil
}

type SendMessageParams struct {
	ChatID string
	UserID string
	Text   string
}

func (p SendMessageParams) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("chat_id", p.ChatID),
		slog.String("user_id", p.UserID),
		slog.Int("text_len", len(p.Text)),
	)
}

type messagePayload struct {
	Text   string `json:"text"`
	ChatID string `json:"chatId"`
}

type messageReply struct {
	Output string `json:"output"`
}

// SendMessage relays text to the message webhook and records both sides of
// the exchange. The conversation must belong to params.UserID.
func (s *Service) SendMessage(ctx context.Context, params SendMessageParams) (string, error) {
	conv, err := s.findOwned(ctx, params.ChatID, params.UserID)
	if err != nil {
		return "", err
	}

	token, err := s.issuer.Issue(jwt.Claims{
		"chatId": params.ChatID,
		"userId": params.UserID,
		"planId": s.relay.PlanID,
		"text":   params.Text,
	})
	if err != nil {
		return "", fmt.Errorf("issue message token: %w", err)
	}

	var reply messageReply
	payload := messagePayload{Text: params.Text, ChatID: params.ChatID}
	if err := s.poster.Post(ctx, s.hooks.MessageURL, token, payload, &reply); err != nil {
		return "", fmt.Errorf("%w: send message: %w", ErrRelayFailed, err)
	}

	err = s.txMgr.RunInTx(ctx, func(txCtx context.Context) error {
		exchange := []Message{
			{ID: s.newID(), ConversationID: conv.ID, Role: RoleUser, Content: params.Text},
			{ID: s.newID(), ConversationID: conv.ID, Role: RoleAssistant, Content: reply.Output},
		}
		for _, msg := range exchange {
			if _, err := s.repo.CreateMessage(txCtx, msg); err != nil {
				return fmt.Errorf("save %s message for %s: %w", msg.Role, conv.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return reply.Output, nil
}

func (s *Service) ListConversations(ctx context.Context, userID string) ([]Conversation, error) {
	convs, err := s.repo.ListConversations(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list conversations of %s: %w", userID, err)
	}
	return convs, nil
}

// ListMessages returns the history of a conversation owned by userID.
func (s *Service) ListMessages(ctx context.Context, conversationID, userID string) ([]Message, error) {
	if _, err := s.findOwned(ctx, conversationID, userID); err != nil {
		return nil, err
	}

	msgs, err := s.repo.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("list messages of %s: %w", conversationID, err)
	}
	return msgs, nil
}

type RenameParams struct {
	ID      string
	UserID  string
	Subject string
}

func (s *Service) RenameConversation(ctx context.Context, params RenameParams) (Conversation, error) {
	if _, err := s.findOwned(ctx, params.ID, params.UserID); err != nil {
		return Conversation{}, err
	}

	conv, err := s.repo.RenameConversation(ctx, params.ID, params.Subject)
	if err != nil {
		return Conversation{}, fmt.Errorf("rename conversation %s: %w", params.ID, err)
	}
	return conv, nil
}

// findOwned reports a conversation owned by someone else as not found.
func (s *Service) findOwned(ctx context.Context, id, userID string) (Conversation, error) {
	conv, err := s.repo.FindConversation(ctx, id)
	if err != nil {
		return Conversation{}, fmt.Errorf("find conversation %s: %w", id, err)
	}

	if conv.UserID != userID {
		return Conversation{}, fmt.Errorf("%w: %s is not owned by %s", ErrConversationNotFound, id, userID)
	}
	return conv, nil
}

func (s *Service) ListSubjects() []Subject {
	return Subjects()
}
