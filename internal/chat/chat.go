// Package chat relays conversations between the web client and the
// automation webhooks, signing every outbound call and keeping a history of
// each exchange.
package chat

import (
	"errors"
	"time"
)

var (
	ErrConversationNotFound = errors.New("chat: conversation not found")
	ErrRelayFailed          = errors.New("chat: relay to webhook failed")
	ErrInvalidReply         = errors.New("chat: webhook reply is incomplete")
)

// Subject is a conversation topic offered to new users.
type Subject string

const (
	SubjectSelfEsteem            Subject = "autoestima"
	SubjectEmotionalIntelligence Subject = "inteligencia_emocional"
	SubjectProsperity            Subject = "prosperidade"
	SubjectRelationships         Subject = "relacionamento"
)

// Subjects returns the topics a conversation can start with, in display order.
func Subjects() []Subject {
	return []Subject{
		SubjectSelfEsteem,
		SubjectEmotionalIntelligence,
		SubjectProsperity,
		SubjectRelationships,
	}
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Conversation is identified by the id the conversation webhook assigns.
// Subject starts as the chosen topic and may later be renamed freely.
type Conversation struct {
	ID        string
	Subject   string
	UserID    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Message struct {
	ID             string
	ConversationID string
	Role           Role
	Content        string
	CreatedAt      time.Time
}
