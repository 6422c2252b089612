package chat

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ferdiebergado/chatrelay/internal/platform/db"
)

var ErrQueryFailed = errors.New("chat repository: query failed")

// PostgresRepository uses the transaction in ctx when there is one.
type PostgresRepository struct {
	db *sql.DB
}

var _ Repository = (*PostgresRepository)(nil)

func NewRepository(conn *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: conn}
}

const queryConversationCreate = `
INSERT INTO conversations (id, subject, user_id)
VALUES ($1, $2, $3)
RETURNING id, subject, user_id, created_at, updated_at
`

func (r *PostgresRepository) CreateConversation(ctx context.Context, conv Conversation) (Conversation, error) {
	row := db.ExecutorFromContext(ctx, r.db).QueryRowContext(ctx, queryConversationCreate, conv.ID, conv.Subject, conv.UserID)

	var created Conversation
	if err := scanConversation(row, &created); err != nil {
		return Conversation{}, fmt.Errorf("%w: create conversation %s: %w", ErrQueryFailed, conv.ID, err)
	}
	return created, nil
}

const queryConversationFind = `
SELECT id, subject, user_id, created_at, updated_at
FROM conversations
WHERE id = $1
`

func (r *PostgresRepository) FindConversation(ctx context.Context, id string) (Conversation, error) {
	row := db.ExecutorFromContext(ctx, r.db).QueryRowContext(ctx, queryConversationFind, id)

	var conv Conversation
	if err := scanConversation(row, &conv); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Conversation{}, ErrConversationNotFound
		}
		return Conversation{}, fmt.Errorf("%w: find conversation %s: %w", ErrQueryFailed, id, err)
	}
	return conv, nil
}

const queryConversationList = `
SELECT id, subject, user_id, created_at, updated_at
FROM conversations
WHERE user_id = $1
ORDER BY created_at DESC, id
`

func (r *PostgresRepository) ListConversations(ctx context.Context, userID string) ([]Conversation, error) {
	rows, err := db.ExecutorFromContext(ctx, r.db).QueryContext(ctx, queryConversationList, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: list conversations: %w", ErrQueryFailed, err)
	}
	defer rows.Close()

	convs := make([]Conversation, 0)
	for rows.Next() {
		var conv Conversation
		if err := scanConversation(rows, &conv); err != nil {
			return nil, fmt.Errorf("chat repository: scan conversation: %w", err)
		}
		convs = append(convs, conv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("chat repository: iterate over conversations: %w", err)
	}

	return convs, nil
}

const queryConversationRename = `
UPDATE conversations
SET subject = $2, updated_at = NOW()
WHERE id = $1
RETURNING id, subject, user_id, created_at, updated_at
`

func (r *PostgresRepository) RenameConversation(ctx context.Context, id, subject string) (Conversation, error) {
	row := db.ExecutorFromContext(ctx, r.db).QueryRowContext(ctx, queryConversationRename, id, subject)

	var conv Conversation
	if err := scanConversation(row, &conv); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Conversation{}, ErrConversationNotFound
		}
		return Conversation{}, fmt.Errorf("%w: rename conversation %s: %w", ErrQueryFailed, id, err)
	}
	return conv, nil
}

const queryMessageCreate = `
INSERT INTO messages (id, conversation_id, role, content)
VALUES ($1, $2, $3, $4)
RETURNING id, conversation_id, role, content, created_at
`

func (r *PostgresRepository) CreateMessage(ctx context.Context, msg Message) (Message, error) {
	row := db.ExecutorFromContext(ctx, r.db).QueryRowContext(ctx, queryMessageCreate,
		msg.ID, msg.ConversationID, string(msg.Role), msg.Content)

	var created Message
	if err := scanMessage(row, &created); err != nil {
		return Message{}, fmt.Errorf("%w: create message in %s: %w", ErrQueryFailed, msg.ConversationID, err)
	}
	return created, nil
}

// Messages created in the same transaction share created_at, so seq keeps
// them in insertion order.
const queryMessageList = `
SELECT id, conversation_id, role, content, created_at
FROM messages
WHERE conversation_id = $1
ORDER BY created_at, seq
`

func (r *PostgresRepository) ListMessages(ctx context.Context, conversationID string) ([]Message, error) {
	rows, err := db.ExecutorFromContext(ctx, r.db).QueryContext(ctx, queryMessageList, conversationID)
	if err != nil {
		return nil, fmt.Errorf("%w: list messages: %w", ErrQueryFailed, err)
	}
	defer rows.Close()

	msgs := make([]Message, 0)
	for rows.Next() {
		var msg Message
		if err := scanMessage(rows, &msg); err != nil {
			return nil, fmt.Errorf("chat repository: scan message: %w", err)
		}
		msgs = append(msgs, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("chat repository: iterate over messages: %w", err)
	}

	return msgs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanConversation(s scanner, conv *Conversation) error {
	return s.Scan(&conv.ID, &conv.Subject, &conv.UserID, &conv.CreatedAt, &conv.UpdatedAt)
}

func scanMessage(s scanner, msg *Message) error {
	return s.Scan(&msg.ID, &msg.ConversationID, &msg.Role, &msg.Content, &msg.CreatedAt)
}
