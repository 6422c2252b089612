package chat

import (
	"context"
	"errors"
)

type StubService struct {
	StartConversationFunc  func(ctx context.Context, subject Subject) (Started, error)
	SendMessageFunc        func(ctx context.Context, params SendMessageParams) (string, error)
	ListConversationsFunc  func(ctx context.Context, userID string) ([]Conversation, error)
	ListMessagesFunc       func(ctx context.Context, conversationID, userID string) ([]Message, error)
	RenameConversationFunc func(ctx context.Context, params RenameParams) (Conversation, error)
	ListSubjectsFunc       func() []Subject
}

var _ ChatService = (*StubService)(nil)

func (s *StubService) StartConversation(ctx context.Context, subject Subject) (Started, error) {
	if s.StartConversationFunc == nil {
		return Started{}, errors.New("StartConversation() not implemented by stub")
	}
	return s.StartConversationFunc(ctx, subject)
}

func (s *StubService) SendMessage(ctx context.Context, params SendMessageParams) (string, error) {
	if s.SendMessageFunc == nil {
		return "", errors.New("SendMessage() not implemented by stub")
	}
	return s.SendMessageFunc(ctx, params)
}

func (s *StubService) ListConversations(ctx context.Context, userID string) ([]Conversation, error) {
	if s.ListConversationsFunc == nil {
		return nil, errors.New("ListConversations() not implemented by stub")
	}
	return s.ListConversationsFunc(ctx, userID)
}

func (s *StubService) ListMessages(ctx context.Context, conversationID, userID string) ([]Message, error) {
	if s.ListMessagesFunc == nil {
		return nil, errors.New("ListMessages() not implemented by stub")
	}
	return s.ListMessagesFunc(ctx, conversationID, userID)
}

func (s *StubService) RenameConversation(ctx context.Context, params RenameParams) (Conversation, error) {
	if s.RenameConversationFunc == nil {
		return Conversation{}, errors.New("RenameConversation() not implemented by stub")
	}
	return s.RenameConversationFunc(ctx, params)
}

func (s *StubService) ListSubjects() []Subject {
	if s.ListSubjectsFunc == nil {
		panic("ListSubjects() not implemented by stub")
	}
	return s.ListSubjectsFunc()
}

type StubRepo struct {
	CreateConversationFunc func(ctx context.Context, conv Conversation) (Conversation, error)
	FindConversationFunc   func(ctx context.Context, id string) (Conversation, error)
	ListConversationsFunc  func(ctx context.Context, userID string) ([]Conversation, error)
	RenameConversationFunc func(ctx context.Context, id, subject string) (Conversation, error)
	CreateMessageFunc      func(ctx context.Context, msg Message) (Message, error)
	ListMessagesFunc       func(ctx context.Context, conversationID string) ([]Message, error)
}

var _ Repository = (*StubRepo)(nil)

func (r *StubRepo) CreateConversation(ctx context.Context, conv Conversation) (Conversation, error) {
	if r.CreateConversationFunc == nil {
		return Conversation{}, errors.New("CreateConversation() not implemented by stub")
	}
	return r.CreateConversationFunc(ctx, conv)
}

func (r *StubRepo) FindConversation(ctx context.Context, id string) (Conversation, error) {
	if r.FindConversationFunc == nil {
		return Conversation{}, errors.New("FindConversation() not implemented by stub")
	}
	return r.FindConversationFunc(ctx, id)
}

func (r *StubRepo) ListConversations(ctx context.Context, userID string) ([]Conversation, error) {
	if r.ListConversationsFunc == nil {
		return nil, errors.New("ListConversations() not implemented by stub")
	}
	return r.ListConversationsFunc(ctx, userID)
}

func (r *StubRepo) RenameConversation(ctx context.Context, id, subject string) (Conversation, error) {
	if r.RenameConversationFunc == nil {
		return Conversation{}, errors.New("RenameConversation() not implemented by stub")
	}
	return r.RenameConversationFunc(ctx, id, subject)
}

func (r *StubRepo) CreateMessage(ctx context.Context, msg Message) (Message, error) {
	if r.CreateMessageFunc == nil {
		return Message{}, errors.New("CreateMessage() not implemented by stub")
	}
	return r.CreateMessageFunc(ctx, msg)
}

func (r *StubRepo) ListMessages(ctx context.Context, conversationID string) ([]Message, error) {
	if r.ListMessagesFunc == nil {
		return nil, errors.New("ListMessages() not implemented by stub")
	}
	return r.ListMessagesFunc(ctx, conversationID)
}
