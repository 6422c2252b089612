package webhook

import (
	"context"
	"errors"
)

type StubPoster struct {
	PostFunc func(ctx context.Context, webhookURL, bearer string, payload, out any) error
}

var _ Poster = (*StubPoster)(nil)

func (s *StubPoster) Post(ctx context.Context, webhookURL, bearer string, payload, out any) error {
	if s.PostFunc == nil {
		return errors.New("Post() not implemented by stub")
	}

	return s.PostFunc(ctx, webhookURL, bearer, payload, out)
}
