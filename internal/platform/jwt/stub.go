package jwt

import "errors"

type StubIssuer struct {
	IssueFunc func(claims Claims) (string, error)
}

var _ Issuer = (*StubIssuer)(nil)

func (s *StubIssuer) Issue(claims Claims) (string, error) {
	if s.IssueFunc == nil {
		return "", errors.New("Issue() not implemented by stub")
	}

	return s.IssueFunc(claims)
}
