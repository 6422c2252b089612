// Package jwt issues compact HS256 tokens used as bearer credentials on outbound
// webhook calls. Tokens are only ever issued here; nothing in this package parses or
// verifies them.
package jwt

import "errors"

var (
	// ErrSerialization reports claims that cannot be encoded as canonical JSON.
	ErrSerialization = errors.New("jwt: claims serialization failed")

	// ErrConfiguration reports a missing or unusable signing secret.
	ErrConfiguration = errors.New("jwt: invalid issuer configuration")

	// ErrClaimsTooLarge is returned together with ErrSerialization when the encoded
	// claims exceed the configured limit.
	ErrClaimsTooLarge = errors.New("jwt: claims exceed size limit")
)

// Claims is the caller supplied payload embedded in a token.
type Claims map[string]any

// Issuer produces signed compact tokens.
type Issuer interface {
	Issue(claims Claims) (token string, err error)
}
