package jwt

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

const segmentSep = "."

// header is the fixed JOSE header of every issued token.
type header struct {
	Alg string `json:"alg"`
	Typ string `json:"typ"`
}

// HS256Issuer signs tokens with HMAC-SHA256 using a secret captured at construction.
// It holds no mutable state and is safe for concurrent use.
type HS256Issuer struct {
	method     jwt.SigningMethod
	key        []byte
	serializer Serializer
	maxClaims  int
	headerSeg  string
}

var _ Issuer = (*HS256Issuer)(nil)

// Option customizes an HS256Issuer.
type Option func(*HS256Issuer)

// WithSerializer replaces the default JSON serializer.
func WithSerializer(s Serializer) Option {
	return func(i *HS256Issuer) {
		if s != nil {
			i.serializer = s
		}
	}
}

// WithMaxClaimsBytes caps the size of the serialized claims. Zero disables the cap.
func WithMaxClaimsBytes(n int) Option {
	return func(i *HS256Issuer) {
		if n > 0 {
			i.maxClaims = n
		}
	}
}

// NewHS256Issuer creates an issuer keyed with secret. The secret is copied.
func NewHS256Issuer(secret []byte, opts ...Option) (*HS256Issuer, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("%w: signing secret is empty", ErrConfiguration)
	}

	key := make([]byte, len(secret))
	copy(key, secret)

	issuer := &HS256Issuer{
		method:     jwt.SigningMethodHS256,
		key:        key,
		serializer: JSONSerializer,
	}
	for _, opt := range opts {
		opt(issuer)
	}

	hdr, err := issuer.serializer.Marshal(header{Alg: issuer.method.Alg(), Typ: "JWT"})
	if err != nil {
		return nil, fmt.Errorf("%w: encode header: %w", ErrConfiguration, err)
	}
	issuer.headerSeg = encodeSegment(hdr)

	return issuer, nil
}

// Issue returns header.claims.signature, each segment base64url encoded without padding.
// A nil claims map is issued as an empty object.
func (i *HS256Issuer) Issue(claims Claims) (string, error) {
	if claims == nil {
		claims = Claims{}
	}

	payload, err := i.serializer.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSerialization, err)
	}

	if i.maxClaims > 0 && len(payload) > i.maxClaims {
		return "", fmt.Errorf("%w: %w: %d bytes, limit %d", ErrSerialization, ErrClaimsTooLarge, len(payload), i.maxClaims)
	}

	var sb strings.Builder
	sb.Grow(len(i.headerSeg) + base64.RawURLEncoding.EncodedLen(len(payload)) + 45)
	sb.WriteString(i.headerSeg)
	sb.WriteString(segmentSep)
	sb.WriteString(encodeSegment(payload))
	signingInput := sb.String()

	sig, err := i.method.Sign(signingInput, i.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	sb.WriteString(segmentSep)
	sb.WriteString(encodeSegment(sig))
	return sb.String(), nil
}

func encodeSegment(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}
