// Package token mints development JWTs for the roles of an application so
// its protected routes can be exercised by hand.
package token

import (
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"

	"eojs/internal/diag"
)

// DefaultTTL is the lifetime of a token when none is given.
const DefaultTTL = 24 * time.Hour

var (
	// ErrNoSecret is returned when a Signer is built without a secret.
	ErrNoSecret = diag.New(diag.PreconditionFailed, "no signing secret; set JWT_SECRET or pass --secret")
	// ErrInvalidToken is returned for tokens that fail to parse or verify.
	// Parse also wraps the jwt error, so errors.Is(err, jwt.ErrTokenExpired)
	// works.
	ErrInvalidToken = diag.New(diag.InvalidToken, "invalid token")
)

// Claims are the claims the generated passport-jwt strategy reads.
type Claims struct {
	Role string `json:"role"`
	gojwt.RegisteredClaims
}

// Signer signs and verifies HS256 tokens with one secret.
type Signer struct {
	secret []byte
	now    func() time.Time
}

// Option configures a Signer.
type Option func(*Signer)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Signer) { s.now = now }
}

// NewSigner returns a Signer for secret.
func NewSigner(secret string, opts ...Option) (*Signer, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	s := &Signer{secret: []byte(secret), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Request is what a token is minted for.
type Request struct {
	Role    string
	Subject string
	TTL     time.Duration
}

// Sign mints a token for req. The subject defaults to the role name.
func (s *Signer) Sign(req Request) (string, *Claims, error) {
	if req.Role == "" {
		return "", nil, diag.New(diag.InvalidName, "role is required")
	}
	ttl := req.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	sub := req.Subject
	if sub == "" {
		sub = req.Role
	}
	now := s.now().UTC().Truncate(time.Second)
	claims := &Claims{
		Role: req.Role,
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   sub,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(ttl)),
			ID:        ulid.Make().String(),
		},
	}
	signed, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims, nil
}

// Parse verifies raw and returns its claims.
func (s *Signer) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	parser := gojwt.NewParser(
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithTimeFunc(s.now),
	)
	_, err := parser.ParseWithClaims(raw, claims, func(*gojwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return claims, nil
}

// Decode reads the claims of raw without checking its signature.
func Decode(raw string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := gojwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, ErrInvalidToken.Wrap(diag.NoSpan, "%v", err)
	}
	return claims, nil
}
