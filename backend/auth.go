package backend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

// CredentialProvider supplies the bearer credential attached to every
// backend call. Invalidate is called when the backend rejects it.
type CredentialProvider interface {
	Token(ctx context.Context) (string, error)
	Invalidate()
}

// StaticToken is a fixed API token.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) {
	return string(t), nil
}

func (StaticToken) Invalidate() {}

// JWTProvider mints short-lived HS256 service tokens and reuses each one
// until shortly before it expires.
type JWTProvider struct {
	secret  []byte
	issuer  string
	subject string
	ttl     time.Duration
	now     func() time.Time

	mu      sync.Mutex
	cached  string
	expires time.Time
}

func NewJWTProvider(secret, issuer string, ttl time.Duration) (*JWTProvider, error) {
	if secret == "" {
		return nil, errors.New("jwt provider: empty secret")
	}
	if ttl <= 0 {
		return nil, errors.New("jwt provider: ttl must be positive")
	}
	return &JWTProvider{
		secret:  []byte(secret),
		issuer:  issuer,
		subject: "booking-gateway",
		ttl:     ttl,
		now:     time.Now,
	}, nil
}

func (p *JWTProvider) Token(context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	if p.cached != "" && now.Before(p.expires.Add(-p.ttl/10)) {
		return p.cached, nil
	}

	exp := now.Add(p.ttl)
	claims := jwt.MapClaims{
		"iss": p.issuer,
		"sub": p.subject,
		"jti": uuid.New().String(),
		"iat": now.Unix(),
		"exp": exp.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("sign service token: %w", err)
	}
	p.cached = signed
	p.expires = exp
	return signed, nil
}

func (p *JWTProvider) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cached = ""
	p.expires = time.Time{}
}
