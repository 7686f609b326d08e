package security

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"pinstack-feed-service/internal/custom_errors"
	model "pinstack-feed-service/internal/domain/models"
)

type claims struct {
	Email  string `json:"email"`
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

type signingKey struct {
	id     string
	secret []byte
}

// JWTProvider signs with the first secret and accepts tokens signed by any of them.
type JWTProvider struct {
	keys []signingKey
	ttl  time.Duration
	now  func() time.Time
}

func NewJWTProvider(secrets []string, ttl time.Duration) (*JWTProvider, error) {
	if len(secrets) == 0 {
		return nil, errors.New("at least one signing secret is required")
	}
	keys := make([]signingKey, 0, len(secrets))
	for _, s := range secrets {
		if s == "" {
			return nil, errors.New("empty signing secret")
		}
		sum := sha256.Sum256([]byte(s))
		keys = append(keys, signingKey{id: hex.EncodeToString(sum[:8]), secret: []byte(s)})
	}
	return &JWTProvider{keys: keys, ttl: ttl, now: time.Now}, nil
}

// WithClock replaces the time source used for issuing and verifying.
func (p *JWTProvider) WithClock(now func() time.Time) *JWTProvider {
	p.now = now
	return p
}

func (p *JWTProvider) Issue(c model.TokenClaims) (string, time.Time, error) {
	now := p.now()
	expiresAt := now.Add(p.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email:  c.Email,
		UserID: c.UserID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	token.Header["kid"] = p.keys[0].id

	signed, err := token.SignedString(p.keys[0].secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %v", custom_errors.ErrTokenIssue, err)
	}
	return signed, expiresAt, nil
}

func (p *JWTProvider) Verify(tokenString string) (*model.TokenClaims, error) {
	if tokenString == "" {
		return nil, custom_errors.ErrNotAuthenticated
	}

	var parsed claims
	_, err := jwt.ParseWithClaims(tokenString, &parsed, p.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", custom_errors.ErrInvalidToken, err)
	}
	if parsed.UserID == "" {
		return nil, custom_errors.ErrInvalidToken
	}
	return &model.TokenClaims{UserID: model.UserID(parsed.UserID), Email: parsed.Email}, nil
}

func (p *JWTProvider) keyFunc(token *jwt.Token) (any, error) {
	kid, _ := token.Header["kid"].(string)
	if kid == "" {
		// tokens without a kid are checked against the current secret
		return p.keys[0].secret, nil
	}
	for _, k := range p.keys {
		if k.id == kid {
			return k.secret, nil
		}
	}
	return nil, fmt.Errorf("unknown key id %q", kid)
}
