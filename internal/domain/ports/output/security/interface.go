package security

import (
	"time"

	model "pinstack-feed-service/internal/domain/models"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type TokenProvider interface {
	Issue(claims model.TokenClaims) (token string, expiresAt time.Time, err error)
	Verify(token string) (*model.TokenClaims, error)
}
