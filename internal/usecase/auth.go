package usecase

import (
	"context"
	"crypto/subtle"
	"strings"

	"github.com/polkiloo/coffeeshop/internal/config"
	domainErrors "github.com/polkiloo/coffeeshop/internal/domain/errors"
	pkgAuth "github.com/polkiloo/coffeeshop/internal/pkg/auth"
)

// AdminAuthUseCase authenticates the single configured staff account.
type AdminAuthUseCase struct {
	username     string
	passwordHash string
	hasher       pkgAuth.PasswordHasher
	tokens       pkgAuth.Strategy
}

// NewAdminAuthUseCase hashes the configured admin password once at startup.
func NewAdminAuthUseCase(cfg *config.Config, hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy) (*AdminAuthUseCase, error) {
	hash, err := hasher.Hash(cfg.AdminPassword)
	if err != nil {
		return nil, err
	}
	return &AdminAuthUseCase{
		username:     cfg.AdminUsername,
		passwordHash: hash,
		hasher:       hasher,
		tokens:       strategy,
	}, nil
}

// Login validates admin credentials and returns a session token.
func (u *AdminAuthUseCase) Login(_ context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", domainErrors.ErrInvalidCredentials
	}
	if subtle.ConstantTimeCompare([]byte(username), []byte(u.username)) != 1 {
		return "", domainErrors.ErrInvalidCredentials
	}
	if err := u.hasher.Compare(u.passwordHash, password); err != nil {
		return "", domainErrors.ErrInvalidCredentials
	}
	return u.tokens.IssueToken(u.username)
}

// ParseToken returns the admin username carried by a valid token.
func (u *AdminAuthUseCase) ParseToken(token string) (string, error) {
	if token == "" {
		return "", pkgAuth.ErrInvalidToken
	}
	subject, err := u.tokens.ParseToken(token)
	if err != nil {
		return "", err
	}
	if subject != u.username {
		return "", pkgAuth.ErrInvalidToken
	}
	return subject, nil
}
