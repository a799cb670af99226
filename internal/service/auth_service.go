package service

import (
	"context"
	"fmt"
	"time"

	"payflow/internal/core/ports"
	"payflow/pkg/apperror"

	"github.com/rs/zerolog"
)

// OperatorAuthService implements ports.AuthService against a fixed set of
// operator accounts loaded from configuration.
type OperatorAuthService struct {
	operators map[string]string // username -> argon2id hash
	hashSvc   ports.HashService
	tokenSvc  ports.TokenService
	log       zerolog.Logger
}

var _ ports.AuthService = (*OperatorAuthService)(nil)

// NewOperatorAuthService creates an OperatorAuthService.
func NewOperatorAuthService(
	operators map[string]string,
	hashSvc ports.HashService,
	tokenSvc ports.TokenService,
	log zerolog.Logger,
) *OperatorAuthService {
	accounts := make(map[string]string, len(operators))
	for user, hash := range operators {
		accounts[user] = hash
	}
	return &OperatorAuthService{
		operators: accounts,
		hashSvc:   hashSvc,
		tokenSvc:  tokenSvc,
		log:       log,
	}
}

// Login validates operator credentials and returns an admin JWT.
func (s *OperatorAuthService) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	hash, ok := s.operators[username]
	if !ok {
		s.log.Warn().Str("operator", username).Msg("login for unknown operator")
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	valid, err := s.hashSvc.Verify(password, hash)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("verify password: %w", err))
	}
	if !valid {
		s.log.Warn().Str("operator", username).Msg("operator login rejected")
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	token, expiry, err := s.tokenSvc.Generate(username)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("generate token: %w", err))
	}

	s.log.Info().Str("operator", username).Time("expires_at", expiry).Msg("operator logged in")
	return token, expiry, nil
}
