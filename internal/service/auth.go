package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmehta/storefront/internal/events"
	"github.com/jmehta/storefront/internal/hash"
	"github.com/jmehta/storefront/internal/logging"
	"github.com/jmehta/storefront/internal/models"
	"github.com/jmehta/storefront/internal/repo"
	"github.com/jmehta/storefront/internal/tokens"
)

// ErrInvalidCredentials covers both an unknown username and a wrong
// password, so responses never reveal which usernames exist.
var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
	Producer  *events.Producer
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, *models.Account, error) {
	account, err := s.Repo.GetAccountByUsername(ctx, username)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}

	if !hash.CheckPassword(account.PasswordHash, password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := tokens.SignSessionToken(account.ID, account.Username, account.Role, s.JWTSecret)
	if err != nil {
		return "", nil, fmt.Errorf("sign session token: %w", err)
	}

	event := map[string]any{
		"type":      "user_logged_in",
		"accountID": account.ID,
		"username":  account.Username,
	}
	if err := s.Producer.PublishEvent(ctx, fmt.Sprint(account.ID), event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "error", err)
	}

	return token, account, nil
}

// SeedAdmin creates the configured admin account iff no admin exists yet.
// Safe to run on every boot.
func (s *AuthService) SeedAdmin(ctx context.Context, username, password string) error {
	total, err := s.Repo.CountAccountsByRole(ctx, "admin")
	if err != nil {
		return fmt.Errorf("count admin accounts: %w", err)
	}
	if total > 0 {
		return nil
	}

	passwordHash, err := hash.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	account := models.Account{
		Username:     username,
		PasswordHash: passwordHash,
		Role:         "admin",
	}
	if err := s.Repo.CreateAccount(ctx, &account); err != nil {
		return fmt.Errorf("create admin account: %w", err)
	}

	logging.FromContext(ctx).Info("admin account seeded", "username", username)
	return nil
}
