package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/cs-24-sw-8-04/scheduling/internal/domain"
)

// RegisterAccount creates an account with a bcrypt-hashed password and hands
// back a fresh auth token for it.
func (s *Store) RegisterAccount(ctx context.Context, username, password string) (domain.AuthToken, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.AuthToken{}, fmt.Errorf("hash password: %w", err)
	}

	var accountID domain.AccountID
	err = s.db.GetContext(ctx, &accountID,
		`INSERT INTO accounts (username, password_hash) VALUES (?, ?) RETURNING id`,
		username, string(hash))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return domain.AuthToken{}, domain.ErrUsernameTaken
		}
		return domain.AuthToken{}, fmt.Errorf("insert account: %w", err)
	}

	s.logger.Info("account registered", "username", username, "account_id", accountID)
	return s.createAuthToken(ctx, accountID)
}

// Login verifies the credentials and hands back a fresh auth token. An
// unknown username and a wrong password are indistinguishable to the caller.
func (s *Store) Login(ctx context.Context, username, password string) (domain.AuthToken, error) {
	var row struct {
		ID           domain.AccountID `db:"id"`
		PasswordHash string           `db:"password_hash"`
	}
	err := s.db.GetContext(ctx, &row,
		`SELECT id, password_hash FROM accounts WHERE username = ?`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.AuthToken{}, domain.ErrWrongCredentials
	}
	if err != nil {
		return domain.AuthToken{}, fmt.Errorf("look up account: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(password)) != nil {
		return domain.AuthToken{}, domain.ErrWrongCredentials
	}

	return s.createAuthToken(ctx, row.ID)
}

func (s *Store) createAuthToken(ctx context.Context, accountID domain.AccountID) (domain.AuthToken, error) {
	token := domain.NewAuthToken()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO auth_tokens (id, account_id) VALUES (?, ?)`,
		token.String(), accountID)
	if err != nil {
		return domain.AuthToken{}, fmt.Errorf("insert auth token: %w", err)
	}
	return token, nil
}

// AccountIDForToken resolves a bearer token to its account. Unknown tokens
// return ErrNotFound.
func (s *Store) AccountIDForToken(ctx context.Context, token domain.AuthToken) (domain.AccountID, error) {
	var accountID domain.AccountID
	err := s.db.GetContext(ctx, &accountID,
		`SELECT account_id FROM auth_tokens WHERE id = ?`, token.String())
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("look up auth token: %w", err)
	}
	return accountID, nil
}
