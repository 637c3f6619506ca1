// package auth holds the identity store and the session gate every lifecycle operation goes through.
//
// There is exactly one active session per [Service]. The moderator is a reserved credential pair
// that never appears in the account collection.
package auth

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/kedoo/internal/models"
	"github.com/desertthunder/kedoo/internal/repositories"
	"github.com/desertthunder/kedoo/internal/shared"
)

// Reserved moderator credentials.
const (
	ModeratorEmail    = "moder@olprod.ru"
	moderatorPassword = "zzzz-2014"
)

// Moderator returns the synthetic moderator identity.
func Moderator() models.Account {
	return models.Account{Email: ModeratorEmail, Password: moderatorPassword, IsModerator: true}
}

// Service implements login, registration and the session gate.
type Service struct {
	accounts *repositories.AccountRepository
	sessions *repositories.SessionRepository
	logger   *log.Logger

	mu     sync.RWMutex
	active *models.Account
}

// NewService creates a new [Service]. Call [Service.Restore] to pick up a persisted session.
func NewService(accounts *repositories.AccountRepository, sessions *repositories.SessionRepository, logger *log.Logger) *Service {
	return &Service{accounts: accounts, sessions: sessions, logger: logger}
}

// Restore loads the persisted session snapshot verbatim, without checking it against the account collection.
func (s *Service) Restore(ctx context.Context) error {
	account, err := s.sessions.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to restore session: %w", err)
	}

	s.mu.Lock()
	s.active = account
	s.mu.Unlock()

	if account != nil {
		s.logger.Debug("restored session", "email", account.Email, "moderator", account.IsModerator)
	}
	return nil
}

// Login checks the reserved moderator pair first, then the account collection, and makes the match the active session.
//
// A failed login wraps [shared.ErrAuthFailed] and leaves the current session untouched.
func (s *Service) Login(ctx context.Context, email, password string) (models.Account, error) {
	var account models.Account

	if email == ModeratorEmail && password == moderatorPassword {
		account = Moderator()
	} else {
		found, err := s.accounts.FindByCredentials(ctx, email, password)
		if err != nil {
			return models.Account{}, err
		}
		if found == nil {
			s.logger.Warn("login failed", "email", email)
			return models.Account{}, shared.ErrAuthFailed
		}
		account = *found
	}

	if err := s.establish(ctx, account); err != nil {
		return models.Account{}, err
	}
	s.logger.Info("logged in", "email", account.Email, "moderator", account.IsModerator)
	return account, nil
}

// Register creates a regular account and makes it the active session.
//
// The email is stored exactly as entered. The reserved moderator email cannot be registered.
// When the session cannot be persisted the new account is removed again.
func (s *Service) Register(ctx context.Context, email, password string) (models.Account, error) {
	account := models.NewAccount(email, password)
	if err := account.Validate(); err != nil {
		return models.Account{}, err
	}
	if account.Email == ModeratorEmail {
		return models.Account{}, fmt.Errorf("%w: account %s", shared.ErrDuplicate, account.Email)
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		return models.Account{}, err
	}

	if err := s.establish(ctx, account); err != nil {
		if rerr := s.accounts.RemoveByKey(ctx, account.Key()); rerr != nil {
			s.logger.Error("failed to remove account after session error", "email", account.Email, "error", rerr)
		}
		return models.Account{}, err
	}
	s.logger.Info("registered account", "email", account.Email)
	return account, nil
}

// Logout clears the active session. Logging out twice is not an error.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	s.mu.Lock()
	s.active = nil
	s.mu.Unlock()
	return nil
}

// Current returns the active identity.
func (s *Service) Current() (models.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.active == nil {
		return models.Account{}, false
	}
	return *s.active, true
}

// RequireSession returns the active identity or [shared.ErrNotAuthenticated].
func (s *Service) RequireSession() (models.Account, error) {
	account, ok := s.Current()
	if !ok {
		return models.Account{}, shared.ErrNotAuthenticated
	}
	return account, nil
}

// RequireModerator returns the active identity when it is the moderator.
//
// Without a session it fails with [shared.ErrNotAuthenticated]; any other identity gets [shared.ErrUnauthorized].
func (s *Service) RequireModerator() (models.Account, error) {
	account, err := s.RequireSession()
	if err != nil {
		return models.Account{}, err
	}
	if !account.IsModerator {
		return models.Account{}, fmt.Errorf("%w: %s is not a moderator", shared.ErrUnauthorized, account.Email)
	}
	return account, nil
}

func (s *Service) establish(ctx context.Context, account models.Account) error {
	if err := s.sessions.Save(ctx, account); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	s.mu.Lock()
	s.active = &account
	s.mu.Unlock()
	return nil
}
