package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/desertthunder/kedoo/internal/models"
	"github.com/desertthunder/kedoo/internal/store"
)

// SessionRepository persists the active identity snapshot under the active_session key.
type SessionRepository struct {
	store store.Store
}

// NewSessionRepository creates a new [SessionRepository] backed by s
func NewSessionRepository(s store.Store) *SessionRepository {
	return &SessionRepository{store: s}
}

// Load returns the stored identity, or nil when nobody is signed in.
func (r *SessionRepository) Load(ctx context.Context) (*models.Account, error) {
	data, err := r.store.Get(ctx, KeyActiveSession)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}

	var account models.Account
	if err := json.Unmarshal(data, &account); err != nil {
		return nil, fmt.Errorf("failed to decode active session: %w", err)
	}
	return &account, nil
}

// Save stores account as the active identity
func (r *SessionRepository) Save(ctx context.Context, account models.Account) error {
	data, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("failed to encode active session: %w", err)
	}
	return r.store.Set(ctx, KeyActiveSession, data)
}

// Clear removes the active identity
func (r *SessionRepository) Clear(ctx context.Context) error {
	return r.store.Delete(ctx, KeyActiveSession)
}
