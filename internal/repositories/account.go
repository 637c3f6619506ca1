package repositories

import (
	"context"
	"fmt"

	"github.com/desertthunder/kedoo/internal/models"
	"github.com/desertthunder/kedoo/internal/shared"
	"github.com/desertthunder/kedoo/internal/store"
)

// AccountRepository persists registered [models.Account] records under the accounts key.
type AccountRepository struct {
	*Collection[models.Account]
}

// NewAccountRepository creates a new [AccountRepository] backed by s
func NewAccountRepository(s store.Store) *AccountRepository {
	return &AccountRepository{NewCollection[models.Account](s, KeyAccounts, "account")}
}

// Create validates account and appends it; an existing email yields a duplicate error.
func (r *AccountRepository) Create(ctx context.Context, account models.Account) error {
	if err := account.Validate(); err != nil {
		return err
	}
	if account.IsModerator {
		return fmt.Errorf("%w: moderator accounts cannot be stored", shared.ErrValidation)
	}
	return r.Append(ctx, account)
}

// FindByCredentials returns the account whose email and password both match exactly.
func (r *AccountRepository) FindByCredentials(ctx context.Context, email, password string) (*models.Account, error) {
	accounts, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, a := range accounts {
		if a.Matches(email, password) {
			return &a, nil
		}
	}
	return nil, nil
}
