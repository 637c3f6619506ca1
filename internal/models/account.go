package models

import (
	"github.com/desertthunder/kedoo/internal/shared"
)

// Account is a registered identity. Accounts are immutable once created and never deleted.
//
// IsModerator is only ever true for the synthetic moderator identity built by the auth package;
// registration never sets it.
type Account struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	IsModerator bool   `json:"isModerator,omitempty"`
}

// NewAccount builds a regular (non-moderator) account.
func NewAccount(email, password string) Account {
	return Account{Email: email, Password: password}
}

// Key implements [Record]. Accounts are keyed by their exact, case-sensitive email.
func (a Account) Key() string { return a.Email }

// Validate checks that both credentials are present.
func (a Account) Validate() error {
	var missing []string
	if shared.IsBlank(a.Email) {
		missing = append(missing, "email")
	}
	if a.Password == "" {
		missing = append(missing, "password")
	}
	return shared.MissingFields(missing...)
}

// Matches reports whether email and password equal the stored credentials verbatim.
func (a Account) Matches(email, password string) bool {
	return a.Email == email && a.Password == password
}
