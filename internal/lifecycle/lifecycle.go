// package lifecycle implements the release and ticket lifecycle engines.
//
// Engines authorize every call through a [Gate] before touching a repository, and apply status changes
// through the transition functions in [models] inside one atomic repository update.
package lifecycle

import (
	"time"

	"github.com/desertthunder/kedoo/internal/models"
)

// Gate is the session layer the engines authorize through.
type Gate interface {
	RequireSession() (models.Account, error)
	RequireModerator() (models.Account, error)
}

// Clock returns the current time.
type Clock func() time.Time
