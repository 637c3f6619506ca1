package repositories

import (
	"context"

	"github.com/desertthunder/kedoo/internal/models"
	"github.com/desertthunder/kedoo/internal/store"
)

// ReleaseRepository persists [models.Release] records under the releases key.
type ReleaseRepository struct {
	*Collection[models.Release]
}

// NewReleaseRepository creates a new [ReleaseRepository] backed by s.
//
// Every release written through it must satisfy [models.Release.Validate].
func NewReleaseRepository(s store.Store) *ReleaseRepository {
	return &ReleaseRepository{NewCollection[models.Release](s, KeyReleases, "release").Validated(models.Release.Validate)}
}

// ListByOwner returns the releases owned by email in insertion order
func (r *ReleaseRepository) ListByOwner(ctx context.Context, email string) ([]models.Release, error) {
	return r.Filter(ctx, func(rel models.Release) bool { return rel.OwnedBy(email) })
}

// ListByStatus returns the releases in status in insertion order
func (r *ReleaseRepository) ListByStatus(ctx context.Context, status models.ReleaseStatus) ([]models.Release, error) {
	return r.Filter(ctx, func(rel models.Release) bool { return rel.Status == status })
}
