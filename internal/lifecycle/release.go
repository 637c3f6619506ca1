package lifecycle

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/kedoo/internal/formatter"
	"github.com/desertthunder/kedoo/internal/models"
	"github.com/desertthunder/kedoo/internal/repositories"
	"github.com/desertthunder/kedoo/internal/shared"
)

// ReleaseEngine drives releases from draft through moderation to approval or rejection.
type ReleaseEngine struct {
	releases *repositories.ReleaseRepository
	gate     Gate
	now      Clock
	logger   *log.Logger
}

// NewReleaseEngine creates a new [ReleaseEngine] stamping submissions with now.
func NewReleaseEngine(releases *repositories.ReleaseRepository, gate Gate, now Clock, logger *log.Logger) *ReleaseEngine {
	return &ReleaseEngine{releases: releases, gate: gate, now: now, logger: logger}
}

// SaveDraft persists the collection as a draft owned by the active identity. Drafts may have no tracks.
func (e *ReleaseEngine) SaveDraft(ctx context.Context, c *models.TrackCollection) (models.Release, error) {
	owner, err := e.gate.RequireSession()
	if err != nil {
		return models.Release{}, err
	}

	draft := c.Draft(shared.GenerateID(), owner.Email)
	if err := e.releases.Append(ctx, draft); err != nil {
		return models.Release{}, fmt.Errorf("failed to save draft: %w", err)
	}

	e.logger.Info("saved draft", "id", draft.ID, "owner", owner.Email, "tracks", len(draft.Tracks))
	return draft, nil
}

// Submit sends the collection straight to moderation.
//
// Fails without persisting anything when the collection has no tracks.
func (e *ReleaseEngine) Submit(ctx context.Context, c *models.TrackCollection) (models.Release, error) {
	owner, err := e.gate.RequireSession()
	if err != nil {
		return models.Release{}, err
	}

	draft := c.Draft(shared.GenerateID(), owner.Email)
	release, err := models.TransitionRelease(draft, models.SubmitRelease{Owner: owner.Email, At: e.now()})
	if err != nil {
		return models.Release{}, err
	}

	if err := e.releases.Append(ctx, release); err != nil {
		return models.Release{}, fmt.Errorf("failed to submit release: %w", err)
	}

	e.logger.Info("submitted release", "id", release.ID, "owner", owner.Email, "tracks", len(release.Tracks))
	return release, nil
}

// SubmitDraft moves a stored draft owned by the active identity to moderation.
func (e *ReleaseEngine) SubmitDraft(ctx context.Context, id string) (models.Release, error) {
	owner, err := e.gate.RequireSession()
	if err != nil {
		return models.Release{}, err
	}

	var submitted models.Release
	err = e.releases.Modify(ctx, id, func(r models.Release) (models.Release, error) {
		if !r.OwnedBy(owner.Email) {
			return r, notOwner(owner, r)
		}
		next, err := models.TransitionRelease(r, models.SubmitRelease{Owner: owner.Email, At: e.now()})
		submitted = next
		return next, err
	})
	if err != nil {
		return models.Release{}, err
	}

	e.logger.Info("submitted draft", "id", id, "owner", owner.Email)
	return submitted, nil
}

// Approve accepts a release in moderation. A non-empty upc replaces the stored one.
func (e *ReleaseEngine) Approve(ctx context.Context, id, upc string) (models.Release, error) {
	return e.moderate(ctx, id, models.ApproveRelease{UPC: upc})
}

// Reject turns down a release in moderation. reason is required.
func (e *ReleaseEngine) Reject(ctx context.Context, id, reason string) (models.Release, error) {
	return e.moderate(ctx, id, models.RejectRelease{Reason: reason})
}

func (e *ReleaseEngine) moderate(ctx context.Context, id string, t models.ReleaseTransition) (models.Release, error) {
	moderator, err := e.gate.RequireModerator()
	if err != nil {
		return models.Release{}, err
	}

	var updated models.Release
	err = e.releases.Modify(ctx, id, func(r models.Release) (models.Release, error) {
		next, err := models.TransitionRelease(r, t)
		updated = next
		return next, err
	})
	if err != nil {
		return models.Release{}, err
	}

	e.logger.Info("moderated release", "id", id, "action", t.Name(), "status", updated.Status, "moderator", moderator.Email)
	return updated, nil
}

// Delete removes a draft or rejected release owned by the active identity.
func (e *ReleaseEngine) Delete(ctx context.Context, id string) error {
	owner, err := e.gate.RequireSession()
	if err != nil {
		return err
	}

	err = e.releases.RemoveIf(ctx, id, func(r models.Release) error {
		if !r.OwnedBy(owner.Email) {
			return notOwner(owner, r)
		}
		_, err := models.TransitionRelease(r, models.DeleteRelease{})
		return err
	})
	if err != nil {
		return err
	}

	e.logger.Info("deleted release", "id", id, "owner", owner.Email)
	return nil
}

// ListMine returns the active identity's releases, optionally narrowed to status.
func (e *ReleaseEngine) ListMine(ctx context.Context, status models.ReleaseStatus) ([]models.Release, error) {
	owner, err := e.gate.RequireSession()
	if err != nil {
		return nil, err
	}

	return e.releases.Filter(ctx, func(r models.Release) bool {
		return r.OwnedBy(owner.Email) && (status == "" || r.Status == status)
	})
}

// Get returns a release visible to the active identity: its owner or the moderator.
func (e *ReleaseEngine) Get(ctx context.Context, id string) (models.Release, error) {
	viewer, err := e.gate.RequireSession()
	if err != nil {
		return models.Release{}, err
	}

	r, err := e.releases.Get(ctx, id)
	if err != nil {
		return models.Release{}, err
	}
	if !viewer.IsModerator && !r.OwnedBy(viewer.Email) {
		return models.Release{}, notOwner(viewer, r)
	}
	return r, nil
}

// ListPending returns every release waiting for moderation in submission order.
func (e *ReleaseEngine) ListPending(ctx context.Context) ([]models.Release, error) {
	if _, err := e.gate.RequireModerator(); err != nil {
		return nil, err
	}
	return e.releases.ListByStatus(ctx, models.StatusModeration)
}

// Export renders a release visible to the active identity in format f.
func (e *ReleaseEngine) Export(ctx context.Context, id string, f formatter.Format) ([]byte, error) {
	r, err := e.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return formatter.ExportRelease(r, f)
}

func notOwner(viewer models.Account, r models.Release) error {
	return fmt.Errorf("%w: release %s does not belong to %s", shared.ErrUnauthorized, r.ID, viewer.Email)
}
