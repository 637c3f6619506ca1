package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/kedoo/internal/shared"
)

// ReleaseTransition is a requested change of a release's status together with its payload.
type ReleaseTransition interface {
	Name() string
	releaseTransition()
}

// SubmitRelease sends a draft to moderation on behalf of Owner at time At.
type SubmitRelease struct {
	Owner string
	At    time.Time
}

// ApproveRelease accepts a release. A non-empty UPC replaces the stored one.
type ApproveRelease struct {
	UPC string
}

// RejectRelease turns a release down. Reason is required.
type RejectRelease struct {
	Reason string
}

// DeleteRelease removes a release for good.
type DeleteRelease struct{}

func (SubmitRelease) Name() string  { return "submit" }
func (ApproveRelease) Name() string { return "approve" }
func (RejectRelease) Name() string  { return "reject" }
func (DeleteRelease) Name() string  { return "delete" }

func (SubmitRelease) releaseTransition()  {}
func (ApproveRelease) releaseTransition() {}
func (RejectRelease) releaseTransition()  {}
func (DeleteRelease) releaseTransition()  {}

// releaseTransitions maps each status to the statuses reachable from it.
var releaseTransitions = map[ReleaseStatus]map[ReleaseStatus]struct{}{
	StatusDraft: {
		StatusModeration: {},
		StatusDeleted:    {},
	},
	StatusModeration: {
		StatusApproved: {},
		StatusRejected: {},
	},
	StatusApproved: {},
	StatusRejected: {
		StatusDeleted: {},
	},
	StatusDeleted: {},
}

// CanTransition reports whether a release may move from s to next.
func (s ReleaseStatus) CanTransition(next ReleaseStatus) bool {
	_, ok := releaseTransitions[s][next]
	return ok
}

// CanDelete reports whether a release in status s may be deleted by its owner.
func (s ReleaseStatus) CanDelete() bool { return s.CanTransition(StatusDeleted) }

// TransitionRelease applies t to r and returns the resulting release.
//
// r is never modified. Errors wrap [shared.ErrInvalidTransition] when the current status does not allow t
// and [shared.ErrValidation] when the payload is incomplete.
func TransitionRelease(r Release, t ReleaseTransition) (Release, error) {
	next := r
	next.Tracks = append([]Track(nil), r.Tracks...)

	var target ReleaseStatus
	switch t := t.(type) {
	case SubmitRelease:
		target = StatusModeration
		if err := guard(r, t, target); err != nil {
			return r, err
		}
		if err := r.Album().validate(); err != nil {
			return r, err
		}
		if len(r.Tracks) == 0 {
			return r, fmt.Errorf("%w: add at least one track before submitting", shared.ErrValidation)
		}
		if shared.IsBlank(t.Owner) {
			return r, shared.MissingFields("userEmail")
		}
		next.UserEmail = t.Owner
		next.CreatedAt = t.At
	case ApproveRelease:
		target = StatusApproved
		if err := guard(r, t, target); err != nil {
			return r, err
		}
		if upc := strings.TrimSpace(t.UPC); upc != "" {
			next.UPC = upc
		}
	case RejectRelease:
		target = StatusRejected
		if err := guard(r, t, target); err != nil {
			return r, err
		}
		if shared.IsBlank(t.Reason) {
			return r, shared.MissingFields("rejectionReason")
		}
		next.RejectionReason = t.Reason
	case DeleteRelease:
		target = StatusDeleted
		if err := guard(r, t, target); err != nil {
			return r, err
		}
	default:
		return r, fmt.Errorf("%w: unknown release transition %T", shared.ErrInvalidTransition, t)
	}

	next.Status = target
	return next, nil
}

func guard(r Release, t ReleaseTransition, target ReleaseStatus) error {
	if !r.Status.CanTransition(target) {
		return fmt.Errorf("%w: cannot %s a release in status %s", shared.ErrInvalidTransition, t.Name(), r.Status)
	}
	return nil
}
