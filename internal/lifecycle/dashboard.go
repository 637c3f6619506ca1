package lifecycle

import (
	"context"
	"slices"

	"github.com/desertthunder/kedoo/internal/models"
	"github.com/desertthunder/kedoo/internal/repositories"
)

// recentLimit is how many releases the dashboard lists.
const recentLimit = 3

// Summary is the signed-in user's dashboard.
type Summary struct {
	Email        string           `json:"email"`
	Total        int              `json:"total"`
	InModeration int              `json:"inModeration"`
	Approved     int              `json:"approved"`
	Recent       []models.Release `json:"recent"`
}

// ModerationSummary counts the items waiting for the moderator.
type ModerationSummary struct {
	PendingReleases int `json:"pendingReleases"`
	OpenTickets     int `json:"openTickets"`
}

// Dashboard aggregates both collections for the summary views.
type Dashboard struct {
	releases *repositories.ReleaseRepository
	tickets  *repositories.TicketRepository
	gate     Gate
}

// NewDashboard creates a new [Dashboard]
func NewDashboard(releases *repositories.ReleaseRepository, tickets *repositories.TicketRepository, gate Gate) *Dashboard {
	return &Dashboard{releases: releases, tickets: tickets, gate: gate}
}

// Summary counts the active identity's releases and lists the most recently added ones, newest first.
func (d *Dashboard) Summary(ctx context.Context) (Summary, error) {
	owner, err := d.gate.RequireSession()
	if err != nil {
		return Summary{}, err
	}

	mine, err := d.releases.ListByOwner(ctx, owner.Email)
	if err != nil {
		return Summary{}, err
	}

	s := Summary{Email: owner.Email, Total: len(mine)}
	for _, r := range mine {
		switch r.Status {
		case models.StatusModeration:
			s.InModeration++
		case models.StatusApproved:
			s.Approved++
		}
	}

	recent := mine[max(0, len(mine)-recentLimit):]
	s.Recent = slices.Clone(recent)
	slices.Reverse(s.Recent)
	return s, nil
}

// ModerationSummary counts pending releases and open tickets.
func (d *Dashboard) ModerationSummary(ctx context.Context) (ModerationSummary, error) {
	if _, err := d.gate.RequireModerator(); err != nil {
		return ModerationSummary{}, err
	}

	pending, err := d.releases.ListByStatus(ctx, models.StatusModeration)
	if err != nil {
		return ModerationSummary{}, err
	}
	open, err := d.tickets.ListByStatus(ctx, models.TicketOpen)
	if err != nil {
		return ModerationSummary{}, err
	}

	return ModerationSummary{PendingReleases: len(pending), OpenTickets: len(open)}, nil
}
