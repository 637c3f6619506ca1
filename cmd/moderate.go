package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/kedoo/internal/formatter"
)

// ModerateSummary prints the moderator's queue sizes.
func (r *Runner) ModerateSummary(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}

	summary, err := r.dashboard.ModerationSummary(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(summary, true)
	}
	r.writePlainHeader("Moderation")
	r.writePlain("Pending releases: %d\n", summary.PendingReleases)
	return r.writePlain("Open tickets:     %d\n", summary.OpenTickets)
}

// ModerateReleases lists releases waiting for moderation.
func (r *Runner) ModerateReleases(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}

	pending, err := r.releases.ListPending(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(pending, true)
	}
	if len(pending) == 0 {
		return r.writePlain("%s\n", r.palette.Muted("Nothing to review"))
	}
	return r.writePlain("%s\n", formatter.ReleaseTable(pending, r.palette))
}

// ModerateTickets lists open tickets.
func (r *Runner) ModerateTickets(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}

	open, err := r.tickets.ListOpen(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(open, true)
	}
	if len(open) == 0 {
		return r.writePlain("%s\n", r.palette.Muted("No open tickets"))
	}
	return r.writePlain("%s\n", formatter.TicketTable(open, r.palette))
}

// ModerateApprove approves a release, optionally assigning a UPC.
func (r *Runner) ModerateApprove(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "release id")
	if err != nil {
		return err
	}
	if err := r.connect(ctx); err != nil {
		return err
	}

	release, err := r.releases.Approve(ctx, id, cmd.String("upc"))
	if err != nil {
		return err
	}
	return r.writePlain("%s %s %s\n", r.palette.Success("✓"), release.ID, r.palette.ReleaseBadge(release.Status))
}

// ModerateReject rejects a release with a reason.
func (r *Runner) ModerateReject(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "release id")
	if err != nil {
		return err
	}
	if err := r.connect(ctx); err != nil {
		return err
	}

	release, err := r.releases.Reject(ctx, id, cmd.String("reason"))
	if err != nil {
		return err
	}
	return r.writePlain("%s %s %s\n", r.palette.Success("✓"), release.ID, r.palette.ReleaseBadge(release.Status))
}

// ModerateAnswer responds to an open ticket.
func (r *Runner) ModerateAnswer(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "ticket id")
	if err != nil {
		return err
	}
	if err := r.connect(ctx); err != nil {
		return err
	}

	ticket, err := r.tickets.Answer(ctx, id, cmd.String("response"))
	if err != nil {
		return err
	}
	return r.writePlain("%s ticket %s %s\n", r.palette.Success("✓"), ticket.ID, r.palette.TicketBadge(ticket.Status))
}

// Dashboard prints the signed-in user's release summary.
func (r *Runner) Dashboard(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}

	summary, err := r.dashboard.Summary(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(summary, true)
	}

	r.writePlainHeader("Dashboard for " + summary.Email)
	r.writePlain("Releases:      %d\n", summary.Total)
	r.writePlain("In moderation: %d\n", summary.InModeration)
	r.writePlain("Approved:      %d\n", summary.Approved)
	if len(summary.Recent) == 0 {
		return nil
	}
	return r.writePlainln("Recent\n%s", formatter.ReleaseTable(summary.Recent, r.palette))
}
