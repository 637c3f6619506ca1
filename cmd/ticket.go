package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/kedoo/internal/formatter"
)

// TicketNew opens a support ticket.
func (r *Runner) TicketNew(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}

	ticket, err := r.tickets.Create(ctx, cmd.String("subject"), cmd.String("message"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(ticket, true)
	}
	return r.writePlain("%s ticket %s opened\n", r.palette.Success("✓"), ticket.ID)
}

// TicketList prints the signed-in user's tickets.
func (r *Runner) TicketList(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}

	tickets, err := r.tickets.ListMine(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(tickets, true)
	}
	if len(tickets) == 0 {
		return r.writePlain("%s\n", r.palette.Muted("No tickets"))
	}
	return r.writePlain("%s\n", formatter.TicketTable(tickets, r.palette))
}
