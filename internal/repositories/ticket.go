package repositories

import (
	"context"

	"github.com/desertthunder/kedoo/internal/models"
	"github.com/desertthunder/kedoo/internal/store"
)

// TicketRepository persists [models.Ticket] records under the tickets key.
type TicketRepository struct {
	*Collection[models.Ticket]
}

// NewTicketRepository creates a new [TicketRepository] backed by s
func NewTicketRepository(s store.Store) *TicketRepository {
	return &TicketRepository{NewCollection[models.Ticket](s, KeyTickets, "ticket")}
}

// ListByOwner returns the tickets opened by email in insertion order
func (r *TicketRepository) ListByOwner(ctx context.Context, email string) ([]models.Ticket, error) {
	return r.Filter(ctx, func(t models.Ticket) bool { return t.UserEmail == email })
}

// ListByStatus returns the tickets in status in insertion order
func (r *TicketRepository) ListByStatus(ctx context.Context, status models.TicketStatus) ([]models.Ticket, error) {
	return r.Filter(ctx, func(t models.Ticket) bool { return t.Status == status })
}
