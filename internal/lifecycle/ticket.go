package lifecycle

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/kedoo/internal/models"
	"github.com/desertthunder/kedoo/internal/repositories"
	"github.com/desertthunder/kedoo/internal/shared"
)

// TicketEngine opens support tickets and records moderator answers.
type TicketEngine struct {
	tickets *repositories.TicketRepository
	gate    Gate
	now     Clock
	logger  *log.Logger
}

// NewTicketEngine creates a new [TicketEngine]
func NewTicketEngine(tickets *repositories.TicketRepository, gate Gate, now Clock, logger *log.Logger) *TicketEngine {
	return &TicketEngine{tickets: tickets, gate: gate, now: now, logger: logger}
}

// Create opens a ticket owned by the active identity
func (e *TicketEngine) Create(ctx context.Context, subject, message string) (models.Ticket, error) {
	owner, err := e.gate.RequireSession()
	if err != nil {
		return models.Ticket{}, err
	}

	ticket, err := models.NewTicket(shared.GenerateID(), owner.Email, subject, message, e.now())
	if err != nil {
		return models.Ticket{}, err
	}

	if err := e.tickets.Append(ctx, ticket); err != nil {
		return models.Ticket{}, fmt.Errorf("failed to create ticket: %w", err)
	}

	e.logger.Info("opened ticket", "id", ticket.ID, "owner", owner.Email)
	return ticket, nil
}

// Answer records the moderator's response to an open ticket
func (e *TicketEngine) Answer(ctx context.Context, id, response string) (models.Ticket, error) {
	moderator, err := e.gate.RequireModerator()
	if err != nil {
		return models.Ticket{}, err
	}

	var answered models.Ticket
	err = e.tickets.Modify(ctx, id, func(t models.Ticket) (models.Ticket, error) {
		next, err := models.TransitionTicket(t, models.AnswerTicket{Response: response})
		answered = next
		return next, err
	})
	if err != nil {
		return models.Ticket{}, err
	}

	e.logger.Info("answered ticket", "id", id, "moderator", moderator.Email)
	return answered, nil
}

// ListMine returns the active identity's tickets
func (e *TicketEngine) ListMine(ctx context.Context) ([]models.Ticket, error) {
	owner, err := e.gate.RequireSession()
	if err != nil {
		return nil, err
	}
	return e.tickets.ListByOwner(ctx, owner.Email)
}

// ListOpen returns every ticket waiting for an answer
func (e *TicketEngine) ListOpen(ctx context.Context) ([]models.Ticket, error) {
	if _, err := e.gate.RequireModerator(); err != nil {
		return nil, err
	}
	return e.tickets.ListByStatus(ctx, models.TicketOpen)
}
