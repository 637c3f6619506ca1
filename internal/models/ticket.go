package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/kedoo/internal/shared"
)

// TicketStatus is the state of a support ticket.
type TicketStatus string

const (
	TicketOpen     TicketStatus = "open"
	TicketAnswered TicketStatus = "answered"
	// TicketClosed is a terminal state with no transition into it yet.
	TicketClosed TicketStatus = "closed"
)

// ticketTransitions maps each status to the statuses reachable from it.
var ticketTransitions = map[TicketStatus]map[TicketStatus]struct{}{
	TicketOpen: {
		TicketAnswered: {},
	},
	TicketAnswered: {},
	TicketClosed:   {},
}

// CanTransition reports whether a ticket may move from s to next.
func (s TicketStatus) CanTransition(next TicketStatus) bool {
	_, ok := ticketTransitions[s][next]
	return ok
}

func (s TicketStatus) String() string { return string(s) }

// Ticket is a user's support request.
type Ticket struct {
	ID        string       `json:"id"`
	UserEmail string       `json:"userEmail"`
	Subject   string       `json:"subject"`
	Message   string       `json:"message"`
	Status    TicketStatus `json:"status"`
	Response  string       `json:"response,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
}

// Key implements [Record].
func (t Ticket) Key() string { return t.ID }

// NewTicket opens a ticket for owner. Subject and message are required.
func NewTicket(id, owner, subject, message string, at time.Time) (Ticket, error) {
	var missing []string
	if shared.IsBlank(subject) {
		missing = append(missing, "subject")
	}
	if shared.IsBlank(message) {
		missing = append(missing, "message")
	}
	if err := shared.MissingFields(missing...); err != nil {
		return Ticket{}, err
	}

	return Ticket{
		ID:        id,
		UserEmail: owner,
		Subject:   strings.TrimSpace(subject),
		Message:   message,
		Status:    TicketOpen,
		CreatedAt: at,
	}, nil
}

// TicketTransition is a requested change of a ticket's status together with its payload.
type TicketTransition interface {
	Name() string
	ticketTransition()
}

// AnswerTicket records the moderator's response.
type AnswerTicket struct {
	Response string
}

func (AnswerTicket) Name() string      { return "answer" }
func (AnswerTicket) ticketTransition() {}

// TransitionTicket applies tr to t and returns the resulting ticket; t is never modified.
func TransitionTicket(t Ticket, tr TicketTransition) (Ticket, error) {
	next := t

	switch tr := tr.(type) {
	case AnswerTicket:
		if !t.Status.CanTransition(TicketAnswered) {
			return t, fmt.Errorf("%w: cannot %s a ticket in status %s", shared.ErrInvalidTransition, tr.Name(), t.Status)
		}
		if shared.IsBlank(tr.Response) {
			return t, shared.MissingFields("response")
		}
		next.Status = TicketAnswered
		next.Response = tr.Response
	default:
		return t, fmt.Errorf("%w: unknown ticket transition %T", shared.ErrInvalidTransition, tr)
	}

	return next, nil
}
