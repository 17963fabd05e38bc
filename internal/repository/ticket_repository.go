package repository

import (
	"context"
	"sort"

	"github.com/jornal-escolar/portal-api/internal/models"
	"github.com/jornal-escolar/portal-api/pkg/docstore"
)

const ticketsDocument = "tickets"

// TicketRepository provides persistence for support tickets.
type TicketRepository struct {
	store *docstore.Store
}

// NewTicketRepository creates the repository.
func NewTicketRepository(store *docstore.Store) *TicketRepository {
	return &TicketRepository{store: store}
}

// List returns all tickets, newest first.
func (r *TicketRepository) List(ctx context.Context) ([]models.Ticket, error) {
	var tickets []models.Ticket
	if err := r.store.Load(ticketsDocument, &tickets); err != nil {
		return nil, err
	}
	sort.Slice(tickets, func(i, j int) bool {
		return tickets[i].CreatedAt.After(tickets[j].CreatedAt)
	})
	return tickets, nil
}

// GetByID returns a ticket by identifier.
func (r *TicketRepository) GetByID(ctx context.Context, id string) (*models.Ticket, error) {
	var tickets []models.Ticket
	if err := r.store.Load(ticketsDocument, &tickets); err != nil {
		return nil, err
	}
	for i := range tickets {
		if tickets[i].ID == id {
			ticket := tickets[i]
			return &ticket, nil
		}
	}
	return nil, ErrNoRecord
}

// Create appends a new ticket.
func (r *TicketRepository) Create(ctx context.Context, ticket *models.Ticket) error {
	var tickets []models.Ticket
	return r.store.Update(ticketsDocument, &tickets, func() error {
		tickets = append(tickets, *ticket)
		return nil
	})
}

// Update applies mutate to the ticket with the given id under the document
// lock and returns the updated copy.
func (r *TicketRepository) Update(ctx context.Context, id string, mutate func(*models.Ticket) error) (*models.Ticket, error) {
	var tickets []models.Ticket
	var updated *models.Ticket
	err := r.store.Update(ticketsDocument, &tickets, func() error {
		for i := range tickets {
			if tickets[i].ID == id {
				if err := mutate(&tickets[i]); err != nil {
					return err
				}
				record := tickets[i]
				updated = &record
				return nil
			}
		}
		return ErrNoRecord
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a ticket permanently.
func (r *TicketRepository) Delete(ctx context.Context, id string) error {
	var tickets []models.Ticket
	return r.store.Update(ticketsDocument, &tickets, func() error {
		for i := range tickets {
			if tickets[i].ID == id {
				tickets = append(tickets[:i], tickets[i+1:]...)
				return nil
			}
		}
		return ErrNoRecord
	})
}
