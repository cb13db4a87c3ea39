package application

import (
	"context"

	"github.com/sanosuguru/go-train-ticket-booking/internal/domain/ticket"
)

type TicketService struct {
	ticketRepo ticket.Repository
}

func NewTicketService(tk ticket.Repository) *TicketService {
	return &TicketService{ticketRepo: tk}
}

func (s *TicketService) GetTicket(ctx context.Context, id int64) (*ticket.Ticket, error) {
	if id <= 0 {
		return nil, ticket.ErrInvalidTicketID
	}
	tk, err := s.ticketRepo.GetByID(ctx, id)
	if err != nil {
		return nil, passOrStorageFailure("チケット取得", err, ticket.ErrTicketNotFound)
	}
	return tk, nil
}

func (s *TicketService) ListTripTickets(ctx context.Context, tripID int64) ([]*ticket.Ticket, error) {
	tickets, err := s.ticketRepo.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, passOrStorageFailure("チケット一覧取得", err)
	}
	return tickets, nil
}
