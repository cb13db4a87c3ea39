package handler

import (
	"context"

	"github.com/sanosuguru/go-train-ticket-booking/internal/application"
	"github.com/sanosuguru/go-train-ticket-booking/internal/domain/ticket"
	"github.com/sanosuguru/go-train-ticket-booking/internal/domain/trip"
)

// BookingServiceInterface はチケット購入サービスのインターフェース
type BookingServiceInterface interface {
	Purchase(ctx context.Context, input application.PurchaseInput) (*ticket.Ticket, error)
}

// CancellationServiceInterface はチケット取消サービスのインターフェース
type CancellationServiceInterface interface {
	Cancel(ctx context.Context, input application.CancelInput) (*application.CancelResult, error)
}

// TicketServiceInterface はチケット参照サービスのインターフェース
type TicketServiceInterface interface {
	GetTicket(ctx context.Context, id int64) (*ticket.Ticket, error)
	ListTripTickets(ctx context.Context, tripID int64) ([]*ticket.Ticket, error)
}

// TripServiceInterface は便参照サービスのインターフェース
type TripServiceInterface interface {
	SearchTrip(ctx context.Context, criteria trip.SearchCriteria) (*trip.Trip, error)
	GetAvailability(ctx context.Context, tripID int64) (*application.Availability, error)
}
