package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sanosuguru/go-train-ticket-booking/internal/application"
	"github.com/sanosuguru/go-train-ticket-booking/internal/domain/ticket"
	"github.com/sanosuguru/go-train-ticket-booking/internal/domain/trip"
)

// MockBookingService は BookingServiceInterface のモック
type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) Purchase(ctx context.Context, input application.PurchaseInput) (*ticket.Ticket, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ticket.Ticket), args.Error(1)
}

// MockCancellationService は CancellationServiceInterface のモック
type MockCancellationService struct {
	mock.Mock
}

func (m *MockCancellationService) Cancel(ctx context.Context, input application.CancelInput) (*application.CancelResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.CancelResult), args.Error(1)
}

// MockTicketService は TicketServiceInterface のモック
type MockTicketService struct {
	mock.Mock
}

func (m *MockTicketService) GetTicket(ctx context.Context, id int64) (*ticket.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ticket.Ticket), args.Error(1)
}

func (m *MockTicketService) ListTripTickets(ctx context.Context, tripID int64) ([]*ticket.Ticket, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ticket.Ticket), args.Error(1)
}

// MockTripService は TripServiceInterface のモック
type MockTripService struct {
	mock.Mock
}

func (m *MockTripService) SearchTrip(ctx context.Context, c trip.SearchCriteria) (*trip.Trip, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trip.Trip), args.Error(1)
}

func (m *MockTripService) GetAvailability(ctx context.Context, tripID int64) (*application.Availability, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.Availability), args.Error(1)
}
