package application

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/sanosuguru/go-train-ticket-booking/internal/domain/ticket"
	"github.com/sanosuguru/go-train-ticket-booking/internal/domain/transaction"
	"github.com/sanosuguru/go-train-ticket-booking/internal/domain/trip"
)

// MockTxManager implements transaction.Manager
type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) Begin(ctx context.Context) (transaction.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(transaction.Tx), args.Error(1)
}

// MockTx implements transaction.Tx
type MockTx struct {
	mock.Mock
}

func (m *MockTx) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTx) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// MockTripRepository implements trip.Repository
type MockTripRepository struct {
	mock.Mock
}

func (m *MockTripRepository) FindTrip(ctx context.Context, tx transaction.Tx, c trip.SearchCriteria) (*trip.Trip, error) {
	args := m.Called(ctx, tx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trip.Trip), args.Error(1)
}

func (m *MockTripRepository) SearchTrip(ctx context.Context, c trip.SearchCriteria) (*trip.Trip, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trip.Trip), args.Error(1)
}

func (m *MockTripRepository) GetByID(ctx context.Context, id int64) (*trip.Trip, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trip.Trip), args.Error(1)
}

func (m *MockTripRepository) ReserveSeats(ctx context.Context, tx transaction.Tx, tripID int64, quantity int) (int, error) {
	args := m.Called(ctx, tx, tripID, quantity)
	return args.Int(0), args.Error(1)
}

func (m *MockTripRepository) ReleaseSeats(ctx context.Context, tx transaction.Tx, tripID int64, quantity int) (int, error) {
	args := m.Called(ctx, tx, tripID, quantity)
	return args.Int(0), args.Error(1)
}

func (m *MockTripRepository) FindLedgerMismatches(ctx context.Context) ([]trip.LedgerMismatch, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trip.LedgerMismatch), args.Error(1)
}

// MockTicketRepository implements ticket.Repository
type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) Create(ctx context.Context, tx transaction.Tx, t *ticket.Ticket) error {
	args := m.Called(ctx, tx, t)
	return args.Error(0)
}

func (m *MockTicketRepository) FindByID(ctx context.Context, tx transaction.Tx, id int64) (*ticket.Ticket, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ticket.Ticket), args.Error(1)
}

func (m *MockTicketRepository) GetByID(ctx context.Context, id int64) (*ticket.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ticket.Ticket), args.Error(1)
}

func (m *MockTicketRepository) ReduceOrDelete(ctx context.Context, tx transaction.Tx, id int64, quantity int) (bool, error) {
	args := m.Called(ctx, tx, id, quantity)
	return args.Bool(0), args.Error(1)
}

func (m *MockTicketRepository) ListByTripID(ctx context.Context, tripID int64) ([]*ticket.Ticket, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ticket.Ticket), args.Error(1)
}

// MockSeatCache implements SeatCache
type MockSeatCache struct {
	mock.Mock
}

func (m *MockSeatCache) GetFreeSeats(ctx context.Context, tripID int64) (int, error) {
	args := m.Called(ctx, tripID)
	return args.Int(0), args.Error(1)
}

func (m *MockSeatCache) Generation(ctx context.Context, tripID int64) (int64, error) {
	args := m.Called(ctx, tripID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSeatCache) SetFreeSeats(ctx context.Context, tripID int64, gen int64, count int, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, tripID, gen, count, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockSeatCache) Invalidate(ctx context.Context, tripID int64) error {
	args := m.Called(ctx, tripID)
	return args.Error(0)
}

func burgosMadridTrip() *trip.Trip {
	return &trip.Trip{
		ID: 1,
		Route: trip.Route{
			ID: 1, OriginStation: "Burgos", DestinationStation: "Madrid", UnitPrice: 25,
		},
		TravelDate:    time.Date(2022, 4, 20, 0, 0, 0, 0, time.UTC),
		DepartureTime: trip.TimeOfDay{Hour: 8, Minute: 30},
		TotalSeats:    10,
		FreeSeats:     10,
	}
}
