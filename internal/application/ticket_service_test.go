package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-train-ticket-booking/internal/domain/ticket"
	"github.com/sanosuguru/go-train-ticket-booking/internal/domain/transaction"
)

func TestTicketService_GetTicket(t *testing.T) {
	ctx := context.Background()

	t.Run("取得できる", func(t *testing.T) {
		repo := new(MockTicketRepository)
		repo.On("GetByID", ctx, int64(5)).Return(heldTicket(2), nil)

		got, err := NewTicketService(repo).GetTicket(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, 2, got.Quantity)
	})

	t.Run("存在しない", func(t *testing.T) {
		repo := new(MockTicketRepository)
		repo.On("GetByID", ctx, int64(5)).Return(nil, ticket.ErrTicketNotFound)

		_, err := NewTicketService(repo).GetTicket(ctx, 5)
		assert.ErrorIs(t, err, ticket.ErrTicketNotFound)
	})

	t.Run("不正なID", func(t *testing.T) {
		repo := new(MockTicketRepository)

		_, err := NewTicketService(repo).GetTicket(ctx, 0)
		assert.ErrorIs(t, err, ticket.ErrInvalidTicketID)
		repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("DBエラー", func(t *testing.T) {
		repo := new(MockTicketRepository)
		repo.On("GetByID", ctx, int64(5)).Return(nil, errors.New("timeout"))

		_, err := NewTicketService(repo).GetTicket(ctx, 5)
		assert.ErrorIs(t, err, transaction.ErrStorageFailure)
	})
}

func TestTicketService_ListTripTickets(t *testing.T) {
	ctx := context.Background()
	repo := new(MockTicketRepository)
	repo.On("ListByTripID", ctx, int64(1)).Return([]*ticket.Ticket{heldTicket(1), heldTicket(2)}, nil)

	got, err := NewTicketService(repo).ListTripTickets(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
