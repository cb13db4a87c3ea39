package application

import (
	"errors"

	"github.com/sanosuguru/go-train-ticket-booking/internal/domain/ticket"
	"github.com/sanosuguru/go-train-ticket-booking/internal/domain/transaction"
	"github.com/sanosuguru/go-train-ticket-booking/internal/domain/trip"
	"github.com/sanosuguru/go-train-ticket-booking/internal/pkg/metrics"
)

// passOrStorageFailure は expected のいずれかに該当するエラーはそのまま返し、
// それ以外は ErrStorageFailure でラップする
func passOrStorageFailure(op string, err error, expected ...error) error {
	for _, target := range expected {
		if errors.Is(err, target) {
			return err
		}
	}
	return transaction.StorageFailure(op, err)
}

// IsBusinessError は業務ルール上の想定内の失敗かを返す
func IsBusinessError(err error) bool {
	if errors.Is(err, transaction.ErrStorageFailure) {
		return false
	}
	return errors.Is(err, trip.ErrTripNotFound) ||
		errors.Is(err, trip.ErrNoAvailableSeats) ||
		errors.Is(err, trip.ErrTripAlreadyDeparted) ||
		errors.Is(err, ticket.ErrTicketNotFound) ||
		errors.Is(err, ticket.ErrExceedsReservedQuantity)
}

// IsValidationError は入力値の検証エラーかを返す
func IsValidationError(err error) bool {
	return errors.Is(err, trip.ErrInvalidQuantity) ||
		errors.Is(err, trip.ErrInvalidTimeOfDay) ||
		errors.Is(err, trip.ErrStationRequired) ||
		errors.Is(err, trip.ErrDateRequired) ||
		errors.Is(err, ticket.ErrInvalidQuantity) ||
		errors.Is(err, ticket.ErrInvalidTicketID)
}

// statusLabel はメトリクスの status ラベル値を返す
func statusLabel(err error) string {
	switch {
	case err == nil:
		return metrics.StatusSuccess
	case errors.Is(err, transaction.ErrStorageFailure):
		return metrics.StatusError
	case errors.Is(err, trip.ErrTripNotFound):
		return metrics.StatusTripNotFound
	case errors.Is(err, trip.ErrNoAvailableSeats):
		return metrics.StatusNoSeats
	case errors.Is(err, trip.ErrTripAlreadyDeparted):
		return metrics.StatusDeparted
	case errors.Is(err, ticket.ErrTicketNotFound):
		return metrics.StatusTicketNotFound
	case errors.Is(err, ticket.ErrExceedsReservedQuantity):
		return metrics.StatusExceeds
	case IsValidationError(err):
		return metrics.StatusInvalid
	default:
		return metrics.StatusError
	}
}
