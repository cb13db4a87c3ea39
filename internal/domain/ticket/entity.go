package ticket

import (
	"time"

	"github.com/sanosuguru/go-train-ticket-booking/internal/domain/trip"
)

// Ticket は便に対して発券された座席の記録を表す
type Ticket struct {
	ID           int64
	TripID       int64
	PurchaseDate time.Time
	Quantity     int
	TotalPrice   int

	// Trip は FindByID / GetByID で結合して読み込まれる便情報
	Trip *trip.Trip
}

// NewTicket は新しいチケットを作成する
func NewTicket(t *trip.Trip, quantity int, purchasedAt time.Time) *Ticket {
	return &Ticket{
		TripID:       t.ID,
		PurchaseDate: trip.DateOf(purchasedAt),
		Quantity:     quantity,
		TotalPrice:   t.PriceFor(quantity),
		Trip:         t,
	}
}

// UnitPrice は1席あたりの支払額を返す
func (t *Ticket) UnitPrice() int {
	if t.Quantity == 0 {
		return 0
	}
	return t.TotalPrice / t.Quantity
}

// CanCancel は quantity 席を取り消せるかを返す
func (t *Ticket) CanCancel(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if quantity > t.Quantity {
		return ErrExceedsReservedQuantity
	}
	return nil
}

// IsTripDeparted は紐づく便が運行済みかを返す
func (t *Ticket) IsTripDeparted() bool {
	return t.Trip != nil && t.Trip.Completed
}

// Validate はチケットの検証を行う
func (t *Ticket) Validate() error {
	if t.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	return nil
}
