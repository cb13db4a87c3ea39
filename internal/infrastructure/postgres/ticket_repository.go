package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-train-ticket-booking/internal/domain/ticket"
	"github.com/sanosuguru/go-train-ticket-booking/internal/domain/transaction"
)

const selectTicketWithTrip = `SELECT k.id, k.trip_id, k.purchase_date, k.quantity, k.total_price,
	t.route_id, r.origin_station, r.destination_station, r.unit_price,
	t.travel_date,
	EXTRACT(HOUR FROM t.departure_time)::int AS departure_hour,
	EXTRACT(MINUTE FROM t.departure_time)::int AS departure_minute,
	t.total_seats, t.free_seats, t.completed
FROM tickets k
JOIN trips t ON t.id = k.trip_id
JOIN routes r ON r.id = t.route_id
WHERE k.id = $1`

type ticketRow struct {
	ID           int64     `db:"id"`
	TripID       int64     `db:"trip_id"`
	PurchaseDate time.Time `db:"purchase_date"`
	Quantity     int       `db:"quantity"`
	TotalPrice   int       `db:"total_price"`
}

func (r *ticketRow) toEntity() *ticket.Ticket {
	return &ticket.Ticket{
		ID: r.ID, TripID: r.TripID, PurchaseDate: r.PurchaseDate,
		Quantity: r.Quantity, TotalPrice: r.TotalPrice,
	}
}

type ticketWithTripRow struct {
	ID                 int64     `db:"id"`
	TripID             int64     `db:"trip_id"`
	PurchaseDate       time.Time `db:"purchase_date"`
	Quantity           int       `db:"quantity"`
	TotalPrice         int       `db:"total_price"`
	RouteID            int64     `db:"route_id"`
	OriginStation      string    `db:"origin_station"`
	DestinationStation string    `db:"destination_station"`
	UnitPrice          int       `db:"unit_price"`
	TravelDate         time.Time `db:"travel_date"`
	DepartureHour      int       `db:"departure_hour"`
	DepartureMinute    int       `db:"departure_minute"`
	TotalSeats         int       `db:"total_seats"`
	FreeSeats          int       `db:"free_seats"`
	Completed          bool      `db:"completed"`
}

func (r *ticketWithTripRow) toEntity() *ticket.Ticket {
	t := &ticket.Ticket{
		ID: r.ID, TripID: r.TripID, PurchaseDate: r.PurchaseDate,
		Quantity: r.Quantity, TotalPrice: r.TotalPrice,
	}
	tr := tripRow{
		ID: r.TripID, RouteID: r.RouteID, OriginStation: r.OriginStation,
		DestinationStation: r.DestinationStation, UnitPrice: r.UnitPrice,
		TravelDate: r.TravelDate, DepartureHour: r.DepartureHour, DepartureMinute: r.DepartureMinute,
		TotalSeats: r.TotalSeats, FreeSeats: r.FreeSeats, Completed: r.Completed,
	}
	t.Trip = tr.toEntity()
	return t
}

type TicketRepository struct{ db *sqlx.DB }

func NewTicketRepository(db *sqlx.DB) *TicketRepository { return &TicketRepository{db: db} }

func (r *TicketRepository) Create(ctx context.Context, tx transaction.Tx, t *ticket.Ticket) error {
	stx, err := mustTx(tx)
	if err != nil {
		return err
	}
	query := `INSERT INTO tickets (trip_id, purchase_date, quantity, total_price) VALUES ($1, $2::date, $3, $4) RETURNING id`
	if err := stx.QueryRowxContext(ctx, query, t.TripID, t.PurchaseDate.Format(time.DateOnly), t.Quantity, t.TotalPrice).Scan(&t.ID); err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("チケット作成に失敗（便 %d が存在しません）: %w", t.TripID, err)
		}
		return fmt.Errorf("チケット作成に失敗: %w", err)
	}
	return nil
}

// FindByID はチケットと便情報を取得し、チケットと便の行ロックを取る
func (r *TicketRepository) FindByID(ctx context.Context, tx transaction.Tx, id int64) (*ticket.Ticket, error) {
	stx, err := mustTx(tx)
	if err != nil {
		return nil, err
	}
	var row ticketWithTripRow
	if err := stx.GetContext(ctx, &row, selectTicketWithTrip+" FOR UPDATE OF k, t", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ticket.ErrTicketNotFound
		}
		return nil, fmt.Errorf("チケット取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *TicketRepository) GetByID(ctx context.Context, id int64) (*ticket.Ticket, error) {
	var row ticketWithTripRow
	if err := r.db.GetContext(ctx, &row, selectTicketWithTrip, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ticket.ErrTicketNotFound
		}
		return nil, fmt.Errorf("チケット取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

// ReduceOrDelete は座席数を減らし、残りが0になる場合は削除する
func (r *TicketRepository) ReduceOrDelete(ctx context.Context, tx transaction.Tx, id int64, quantity int) (bool, error) {
	stx, err := mustTx(tx)
	if err != nil {
		return false, err
	}

	// 右辺は更新前の値で評価される
	reduce := `UPDATE tickets
		SET quantity = quantity - $2,
			total_price = total_price - (total_price / quantity) * $2,
			updated_at = NOW()
		WHERE id = $1 AND quantity > $2`
	result, err := stx.ExecContext(ctx, reduce, id, quantity)
	if err != nil {
		return false, fmt.Errorf("チケット座席数の更新に失敗: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return false, fmt.Errorf("チケット座席数の更新に失敗: %w", err)
	} else if n == 1 {
		return false, nil
	}

	result, err = stx.ExecContext(ctx, `DELETE FROM tickets WHERE id = $1 AND quantity = $2`, id, quantity)
	if err != nil {
		return false, fmt.Errorf("チケット削除に失敗: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("チケット削除に失敗: %w", err)
	}
	if n != 1 {
		return false, fmt.Errorf("チケット %d から %d 席を減らせません: %w", id, quantity, ticket.ErrLedgerInconsistent)
	}
	return true, nil
}

func (r *TicketRepository) ListByTripID(ctx context.Context, tripID int64) ([]*ticket.Ticket, error) {
	query := `SELECT id, trip_id, purchase_date, quantity, total_price FROM tickets WHERE trip_id = $1 ORDER BY id`
	var rows []ticketRow
	if err := r.db.SelectContext(ctx, &rows, query, tripID); err != nil {
		return nil, fmt.Errorf("チケット一覧取得に失敗: %w", err)
	}
	tickets := make([]*ticket.Ticket, len(rows))
	for i := range rows {
		tickets[i] = rows[i].toEntity()
	}
	return tickets, nil
}

var _ ticket.Repository = (*TicketRepository)(nil)
