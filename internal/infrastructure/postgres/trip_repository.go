package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-train-ticket-booking/internal/domain/transaction"
	"github.com/sanosuguru/go-train-ticket-booking/internal/domain/trip"
)

const selectTrip = `SELECT t.id, t.route_id, r.origin_station, r.destination_station, r.unit_price,
	t.travel_date,
	EXTRACT(HOUR FROM t.departure_time)::int AS departure_hour,
	EXTRACT(MINUTE FROM t.departure_time)::int AS departure_minute,
	t.total_seats, t.free_seats, t.completed
FROM trips t
JOIN routes r ON r.id = t.route_id`

// 出発時刻は時:分のみで比較する（秒以下は無視）
const whereCriteria = `
WHERE r.origin_station = $1 AND r.destination_station = $2
	AND t.travel_date = $3::date
	AND EXTRACT(HOUR FROM t.departure_time) = $4
	AND EXTRACT(MINUTE FROM t.departure_time) = $5
ORDER BY t.completed, t.id
LIMIT 1`

type tripRow struct {
	ID                 int64     `db:"id"`
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

func (r *tripRow) toEntity() *trip.Trip {
	return &trip.Trip{
		ID: r.ID,
		Route: trip.Route{
			ID: r.RouteID, OriginStation: r.OriginStation,
			DestinationStation: r.DestinationStation, UnitPrice: r.UnitPrice,
		},
		TravelDate:    trip.DateOf(r.TravelDate),
		DepartureTime: trip.TimeOfDay{Hour: r.DepartureHour, Minute: r.DepartureMinute},
		TotalSeats:    r.TotalSeats,
		FreeSeats:     r.FreeSeats,
		Completed:     r.Completed,
	}
}

func criteriaArgs(c trip.SearchCriteria) []any {
	return []any{c.Origin, c.Destination, c.Date.Format(time.DateOnly), c.DepartureTime.Hour, c.DepartureTime.Minute}
}

type TripRepository struct{ db *sqlx.DB }

func NewTripRepository(db *sqlx.DB) *TripRepository { return &TripRepository{db: db} }

// FindTrip は条件に一致する便を取得し、便の行ロックを取る
func (r *TripRepository) FindTrip(ctx context.Context, tx transaction.Tx, criteria trip.SearchCriteria) (*trip.Trip, error) {
	stx, err := mustTx(tx)
	if err != nil {
		return nil, err
	}
	var row tripRow
	if err := stx.GetContext(ctx, &row, selectTrip+whereCriteria+" FOR UPDATE OF t", criteriaArgs(criteria)...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, trip.ErrTripNotFound
		}
		return nil, fmt.Errorf("便検索に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *TripRepository) SearchTrip(ctx context.Context, criteria trip.SearchCriteria) (*trip.Trip, error) {
	var row tripRow
	if err := r.db.GetContext(ctx, &row, selectTrip+whereCriteria, criteriaArgs(criteria)...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, trip.ErrTripNotFound
		}
		return nil, fmt.Errorf("便検索に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *TripRepository) GetByID(ctx context.Context, id int64) (*trip.Trip, error) {
	var row tripRow
	if err := r.db.GetContext(ctx, &row, selectTrip+` WHERE t.id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, trip.ErrTripNotFound
		}
		return nil, fmt.Errorf("便取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

// ReserveSeats は空席確認と減算を1つの条件付きUPDATEで行う
// 条件を満たす行がなければ状態を変えずに ErrNoAvailableSeats を返す
func (r *TripRepository) ReserveSeats(ctx context.Context, tx transaction.Tx, tripID int64, quantity int) (int, error) {
	stx, err := mustTx(tx)
	if err != nil {
		return 0, err
	}
	query := `UPDATE trips SET free_seats = free_seats - $2, updated_at = NOW()
		WHERE id = $1 AND free_seats >= $2 AND NOT completed
		RETURNING free_seats`
	var remaining int
	if err := stx.QueryRowxContext(ctx, query, tripID, quantity).Scan(&remaining); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, trip.ErrNoAvailableSeats
		}
		return 0, fmt.Errorf("座席確保に失敗: %w", err)
	}
	return remaining, nil
}

// ReleaseSeats は空席数を増やす。総座席数を超える場合は CHECK 制約違反のエラーになる
func (r *TripRepository) ReleaseSeats(ctx context.Context, tx transaction.Tx, tripID int64, quantity int) (int, error) {
	stx, err := mustTx(tx)
	if err != nil {
		return 0, err
	}
	query := `UPDATE trips SET free_seats = free_seats + $2, updated_at = NOW()
		WHERE id = $1
		RETURNING free_seats`
	var remaining int
	if err := stx.QueryRowxContext(ctx, query, tripID, quantity).Scan(&remaining); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("座席解放対象の便 %d が存在しません", tripID)
		}
		if isCheckViolation(err) {
			return 0, fmt.Errorf("座席解放で総座席数を超過: %w", err)
		}
		return 0, fmt.Errorf("座席解放に失敗: %w", err)
	}
	return remaining, nil
}

type ledgerRow struct {
	TripID        int64 `db:"trip_id"`
	TotalSeats    int   `db:"total_seats"`
	FreeSeats     int   `db:"free_seats"`
	ReservedSeats int   `db:"reserved_seats"`
}

// FindLedgerMismatches は free_seats + Σ quantity が total_seats と一致しない便を返す
func (r *TripRepository) FindLedgerMismatches(ctx context.Context) ([]trip.LedgerMismatch, error) {
	query := `SELECT t.id AS trip_id, t.total_seats, t.free_seats,
		COALESCE(SUM(k.quantity), 0)::int AS reserved_seats
	FROM trips t
	LEFT JOIN tickets k ON k.trip_id = t.id
	GROUP BY t.id
	HAVING t.free_seats + COALESCE(SUM(k.quantity), 0) <> t.total_seats
	ORDER BY t.id`
	var rows []ledgerRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("座席台帳の監査に失敗: %w", err)
	}
	mismatches := make([]trip.LedgerMismatch, len(rows))
	for i, row := range rows {
		mismatches[i] = trip.LedgerMismatch(row)
	}
	return mismatches, nil
}

var _ trip.Repository = (*TripRepository)(nil)
