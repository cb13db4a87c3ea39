package trip

import (
	"context"

	"github.com/sanosuguru/go-train-ticket-booking/internal/domain/transaction"
)

// Repository は便リポジトリのインターフェース
type Repository interface {
	// FindTrip は検索条件に一致する便を取得し行ロックを取る（トランザクション必須）
	FindTrip(ctx context.Context, tx transaction.Tx, criteria SearchCriteria) (*Trip, error)

	// SearchTrip は検索条件に一致する便を取得する（読み取り専用）
	SearchTrip(ctx context.Context, criteria SearchCriteria) (*Trip, error)

	// GetByID はIDから便を取得する
	GetByID(ctx context.Context, id int64) (*Trip, error)

	// ReserveSeats は空席数を条件付きで減らし、残りの空席数を返す（トランザクション必須）
	ReserveSeats(ctx context.Context, tx transaction.Tx, tripID int64, quantity int) (int, error)

	// ReleaseSeats は空席数を増やし、残りの空席数を返す（トランザクション必須）
	ReleaseSeats(ctx context.Context, tx transaction.Tx, tripID int64, quantity int) (int, error)

	// FindLedgerMismatches は空席数と発券数の合計が総座席数と一致しない便を返す
	FindLedgerMismatches(ctx context.Context) ([]LedgerMismatch, error)
}

// LedgerMismatch は座席台帳の不整合を表す
type LedgerMismatch struct {
	TripID        int64
	TotalSeats    int
	FreeSeats     int
	ReservedSeats int
}
