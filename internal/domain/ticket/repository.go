package ticket

import (
	"context"

	"github.com/sanosuguru/go-train-ticket-booking/internal/domain/transaction"
)

// Repository はチケットリポジトリのインターフェース
type Repository interface {
	// Create は新しいチケットを作成しIDを設定する（トランザクション必須）
	Create(ctx context.Context, tx transaction.Tx, ticket *Ticket) error

	// FindByID はチケットと便情報を取得し行ロックを取る（トランザクション必須）
	FindByID(ctx context.Context, tx transaction.Tx, id int64) (*Ticket, error)

	// GetByID はIDからチケットを取得する
	GetByID(ctx context.Context, id int64) (*Ticket, error)

	// ReduceOrDelete はチケットの座席数を quantity 減らし、0になれば削除する（トランザクション必須）
	// quantity がチケットの座席数を超えないことは呼び出し側が保証する
	ReduceOrDelete(ctx context.Context, tx transaction.Tx, id int64, quantity int) (deleted bool, err error)

	// ListByTripID は便に紐づくチケット一覧を取得する
	ListByTripID(ctx context.Context, tripID int64) ([]*Ticket, error)
}
