package transaction

import (
	"context"
	"errors"
	"fmt"
)

// ErrStorageFailure はデータストアの予期しない障害を表す
// 業務ルール上のエラーとは区別して扱う
var ErrStorageFailure = errors.New("データストア障害が発生しました")

// Tx はトランザクションを表すインターフェース
// ドメイン層がインフラ層（sqlx等）に依存しないようにするための抽象化
type Tx interface {
	// Commit はトランザクションをコミットする
	Commit() error
	// Rollback はトランザクションをロールバックする（コミット後は何もしない）
	Rollback() error
}

// Manager はトランザクションを管理するインターフェース
type Manager interface {
	// Begin は新しいトランザクションを開始する
	Begin(ctx context.Context) (Tx, error)
}

// Run は fn をひとつのトランザクション内で実行する。
// fn がエラーを返した場合やパニックした場合はロールバックしてからエラーを返し、
// 成功した場合のみコミットする。Begin / Commit / Rollback の失敗は ErrStorageFailure として返す。
// ロールバックに失敗した場合、fn のエラーはメッセージにだけ残し errors.Is では一致させない
func Run(ctx context.Context, m Manager, fn func(tx Tx) error) (err error) {
	tx, err := m.Begin(ctx)
	if err != nil {
		return StorageFailure("トランザクション開始", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = StorageFailure("ロールバック", fmt.Errorf("%w (処理エラー: %v)", rbErr, err))
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return StorageFailure("コミット", err)
	}
	return nil
}

// StorageFailure は err を ErrStorageFailure でラップする
func StorageFailure(op string, err error) error {
	if errors.Is(err, ErrStorageFailure) {
		return err
	}
	return fmt.Errorf("%w: %sに失敗: %w", ErrStorageFailure, op, err)
}
