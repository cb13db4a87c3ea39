package transaction

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockManager struct {
	mock.Mock
}

func (m *mockManager) Begin(ctx context.Context) (Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(Tx), args.Error(1)
}

type mockTx struct {
	mock.Mock
}

func (m *mockTx) Commit() error {
	return m.Called().Error(0)
}

func (m *mockTx) Rollback() error {
	return m.Called().Error(0)
}

var errBusiness = errors.New("業務エラー")

func TestRun(t *testing.T) {
	ctx := context.Background()

	t.Run("成功時はコミットしロールバックしない", func(t *testing.T) {
		m, tx := new(mockManager), new(mockTx)
		m.On("Begin", ctx).Return(tx, nil)
		tx.On("Commit").Return(nil)

		err := Run(ctx, m, func(Tx) error { return nil })

		require.NoError(t, err)
		tx.AssertExpectations(t)
		tx.AssertNotCalled(t, "Rollback")
	})

	t.Run("業務エラーはロールバック後にそのまま返る", func(t *testing.T) {
		m, tx := new(mockManager), new(mockTx)
		m.On("Begin", ctx).Return(tx, nil)
		tx.On("Rollback").Return(nil)

		err := Run(ctx, m, func(Tx) error { return errBusiness })

		assert.ErrorIs(t, err, errBusiness)
		assert.NotErrorIs(t, err, ErrStorageFailure)
		tx.AssertCalled(t, "Rollback")
		tx.AssertNotCalled(t, "Commit")
	})

	t.Run("Begin失敗はストレージ障害", func(t *testing.T) {
		m := new(mockManager)
		m.On("Begin", ctx).Return(nil, errors.New("connection refused"))

		err := Run(ctx, m, func(Tx) error {
			t.Fatal("fn は呼ばれないはず")
			return nil
		})

		assert.ErrorIs(t, err, ErrStorageFailure)
	})

	t.Run("コミット失敗はストレージ障害でロールバックも試みる", func(t *testing.T) {
		m, tx := new(mockManager), new(mockTx)
		m.On("Begin", ctx).Return(tx, nil)
		tx.On("Commit").Return(errors.New("connection reset"))
		tx.On("Rollback").Return(nil)

		err := Run(ctx, m, func(Tx) error { return nil })

		assert.ErrorIs(t, err, ErrStorageFailure)
		tx.AssertCalled(t, "Rollback")
	})

	t.Run("ロールバック失敗はストレージ障害として返す", func(t *testing.T) {
		m, tx := new(mockManager), new(mockTx)
		m.On("Begin", ctx).Return(tx, nil)
		rbErr := errors.New("bad connection")
		tx.On("Rollback").Return(rbErr)

		err := Run(ctx, m, func(Tx) error { return errBusiness })

		assert.ErrorIs(t, err, ErrStorageFailure)
		assert.ErrorIs(t, err, rbErr)
		assert.NotErrorIs(t, err, errBusiness)
		assert.Contains(t, err.Error(), errBusiness.Error())
	})

	t.Run("パニック時もロールバックする", func(t *testing.T) {
		m, tx := new(mockManager), new(mockTx)
		m.On("Begin", ctx).Return(tx, nil)
		tx.On("Rollback").Return(nil)

		assert.Panics(t, func() {
			_ = Run(ctx, m, func(Tx) error { panic("boom") })
		})
		tx.AssertCalled(t, "Rollback")
	})
}

func TestStorageFailure(t *testing.T) {
	cause := errors.New("timeout")
	err := StorageFailure("座席予約", cause)

	assert.ErrorIs(t, err, ErrStorageFailure)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "座席予約に失敗")

	// 二重にラップしない
	assert.Equal(t, err, StorageFailure("別操作", err))
}
