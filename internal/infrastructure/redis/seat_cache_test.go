package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeatCache_GetFreeSeats(t *testing.T) {
	ctx := context.Background()

	t.Run("キャッシュヒット", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.ExpectGet("trips:free_seats:42").SetVal("7")

		count, err := NewSeatCache(client).GetFreeSeats(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, 7, count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("キャッシュミス時はErrCacheMissを返す", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.ExpectGet("trips:free_seats:42").RedisNil()

		_, err := NewSeatCache(client).GetFreeSeats(ctx, 42)
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("Redisエラーはラップして返す", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		connErr := errors.New("connection refused")
		mock.ExpectGet("trips:free_seats:42").SetErr(connErr)

		_, err := NewSeatCache(client).GetFreeSeats(ctx, 42)
		assert.ErrorIs(t, err, connErr)
		assert.NotErrorIs(t, err, ErrCacheMiss)
	})
}

func TestSeatCache_Generation(t *testing.T) {
	ctx := context.Background()

	t.Run("未無効化は0", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.ExpectGet("trips:free_seats_gen:1").RedisNil()

		gen, err := NewSeatCache(client).Generation(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(0), gen)
	})

	t.Run("保存済みの世代を返す", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.ExpectGet("trips:free_seats_gen:1").SetVal("3")

		gen, err := NewSeatCache(client).Generation(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(3), gen)
	})

	t.Run("Redisエラー", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.ExpectGet("trips:free_seats_gen:1").SetErr(errors.New("timeout"))

		_, err := NewSeatCache(client).Generation(ctx, 1)
		assert.Error(t, err)
	})
}

func TestSeatCache_SetFreeSeats(t *testing.T) {
	ctx := context.Background()
	keys := []string{"trips:free_seats:1", "trips:free_seats_gen:1"}

	t.Run("世代が同じなら保存する", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.ExpectEvalSha(setIfGenerationScript.Hash(), keys, int64(0), 10, int64(30000)).SetVal(int64(1))

		stored, err := NewSeatCache(client).SetFreeSeats(ctx, 1, 0, 10, 30*time.Second)
		require.NoError(t, err)
		assert.True(t, stored)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("読み取り後に無効化されていたら保存しない", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.ExpectEvalSha(setIfGenerationScript.Hash(), keys, int64(2), 10, int64(30000)).SetVal(int64(0))

		stored, err := NewSeatCache(client).SetFreeSeats(ctx, 1, 2, 10, 30*time.Second)
		require.NoError(t, err)
		assert.False(t, stored)
	})

	t.Run("Redisエラー", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.ExpectEvalSha(setIfGenerationScript.Hash(), keys, int64(0), 10, int64(30000)).SetErr(errors.New("timeout"))

		_, err := NewSeatCache(client).SetFreeSeats(ctx, 1, 0, 10, 30*time.Second)
		assert.Error(t, err)
	})
}

func TestSeatCache_Invalidate(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.ExpectIncr("trips:free_seats_gen:1").SetVal(1)
	mock.ExpectDel("trips:free_seats:1").SetVal(1)

	require.NoError(t, NewSeatCache(client).Invalidate(context.Background(), 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeatCache_InvalidateError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.ExpectIncr("trips:free_seats_gen:1").SetVal(1)
	mock.ExpectDel("trips:free_seats:1").SetErr(errors.New("timeout"))

	err := NewSeatCache(client).Invalidate(context.Background(), 1)
	assert.Error(t, err)
}
