//go:build integration
// +build integration

package postgres

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-train-ticket-booking/internal/config"
	"github.com/sanosuguru/go-train-ticket-booking/internal/domain/transaction"
)

const testMigrationsPath = "../../../migrations"

func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	cfg, err := config.Load()
	require.NoError(t, err)

	db, err := NewConnection(context.Background(), &cfg.Database)
	if err != nil {
		t.Skipf("DB接続エラー: %v", err)
	}
	_, err = RunMigrations(db.DB, testMigrationsPath)
	require.NoError(t, err)

	cleanTables(t, db)
	t.Cleanup(func() {
		cleanTables(t, db)
		db.Close()
	})
	return db
}

func cleanTables(t *testing.T, db *sqlx.DB) {
	t.Helper()
	_, err := db.Exec("TRUNCATE tickets, trips, routes RESTART IDENTITY CASCADE")
	require.NoError(t, err)
}

// seedTrip は路線と便を1件ずつ作成し便IDを返す
func seedTrip(t *testing.T, db *sqlx.DB, origin, destination string, unitPrice int, date, departure string, totalSeats, freeSeats int, completed bool) int64 {
	t.Helper()
	var routeID int64
	err := db.QueryRow(
		`INSERT INTO routes (origin_station, destination_station, unit_price) VALUES ($1, $2, $3) RETURNING id`,
		origin, destination, unitPrice,
	).Scan(&routeID)
	require.NoError(t, err)

	var tripID int64
	err = db.QueryRow(
		`INSERT INTO trips (route_id, travel_date, departure_time, total_seats, free_seats, completed)
		VALUES ($1, $2::date, $3::time, $4, $5, $6) RETURNING id`,
		routeID, date, departure, totalSeats, freeSeats, completed,
	).Scan(&tripID)
	require.NoError(t, err)
	return tripID
}

func freeSeats(t *testing.T, db *sqlx.DB, tripID int64) int {
	t.Helper()
	var n int
	require.NoError(t, db.Get(&n, `SELECT free_seats FROM trips WHERE id = $1`, tripID))
	return n
}

// inTx は fn をトランザクション内で実行し、最後に必ずロールバックする
func inTx(t *testing.T, db *sqlx.DB, fn func(tx transaction.Tx)) {
	t.Helper()
	tx, err := NewTxManager(db).Begin(context.Background())
	require.NoError(t, err)
	defer tx.Rollback()
	fn(tx)
}
