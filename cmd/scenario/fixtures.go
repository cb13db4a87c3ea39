package main

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const (
	origin      = "Burgos"
	destination = "Madrid"
	unitPrice   = 10
)

// resetFixtures は全データを消して検証用の路線・便・チケットを登録し直す
//
//	便1: Burgos→Madrid 2022-04-20 08:30 総座席30（チケット1: 1席, チケット2: 2席）
//	便2: Burgos→Madrid 2022-04-15 12:00 総座席20 運行済み（チケット3: 1席）
func resetFixtures(ctx context.Context, db *sqlx.DB) error {
	stmts := []string{
		`TRUNCATE tickets, trips, routes RESTART IDENTITY CASCADE`,
		fmt.Sprintf(`INSERT INTO routes (origin_station, destination_station, unit_price) VALUES ('%s', '%s', %d)`,
			origin, destination, unitPrice),
		`INSERT INTO trips (route_id, travel_date, departure_time, total_seats, free_seats, completed)
		 VALUES (1, '2022-04-20', '08:30', 30, 27, FALSE),
		        (1, '2022-04-15', '12:00', 20, 19, TRUE)`,
		fmt.Sprintf(`INSERT INTO tickets (trip_id, purchase_date, quantity, total_price)
		 VALUES (1, '2022-04-18', 1, %d),
		        (1, '2022-04-18', 2, %d),
		        (2, '2022-04-10', 1, %d)`, unitPrice, 2*unitPrice, unitPrice),
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("トランザクション開始エラー: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, s := range stmts {
		if _, err := tx.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("検証データ登録エラー: %w", err)
		}
	}
	return tx.Commit()
}
