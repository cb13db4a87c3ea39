package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-train-ticket-booking/internal/application"
	"github.com/sanosuguru/go-train-ticket-booking/internal/domain/ticket"
	"github.com/sanosuguru/go-train-ticket-booking/internal/domain/trip"
)

// 日付は dd/MM/yyyy、時刻は H:mm:ss で与える
const dateLayout = "02/01/2006"

type purchaser interface {
	Purchase(ctx context.Context, input application.PurchaseInput) (*ticket.Ticket, error)
}

type canceller interface {
	Cancel(ctx context.Context, input application.CancelInput) (*application.CancelResult, error)
}

type ticketReader interface {
	GetTicket(ctx context.Context, id int64) (*ticket.Ticket, error)
}

type ledgerAuditor interface {
	AuditSeatLedger(ctx context.Context) ([]trip.LedgerMismatch, error)
}

type runner struct {
	booking      purchaser
	cancellation canceller
	tickets      ticketReader
	audit        ledgerAuditor
	log          *zap.Logger
	failed       int
}

func parseSchedule(date, departure string) (time.Time, trip.TimeOfDay, error) {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return time.Time{}, trip.TimeOfDay{}, fmt.Errorf("日付 %q の解析に失敗: %w", date, err)
	}
	tod, err := trip.ParseTimeOfDay(departure)
	if err != nil {
		return time.Time{}, trip.TimeOfDay{}, err
	}
	return d, tod, nil
}

func (r *runner) report(name string, ok bool, fields ...zap.Field) {
	if ok {
		r.log.Info(name+" OK", fields...)
		return
	}
	r.failed++
	r.log.Error(name+" MAL", fields...)
}

// expectErr は err が want であれば OK を記録する
func (r *runner) expectErr(name string, err, want error) {
	r.report(name, errors.Is(err, want), zap.NamedError("got", err), zap.NamedError("want", want))
}

func (r *runner) purchase(ctx context.Context, date, departure, from, to string, quantity int) (*ticket.Ticket, error) {
	d, tod, err := parseSchedule(date, departure)
	if err != nil {
		return nil, err
	}
	return r.booking.Purchase(ctx, application.PurchaseInput{
		Origin: from, Destination: to, Date: d, DepartureTime: tod, Quantity: quantity,
	})
}

func (r *runner) cancel(ctx context.Context, date, departure, from, to string, quantity int, ticketID int64) (*application.CancelResult, error) {
	d, tod, err := parseSchedule(date, departure)
	if err != nil {
		return nil, err
	}
	return r.cancellation.Cancel(ctx, application.CancelInput{
		TicketID: ticketID, Origin: from, Destination: to,
		Date: d, DepartureTime: tod, Quantity: quantity,
	})
}

func (r *runner) runPurchaseScenarios(ctx context.Context) {
	_, err := r.purchase(ctx, "15/04/2010", "12:00:00", origin, destination, 3)
	r.expectErr("存在しない便の購入を拒否", err, trip.ErrTripNotFound)

	_, err = r.purchase(ctx, "20/04/2022", "8:30:00", origin, destination, 50)
	r.expectErr("空席不足の購入を拒否", err, trip.ErrNoAvailableSeats)

	_, err = r.purchase(ctx, "15/04/2022", "12:00:00", origin, destination, 1)
	r.expectErr("運行済みの便の購入を拒否", err, trip.ErrTripNotFound)

	tk, err := r.purchase(ctx, "20/04/2022", "8:30:00", origin, destination, 5)
	if err != nil {
		r.report("チケット購入", false, zap.Error(err))
		return
	}
	ok := tk.Quantity == 5 && tk.TotalPrice == 5*unitPrice && tk.Trip != nil && tk.Trip.FreeSeats == 22
	r.report("チケット購入", ok,
		zap.Int64("ticket_id", tk.ID),
		zap.Int("quantity", tk.Quantity),
		zap.Int("total_price", tk.TotalPrice),
	)
}

func (r *runner) runCancellationScenarios(ctx context.Context) {
	res, err := r.cancel(ctx, "15/04/2010", "12:00:00", "Origen", "Destino", 1, 1)
	r.report("便の不一致を記録して取消", err == nil && res.TripMismatch && res.TicketDeleted, zap.Error(err))

	_, err = r.cancel(ctx, "20/04/2022", "8:30:00", origin, destination, 2, 999)
	r.expectErr("存在しないチケットの取消を拒否", err, ticket.ErrTicketNotFound)

	_, err = r.cancel(ctx, "20/04/2022", "8:30:00", origin, destination, 3, 2)
	r.expectErr("保有数を超える取消を拒否", err, ticket.ErrExceedsReservedQuantity)

	_, err = r.cancel(ctx, "15/04/2022", "12:00:00", origin, destination, 1, 3)
	r.expectErr("運行済みの便の取消を拒否", err, trip.ErrTripAlreadyDeparted)

	res, err = r.cancel(ctx, "20/04/2022", "8:30:00", origin, destination, 2, 2)
	if err != nil {
		r.report("チケット取消", false, zap.Error(err))
		return
	}
	_, getErr := r.tickets.GetTicket(ctx, 2)
	r.report("チケット取消", res.TicketDeleted && errors.Is(getErr, ticket.ErrTicketNotFound),
		zap.Int("free_seats", res.FreeSeats),
	)
}

func (r *runner) runAudit(ctx context.Context) {
	mismatches, err := r.audit.AuditSeatLedger(ctx)
	r.report("座席台帳の整合", err == nil && len(mismatches) == 0,
		zap.Int("mismatches", len(mismatches)), zap.Error(err))
}

// run は全シナリオを実行し、MAL の件数を返す
func (r *runner) run(ctx context.Context) int {
	r.runPurchaseScenarios(ctx)
	r.runCancellationScenarios(ctx)
	r.runAudit(ctx)
	return r.failed
}
