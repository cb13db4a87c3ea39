package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-train-ticket-booking/internal/domain/trip"
	"github.com/sanosuguru/go-train-ticket-booking/internal/pkg/logger"
)

// LedgerAuditor は座席台帳の整合性を検査するインターフェース
type LedgerAuditor interface {
	AuditSeatLedger(ctx context.Context) ([]trip.LedgerMismatch, error)
}

// SeatLedgerAuditor は便ごとの空席数と発券済み座席数の合計が総座席数と一致するかを定期的に検査するワーカー
type SeatLedgerAuditor struct {
	auditor  LedgerAuditor
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func NewSeatLedgerAuditor(a LedgerAuditor, interval time.Duration) *SeatLedgerAuditor {
	return &SeatLedgerAuditor{
		auditor:  a,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start は起動直後に一度監査し、以降 interval ごとに監査する
// ctx のキャンセルか Stop で終了するまでブロックする
func (w *SeatLedgerAuditor) Start(ctx context.Context) {
	logger.Info("座席台帳監査ワーカー開始", zap.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	defer close(w.doneCh)

	w.audit(ctx)

	for {
		select {
		case <-ctx.Done():
			logger.Info("座席台帳監査ワーカー停止（コンテキストキャンセル）")
			return
		case <-w.stopCh:
			logger.Info("座席台帳監査ワーカー停止（シグナル受信）")
			return
		case <-ticker.C:
			w.audit(ctx)
		}
	}
}

// Stop はワーカーを停止し、Start が戻るまで待つ
func (w *SeatLedgerAuditor) Stop() {
	close(w.stopCh)
	<-w.doneCh
}

func (w *SeatLedgerAuditor) audit(ctx context.Context) {
	log := logger.Get().With(zap.String("worker", "seat_ledger_auditor"))
	ctx = logger.WithContext(ctx, log)

	mismatches, err := w.auditor.AuditSeatLedger(ctx)
	if err != nil {
		log.Error("座席台帳の監査失敗", zap.Error(err))
		return
	}

	if len(mismatches) > 0 {
		log.Warn("座席台帳に不整合あり", zap.Int("trips", len(mismatches)))
	} else {
		log.Debug("座席台帳は整合")
	}
}
