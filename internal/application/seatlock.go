package application

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/booking"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/ledger"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/show"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/transaction"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/pkg/logger"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/pkg/metrics"
)

// SeatLockManager は台帳エントリへの一時的・排他的な占有を管理する
// 調整はすべて台帳への条件付き一括更新（CAS）で行い、プロセス内ロックは使わない
type SeatLockManager struct {
	txManager   transaction.Manager
	ledgerRepo  ledger.Repository
	bookingRepo booking.Repository
	showRepo    show.Repository
	lifecycle   *Lifecycle
	metrics     *metrics.Metrics
}

// NewSeatLockManager は新しい SeatLockManager を作成する
func NewSeatLockManager(txm transaction.Manager, lr ledger.Repository, br booking.Repository, sr show.Repository, lc *Lifecycle, m *metrics.Metrics) *SeatLockManager {
	return &SeatLockManager{
		txManager:   txm,
		ledgerRepo:  lr,
		bookingRepo: br,
		showRepo:    sr,
		lifecycle:   lc,
		metrics:     m,
	}
}

// Acquire は指定された台帳エントリを available から pending へ一括反転する
// 1件でも反転できなかった場合は反転済みのエントリを戻してから
// ErrSeatConflict で失敗する（呼び出し側から見て全件成功か全件失敗のみ）
// 成功時は価格計算用のデータを含むエントリを返す
func (m *SeatLockManager) Acquire(ctx context.Context, seatIDs []string) ([]*ledger.Entry, error) {
	if len(seatIDs) == 0 {
		return nil, ledger.ErrSeatIDRequired
	}

	start := time.Now()
	flipped, err := m.ledgerRepo.HoldAvailable(ctx, seatIDs)
	if err != nil {
		m.observeLock("acquire", "failed", start)
		return nil, fmt.Errorf("座席仮押さえに失敗: %w", err)
	}

	if len(flipped) != len(seatIDs) {
		// 部分的な反転を補償してから競合エラーを返す
		// 先勝ちのタイブレーク: 負けた側は常に競合を観測する
		if len(flipped) > 0 {
			if relErr := m.ledgerRepo.ReleaseToAvailable(ctx, flipped); relErr != nil {
				logger.Error("仮押さえ補償に失敗",
					zap.Strings("flipped_ids", flipped),
					zap.Error(relErr),
				)
			}
		}
		m.observeLock("acquire", "conflict", start)
		return nil, ledger.ErrSeatConflict
	}

	entries, err := m.ledgerRepo.GetByIDs(ctx, seatIDs)
	if err != nil {
		m.observeLock("acquire", "failed", start)
		return nil, fmt.Errorf("仮押さえ座席の取得に失敗: %w", err)
	}

	m.observeLock("acquire", "success", start)
	return entries, nil
}

// Finalize は仮押さえ座席を pending から reserved へ反転し予約IDを刻印する
// 呼び出し側のトランザクションに参加し、コミットは呼び出し側が行う
// 期待件数より少なく反転した場合はトランザクションを破棄したうえで
// 予約の全座席を解放し、予約を invalid にしてから ErrSeatConflict で失敗する
// 一般入場予約では何もしない
func (m *SeatLockManager) Finalize(ctx context.Context, tx transaction.Tx, b *booking.Booking) error {
	if !b.IsReservedSeating() {
		return nil
	}

	start := time.Now()
	n, err := m.ledgerRepo.CommitHeld(ctx, tx, b.SelectedSeating, b.ID)
	if err != nil {
		m.observeLock("finalize", "failed", start)
		return fmt.Errorf("座席確定に失敗: %w", err)
	}

	if n == len(b.SelectedSeating) {
		m.observeLock("finalize", "success", start)
		return nil
	}

	// 仮押さえの失効や競合タイミングで件数が合わない場合の補償
	tx.Rollback()
	m.compensateFinalize(ctx, b)
	m.observeLock("finalize", "conflict", start)
	return ledger.ErrSeatConflict
}

// compensateFinalize は確定失敗時に台帳と予約を整合状態へ戻す
func (m *SeatLockManager) compensateFinalize(ctx context.Context, b *booking.Booking) {
	if err := m.ledgerRepo.ReleaseToAvailable(ctx, b.SelectedSeating); err != nil {
		logger.Error("確定失敗の座席解放に失敗",
			zap.String("booking_id", b.ID),
			zap.Error(err),
		)
	}

	b.Invalidate("座席確定に失敗したため予約を無効化")
	if err := m.lifecycle.ValidateTransition(b, false); err != nil {
		logger.Error("無効化予約の検証に失敗", zap.String("booking_id", b.ID), zap.Error(err))
		return
	}

	tx, err := m.txManager.Begin(ctx)
	if err != nil {
		logger.Error("無効化トランザクション開始に失敗", zap.Error(err))
		return
	}
	defer tx.Rollback()

	if err := m.bookingRepo.Update(ctx, tx, b); err != nil {
		logger.Error("予約の無効化保存に失敗", zap.String("booking_id", b.ID), zap.Error(err))
		return
	}
	if err := tx.Commit(); err != nil {
		logger.Error("予約の無効化コミットに失敗", zap.String("booking_id", b.ID), zap.Error(err))
	}
}

// Release はキャンセルフローから呼ばれる冪等な補償経路
// 未確定（reserved）の予約は pending のままの仮押さえを戻し、
// 確定済み（paid）の予約はショーがまだ予約可能な場合のみ reserved の座席を戻す
// 一般入場の場合、および予約が reserved/paid でない場合は何もしない
func (m *SeatLockManager) Release(ctx context.Context, bookingID string) error {
	b, err := m.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if !b.IsReservedSeating() {
		return nil
	}

	switch b.Status {
	case booking.StatusReserved:
		return m.releaseUnfinalized(ctx, b)
	case booking.StatusPaid:
		return m.releaseFinalized(ctx, b)
	default:
		return nil
	}
}

// releaseUnfinalized は確定前の仮押さえを戻す
// pending の行には reserved_by が刻印されていないため予約IDでは辿れず、
// 予約が保持する座席ID指定で解放する
func (m *SeatLockManager) releaseUnfinalized(ctx context.Context, b *booking.Booking) error {
	start := time.Now()
	if err := m.ledgerRepo.ReleaseToAvailable(ctx, b.SelectedSeating); err != nil {
		m.observeLock("release", "failed", start)
		return fmt.Errorf("仮押さえ座席の解放に失敗: %w", err)
	}
	m.observeLock("release", "success", start)
	return nil
}

// releaseFinalized は reserved_by が刻印された確定済み座席を戻す
func (m *SeatLockManager) releaseFinalized(ctx context.Context, b *booking.Booking) error {
	sh, err := m.showRepo.GetByID(ctx, b.ShowID)
	if err != nil {
		return fmt.Errorf("ショー取得に失敗: %w", err)
	}
	if !sh.IsSchedulable() {
		// 売り切れ・終了済みショーの確定済み座席は戻さない
		return nil
	}

	start := time.Now()
	tx, err := m.txManager.Begin(ctx)
	if err != nil {
		return fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if _, err := m.ledgerRepo.ReleaseByBooking(ctx, tx, b.ID); err != nil {
		m.observeLock("release", "failed", start)
		return fmt.Errorf("座席解放に失敗: %w", err)
	}
	if err := tx.Commit(); err != nil {
		m.observeLock("release", "failed", start)
		return fmt.Errorf("コミットに失敗: %w", err)
	}

	m.observeLock("release", "success", start)
	return nil
}

// ReleaseHold は期限切れ回収用に予約の座席を無条件で available へ戻す
func (m *SeatLockManager) ReleaseHold(ctx context.Context, b *booking.Booking) error {
	if !b.IsReservedSeating() {
		return nil
	}
	return m.ledgerRepo.ReleaseToAvailable(ctx, b.SelectedSeating)
}

func (m *SeatLockManager) observeLock(operation, status string, start time.Time) {
	if m.metrics == nil {
		return
	}
	m.metrics.SeatLockDuration.WithLabelValues(operation, status).Observe(time.Since(start).Seconds())
}
