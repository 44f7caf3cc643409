package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/booking"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/ledger"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/show"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/transaction"
	redisinfra "github.com/sanosuguru/go-cinema-ticket-booking/internal/infrastructure/redis"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/pkg/logger"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/pkg/metrics"
)

// BookingService はチェックアウトの最上位エントリポイント
// キャパシティ判定・座席ロック・価格計算・スナップショット構築・永続化を
// 予約種別ごとに合成する
type BookingService struct {
	txManager    transaction.Manager
	bookingRepo  booking.Repository
	showRepo     show.Repository
	availability *AvailabilityChecker
	seatLocks    *SeatLockManager
	snapshots    *SnapshotBuilder
	lifecycle    *Lifecycle
	lockManager  redisinfra.LockManagerInterface
	cache        redisinfra.AvailabilityCacheInterface
	metrics      *metrics.Metrics
	holdTTL      time.Duration
	currency     string
}

// BookingServiceConfig は BookingService の構築パラメータ
type BookingServiceConfig struct {
	TxManager    transaction.Manager
	BookingRepo  booking.Repository
	ShowRepo     show.Repository
	Availability *AvailabilityChecker
	SeatLocks    *SeatLockManager
	Snapshots    *SnapshotBuilder
	Lifecycle    *Lifecycle
	LockManager  redisinfra.LockManagerInterface
	Cache        redisinfra.AvailabilityCacheInterface
	Metrics      *metrics.Metrics
	HoldTTL      time.Duration
	Currency     string
}

// NewBookingService は新しい BookingService を作成する
func NewBookingService(cfg BookingServiceConfig) *BookingService {
	holdTTL := cfg.HoldTTL
	if holdTTL <= 0 {
		holdTTL = booking.HoldDuration
	}
	currency := cfg.Currency
	if currency == "" {
		currency = "USD"
	}
	return &BookingService{
		txManager:    cfg.TxManager,
		bookingRepo:  cfg.BookingRepo,
		showRepo:     cfg.ShowRepo,
		availability: cfg.Availability,
		seatLocks:    cfg.SeatLocks,
		snapshots:    cfg.Snapshots,
		lifecycle:    cfg.Lifecycle,
		lockManager:  cfg.LockManager,
		cache:        cfg.Cache,
		metrics:      cfg.Metrics,
		holdTTL:      holdTTL,
		currency:     currency,
	}
}

// ReserveTickets はチェックアウト要求から status=reserved の予約を作成する
// 座席の確定（pending→reserved）はここでは行わず、
// チェックアウト完了フロー（CompleteCheckout）が別途実施する
func (s *BookingService) ReserveTickets(ctx context.Context, userID string, input booking.CheckoutInput) (*booking.Booking, error) {
	// 冪等性チェック
	if key := input.Idempotency(); key != "" {
		existing, err := s.bookingRepo.GetByIdempotencyKey(ctx, key)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, booking.ErrBookingNotFound) {
			return nil, fmt.Errorf("冪等性チェックに失敗: %w", err)
		}
	}

	sh, err := s.showRepo.GetByID(ctx, input.ShowRef())
	if err != nil {
		return nil, err
	}
	if !sh.IsBookingOpen() {
		return nil, show.ErrShowNotOpen
	}

	switch in := input.(type) {
	case booking.GeneralAdmissionCheckout:
		return s.reserveGeneralAdmission(ctx, userID, sh, in)
	case booking.ReservedSeatsCheckout:
		return s.reserveSeats(ctx, userID, sh, in)
	default:
		// 上流の入力検証を通れば到達しない防御的分岐
		s.countBooking("error")
		return nil, booking.ErrInvalidCheckoutType
	}
}

// reserveGeneralAdmission は一般入場のチェックアウトを処理する
func (s *BookingService) reserveGeneralAdmission(ctx context.Context, userID string, sh *show.Show, in booking.GeneralAdmissionCheckout) (*booking.Booking, error) {
	ok, err := s.availability.CheckCapacity(ctx, sh, in.TicketCount)
	if err != nil {
		s.countBooking("error")
		return nil, err
	}
	if !ok {
		s.countBooking("screen_full")
		return nil, booking.ErrScreenFull
	}

	b := booking.NewBooking(userID, sh.ID, in.IdempotencyKey, booking.TypeGeneralAdmission, in.TicketCount, nil, s.holdTTL)
	b.Currency = s.currency
	b.PricePaid = sh.TicketPrice * in.TicketCount

	snap, err := s.snapshots.BuildShowSnapshot(ctx, sh, nil, b.TicketCount, b.PricePaid)
	if err != nil {
		s.countBooking("error")
		return nil, err
	}
	b.Snapshot = snap

	if err := s.persistNewBooking(ctx, b); err != nil {
		s.countBooking("error")
		return nil, err
	}

	s.countBooking("success")
	s.gaugeActive(booking.StatusReserved, 1)
	return b, nil
}

// reserveSeats は座席指定のチェックアウトを処理する
func (s *BookingService) reserveSeats(ctx context.Context, userID string, sh *show.Show, in booking.ReservedSeatsCheckout) (*booking.Booking, error) {
	if len(in.SeatLedgerIDs) == 0 {
		return nil, booking.ErrSeatingRequired
	}

	// 分散ロックで同一座席セットへの同時チェックアウトを入口で直列化する
	// （座席IDをソートしてキーを安定させる）
	if s.lockManager != nil {
		lock, err := s.lockManager.AcquireLockWithRetry(ctx, s.buildSeatLockKey(in.SeatLedgerIDs), 10*time.Second, 3, 100*time.Millisecond)
		if err != nil {
			if errors.Is(err, redisinfra.ErrLockNotAcquired) {
				s.countBooking("lock_failed")
				return nil, ledger.ErrSeatConflict
			}
			return nil, fmt.Errorf("ロック取得に失敗: %w", err)
		}
		defer lock.Release(ctx)
	}

	entries, err := s.seatLocks.Acquire(ctx, in.SeatLedgerIDs)
	if err != nil {
		if errors.Is(err, ledger.ErrSeatConflict) {
			s.countBooking("seat_conflict")
		} else {
			s.countBooking("error")
		}
		return nil, err
	}

	b := booking.NewBooking(userID, sh.ID, in.IdempotencyKey, booking.TypeReservedSeats, len(entries), in.SeatLedgerIDs, s.holdTTL)
	b.Currency = s.currency
	b.PricePaid = ledger.TotalSeatingCost(entries)

	// 仮押さえ後に失敗した場合は座席を戻してから抜ける
	snap, err := s.snapshots.BuildShowSnapshot(ctx, sh, entries, b.TicketCount, b.PricePaid)
	if err != nil {
		s.releaseAcquired(ctx, in.SeatLedgerIDs)
		s.countBooking("error")
		return nil, err
	}
	b.Snapshot = snap

	if err := s.persistNewBooking(ctx, b); err != nil {
		s.releaseAcquired(ctx, in.SeatLedgerIDs)
		s.countBooking("error")
		return nil, err
	}

	s.countBooking("success")
	s.gaugeActive(booking.StatusReserved, 1)
	return b, nil
}

// persistNewBooking はライフサイクル検証を通してから予約を永続化する
func (s *BookingService) persistNewBooking(ctx context.Context, b *booking.Booking) error {
	if err := s.lifecycle.ValidateNew(b); err != nil {
		return err
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.bookingRepo.Create(ctx, tx, b); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("コミットに失敗: %w", err)
	}

	s.invalidateCache(ctx, b.ShowID)
	return nil
}

// releaseAcquired は仮押さえ済み座席の巻き戻しを行う（ベストエフォート）
func (s *BookingService) releaseAcquired(ctx context.Context, seatIDs []string) {
	if err := s.seatLocks.ledgerRepo.ReleaseToAvailable(ctx, seatIDs); err != nil {
		logger.Error("仮押さえ座席の巻き戻しに失敗", zap.Strings("seat_ids", seatIDs), zap.Error(err))
	}
}

// buildSeatLockKey は座席IDからロックキーを生成（ソートしてデッドロック防止）
func (s *BookingService) buildSeatLockKey(seatIDs []string) string {
	sorted := make([]string, len(seatIDs))
	copy(sorted, seatIDs)
	sort.Strings(sorted)
	return "seats:" + strings.Join(sorted, ",")
}

// GetBooking はIDから予約を取得する
func (s *BookingService) GetBooking(ctx context.Context, id string) (*booking.Booking, error) {
	return s.bookingRepo.GetByID(ctx, id)
}

// GetUserBookings はユーザーの予約一覧を取得する
func (s *BookingService) GetUserBookings(ctx context.Context, userID string, limit, offset int) ([]*booking.Booking, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.bookingRepo.GetByUserID(ctx, userID, limit, offset)
}

// CompleteCheckout は仮押さえ座席を確定し予約を支払い済みへ遷移させる
// 所有者チェックと期限切れチェックを通過した場合のみ座席ロックを確定する
func (s *BookingService) CompleteCheckout(ctx context.Context, userID, bookingID string) (*booking.Booking, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := AssertOwnedBy(userID, b); err != nil {
		return nil, err
	}
	if err := AssertNotExpired(b); err != nil {
		return nil, err
	}

	// 台帳の確定と予約の更新は同一トランザクションで確定する
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.seatLocks.Finalize(ctx, tx, b); err != nil {
		return nil, err
	}

	if err := b.Pay(); err != nil {
		return nil, err
	}
	if err := s.lifecycle.ValidateTransition(b, false); err != nil {
		return nil, err
	}

	if err := s.bookingRepo.Update(ctx, tx, b); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}

	s.gaugeActive(booking.StatusReserved, -1)
	s.gaugeActive(booking.StatusPaid, 1)
	return b, nil
}

// CancelBooking は予約をキャンセルし、可能であれば座席を解放する
// 未確定の仮押さえは無条件で戻し、確定済み座席はショーがまだ予約可能な場合のみ戻す
func (s *BookingService) CancelBooking(ctx context.Context, userID, bookingID string) (*booking.Booking, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := AssertOwnedBy(userID, b); err != nil {
		return nil, err
	}

	// 状態遷移の前に解放する（Release は reserved/paid のみを対象とするため）
	if err := s.seatLocks.Release(ctx, b.ID); err != nil {
		return nil, err
	}

	prev := b.Status

	if err := b.Cancel(); err != nil {
		return nil, err
	}
	if err := s.lifecycle.ValidateTransition(b, false); err != nil {
		return nil, err
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.bookingRepo.Update(ctx, tx, b); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}

	s.invalidateCache(ctx, b.ShowID)
	s.gaugeActive(prev, -1)
	return b, nil
}

// ExpireBookings は期限切れの仮押さえを expired へ遷移させ座席を回収する
// クリーナーワーカーから定期的に呼ばれる
func (s *BookingService) ExpireBookings(ctx context.Context) (int, error) {
	expired, err := s.bookingRepo.GetExpiredReserved(ctx, 100)
	if err != nil {
		return 0, fmt.Errorf("期限切れ予約の取得に失敗: %w", err)
	}

	var count int
	for _, b := range expired {
		if err := s.expireOne(ctx, b); err != nil {
			logger.Error("期限切れ予約の処理に失敗", zap.String("booking_id", b.ID), zap.Error(err))
			continue
		}
		count++
	}
	return count, nil
}

func (s *BookingService) expireOne(ctx context.Context, b *booking.Booking) error {
	if err := b.Expire(); err != nil {
		return err
	}
	if err := s.lifecycle.ValidateTransition(b, false); err != nil {
		return err
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.bookingRepo.Update(ctx, tx, b); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("コミットに失敗: %w", err)
	}

	// 期限切れの仮押さえ座席は無条件で空きに戻す
	if err := s.seatLocks.ReleaseHold(ctx, b); err != nil {
		return fmt.Errorf("期限切れ座席の解放に失敗: %w", err)
	}

	s.invalidateCache(ctx, b.ShowID)
	s.gaugeActive(booking.StatusReserved, -1)
	return nil
}

func (s *BookingService) invalidateCache(ctx context.Context, showID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, showID); err != nil {
		logger.Warn("キャッシュ無効化エラー", zap.Error(err))
	}
}

func (s *BookingService) countBooking(status string) {
	if s.metrics == nil {
		return
	}
	s.metrics.BookingsTotal.WithLabelValues(status).Inc()
}

// gaugeActive は状態別のアクティブ予約数ゲージを増減する
func (s *BookingService) gaugeActive(status booking.Status, delta float64) {
	if s.metrics == nil {
		return
	}
	s.metrics.ActiveBookings.WithLabelValues(string(status)).Add(delta)
}
