package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/booking"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/catalog"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/ledger"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/show"
	redisinfra "github.com/sanosuguru/go-cinema-ticket-booking/internal/infrastructure/redis"
)

type bookingServiceMocks struct {
	txm         *MockTxManager
	bookingRepo *MockBookingRepository
	showRepo    *MockShowRepository
	ledgerRepo  *MockLedgerRepository
	catalogRepo *MockCatalogRepository
	lockManager *MockLockManager
	cache       *MockAvailabilityCache
}

func newBookingServiceForTest(catalogRepo *MockCatalogRepository) (*BookingService, *bookingServiceMocks) {
	m := &bookingServiceMocks{
		txm:         newTxManager(),
		bookingRepo: new(MockBookingRepository),
		showRepo:    new(MockShowRepository),
		ledgerRepo:  new(MockLedgerRepository),
		catalogRepo: catalogRepo,
		lockManager: new(MockLockManager),
		cache:       new(MockAvailabilityCache),
	}
	lc := NewLifecycle()
	svc := NewBookingService(BookingServiceConfig{
		TxManager:    m.txm,
		BookingRepo:  m.bookingRepo,
		ShowRepo:     m.showRepo,
		Availability: NewAvailabilityChecker(m.ledgerRepo, m.bookingRepo, m.cache),
		SeatLocks:    NewSeatLockManager(m.txm, m.ledgerRepo, m.bookingRepo, m.showRepo, lc, nil),
		Snapshots:    NewSnapshotBuilder(m.catalogRepo),
		Lifecycle:    lc,
		LockManager:  m.lockManager,
		Cache:        m.cache,
		HoldTTL:      30 * time.Minute,
		Currency:     "USD",
	})
	return svc, m
}

func bookingTestShow() *show.Show {
	sh := snapshotTestShow()
	sh.Status = show.StatusOpen
	return sh
}

func grantLock(lm *MockLockManager) *MockLock {
	lock := new(MockLock)
	lock.On("Release", mock.Anything).Return(nil)
	lm.On("AcquireLockWithRetry", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(lock, nil)
	return lock
}

func TestBookingService_ReserveTickets_GeneralAdmission(t *testing.T) {
	ctx := context.Background()

	t.Run("冪等性キーが一致する既存予約をそのまま返す", func(t *testing.T) {
		svc, m := newBookingServiceForTest(new(MockCatalogRepository))
		existing := validReservedBooking()
		m.bookingRepo.On("GetByIdempotencyKey", mock.Anything, "idem-1").Return(existing, nil)

		got, err := svc.ReserveTickets(ctx, "user-1", booking.GeneralAdmissionCheckout{
			ShowID: "show-1", TicketCount: 2, IdempotencyKey: "idem-1",
		})

		require.NoError(t, err)
		assert.Same(t, existing, got)
		m.showRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("予約受付中でないショーは拒否", func(t *testing.T) {
		svc, m := newBookingServiceForTest(new(MockCatalogRepository))
		m.bookingRepo.On("GetByIdempotencyKey", mock.Anything, mock.Anything).Return(nil, booking.ErrBookingNotFound)
		sh := bookingTestShow()
		sh.Status = show.StatusClosed
		m.showRepo.On("GetByID", mock.Anything, "show-1").Return(sh, nil)

		_, err := svc.ReserveTickets(ctx, "user-1", booking.GeneralAdmissionCheckout{
			ShowID: "show-1", TicketCount: 2, IdempotencyKey: "idem-1",
		})

		assert.ErrorIs(t, err, show.ErrShowNotOpen)
	})

	t.Run("残キャパシティ内なら予約が成立しチケット単価×枚数で課金される", func(t *testing.T) {
		svc, m := newBookingServiceForTest(setupCatalog())
		m.bookingRepo.On("GetByIdempotencyKey", mock.Anything, "idem-ga").Return(nil, booking.ErrBookingNotFound)
		m.showRepo.On("GetByID", mock.Anything, "show-1").Return(bookingTestShow(), nil)
		m.cache.On("GetConfiguredCount", mock.Anything, "show-1").Return(100, nil)
		m.bookingRepo.On("SumCommittedTickets", mock.Anything, "show-1").Return(97, nil)
		m.bookingRepo.On("Create", mock.Anything, mock.Anything, mock.AnythingOfType("*booking.Booking")).Return(nil)
		m.cache.On("Invalidate", mock.Anything, "show-1").Return(nil)

		b, err := svc.ReserveTickets(ctx, "user-1", booking.GeneralAdmissionCheckout{
			ShowID: "show-1", TicketCount: 3, IdempotencyKey: "idem-ga",
		})

		require.NoError(t, err)
		assert.Equal(t, booking.TypeGeneralAdmission, b.Type)
		assert.Equal(t, booking.StatusReserved, b.Status)
		assert.Equal(t, 4500, b.PricePaid) // 1500 × 3
		assert.Equal(t, "USD", b.Currency)
		assert.Nil(t, b.SelectedSeating)
		require.NotNil(t, b.Snapshot)
		assert.Nil(t, b.Snapshot.Seats)
		assert.Equal(t, 4500, b.Snapshot.PricePaid)
		assert.True(t, b.ExpiresAt.After(time.Now()))
		m.bookingRepo.AssertExpectations(t)
	})

	t.Run("残キャパシティ不足はErrScreenFull", func(t *testing.T) {
		svc, m := newBookingServiceForTest(new(MockCatalogRepository))
		m.bookingRepo.On("GetByIdempotencyKey", mock.Anything, mock.Anything).Return(nil, booking.ErrBookingNotFound)
		m.showRepo.On("GetByID", mock.Anything, "show-1").Return(bookingTestShow(), nil)
		m.cache.On("GetConfiguredCount", mock.Anything, "show-1").Return(10, nil)
		m.bookingRepo.On("SumCommittedTickets", mock.Anything, "show-1").Return(9, nil)

		_, err := svc.ReserveTickets(ctx, "user-1", booking.GeneralAdmissionCheckout{
			ShowID: "show-1", TicketCount: 2, IdempotencyKey: "idem-full",
		})

		assert.ErrorIs(t, err, booking.ErrScreenFull)
		m.bookingRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestBookingService_ReserveTickets_ReservedSeats(t *testing.T) {
	ctx := context.Background()
	seatIDs := []string{"l-1", "l-2"}

	holdEntries := func() []*ledger.Entry {
		return []*ledger.Entry{
			{ID: "l-1", SeatID: "seat-1", BasePrice: 1500, PriceMultiplier: 1.5},
			{ID: "l-2", SeatID: "seat-2", BasePrice: 1500, PriceMultiplier: 1.0},
		}
	}

	t.Run("座席を仮押さえして合計座席価格で予約が成立する", func(t *testing.T) {
		cat := setupCatalog()
		cat.On("GetSeatByID", mock.Anything, "seat-1").Return(&catalog.Seat{ID: "seat-1", Row: "A", Number: 1, Type: catalog.SeatTypePremium}, nil)
		cat.On("GetSeatByID", mock.Anything, "seat-2").Return(&catalog.Seat{ID: "seat-2", Row: "A", Number: 2, Type: catalog.SeatTypeStandard}, nil)

		svc, m := newBookingServiceForTest(cat)
		lock := grantLock(m.lockManager)
		m.bookingRepo.On("GetByIdempotencyKey", mock.Anything, "idem-rs").Return(nil, booking.ErrBookingNotFound)
		m.showRepo.On("GetByID", mock.Anything, "show-1").Return(bookingTestShow(), nil)
		m.ledgerRepo.On("HoldAvailable", mock.Anything, seatIDs).Return(seatIDs, nil)
		m.ledgerRepo.On("GetByIDs", mock.Anything, seatIDs).Return(holdEntries(), nil)
		m.bookingRepo.On("Create", mock.Anything, mock.Anything, mock.AnythingOfType("*booking.Booking")).Return(nil)
		m.cache.On("Invalidate", mock.Anything, "show-1").Return(nil)

		b, err := svc.ReserveTickets(ctx, "user-1", booking.ReservedSeatsCheckout{
			ShowID: "show-1", SeatLedgerIDs: seatIDs, IdempotencyKey: "idem-rs",
		})

		require.NoError(t, err)
		assert.Equal(t, booking.TypeReservedSeats, b.Type)
		assert.Equal(t, 2, b.TicketCount)
		assert.Equal(t, 3750, b.PricePaid) // 2250 + 1500
		assert.Equal(t, seatIDs, b.SelectedSeating)
		require.NotNil(t, b.Snapshot)
		require.Len(t, b.Snapshot.Seats, 2)
		lock.AssertCalled(t, "Release", mock.Anything)
	})

	t.Run("分散ロックが取れないときはErrSeatConflict", func(t *testing.T) {
		svc, m := newBookingServiceForTest(new(MockCatalogRepository))
		m.bookingRepo.On("GetByIdempotencyKey", mock.Anything, mock.Anything).Return(nil, booking.ErrBookingNotFound)
		m.showRepo.On("GetByID", mock.Anything, "show-1").Return(bookingTestShow(), nil)
		m.lockManager.On("AcquireLockWithRetry", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, redisinfra.ErrLockNotAcquired)

		_, err := svc.ReserveTickets(ctx, "user-1", booking.ReservedSeatsCheckout{
			ShowID: "show-1", SeatLedgerIDs: seatIDs, IdempotencyKey: "idem-lock",
		})

		assert.ErrorIs(t, err, ledger.ErrSeatConflict)
		m.ledgerRepo.AssertNotCalled(t, "HoldAvailable", mock.Anything, mock.Anything)
	})

	t.Run("台帳で競合した場合もErrSeatConflict", func(t *testing.T) {
		svc, m := newBookingServiceForTest(new(MockCatalogRepository))
		grantLock(m.lockManager)
		m.bookingRepo.On("GetByIdempotencyKey", mock.Anything, mock.Anything).Return(nil, booking.ErrBookingNotFound)
		m.showRepo.On("GetByID", mock.Anything, "show-1").Return(bookingTestShow(), nil)
		m.ledgerRepo.On("HoldAvailable", mock.Anything, seatIDs).Return([]string{"l-1"}, nil)
		m.ledgerRepo.On("ReleaseToAvailable", mock.Anything, []string{"l-1"}).Return(nil)

		_, err := svc.ReserveTickets(ctx, "user-1", booking.ReservedSeatsCheckout{
			ShowID: "show-1", SeatLedgerIDs: seatIDs, IdempotencyKey: "idem-conflict",
		})

		assert.ErrorIs(t, err, ledger.ErrSeatConflict)
		m.bookingRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("永続化に失敗したら仮押さえ座席を巻き戻す", func(t *testing.T) {
		cat := setupCatalog()
		cat.On("GetSeatByID", mock.Anything, "seat-1").Return(&catalog.Seat{ID: "seat-1", Row: "A", Number: 1, Type: catalog.SeatTypePremium}, nil)
		cat.On("GetSeatByID", mock.Anything, "seat-2").Return(&catalog.Seat{ID: "seat-2", Row: "A", Number: 2, Type: catalog.SeatTypeStandard}, nil)

		svc, m := newBookingServiceForTest(cat)
		grantLock(m.lockManager)
		m.bookingRepo.On("GetByIdempotencyKey", mock.Anything, mock.Anything).Return(nil, booking.ErrBookingNotFound)
		m.showRepo.On("GetByID", mock.Anything, "show-1").Return(bookingTestShow(), nil)
		m.ledgerRepo.On("HoldAvailable", mock.Anything, seatIDs).Return(seatIDs, nil)
		m.ledgerRepo.On("GetByIDs", mock.Anything, seatIDs).Return(holdEntries(), nil)
		m.bookingRepo.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(booking.ErrIdempotencyKeyExists)
		m.ledgerRepo.On("ReleaseToAvailable", mock.Anything, seatIDs).Return(nil)

		_, err := svc.ReserveTickets(ctx, "user-1", booking.ReservedSeatsCheckout{
			ShowID: "show-1", SeatLedgerIDs: seatIDs, IdempotencyKey: "idem-dup",
		})

		assert.ErrorIs(t, err, booking.ErrIdempotencyKeyExists)
		m.ledgerRepo.AssertCalled(t, "ReleaseToAvailable", mock.Anything, seatIDs)
	})

	t.Run("座席指定なのに座席リストが空なら即失敗", func(t *testing.T) {
		svc, m := newBookingServiceForTest(new(MockCatalogRepository))
		m.bookingRepo.On("GetByIdempotencyKey", mock.Anything, mock.Anything).Return(nil, booking.ErrBookingNotFound)
		m.showRepo.On("GetByID", mock.Anything, "show-1").Return(bookingTestShow(), nil)

		_, err := svc.ReserveTickets(ctx, "user-1", booking.ReservedSeatsCheckout{
			ShowID: "show-1", SeatLedgerIDs: nil, IdempotencyKey: "idem-empty",
		})

		assert.ErrorIs(t, err, booking.ErrSeatingRequired)
		m.lockManager.AssertNotCalled(t, "AcquireLockWithRetry", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestBookingService_CompleteCheckout(t *testing.T) {
	ctx := context.Background()

	t.Run("座席指定予約の座席を確定して支払い済みへ遷移する", func(t *testing.T) {
		svc, m := newBookingServiceForTest(new(MockCatalogRepository))
		b := validReservedBooking()
		m.bookingRepo.On("GetByID", mock.Anything, "b-1").Return(b, nil)
		m.ledgerRepo.On("CommitHeld", mock.Anything, mock.Anything, b.SelectedSeating, "b-1").Return(2, nil)
		m.bookingRepo.On("Update", mock.Anything, mock.Anything, b).Return(nil)

		got, err := svc.CompleteCheckout(ctx, "user-1", "b-1")

		require.NoError(t, err)
		assert.Equal(t, booking.StatusPaid, got.Status)
		require.NotNil(t, got.DatePaid)
	})

	t.Run("一般入場は座席確定なしで支払い済みへ遷移する", func(t *testing.T) {
		svc, m := newBookingServiceForTest(new(MockCatalogRepository))
		b := validReservedBooking()
		b.Type = booking.TypeGeneralAdmission
		b.SelectedSeating = nil
		m.bookingRepo.On("GetByID", mock.Anything, "b-1").Return(b, nil)
		m.bookingRepo.On("Update", mock.Anything, mock.Anything, b).Return(nil)

		got, err := svc.CompleteCheckout(ctx, "user-1", "b-1")

		require.NoError(t, err)
		assert.Equal(t, booking.StatusPaid, got.Status)
		m.ledgerRepo.AssertNotCalled(t, "CommitHeld", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("他人の予約はErrNotOwner", func(t *testing.T) {
		svc, m := newBookingServiceForTest(new(MockCatalogRepository))
		m.bookingRepo.On("GetByID", mock.Anything, "b-1").Return(validReservedBooking(), nil)

		_, err := svc.CompleteCheckout(ctx, "user-2", "b-1")

		assert.ErrorIs(t, err, booking.ErrNotOwner)
		m.ledgerRepo.AssertNotCalled(t, "CommitHeld", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("期限切れの仮押さえはErrBookingExpired", func(t *testing.T) {
		svc, m := newBookingServiceForTest(new(MockCatalogRepository))
		b := validReservedBooking()
		b.ExpiresAt = time.Now().Add(-time.Minute)
		m.bookingRepo.On("GetByID", mock.Anything, "b-1").Return(b, nil)

		_, err := svc.CompleteCheckout(ctx, "user-1", "b-1")

		assert.ErrorIs(t, err, booking.ErrBookingExpired)
		assert.Equal(t, booking.StatusReserved, b.Status)
	})

	t.Run("予約の更新に失敗したら台帳の確定もコミットされない", func(t *testing.T) {
		// 台帳確定と予約更新は同一トランザクションなので
		// 片方だけが確定した状態は残らない
		tx := new(MockTx)
		tx.On("Rollback").Return(nil)
		txm := new(MockTxManager)
		txm.On("Begin", mock.Anything).Return(tx, nil)

		bookingRepo := new(MockBookingRepository)
		ledgerRepo := new(MockLedgerRepository)
		showRepo := new(MockShowRepository)
		lc := NewLifecycle()
		svc := NewBookingService(BookingServiceConfig{
			TxManager:   txm,
			BookingRepo: bookingRepo,
			ShowRepo:    showRepo,
			SeatLocks:   NewSeatLockManager(txm, ledgerRepo, bookingRepo, showRepo, lc, nil),
			Lifecycle:   lc,
			HoldTTL:     30 * time.Minute,
			Currency:    "USD",
		})

		b := validReservedBooking()
		bookingRepo.On("GetByID", mock.Anything, "b-1").Return(b, nil)
		ledgerRepo.On("CommitHeld", mock.Anything, tx, b.SelectedSeating, "b-1").Return(2, nil)
		bookingRepo.On("Update", mock.Anything, tx, b).Return(assert.AnError)

		_, err := svc.CompleteCheckout(ctx, "user-1", "b-1")

		require.Error(t, err)
		tx.AssertCalled(t, "Rollback")
		tx.AssertNotCalled(t, "Commit")
	})

	t.Run("座席確定の件数不足は予約を無効化してErrSeatConflict", func(t *testing.T) {
		svc, m := newBookingServiceForTest(new(MockCatalogRepository))
		b := validReservedBooking()
		m.bookingRepo.On("GetByID", mock.Anything, "b-1").Return(b, nil)
		m.ledgerRepo.On("CommitHeld", mock.Anything, mock.Anything, b.SelectedSeating, "b-1").Return(1, nil)
		m.ledgerRepo.On("ReleaseToAvailable", mock.Anything, b.SelectedSeating).Return(nil)
		m.bookingRepo.On("Update", mock.Anything, mock.Anything, b).Return(nil)

		_, err := svc.CompleteCheckout(ctx, "user-1", "b-1")

		assert.ErrorIs(t, err, ledger.ErrSeatConflict)
		assert.Equal(t, booking.StatusInvalid, b.Status)
	})
}

func TestBookingService_CancelBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("未確定の仮押さえ座席を解放してからキャンセルへ遷移する", func(t *testing.T) {
		// 確定前の座席は pending かつ reserved_by 未刻印のため
		// 予約IDではなく座席ID指定で戻す
		svc, m := newBookingServiceForTest(new(MockCatalogRepository))
		b := validReservedBooking()
		m.bookingRepo.On("GetByID", mock.Anything, "b-1").Return(b, nil)
		m.ledgerRepo.On("ReleaseToAvailable", mock.Anything, b.SelectedSeating).Return(nil)
		m.bookingRepo.On("Update", mock.Anything, mock.Anything, b).Return(nil)
		m.cache.On("Invalidate", mock.Anything, "show-1").Return(nil)

		got, err := svc.CancelBooking(ctx, "user-1", "b-1")

		require.NoError(t, err)
		assert.Equal(t, booking.StatusCancelled, got.Status)
		require.NotNil(t, got.DateCancelled)
		m.ledgerRepo.AssertCalled(t, "ReleaseToAvailable", mock.Anything, b.SelectedSeating)
		m.ledgerRepo.AssertNotCalled(t, "ReleaseByBooking", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("支払い済み予約は確定済み座席を予約IDで解放する", func(t *testing.T) {
		svc, m := newBookingServiceForTest(new(MockCatalogRepository))
		b := validReservedBooking()
		now := time.Now()
		b.Status = booking.StatusPaid
		b.DatePaid = &now
		m.bookingRepo.On("GetByID", mock.Anything, "b-1").Return(b, nil)
		m.showRepo.On("GetByID", mock.Anything, "show-1").Return(bookingTestShow(), nil)
		m.ledgerRepo.On("ReleaseByBooking", mock.Anything, mock.Anything, "b-1").Return(2, nil)
		m.bookingRepo.On("Update", mock.Anything, mock.Anything, b).Return(nil)
		m.cache.On("Invalidate", mock.Anything, "show-1").Return(nil)

		got, err := svc.CancelBooking(ctx, "user-1", "b-1")

		require.NoError(t, err)
		assert.Equal(t, booking.StatusCancelled, got.Status)
		require.NotNil(t, got.DateCancelled)
		m.ledgerRepo.AssertCalled(t, "ReleaseByBooking", mock.Anything, mock.Anything, "b-1")
	})

	t.Run("売り切れショーの確定済み座席は戻さずにキャンセルのみ行う", func(t *testing.T) {
		svc, m := newBookingServiceForTest(new(MockCatalogRepository))
		b := validReservedBooking()
		now := time.Now()
		b.Status = booking.StatusPaid
		b.DatePaid = &now
		sh := bookingTestShow()
		sh.Status = show.StatusSoldOut
		m.bookingRepo.On("GetByID", mock.Anything, "b-1").Return(b, nil)
		m.showRepo.On("GetByID", mock.Anything, "show-1").Return(sh, nil)
		m.bookingRepo.On("Update", mock.Anything, mock.Anything, b).Return(nil)
		m.cache.On("Invalidate", mock.Anything, "show-1").Return(nil)

		got, err := svc.CancelBooking(ctx, "user-1", "b-1")

		require.NoError(t, err)
		assert.Equal(t, booking.StatusCancelled, got.Status)
		m.ledgerRepo.AssertNotCalled(t, "ReleaseByBooking", mock.Anything, mock.Anything, mock.Anything)
		m.ledgerRepo.AssertNotCalled(t, "ReleaseToAvailable", mock.Anything, mock.Anything)
	})

	t.Run("他人の予約はキャンセルできない", func(t *testing.T) {
		svc, m := newBookingServiceForTest(new(MockCatalogRepository))
		m.bookingRepo.On("GetByID", mock.Anything, "b-1").Return(validReservedBooking(), nil)

		_, err := svc.CancelBooking(ctx, "user-2", "b-1")

		assert.ErrorIs(t, err, booking.ErrNotOwner)
	})

	t.Run("キャンセル済み予約の再キャンセルはErrBookingAlreadyCancelled", func(t *testing.T) {
		svc, m := newBookingServiceForTest(new(MockCatalogRepository))
		b := validReservedBooking()
		now := time.Now()
		b.Status = booking.StatusCancelled
		b.DateCancelled = &now
		m.bookingRepo.On("GetByID", mock.Anything, "b-1").Return(b, nil)

		_, err := svc.CancelBooking(ctx, "user-1", "b-1")

		assert.ErrorIs(t, err, booking.ErrBookingAlreadyCancelled)
	})
}

func TestBookingService_ExpireBookings(t *testing.T) {
	ctx := context.Background()

	expiredBooking := func(id string, seating []string) *booking.Booking {
		b := validReservedBooking()
		b.ID = id
		b.SelectedSeating = seating
		if seating == nil {
			b.Type = booking.TypeGeneralAdmission
		}
		b.ExpiresAt = time.Now().Add(-time.Minute)
		return b
	}

	t.Run("期限切れの仮押さえを回収して座席を戻す", func(t *testing.T) {
		svc, m := newBookingServiceForTest(new(MockCatalogRepository))
		b1 := expiredBooking("b-1", []string{"l-1", "l-2"})
		b2 := expiredBooking("b-2", nil)
		m.bookingRepo.On("GetExpiredReserved", mock.Anything, 100).Return([]*booking.Booking{b1, b2}, nil)
		m.bookingRepo.On("Update", mock.Anything, mock.Anything, mock.Anything).Return(nil)
		m.ledgerRepo.On("ReleaseToAvailable", mock.Anything, []string{"l-1", "l-2"}).Return(nil)
		m.cache.On("Invalidate", mock.Anything, "show-1").Return(nil)

		count, err := svc.ExpireBookings(ctx)

		require.NoError(t, err)
		assert.Equal(t, 2, count)
		assert.Equal(t, booking.StatusExpired, b1.Status)
		assert.Equal(t, booking.StatusExpired, b2.Status)
		require.NotNil(t, b1.DateExpired)
	})

	t.Run("1件の失敗が残りの処理を止めない", func(t *testing.T) {
		svc, m := newBookingServiceForTest(new(MockCatalogRepository))
		b1 := expiredBooking("b-1", nil)
		b2 := expiredBooking("b-2", nil)
		m.bookingRepo.On("GetExpiredReserved", mock.Anything, 100).Return([]*booking.Booking{b1, b2}, nil)
		m.bookingRepo.On("Update", mock.Anything, mock.Anything, b1).Return(assert.AnError)
		m.bookingRepo.On("Update", mock.Anything, mock.Anything, b2).Return(nil)
		m.cache.On("Invalidate", mock.Anything, "show-1").Return(nil)

		count, err := svc.ExpireBookings(ctx)

		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("対象なしは0件で正常終了", func(t *testing.T) {
		svc, m := newBookingServiceForTest(new(MockCatalogRepository))
		m.bookingRepo.On("GetExpiredReserved", mock.Anything, 100).Return([]*booking.Booking{}, nil)

		count, err := svc.ExpireBookings(ctx)

		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})
}

func TestBookingService_GetUserBookings(t *testing.T) {
	ctx := context.Background()

	t.Run("ページングパラメータが正規化される", func(t *testing.T) {
		svc, m := newBookingServiceForTest(new(MockCatalogRepository))
		m.bookingRepo.On("GetByUserID", mock.Anything, "user-1", 20, 0).Return([]*booking.Booking{}, nil)

		_, err := svc.GetUserBookings(ctx, "user-1", 0, -5)

		require.NoError(t, err)
		m.bookingRepo.AssertCalled(t, "GetByUserID", mock.Anything, "user-1", 20, 0)
	})

	t.Run("上限を超えるlimitは100に丸められる", func(t *testing.T) {
		svc, m := newBookingServiceForTest(new(MockCatalogRepository))
		m.bookingRepo.On("GetByUserID", mock.Anything, "user-1", 100, 10).Return([]*booking.Booking{}, nil)

		_, err := svc.GetUserBookings(ctx, "user-1", 500, 10)

		require.NoError(t, err)
	})
}
