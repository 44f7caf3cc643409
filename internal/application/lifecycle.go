package application

import (
	"time"

	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/booking"
)

// Lifecycle は予約の状態機械に対する書き込み前の不変条件チェックを提供する
// オーケストレーター・キャンセル・支払い・補償処理など、
// 予約を書き込む全ての経路がここを通る
type Lifecycle struct{}

// NewLifecycle は新しい Lifecycle を作成する
func NewLifecycle() *Lifecycle {
	return &Lifecycle{}
}

// ValidateNew は作成直前の予約を検証する
func (l *Lifecycle) ValidateNew(b *booking.Booking) error {
	return l.validate(b, true)
}

// ValidateTransition は状態遷移後・書き込み直前の予約を検証する
// expiryChanged は ExpiresAt が変更された場合に true を渡す
func (l *Lifecycle) ValidateTransition(b *booking.Booking, expiryChanged bool) error {
	return l.validate(b, expiryChanged)
}

func (l *Lifecycle) validate(b *booking.Booking, checkExpiry bool) error {
	if b.UserID == "" {
		return booking.ErrUserIDRequired
	}
	if b.ShowID == "" {
		return booking.ErrShowIDRequired
	}
	if b.TicketCount <= 0 {
		return booking.ErrInvalidTicketCount
	}
	if b.IdempotencyKey == "" {
		return booking.ErrIdempotencyRequired
	}

	// 座席リストの形状: reserved_seats ⇔ 非空
	switch b.Type {
	case booking.TypeReservedSeats:
		if len(b.SelectedSeating) == 0 {
			return booking.ErrSeatingRequired
		}
	case booking.TypeGeneralAdmission:
		if len(b.SelectedSeating) != 0 {
			return booking.ErrSeatingNotAllowed
		}
	default:
		return booking.ErrInvalidCheckoutType
	}

	// 状態に対応する日時フィールドの必須チェック
	// 欠落は暗黙に補完せず検証エラーとする
	switch b.Status {
	case booking.StatusPaid:
		if b.DatePaid == nil {
			return booking.ErrMissingStatusDate
		}
	case booking.StatusCancelled:
		if b.DateCancelled == nil {
			return booking.ErrMissingStatusDate
		}
	case booking.StatusRefunded:
		if b.DateRefunded == nil {
			return booking.ErrMissingStatusDate
		}
	case booking.StatusExpired:
		if b.DateExpired == nil {
			return booking.ErrMissingStatusDate
		}
	case booking.StatusReserved:
		// 新規または ExpiresAt 変更時は有効期限が未来であること
		if checkExpiry && !b.ExpiresAt.After(time.Now()) {
			return booking.ErrExpiryNotFuture
		}
	}

	return nil
}
