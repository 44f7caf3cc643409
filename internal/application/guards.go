package application

import (
	"time"

	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/booking"
)

// AssertOwnedBy は予約の所有者チェックを行う
// チェックアウト完了・キャンセルなどの下流フローから再利用される
func AssertOwnedBy(userID string, b *booking.Booking) error {
	if b.UserID != userID {
		return booking.ErrNotOwner
	}
	return nil
}

// AssertNotExpired は仮押さえの期限切れを遅延検出する
// バックグラウンドのスイーパーに依存せず、参照時点で強制する
func AssertNotExpired(b *booking.Booking) error {
	if b.Status == booking.StatusReserved && time.Now().After(b.ExpiresAt) {
		return booking.ErrBookingExpired
	}
	return nil
}
