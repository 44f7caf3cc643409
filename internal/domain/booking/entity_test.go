package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBooking(t *testing.T) {
	// Act
	b := NewBooking("user-1", "show-1", "key-1", TypeReservedSeats, 2, []string{"l1", "l2"}, 30*time.Minute)

	// Assert
	assert.Equal(t, "user-1", b.UserID)
	assert.Equal(t, "show-1", b.ShowID)
	assert.Equal(t, "key-1", b.IdempotencyKey)
	assert.Equal(t, TypeReservedSeats, b.Type)
	assert.Equal(t, 2, b.TicketCount)
	assert.Equal(t, []string{"l1", "l2"}, b.SelectedSeating)
	assert.Equal(t, StatusReserved, b.Status)
	assert.Equal(t, 0, b.Version)
	assert.NotZero(t, b.DateReserved)
	assert.True(t, b.ExpiresAt.After(time.Now().Add(29*time.Minute)))
	assert.Nil(t, b.DatePaid)
	assert.Nil(t, b.DateCancelled)
}

func TestNewBooking_GeneralAdmission(t *testing.T) {
	b := NewBooking("user-1", "show-1", "key-2", TypeGeneralAdmission, 3, nil, 30*time.Minute)

	assert.Equal(t, TypeGeneralAdmission, b.Type)
	assert.Nil(t, b.SelectedSeating)
	assert.False(t, b.IsReservedSeating())
}

func TestBooking_Pay(t *testing.T) {
	t.Run("仮押さえ中の予約を支払い済みにできる", func(t *testing.T) {
		b := NewBooking("user-1", "show-1", "key-1", TypeGeneralAdmission, 1, nil, 30*time.Minute)

		require.NoError(t, b.Pay())

		assert.Equal(t, StatusPaid, b.Status)
		require.NotNil(t, b.DatePaid)
		assert.WithinDuration(t, time.Now(), *b.DatePaid, time.Second)
	})

	t.Run("期限切れの予約は支払いできない", func(t *testing.T) {
		b := NewBooking("user-1", "show-1", "key-1", TypeGeneralAdmission, 1, nil, 30*time.Minute)
		b.ExpiresAt = time.Now().Add(-time.Minute)

		err := b.Pay()

		assert.ErrorIs(t, err, ErrBookingExpired)
		assert.Equal(t, StatusReserved, b.Status)
		assert.Nil(t, b.DatePaid)
	})

	t.Run("キャンセル済みの予約は支払いできない", func(t *testing.T) {
		b := NewBooking("user-1", "show-1", "key-1", TypeGeneralAdmission, 1, nil, 30*time.Minute)
		require.NoError(t, b.Cancel())

		assert.ErrorIs(t, b.Pay(), ErrBookingNotReserved)
	})
}

func TestBooking_Cancel(t *testing.T) {
	t.Run("仮押さえ中の予約をキャンセルできる", func(t *testing.T) {
		b := NewBooking("user-1", "show-1", "key-1", TypeGeneralAdmission, 1, nil, 30*time.Minute)

		require.NoError(t, b.Cancel())

		assert.Equal(t, StatusCancelled, b.Status)
		require.NotNil(t, b.DateCancelled)
	})

	t.Run("支払い済みの予約もキャンセルできる", func(t *testing.T) {
		b := NewBooking("user-1", "show-1", "key-1", TypeGeneralAdmission, 1, nil, 30*time.Minute)
		require.NoError(t, b.Pay())

		require.NoError(t, b.Cancel())
		assert.Equal(t, StatusCancelled, b.Status)
	})

	t.Run("二重キャンセルはエラー", func(t *testing.T) {
		b := NewBooking("user-1", "show-1", "key-1", TypeGeneralAdmission, 1, nil, 30*time.Minute)
		require.NoError(t, b.Cancel())

		assert.ErrorIs(t, b.Cancel(), ErrBookingAlreadyCancelled)
	})

	t.Run("返金済みの予約はキャンセルできない", func(t *testing.T) {
		b := NewBooking("user-1", "show-1", "key-1", TypeGeneralAdmission, 1, nil, 30*time.Minute)
		require.NoError(t, b.Pay())
		require.NoError(t, b.Refund())

		assert.ErrorIs(t, b.Cancel(), ErrInvalidTransition)
	})
}

func TestBooking_Refund(t *testing.T) {
	t.Run("支払い済みの予約を返金できる", func(t *testing.T) {
		b := NewBooking("user-1", "show-1", "key-1", TypeGeneralAdmission, 1, nil, 30*time.Minute)
		require.NoError(t, b.Pay())

		require.NoError(t, b.Refund())

		assert.Equal(t, StatusRefunded, b.Status)
		require.NotNil(t, b.DateRefunded)
	})

	t.Run("仮押さえ中の予約は返金できない", func(t *testing.T) {
		b := NewBooking("user-1", "show-1", "key-1", TypeGeneralAdmission, 1, nil, 30*time.Minute)

		assert.ErrorIs(t, b.Refund(), ErrBookingNotPaid)
	})
}

func TestBooking_Expire(t *testing.T) {
	t.Run("仮押さえ中の予約をexpiredにできる", func(t *testing.T) {
		b := NewBooking("user-1", "show-1", "key-1", TypeGeneralAdmission, 1, nil, 30*time.Minute)

		require.NoError(t, b.Expire())

		assert.Equal(t, StatusExpired, b.Status)
		require.NotNil(t, b.DateExpired)
	})

	t.Run("支払い済みの予約はexpireできない", func(t *testing.T) {
		b := NewBooking("user-1", "show-1", "key-1", TypeGeneralAdmission, 1, nil, 30*time.Minute)
		require.NoError(t, b.Pay())

		assert.ErrorIs(t, b.Expire(), ErrBookingNotReserved)
	})
}

func TestBooking_Invalidate(t *testing.T) {
	b := NewBooking("user-1", "show-1", "key-1", TypeReservedSeats, 2, []string{"l1", "l2"}, 30*time.Minute)

	b.Invalidate("座席確定に失敗")

	assert.Equal(t, StatusInvalid, b.Status)
	require.NotNil(t, b.StatusNote)
	assert.Equal(t, "座席確定に失敗", *b.StatusNote)
}

func TestBooking_IsExpired(t *testing.T) {
	t.Run("期限内の仮押さえは期限切れではない", func(t *testing.T) {
		b := NewBooking("user-1", "show-1", "key-1", TypeGeneralAdmission, 1, nil, 30*time.Minute)
		assert.False(t, b.IsExpired())
	})

	t.Run("期限を過ぎた仮押さえは期限切れ", func(t *testing.T) {
		b := NewBooking("user-1", "show-1", "key-1", TypeGeneralAdmission, 1, nil, 30*time.Minute)
		b.ExpiresAt = time.Now().Add(-time.Second)
		assert.True(t, b.IsExpired())
	})

	t.Run("支払い済みの予約は期限の影響を受けない", func(t *testing.T) {
		b := NewBooking("user-1", "show-1", "key-1", TypeGeneralAdmission, 1, nil, 30*time.Minute)
		require.NoError(t, b.Pay())
		b.ExpiresAt = time.Now().Add(-time.Hour)

		assert.False(t, b.IsExpired())
	})
}
