package booking

import "time"

// Status は予約の状態を表す
type Status string

const (
	StatusReserved  Status = "reserved"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
	StatusRefunded  Status = "refunded"
	StatusExpired   Status = "expired"
	// StatusInvalid は座席確定の失敗時のみ到達する終端状態
	StatusInvalid Status = "invalid"
)

// Type は予約の種別を表す
type Type string

const (
	TypeGeneralAdmission Type = "general_admission"
	TypeReservedSeats    Type = "reserved_seats"
)

// HoldDuration は仮押さえの有効期間（デフォルト30分）
const HoldDuration = 30 * time.Minute

// Booking は予約レコードを表す
// 一度作成されたら削除されない（監査証跡）
type Booking struct {
	ID              string
	UserID          string
	ShowID          string
	Type            Type
	TicketCount     int
	SelectedSeating []string // 台帳エントリID。reserved_seats のときのみ非空
	PricePaid       int      // セント単位
	Currency        string
	Status          Status
	StatusNote      *string // invalid 遷移時の説明
	IdempotencyKey  string
	DateReserved    time.Time
	DatePaid        *time.Time
	DateCancelled   *time.Time
	DateRefunded    *time.Time
	DateExpired     *time.Time
	ExpiresAt       time.Time
	Snapshot        *ShowSnapshot
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Version         int // 楽観的ロック用
}

// NewBooking は status=reserved の新しい予約を作成する
// 価格とスナップショットはオーケストレーターが後から確定する
func NewBooking(userID, showID, idempotencyKey string, t Type, ticketCount int, seating []string, holdFor time.Duration) *Booking {
	now := time.Now()
	return &Booking{
		UserID:          userID,
		ShowID:          showID,
		Type:            t,
		TicketCount:     ticketCount,
		SelectedSeating: seating,
		Status:          StatusReserved,
		IdempotencyKey:  idempotencyKey,
		DateReserved:    now,
		ExpiresAt:       now.Add(holdFor),
		CreatedAt:       now,
		UpdatedAt:       now,
		Version:         0,
	}
}

// IsExpired は仮押さえの期限が切れているかを返す
func (b *Booking) IsExpired() bool {
	return b.Status == StatusReserved && time.Now().After(b.ExpiresAt)
}

// IsReservedSeating は座席指定予約かを返す
func (b *Booking) IsReservedSeating() bool {
	return b.Type == TypeReservedSeats
}

// Pay は予約を支払い済みにする
func (b *Booking) Pay() error {
	if b.Status != StatusReserved {
		return ErrBookingNotReserved
	}
	if time.Now().After(b.ExpiresAt) {
		return ErrBookingExpired
	}
	now := time.Now()
	b.Status = StatusPaid
	b.DatePaid = &now
	b.UpdatedAt = now
	return nil
}

// Cancel は予約をキャンセルする
func (b *Booking) Cancel() error {
	switch b.Status {
	case StatusReserved, StatusPaid:
		now := time.Now()
		b.Status = StatusCancelled
		b.DateCancelled = &now
		b.UpdatedAt = now
		return nil
	case StatusCancelled:
		return ErrBookingAlreadyCancelled
	default:
		return ErrInvalidTransition
	}
}

// Refund は支払い済み予約を返金済みにする
func (b *Booking) Refund() error {
	if b.Status != StatusPaid {
		return ErrBookingNotPaid
	}
	now := time.Now()
	b.Status = StatusRefunded
	b.DateRefunded = &now
	b.UpdatedAt = now
	return nil
}

// Expire は期限切れの仮押さえを expired にする
func (b *Booking) Expire() error {
	if b.Status != StatusReserved {
		return ErrBookingNotReserved
	}
	now := time.Now()
	b.Status = StatusExpired
	b.DateExpired = &now
	b.UpdatedAt = now
	return nil
}

// Invalidate は座席確定の失敗時に予約を invalid にする
// この遷移は SeatLockManager の補償処理からのみ行われる
func (b *Booking) Invalidate(note string) {
	now := time.Now()
	b.Status = StatusInvalid
	b.StatusNote = &note
	b.UpdatedAt = now
}
