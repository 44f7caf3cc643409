package ledger

import (
	"math"
	"time"
)

// Status は座席台帳エントリの状態を表す
type Status string

const (
	StatusAvailable   Status = "available"
	StatusPending     Status = "pending"
	StatusReserved    Status = "reserved"
	StatusUnavailable Status = "unavailable"
)

// Entry は特定ショーにおける1座席の空き状況レコードを表す
// (show_id, seat_id) の組み合わせで一意
type Entry struct {
	ID              string
	ShowID          string
	SeatID          string
	BasePrice       int     // セント単位
	PriceMultiplier float64 // 座席種別による係数
	OverridePrice   *int    // 設定時は係数計算より優先される
	Status          Status
	ReservedBy      *string // 確定済み予約のID
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Version         int // 楽観的ロック用
}

// NewEntry はショーのスケジュール時に作成される台帳エントリを返す
func NewEntry(showID, seatID string, basePrice int, multiplier float64) *Entry {
	now := time.Now()
	return &Entry{
		ShowID:          showID,
		SeatID:          seatID,
		BasePrice:       basePrice,
		PriceMultiplier: multiplier,
		Status:          StatusAvailable,
		CreatedAt:       now,
		UpdatedAt:       now,
		Version:         0,
	}
}

// IsAvailable はエントリが確保可能かを返す
func (e *Entry) IsAvailable() bool {
	return e.Status == StatusAvailable
}

// ResolvedPrice はこの座席の最終価格を返す
// 上書き価格があればそれを、なければ基本価格×係数を使用する
func (e *Entry) ResolvedPrice() int {
	if e.OverridePrice != nil {
		return *e.OverridePrice
	}
	return int(math.Round(float64(e.BasePrice) * e.PriceMultiplier))
}

// Validate は台帳エントリの検証を行う
func (e *Entry) Validate() error {
	if e.ShowID == "" {
		return ErrShowIDRequired
	}
	if e.SeatID == "" {
		return ErrSeatIDRequired
	}
	if e.BasePrice < 0 {
		return ErrInvalidPrice
	}
	if e.PriceMultiplier <= 0 {
		return ErrInvalidMultiplier
	}
	if e.OverridePrice != nil && *e.OverridePrice < 0 {
		return ErrInvalidPrice
	}
	return nil
}

// TotalSeatingCost はエントリ群の最終価格の合計を返す
func TotalSeatingCost(entries []*Entry) int {
	var total int
	for _, e := range entries {
		total += e.ResolvedPrice()
	}
	return total
}
