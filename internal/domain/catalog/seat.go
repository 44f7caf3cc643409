package catalog

import (
	"fmt"
	"time"
)

// SeatType は座席の種別を表す
type SeatType string

const (
	SeatTypeStandard   SeatType = "standard"
	SeatTypePremium    SeatType = "premium"
	SeatTypeAccessible SeatType = "accessible"
)

// Seat はスクリーン内の物理座席を表す
// ショーごとの空き状況は ledger パッケージが別途管理する
type Seat struct {
	ID        string
	ScreenID  string
	Row       string
	Number    int
	Type      SeatType
	Label     *string // 表示用ラベル（任意）
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Key は "{row}-{number}" 形式の安定した座席識別子を返す
func (s *Seat) Key() string {
	return fmt.Sprintf("%s-%d", s.Row, s.Number)
}

// PriceMultiplier は座席種別ごとの価格係数を返す
func (s *Seat) PriceMultiplier() float64 {
	switch s.Type {
	case SeatTypePremium:
		return 1.5
	case SeatTypeAccessible:
		return 0.8
	default:
		return 1.0
	}
}

// Validate は座席データの検証を行う
func (s *Seat) Validate() error {
	if s.ScreenID == "" {
		return ErrSeatScreenRequired
	}
	if s.Row == "" {
		return ErrSeatRowRequired
	}
	if s.Number <= 0 {
		return ErrInvalidSeatNumber
	}
	switch s.Type {
	case SeatTypeStandard, SeatTypePremium, SeatTypeAccessible:
		return nil
	default:
		return ErrInvalidSeatType
	}
}
