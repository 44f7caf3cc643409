package booking

import "time"

// スナップショットは予約作成時点のカタログデータの不変コピー。
// 後から作品・劇場・座席が編集されても過去の予約内容は変わらない。
// 一度予約に埋め込まれたら、いかなるフィールドも更新されない。

// MovieSnapshot は予約時点の作品情報
type MovieSnapshot struct {
	MovieID        string   `json:"movie_id"`
	Title          string   `json:"title"`
	RuntimeMinutes int      `json:"runtime_minutes"`
	Rating         string   `json:"rating,omitempty"`
	Genres         []string `json:"genres,omitempty"`
}

// Validate はスナップショットの構造的制約を検証する
func (s *MovieSnapshot) Validate() error {
	if s.MovieID == "" || s.Title == "" {
		return ErrInconsistentSnapshot
	}
	if s.RuntimeMinutes <= 0 {
		return ErrInconsistentSnapshot
	}
	return nil
}

// VenueSnapshot は予約時点の劇場情報
type VenueSnapshot struct {
	VenueID  string `json:"venue_id"`
	Name     string `json:"name"`
	City     string `json:"city,omitempty"`
	Address  string `json:"address,omitempty"`
	Timezone string `json:"timezone"`
}

// Validate はスナップショットの構造的制約を検証する
func (s *VenueSnapshot) Validate() error {
	if s.VenueID == "" || s.Name == "" || s.Timezone == "" {
		return ErrInconsistentSnapshot
	}
	return nil
}

// ScreenSnapshot は予約時点のスクリーン情報
type ScreenSnapshot struct {
	ScreenID string `json:"screen_id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
	Format   string `json:"format,omitempty"`
}

// Validate はスナップショットの構造的制約を検証する
func (s *ScreenSnapshot) Validate() error {
	if s.ScreenID == "" || s.Name == "" {
		return ErrInconsistentSnapshot
	}
	if s.Capacity <= 0 {
		return ErrInconsistentSnapshot
	}
	return nil
}

// SeatSnapshot は凍結された1座席分の情報
// PricePaid は上書き価格、なければ基本価格×係数で解決された最終価格
type SeatSnapshot struct {
	LedgerID  string  `json:"ledger_id"`
	SeatKey   string  `json:"seat_key"` // "{row}-{number}"
	SeatType  string  `json:"seat_type"`
	Label     *string `json:"label,omitempty"`
	PricePaid int     `json:"price_paid"`
}

// Validate はスナップショットの構造的制約を検証する
func (s *SeatSnapshot) Validate() error {
	if s.LedgerID == "" || s.SeatKey == "" || s.SeatType == "" {
		return ErrInconsistentSnapshot
	}
	if s.PricePaid < 0 {
		return ErrInconsistentSnapshot
	}
	return nil
}

// ShowSnapshot は予約に埋め込まれる書き込み一回限りの集約
// Seats は座席指定予約のときのみ存在する（一般入場では nil）
type ShowSnapshot struct {
	ShowID      string         `json:"show_id"`
	Movie       MovieSnapshot  `json:"movie"`
	Venue       VenueSnapshot  `json:"venue"`
	Screen      ScreenSnapshot `json:"screen"`
	Seats       []SeatSnapshot `json:"seats,omitempty"`
	StartAt     time.Time      `json:"start_at"`
	EndAt       time.Time      `json:"end_at"`
	Language    string         `json:"language,omitempty"`
	Subtitles   []string       `json:"subtitles,omitempty"`
	TicketCount int            `json:"ticket_count"`
	PricePaid   int            `json:"price_paid"` // 正式な支払額
}

// Validate はスナップショット全体の構造的制約を検証する
func (s *ShowSnapshot) Validate() error {
	if s.ShowID == "" {
		return ErrInconsistentSnapshot
	}
	if err := s.Movie.Validate(); err != nil {
		return err
	}
	if err := s.Venue.Validate(); err != nil {
		return err
	}
	if err := s.Screen.Validate(); err != nil {
		return err
	}
	for i := range s.Seats {
		if err := s.Seats[i].Validate(); err != nil {
			return err
		}
	}
	if !s.EndAt.After(s.StartAt) {
		return ErrInconsistentSnapshot
	}
	if s.TicketCount <= 0 || s.PricePaid < 0 {
		return ErrInconsistentSnapshot
	}
	return nil
}
