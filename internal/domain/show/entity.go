package show

import "time"

// Status はショー（上映回）の状態を表す
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusOpen      Status = "open"
	StatusSoldOut   Status = "sold_out"
	StatusClosed    Status = "closed"
)

// Show は特定スクリーンでの1回の上映を表す
type Show struct {
	ID          string
	MovieID     string
	VenueID     string
	ScreenID    string
	StartAt     time.Time
	EndAt       time.Time
	TicketPrice int    // 基本チケット価格（セント単位）
	Currency    string
	Language    string
	Subtitles   []string
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Version     int // 楽観的ロック用
}

// NewShow は新しいショーを作成する
func NewShow(movieID, venueID, screenID string, startAt, endAt time.Time, ticketPrice int, currency, language string, subtitles []string) *Show {
	now := time.Now()
	return &Show{
		MovieID:     movieID,
		VenueID:     venueID,
		ScreenID:    screenID,
		StartAt:     startAt,
		EndAt:       endAt,
		TicketPrice: ticketPrice,
		Currency:    currency,
		Language:    language,
		Subtitles:   subtitles,
		Status:      StatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
		Version:     0,
	}
}

// IsBookingOpen は予約を受け付け可能かを返す
func (s *Show) IsBookingOpen() bool {
	return s.Status == StatusOpen && time.Now().Before(s.StartAt)
}

// IsSchedulable は座席を空きに戻せる状態かを返す
// 売り切れ・終了済みのショーの座席は解放しない
func (s *Show) IsSchedulable() bool {
	return s.Status == StatusScheduled || s.Status == StatusOpen
}

// MarkSoldOut はショーを売り切れ状態にする
func (s *Show) MarkSoldOut() {
	s.Status = StatusSoldOut
	s.UpdatedAt = time.Now()
}

// Close はショーの予約受付を終了する
func (s *Show) Close() {
	s.Status = StatusClosed
	s.UpdatedAt = time.Now()
}

// Validate はショーの検証を行う
func (s *Show) Validate() error {
	if s.MovieID == "" {
		return ErrMovieIDRequired
	}
	if s.VenueID == "" {
		return ErrVenueIDRequired
	}
	if s.ScreenID == "" {
		return ErrScreenIDRequired
	}
	if s.TicketPrice < 0 {
		return ErrInvalidTicketPrice
	}
	if !s.EndAt.After(s.StartAt) {
		return ErrInvalidShowTime
	}
	return nil
}
