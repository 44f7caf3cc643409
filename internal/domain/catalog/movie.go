package catalog

import "time"

// Movie は上映作品を表す
// 予約エンジンから見ると読み取り専用の参照データであり、
// 管理用CRUDは別システムが担当する
type Movie struct {
	ID             string
	Title          string
	RuntimeMinutes int
	Rating         string
	Genres         []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Validate は作品データの検証を行う
func (m *Movie) Validate() error {
	if m.Title == "" {
		return ErrMovieTitleRequired
	}
	if m.RuntimeMinutes <= 0 {
		return ErrInvalidRuntime
	}
	return nil
}
