package catalog

import "time"

// Screen は劇場内のスクリーンを表す
type Screen struct {
	ID        string
	VenueID   string
	Name      string
	Capacity  int
	Format    string // 2D / 3D / IMAX など
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate はスクリーンデータの検証を行う
func (s *Screen) Validate() error {
	if s.VenueID == "" {
		return ErrScreenVenueRequired
	}
	if s.Name == "" {
		return ErrScreenNameRequired
	}
	if s.Capacity <= 0 {
		return ErrInvalidCapacity
	}
	return nil
}
