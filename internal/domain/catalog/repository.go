package catalog

import "context"

// MovieRepository は作品の読み取りインターフェース
type MovieRepository interface {
	// GetMovieByID はIDから作品を取得する
	GetMovieByID(ctx context.Context, id string) (*Movie, error)
}

// VenueRepository は劇場の読み取りインターフェース
type VenueRepository interface {
	// GetVenueByID はIDから劇場を取得する
	GetVenueByID(ctx context.Context, id string) (*Venue, error)
}

// ScreenRepository はスクリーンの読み取りインターフェース
type ScreenRepository interface {
	// GetScreenByID はIDからスクリーンを取得する
	GetScreenByID(ctx context.Context, id string) (*Screen, error)
}

// SeatRepository は物理座席の読み取りインターフェース
type SeatRepository interface {
	// GetSeatByID はIDから座席を取得する
	GetSeatByID(ctx context.Context, id string) (*Seat, error)

	// GetSeatsByIDs はIDのリストから座席を一括取得する
	GetSeatsByIDs(ctx context.Context, ids []string) ([]*Seat, error)

	// GetSeatsByScreenID はスクリーンの全座席を取得する
	GetSeatsByScreenID(ctx context.Context, screenID string) ([]*Seat, error)
}

// Repository はカタログ参照をまとめたインターフェース
// 予約エンジンはカタログに対して読み取りのみを行う
type Repository interface {
	MovieRepository
	VenueRepository
	ScreenRepository
	SeatRepository
}
