package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/catalog"
)

type movieRow struct {
	ID             string         `db:"id"`
	Title          string         `db:"title"`
	RuntimeMinutes int            `db:"runtime_minutes"`
	Rating         string         `db:"rating"`
	Genres         pq.StringArray `db:"genres"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

type venueRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	City      string    `db:"city"`
	Address   string    `db:"address"`
	Timezone  string    `db:"timezone"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type screenRow struct {
	ID        string    `db:"id"`
	VenueID   string    `db:"venue_id"`
	Name      string    `db:"name"`
	Capacity  int       `db:"capacity"`
	Format    string    `db:"format"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type seatRow struct {
	ID        string    `db:"id"`
	ScreenID  string    `db:"screen_id"`
	Row       string    `db:"row"`
	Number    int       `db:"number"`
	SeatType  string    `db:"seat_type"`
	Label     *string   `db:"label"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r *seatRow) toEntity() *catalog.Seat {
	return &catalog.Seat{
		ID: r.ID, ScreenID: r.ScreenID,
		Row: r.Row, Number: r.Number,
		Type: catalog.SeatType(r.SeatType), Label: r.Label,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

// CatalogRepository はカタログ参照データのPostgreSQL実装
// 予約エンジンからは読み取りのみ行う
type CatalogRepository struct{ db *sqlx.DB }

func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) GetMovieByID(ctx context.Context, id string) (*catalog.Movie, error) {
	var row movieRow
	query := `SELECT id, title, runtime_minutes, rating, genres, created_at, updated_at FROM movies WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, catalog.ErrMovieNotFound
		}
		return nil, fmt.Errorf("作品取得に失敗: %w", err)
	}
	return &catalog.Movie{
		ID: row.ID, Title: row.Title,
		RuntimeMinutes: row.RuntimeMinutes, Rating: row.Rating, Genres: row.Genres,
		CreatedAt: row.CreatedAt, UpdatedAt: row.UpdatedAt,
	}, nil
}

func (r *CatalogRepository) GetVenueByID(ctx context.Context, id string) (*catalog.Venue, error) {
	var row venueRow
	query := `SELECT id, name, city, address, timezone, created_at, updated_at FROM venues WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, catalog.ErrVenueNotFound
		}
		return nil, fmt.Errorf("劇場取得に失敗: %w", err)
	}
	return &catalog.Venue{
		ID: row.ID, Name: row.Name, City: row.City, Address: row.Address,
		Timezone:  row.Timezone,
		CreatedAt: row.CreatedAt, UpdatedAt: row.UpdatedAt,
	}, nil
}

func (r *CatalogRepository) GetScreenByID(ctx context.Context, id string) (*catalog.Screen, error) {
	var row screenRow
	query := `SELECT id, venue_id, name, capacity, format, created_at, updated_at FROM screens WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, catalog.ErrScreenNotFound
		}
		return nil, fmt.Errorf("スクリーン取得に失敗: %w", err)
	}
	return &catalog.Screen{
		ID: row.ID, VenueID: row.VenueID, Name: row.Name,
		Capacity: row.Capacity, Format: row.Format,
		CreatedAt: row.CreatedAt, UpdatedAt: row.UpdatedAt,
	}, nil
}

const seatColumns = `id, screen_id, "row", number, seat_type, label, created_at, updated_at`

func (r *CatalogRepository) GetSeatByID(ctx context.Context, id string) (*catalog.Seat, error) {
	var row seatRow
	query := `SELECT ` + seatColumns + ` FROM seats WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, catalog.ErrSeatNotFound
		}
		return nil, fmt.Errorf("座席取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *CatalogRepository) GetSeatsByIDs(ctx context.Context, ids []string) ([]*catalog.Seat, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []seatRow
	query := `SELECT ` + seatColumns + ` FROM seats WHERE id = ANY($1)`
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("座席一括取得に失敗: %w", err)
	}
	if len(rows) != len(ids) {
		return nil, catalog.ErrSeatNotFound
	}
	seats := make([]*catalog.Seat, len(rows))
	for i := range rows {
		seats[i] = rows[i].toEntity()
	}
	return seats, nil
}

func (r *CatalogRepository) GetSeatsByScreenID(ctx context.Context, screenID string) ([]*catalog.Seat, error) {
	var rows []seatRow
	query := `SELECT ` + seatColumns + ` FROM seats WHERE screen_id = $1 ORDER BY "row", number`
	if err := r.db.SelectContext(ctx, &rows, query, screenID); err != nil {
		return nil, fmt.Errorf("スクリーン座席取得に失敗: %w", err)
	}
	seats := make([]*catalog.Seat, len(rows))
	for i := range rows {
		seats[i] = rows[i].toEntity()
	}
	return seats, nil
}

var _ catalog.Repository = (*CatalogRepository)(nil)
