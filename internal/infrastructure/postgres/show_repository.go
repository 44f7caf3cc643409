package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/show"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/transaction"
)

type showRow struct {
	ID          string         `db:"id"`
	MovieID     string         `db:"movie_id"`
	VenueID     string         `db:"venue_id"`
	ScreenID    string         `db:"screen_id"`
	StartAt     time.Time      `db:"start_at"`
	EndAt       time.Time      `db:"end_at"`
	TicketPrice int            `db:"ticket_price"`
	Currency    string         `db:"currency"`
	Language    string         `db:"language"`
	Subtitles   pq.StringArray `db:"subtitles"`
	Status      string         `db:"status"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
	Version     int            `db:"version"`
}

func (r *showRow) toEntity() *show.Show {
	return &show.Show{
		ID: r.ID, MovieID: r.MovieID, VenueID: r.VenueID, ScreenID: r.ScreenID,
		StartAt: r.StartAt, EndAt: r.EndAt,
		TicketPrice: r.TicketPrice, Currency: r.Currency,
		Language: r.Language, Subtitles: r.Subtitles,
		Status:    show.Status(r.Status),
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt, Version: r.Version,
	}
}

const showColumns = `id, movie_id, venue_id, screen_id, start_at, end_at, ticket_price, currency, language, subtitles, status, created_at, updated_at, version`

// ShowRepository は上映回のPostgreSQL実装
type ShowRepository struct{ db *sqlx.DB }

func NewShowRepository(db *sqlx.DB) *ShowRepository {
	return &ShowRepository{db: db}
}

func (r *ShowRepository) Create(ctx context.Context, tx transaction.Tx, s *show.Show) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return fmt.Errorf("不正なトランザクション型です")
	}

	query := `INSERT INTO shows (movie_id, venue_id, screen_id, start_at, end_at, ticket_price, currency, language, subtitles, status, created_at, updated_at, version) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING id`
	if err := sqlxTx.QueryRowContext(ctx, query,
		s.MovieID, s.VenueID, s.ScreenID, s.StartAt, s.EndAt,
		s.TicketPrice, s.Currency, s.Language, pq.Array(s.Subtitles),
		string(s.Status), s.CreatedAt, s.UpdatedAt, s.Version,
	).Scan(&s.ID); err != nil {
		return fmt.Errorf("ショー作成に失敗: %w", err)
	}
	return nil
}

func (r *ShowRepository) GetByID(ctx context.Context, id string) (*show.Show, error) {
	var row showRow
	query := `SELECT ` + showColumns + ` FROM shows WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, show.ErrShowNotFound
		}
		return nil, fmt.Errorf("ショー取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *ShowRepository) List(ctx context.Context, limit, offset int) ([]*show.Show, error) {
	var rows []showRow
	query := `SELECT ` + showColumns + ` FROM shows ORDER BY start_at LIMIT $1 OFFSET $2`
	if err := r.db.SelectContext(ctx, &rows, query, limit, offset); err != nil {
		return nil, fmt.Errorf("ショー一覧取得に失敗: %w", err)
	}
	shows := make([]*show.Show, len(rows))
	for i := range rows {
		shows[i] = rows[i].toEntity()
	}
	return shows, nil
}

func (r *ShowRepository) Update(ctx context.Context, s *show.Show) error {
	query := `UPDATE shows SET start_at = $1, end_at = $2, ticket_price = $3, language = $4, subtitles = $5, status = $6, updated_at = $7, version = version + 1 WHERE id = $8 AND version = $9`
	result, err := r.db.ExecContext(ctx, query,
		s.StartAt, s.EndAt, s.TicketPrice, s.Language, pq.Array(s.Subtitles),
		string(s.Status), s.UpdatedAt, s.ID, s.Version,
	)
	if err != nil {
		return fmt.Errorf("ショー更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return show.ErrShowNotFound
	}
	s.Version++
	return nil
}

func (r *ShowRepository) Delete(ctx context.Context, tx transaction.Tx, id string) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return fmt.Errorf("不正なトランザクション型です")
	}

	result, err := sqlxTx.ExecContext(ctx, `DELETE FROM shows WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ショー削除に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return show.ErrShowNotFound
	}
	return nil
}

var _ show.Repository = (*ShowRepository)(nil)
