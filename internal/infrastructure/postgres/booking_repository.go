package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/booking"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/transaction"
)

type bookingRow struct {
	ID             string          `db:"id"`
	UserID         string          `db:"user_id"`
	ShowID         string          `db:"show_id"`
	Type           string          `db:"booking_type"`
	TicketCount    int             `db:"ticket_count"`
	PricePaid      int             `db:"price_paid"`
	Currency       string          `db:"currency"`
	Status         string          `db:"status"`
	StatusNote     *string         `db:"status_note"`
	IdempotencyKey string          `db:"idempotency_key"`
	DateReserved   time.Time       `db:"date_reserved"`
	DatePaid       *time.Time      `db:"date_paid"`
	DateCancelled  *time.Time      `db:"date_cancelled"`
	DateRefunded   *time.Time      `db:"date_refunded"`
	DateExpired    *time.Time      `db:"date_expired"`
	ExpiresAt      time.Time       `db:"expires_at"`
	Snapshot       json.RawMessage `db:"snapshot"`
	CreatedAt      time.Time       `db:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
	Version        int             `db:"version"`
}

const bookingColumns = `id, user_id, show_id, booking_type, ticket_count, price_paid, currency, status, status_note, idempotency_key, date_reserved, date_paid, date_cancelled, date_refunded, date_expired, expires_at, snapshot, created_at, updated_at, version`

// BookingRepository は予約のPostgreSQL実装
// スナップショットはJSONBカラムに書き込み一回限りで保存される
type BookingRepository struct{ db *sqlx.DB }

func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, tx transaction.Tx, b *booking.Booking) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return fmt.Errorf("不正なトランザクション型です")
	}

	snapJSON, err := json.Marshal(b.Snapshot)
	if err != nil {
		return fmt.Errorf("スナップショットのシリアライズに失敗: %w", err)
	}

	query := `INSERT INTO bookings (user_id, show_id, booking_type, ticket_count, price_paid, currency, status, idempotency_key, date_reserved, expires_at, snapshot, created_at, updated_at, version) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14) RETURNING id`
	if err := sqlxTx.QueryRowContext(ctx, query,
		b.UserID, b.ShowID, string(b.Type), b.TicketCount, b.PricePaid, b.Currency,
		string(b.Status), b.IdempotencyKey, b.DateReserved, b.ExpiresAt, snapJSON,
		b.CreatedAt, b.UpdatedAt, b.Version,
	).Scan(&b.ID); err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			return booking.ErrIdempotencyKeyExists
		}
		return fmt.Errorf("予約作成に失敗: %w", err)
	}

	if len(b.SelectedSeating) > 0 {
		for _, ledgerID := range b.SelectedSeating {
			if _, err := sqlxTx.ExecContext(ctx, `INSERT INTO booking_seats (booking_id, ledger_id) VALUES ($1, $2)`, b.ID, ledgerID); err != nil {
				return fmt.Errorf("予約座席関連付けに失敗: %w", err)
			}
		}
	}
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (*booking.Booking, error) {
	var row bookingRow
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrBookingNotFound
		}
		return nil, fmt.Errorf("予約取得に失敗: %w", err)
	}
	return r.hydrate(ctx, &row)
}

func (r *BookingRepository) GetByIdempotencyKey(ctx context.Context, key string) (*booking.Booking, error) {
	var row bookingRow
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE idempotency_key = $1`
	if err := r.db.GetContext(ctx, &row, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrBookingNotFound
		}
		return nil, fmt.Errorf("予約取得に失敗: %w", err)
	}
	return r.hydrate(ctx, &row)
}

func (r *BookingRepository) GetByUserID(ctx context.Context, userID string, limit, offset int) ([]*booking.Booking, error) {
	var rows []bookingRow
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &rows, query, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("予約一覧取得に失敗: %w", err)
	}
	return r.hydrateAll(ctx, rows)
}

// Update は予約のライフサイクルフィールドのみを更新する
// スナップショットは書き込み一回限りのため対象外
func (r *BookingRepository) Update(ctx context.Context, tx transaction.Tx, b *booking.Booking) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return fmt.Errorf("不正なトランザクション型です")
	}

	query := `UPDATE bookings SET status = $1, status_note = $2, date_paid = $3, date_cancelled = $4, date_refunded = $5, date_expired = $6, expires_at = $7, updated_at = $8, version = version + 1 WHERE id = $9 AND version = $10`
	result, err := sqlxTx.ExecContext(ctx, query,
		string(b.Status), b.StatusNote, b.DatePaid, b.DateCancelled, b.DateRefunded,
		b.DateExpired, b.ExpiresAt, b.UpdatedAt, b.ID, b.Version,
	)
	if err != nil {
		return fmt.Errorf("予約更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return booking.ErrBookingNotFound
	}
	b.Version++
	return nil
}

func (r *BookingRepository) SumCommittedTickets(ctx context.Context, showID string) (int, error) {
	var sum int
	query := `SELECT COALESCE(SUM(ticket_count), 0) FROM bookings WHERE show_id = $1 AND status IN ('reserved', 'paid')`
	if err := r.db.GetContext(ctx, &sum, query, showID); err != nil {
		return 0, fmt.Errorf("確定チケット数の取得に失敗: %w", err)
	}
	return sum, nil
}

func (r *BookingRepository) GetExpiredReserved(ctx context.Context, limit int) ([]*booking.Booking, error) {
	var rows []bookingRow
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE status = 'reserved' AND expires_at < NOW() ORDER BY expires_at LIMIT $1`
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("期限切れ予約取得に失敗: %w", err)
	}
	return r.hydrateAll(ctx, rows)
}

func (r *BookingRepository) hydrateAll(ctx context.Context, rows []bookingRow) ([]*booking.Booking, error) {
	result := make([]*booking.Booking, len(rows))
	for i := range rows {
		b, err := r.hydrate(ctx, &rows[i])
		if err != nil {
			return nil, err
		}
		result[i] = b
	}
	return result, nil
}

func (r *BookingRepository) hydrate(ctx context.Context, row *bookingRow) (*booking.Booking, error) {
	seating, err := r.getSeating(ctx, row.ID)
	if err != nil {
		return nil, err
	}

	var snap *booking.ShowSnapshot
	if len(row.Snapshot) > 0 && string(row.Snapshot) != "null" {
		snap = &booking.ShowSnapshot{}
		if err := json.Unmarshal(row.Snapshot, snap); err != nil {
			return nil, fmt.Errorf("スナップショットの復元に失敗: %w", err)
		}
	}

	return &booking.Booking{
		ID: row.ID, UserID: row.UserID, ShowID: row.ShowID,
		Type: booking.Type(row.Type), TicketCount: row.TicketCount,
		SelectedSeating: seating, PricePaid: row.PricePaid, Currency: row.Currency,
		Status: booking.Status(row.Status), StatusNote: row.StatusNote,
		IdempotencyKey: row.IdempotencyKey,
		DateReserved:   row.DateReserved, DatePaid: row.DatePaid,
		DateCancelled: row.DateCancelled, DateRefunded: row.DateRefunded,
		DateExpired: row.DateExpired, ExpiresAt: row.ExpiresAt,
		Snapshot:  snap,
		CreatedAt: row.CreatedAt, UpdatedAt: row.UpdatedAt, Version: row.Version,
	}, nil
}

func (r *BookingRepository) getSeating(ctx context.Context, bookingID string) ([]string, error) {
	var ledgerIDs []string
	if err := r.db.SelectContext(ctx, &ledgerIDs, `SELECT ledger_id FROM booking_seats WHERE booking_id = $1 ORDER BY ledger_id`, bookingID); err != nil {
		return nil, fmt.Errorf("予約座席の取得に失敗: %w", err)
	}
	return ledgerIDs, nil
}

var _ booking.Repository = (*BookingRepository)(nil)
