package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/ledger"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/transaction"
)

type ledgerRow struct {
	ID              string     `db:"id"`
	ShowID          string     `db:"show_id"`
	SeatID          string     `db:"seat_id"`
	BasePrice       int        `db:"base_price"`
	PriceMultiplier float64    `db:"price_multiplier"`
	OverridePrice   *int       `db:"override_price"`
	Status          string     `db:"status"`
	ReservedBy      *string    `db:"reserved_by"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
	Version         int        `db:"version"`
}

func (r *ledgerRow) toEntity() *ledger.Entry {
	return &ledger.Entry{
		ID: r.ID, ShowID: r.ShowID, SeatID: r.SeatID,
		BasePrice: r.BasePrice, PriceMultiplier: r.PriceMultiplier,
		OverridePrice: r.OverridePrice, Status: ledger.Status(r.Status),
		ReservedBy: r.ReservedBy,
		CreatedAt:  r.CreatedAt, UpdatedAt: r.UpdatedAt, Version: r.Version,
	}
}

const ledgerColumns = `id, show_id, seat_id, base_price, price_multiplier, override_price, status, reserved_by, created_at, updated_at, version`

// LedgerRepository は座席台帳のPostgreSQL実装
// 条件付き一括UPDATEをCASプリミティブとして使用する
type LedgerRepository struct{ db *sqlx.DB }

func NewLedgerRepository(db *sqlx.DB) *LedgerRepository { return &LedgerRepository{db: db} }

func (r *LedgerRepository) CreateBulk(ctx context.Context, entries []*ledger.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	// バッチサイズごとに分割してマルチバリューINSERTを実行
	const batchSize = 1000
	for i := 0; i < len(entries); i += batchSize {
		end := i + batchSize
		if end > len(entries) {
			end = len(entries)
		}
		if err := r.createBulkBatch(ctx, entries[i:end]); err != nil {
			return err
		}
	}
	return nil
}

// createBulkBatch はバッチ単位でマルチバリューINSERTを実行
func (r *LedgerRepository) createBulkBatch(ctx context.Context, entries []*ledger.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	query := `INSERT INTO seat_ledger (show_id, seat_id, base_price, price_multiplier, override_price, status, created_at, updated_at, version) VALUES `
	args := make([]interface{}, 0, len(entries)*9)
	placeholders := make([]string, 0, len(entries))

	for i, e := range entries {
		base := i * 9
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9))
		args = append(args, e.ShowID, e.SeatID, e.BasePrice, e.PriceMultiplier, e.OverridePrice, string(e.Status), e.CreatedAt, e.UpdatedAt, e.Version)
	}

	query += strings.Join(placeholders, ", ")
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("台帳一括作成に失敗: %w", err)
	}
	return nil
}

func (r *LedgerRepository) GetByID(ctx context.Context, id string) (*ledger.Entry, error) {
	var row ledgerRow
	query := `SELECT ` + ledgerColumns + ` FROM seat_ledger WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrEntryNotFound
		}
		return nil, fmt.Errorf("台帳取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *LedgerRepository) GetByIDs(ctx context.Context, ids []string) ([]*ledger.Entry, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []ledgerRow
	query := `SELECT ` + ledgerColumns + ` FROM seat_ledger WHERE id = ANY($1)`
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("台帳一括取得に失敗: %w", err)
	}
	if len(rows) != len(ids) {
		return nil, ledger.ErrEntryNotFound
	}
	entries := make([]*ledger.Entry, len(rows))
	for i, row := range rows {
		entries[i] = row.toEntity()
	}
	return entries, nil
}

func (r *LedgerRepository) GetByShowID(ctx context.Context, showID string) ([]*ledger.Entry, error) {
	var rows []ledgerRow
	query := `SELECT ` + ledgerColumns + ` FROM seat_ledger WHERE show_id = $1 ORDER BY seat_id`
	if err := r.db.SelectContext(ctx, &rows, query, showID); err != nil {
		return nil, err
	}
	entries := make([]*ledger.Entry, len(rows))
	for i, row := range rows {
		entries[i] = row.toEntity()
	}
	return entries, nil
}

func (r *LedgerRepository) CountByShowID(ctx context.Context, showID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM seat_ledger WHERE show_id = $1`, showID)
	return count, err
}

// HoldAvailable は available のエントリのみを pending へ反転する
// 1回の条件付きUPDATEで実行し、実際に反転できたIDを返す
// 競合の勝敗はストレージ側の更新順序で決まる
func (r *LedgerRepository) HoldAvailable(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `UPDATE seat_ledger SET status = 'pending', updated_at = NOW(), version = version + 1 WHERE id = ANY($1) AND status = 'available' RETURNING id`
	var flipped []string
	if err := r.db.SelectContext(ctx, &flipped, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("座席仮押さえに失敗: %w", err)
	}
	return flipped, nil
}

func (r *LedgerRepository) ReleaseToAvailable(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE seat_ledger SET status = 'available', reserved_by = NULL, updated_at = NOW(), version = version + 1 WHERE id = ANY($1) AND status IN ('pending', 'reserved')`
	if _, err := r.db.ExecContext(ctx, query, pq.Array(ids)); err != nil {
		return fmt.Errorf("座席解放に失敗: %w", err)
	}
	return nil
}

func (r *LedgerRepository) CommitHeld(ctx context.Context, tx transaction.Tx, ids []string, bookingID string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return 0, fmt.Errorf("不正なトランザクション型です")
	}
	query := `UPDATE seat_ledger SET status = 'reserved', reserved_by = $1, updated_at = NOW(), version = version + 1 WHERE id = ANY($2) AND status = 'pending'`
	result, err := sqlxTx.ExecContext(ctx, query, bookingID, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("座席確定に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	return int(rows), nil
}

func (r *LedgerRepository) ReleaseByBooking(ctx context.Context, tx transaction.Tx, bookingID string) (int, error) {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return 0, fmt.Errorf("不正なトランザクション型です")
	}
	query := `UPDATE seat_ledger SET status = 'available', reserved_by = NULL, updated_at = NOW(), version = version + 1 WHERE reserved_by = $1 AND status = 'reserved'`
	result, err := sqlxTx.ExecContext(ctx, query, bookingID)
	if err != nil {
		return 0, fmt.Errorf("座席解放に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	return int(rows), nil
}

func (r *LedgerRepository) DeleteByShowID(ctx context.Context, tx transaction.Tx, showID string) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return fmt.Errorf("不正なトランザクション型です")
	}
	if _, err := sqlxTx.ExecContext(ctx, `DELETE FROM seat_ledger WHERE show_id = $1`, showID); err != nil {
		return fmt.Errorf("台帳削除に失敗: %w", err)
	}
	return nil
}

var _ ledger.Repository = (*LedgerRepository)(nil)
