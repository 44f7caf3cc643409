package booking

import (
	"context"

	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/transaction"
)

// Repository は予約リポジトリのインターフェース
type Repository interface {
	// Create は新しい予約を作成する（トランザクション必須）
	Create(ctx context.Context, tx transaction.Tx, b *Booking) error

	// GetByID はIDから予約を取得する
	GetByID(ctx context.Context, id string) (*Booking, error)

	// GetByIdempotencyKey は冪等性キーから予約を取得する
	GetByIdempotencyKey(ctx context.Context, key string) (*Booking, error)

	// GetByUserID はユーザーの予約一覧を取得する
	GetByUserID(ctx context.Context, userID string, limit, offset int) ([]*Booking, error)

	// Update は予約を更新する（トランザクション必須）
	// スナップショットは書き込み一回限りのため更新対象に含まれない
	Update(ctx context.Context, tx transaction.Tx, b *Booking) error

	// SumCommittedTickets はショーの確定済み（reserved/paid）チケット数合計を取得する
	SumCommittedTickets(ctx context.Context, showID string) (int, error)

	// GetExpiredReserved は有効期限切れの reserved 予約を取得する
	GetExpiredReserved(ctx context.Context, limit int) ([]*Booking, error)
}
