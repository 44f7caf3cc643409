package ledger

import (
	"context"

	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/transaction"
)

// Repository は座席台帳リポジトリのインターフェース
// 条件付き一括更新（ステータスのCAS）が競合制御の唯一の手段となる
type Repository interface {
	// CreateBulk はショーのスケジュール時に台帳エントリを一括作成する
	CreateBulk(ctx context.Context, entries []*Entry) error

	// GetByID はIDからエントリを取得する
	GetByID(ctx context.Context, id string) (*Entry, error)

	// GetByIDs はIDのリストからエントリを一括取得する
	GetByIDs(ctx context.Context, ids []string) ([]*Entry, error)

	// GetByShowID はショーの全エントリを取得する
	GetByShowID(ctx context.Context, showID string) ([]*Entry, error)

	// CountByShowID はショーに設定された台帳エントリ数を取得する
	CountByShowID(ctx context.Context, showID string) (int, error)

	// HoldAvailable は available のエントリのみを pending に反転し、
	// 実際に反転できたエントリのIDを返す（単一の条件付き一括UPDATE）
	HoldAvailable(ctx context.Context, ids []string) ([]string, error)

	// ReleaseToAvailable はエントリを無条件に available へ戻し、
	// 予約IDの紐付けを解除する（補償処理用）
	ReleaseToAvailable(ctx context.Context, ids []string) error

	// CommitHeld は pending のエントリを reserved に反転し予約IDを刻印する
	// 反転できた件数を返す（トランザクション必須）
	CommitHeld(ctx context.Context, tx transaction.Tx, ids []string, bookingID string) (int, error)

	// ReleaseByBooking は予約に紐付く reserved のエントリを available へ戻す
	ReleaseByBooking(ctx context.Context, tx transaction.Tx, bookingID string) (int, error)

	// DeleteByShowID はショー削除時の明示的カスケードとして全エントリを削除する
	DeleteByShowID(ctx context.Context, tx transaction.Tx, showID string) error
}
