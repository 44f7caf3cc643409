package show

import (
	"context"

	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/transaction"
)

// Repository はショーリポジトリのインターフェース
type Repository interface {
	// Create は新しいショーを作成する（トランザクション必須）
	Create(ctx context.Context, tx transaction.Tx, show *Show) error

	// GetByID はIDからショーを取得する
	GetByID(ctx context.Context, id string) (*Show, error)

	// List はショー一覧を取得する
	List(ctx context.Context, limit, offset int) ([]*Show, error)

	// Update はショーを更新する
	Update(ctx context.Context, show *Show) error

	// Delete はショーを削除する（台帳の明示的カスケード後に呼ぶこと）
	Delete(ctx context.Context, tx transaction.Tx, id string) error
}
