package transaction

import "context"

// Tx はトランザクションを表すインターフェース
// ドメイン層・アプリケーション層がsqlxへ直接依存しないための抽象化
type Tx interface {
	// Commit はトランザクションを確定する
	Commit() error
	// Rollback はトランザクションを破棄する
	Rollback() error
}

// Manager はトランザクションのライフサイクルを管理するインターフェース
type Manager interface {
	// Begin は新しいトランザクションを開始する
	Begin(ctx context.Context) (Tx, error)
}
