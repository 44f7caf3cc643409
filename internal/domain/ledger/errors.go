package ledger

import "errors"

// Ledger ドメインのエラー定義
var (
	ErrEntryNotFound     = errors.New("座席台帳エントリが見つかりません")
	ErrSeatConflict      = errors.New("座席は既に確保されています")
	ErrShowIDRequired    = errors.New("ショーIDは必須です")
	ErrSeatIDRequired    = errors.New("座席IDは必須です")
	ErrInvalidPrice      = errors.New("価格は0以上である必要があります")
	ErrInvalidMultiplier = errors.New("価格係数は0より大きい必要があります")
)
