package booking

import "errors"

// Booking ドメインのエラー定義
var (
	ErrBookingNotFound         = errors.New("予約が見つかりません")
	ErrBookingNotReserved      = errors.New("予約は仮押さえ状態ではありません")
	ErrBookingNotPaid          = errors.New("予約は支払い済みではありません")
	ErrBookingExpired          = errors.New("予約の有効期限が切れています")
	ErrBookingAlreadyCancelled = errors.New("予約は既にキャンセルされています")
	ErrInvalidTransition       = errors.New("許可されていない状態遷移です")
	ErrNotOwner                = errors.New("予約の所有者ではありません")
	ErrScreenFull              = errors.New("スクリーンの残席が不足しています")
	ErrInvalidCheckoutType     = errors.New("不正な予約種別です")
	ErrIdempotencyKeyExists    = errors.New("同じ冪等性キーの予約が既に存在します")

	// ライフサイクル検証エラー
	ErrUserIDRequired       = errors.New("ユーザーIDは必須です")
	ErrShowIDRequired       = errors.New("ショーIDは必須です")
	ErrInvalidTicketCount   = errors.New("チケット枚数は1以上である必要があります")
	ErrSeatingRequired      = errors.New("座席指定予約には座席リストが必須です")
	ErrSeatingNotAllowed    = errors.New("一般入場予約に座席リストは指定できません")
	ErrMissingStatusDate    = errors.New("状態に対応する日時フィールドが設定されていません")
	ErrExpiryNotFuture      = errors.New("有効期限は現在より後である必要があります")
	ErrIdempotencyRequired  = errors.New("冪等性キーは必須です")
	ErrSnapshotRequired     = errors.New("スナップショットは必須です")

	// ErrInconsistentSnapshot は永続化済みデータとスナップショット制約の矛盾を示す
	// 利用者入力の誤りではなく内部不変条件の違反として扱う
	ErrInconsistentSnapshot = errors.New("スナップショット元データが不整合です")
)
