package show

import "errors"

// Show ドメインのエラー定義
var (
	ErrShowNotFound       = errors.New("ショーが見つかりません")
	ErrShowNotOpen        = errors.New("ショーは予約を受け付けていません")
	ErrMovieIDRequired    = errors.New("作品IDは必須です")
	ErrVenueIDRequired    = errors.New("劇場IDは必須です")
	ErrScreenIDRequired   = errors.New("スクリーンIDは必須です")
	ErrInvalidTicketPrice = errors.New("チケット価格は0以上である必要があります")
	ErrInvalidShowTime    = errors.New("終了時刻は開始時刻より後である必要があります")
)
