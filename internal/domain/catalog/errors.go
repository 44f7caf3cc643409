package catalog

import "errors"

// Catalog ドメインのエラー定義
var (
	ErrMovieNotFound  = errors.New("作品が見つかりません")
	ErrVenueNotFound  = errors.New("劇場が見つかりません")
	ErrScreenNotFound = errors.New("スクリーンが見つかりません")
	ErrSeatNotFound   = errors.New("座席が見つかりません")

	ErrMovieTitleRequired    = errors.New("作品タイトルは必須です")
	ErrInvalidRuntime        = errors.New("上映時間は1分以上である必要があります")
	ErrVenueNameRequired     = errors.New("劇場名は必須です")
	ErrVenueTimezoneRequired = errors.New("劇場のタイムゾーンは必須です")
	ErrScreenVenueRequired   = errors.New("スクリーンの劇場IDは必須です")
	ErrScreenNameRequired    = errors.New("スクリーン名は必須です")
	ErrInvalidCapacity       = errors.New("座席数は1以上である必要があります")
	ErrSeatScreenRequired    = errors.New("座席のスクリーンIDは必須です")
	ErrSeatRowRequired       = errors.New("座席の列は必須です")
	ErrInvalidSeatNumber     = errors.New("座席番号は1以上である必要があります")
	ErrInvalidSeatType       = errors.New("不正な座席種別です")
)
