package trip

import "errors"

// Trip ドメインのエラー定義
var (
	ErrTripNotFound        = errors.New("指定された便が見つかりません")
	ErrNoAvailableSeats    = errors.New("便に十分な空席がありません")
	ErrTripAlreadyDeparted = errors.New("便は既に運行済みです")
	ErrInvalidTimeOfDay    = errors.New("時刻が不正です")
	ErrInvalidQuantity     = errors.New("座席数は1以上である必要があります")
	ErrStationRequired     = errors.New("出発駅と到着駅は必須です")
	ErrDateRequired        = errors.New("運行日は必須です")
)
