package ticket

import "errors"

// Ticket ドメインのエラー定義
var (
	ErrTicketNotFound          = errors.New("指定されたチケットが見つかりません")
	ErrExceedsReservedQuantity = errors.New("取消座席数がチケットの予約座席数を超えています")
	ErrInvalidTicketID         = errors.New("チケットIDは1以上である必要があります")
	ErrInvalidQuantity         = errors.New("座席数は1以上である必要があります")
	ErrLedgerInconsistent      = errors.New("チケットの座席数が台帳と一致しません")
)
