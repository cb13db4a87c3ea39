package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-train-ticket-booking/internal/domain/ticket"
	"github.com/sanosuguru/go-train-ticket-booking/internal/domain/transaction"
	"github.com/sanosuguru/go-train-ticket-booking/internal/domain/trip"
	"github.com/sanosuguru/go-train-ticket-booking/internal/pkg/logger"
)

// ErrorResponse はエラーレスポンスの統一フォーマット
type ErrorResponse struct {
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
	Code    int    `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// エラー種別とHTTPステータスの対応。ストレージ障害を先に判定する
var errorKinds = []struct {
	target error
	status int
	kind   string
}{
	{transaction.ErrStorageFailure, http.StatusServiceUnavailable, "STORAGE_FAILURE"},
	{trip.ErrTripNotFound, http.StatusNotFound, "TRIP_NOT_FOUND"},
	{ticket.ErrTicketNotFound, http.StatusNotFound, "TICKET_NOT_FOUND"},
	{trip.ErrNoAvailableSeats, http.StatusConflict, "NO_AVAILABLE_SEATS"},
	{trip.ErrTripAlreadyDeparted, http.StatusConflict, "TRIP_ALREADY_DEPARTED"},
	{ticket.ErrExceedsReservedQuantity, http.StatusUnprocessableEntity, "EXCEEDS_RESERVED_QUANTITY"},
	{trip.ErrInvalidQuantity, http.StatusBadRequest, "INVALID_INPUT"},
	{trip.ErrInvalidTimeOfDay, http.StatusBadRequest, "INVALID_INPUT"},
	{trip.ErrStationRequired, http.StatusBadRequest, "INVALID_INPUT"},
	{trip.ErrDateRequired, http.StatusBadRequest, "INVALID_INPUT"},
	{ticket.ErrInvalidQuantity, http.StatusBadRequest, "INVALID_INPUT"},
	{ticket.ErrInvalidTicketID, http.StatusBadRequest, "INVALID_INPUT"},
}

// NewDomainError はドメインエラーを対応するHTTPエラーに変換する
// 未知のエラーは 500 になる
func NewDomainError(err error) *echo.HTTPError {
	for _, k := range errorKinds {
		if errors.Is(err, k.target) {
			message := k.target.Error()
			return echo.NewHTTPError(k.status, message).SetInternal(&kindError{kind: k.kind, err: err})
		}
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "内部サーバーエラー").SetInternal(err)
}

type kindError struct {
	kind string
	err  error
}

func (e *kindError) Error() string { return e.err.Error() }
func (e *kindError) Unwrap() error { return e.err }

// CustomHTTPErrorHandler はカスタムエラーハンドラー
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if !errors.As(err, &he) {
		he = NewDomainError(err)
	}

	code := he.Code
	message, ok := he.Message.(string)
	if !ok {
		message = http.StatusText(code)
	}

	var kind string
	var ke *kindError
	if errors.As(he.Internal, &ke) {
		kind = ke.kind
	}

	if code >= 500 {
		logger.FromContext(c.Request().Context()).Error("サーバーエラー",
			zap.Int("status", code),
			zap.String("path", c.Request().URL.Path),
			zap.Error(err),
		)
	}

	if err := c.JSON(code, ErrorResponse{
		Error: message,
		Kind:  kind,
		Code:  code,
	}); err != nil {
		logger.Error("エラーレスポンス送信失敗", zap.Error(err))
	}
}
