package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-train-ticket-booking/internal/domain/trip"
)

func parseID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "IDは正の整数で指定してください")
	}
	return id, nil
}

// parseDateAndTime は "2006-01-02" と "15:04" 形式の文字列を変換する
// 空文字はゼロ値として扱う
func parseDateAndTime(date, departure string) (time.Time, trip.TimeOfDay, error) {
	var (
		d   time.Time
		tod trip.TimeOfDay
		err error
	)
	if date != "" {
		if d, err = time.Parse(time.DateOnly, date); err != nil {
			return time.Time{}, trip.TimeOfDay{}, echo.NewHTTPError(http.StatusBadRequest, "日付は YYYY-MM-DD 形式で指定してください")
		}
	}
	if departure != "" {
		if tod, err = trip.ParseTimeOfDay(departure); err != nil {
			return time.Time{}, trip.TimeOfDay{}, echo.NewHTTPError(http.StatusBadRequest, "出発時刻は HH:MM 形式で指定してください")
		}
	}
	return d, tod, nil
}
