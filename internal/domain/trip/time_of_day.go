package trip

import (
	"fmt"
	"strings"
	"time"
)

// TimeOfDay は時刻（時:分）を表す。秒とタイムゾーンは持たない
type TimeOfDay struct {
	Hour   int
	Minute int
}

// NewTimeOfDay は時と分から TimeOfDay を作成する
func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("%w: %02d:%02d", ErrInvalidTimeOfDay, hour, minute)
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// TimeOfDayOf は time.Time の時刻部分を分単位で切り捨てて返す
func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}
}

// ParseTimeOfDay は "HH:MM" または "H:MM:SS" 形式の文字列を解析する。秒は切り捨てる
// 時は先頭ゼロなし（"8:30:00"）でも受け付ける
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeOfDayOf(t), nil
		}
	}
	return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
}

// Equal は時と分が一致するかを返す
func (t TimeOfDay) Equal(other TimeOfDay) bool {
	return t.Hour == other.Hour && t.Minute == other.Minute
}

// String は "HH:MM" 形式で返す
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}
