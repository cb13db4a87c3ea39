package trip

import "time"

// Route は路線（出発駅・到着駅・1席あたりの運賃）を表す
type Route struct {
	ID                 int64
	OriginStation      string
	DestinationStation string
	UnitPrice          int
}

// Trip は特定の日時に運行される便を表す
type Trip struct {
	ID            int64
	Route         Route
	TravelDate    time.Time
	DepartureTime TimeOfDay
	TotalSeats    int
	FreeSeats     int
	Completed     bool
}

// IsBookable は予約可能な便かを返す
func (t *Trip) IsBookable() bool {
	return !t.Completed
}

// PriceFor は quantity 席分の運賃を返す
func (t *Trip) PriceFor(quantity int) int {
	return t.Route.UnitPrice * quantity
}

// ReservedSeats は発券済みの座席数を返す
func (t *Trip) ReservedSeats() int {
	return t.TotalSeats - t.FreeSeats
}

// Matches は検索条件と同じ便を指しているかを返す
func (t *Trip) Matches(c SearchCriteria) bool {
	return t.Route.OriginStation == c.Origin &&
		t.Route.DestinationStation == c.Destination &&
		SameDate(t.TravelDate, c.Date) &&
		t.DepartureTime.Equal(c.DepartureTime)
}

// SearchCriteria は便の検索条件
type SearchCriteria struct {
	Origin        string
	Destination   string
	Date          time.Time
	DepartureTime TimeOfDay
}

// Validate は検索条件の検証を行う
func (c SearchCriteria) Validate() error {
	if c.Origin == "" || c.Destination == "" {
		return ErrStationRequired
	}
	if c.Date.IsZero() {
		return ErrDateRequired
	}
	if _, err := NewTimeOfDay(c.DepartureTime.Hour, c.DepartureTime.Minute); err != nil {
		return err
	}
	return nil
}

// DateOf は時刻部分を落とした暦日を返す
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDate は同じ暦日かを返す
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
