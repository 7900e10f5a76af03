package timeutil

import "time"

const dateLayout = "2006-01-02"

func NowUnix() int64 {
	return time.Now().Unix()
}

// DayStartDaysAgo returns 00:00 UTC of the day that lies days before now's UTC day.
func DayStartDaysAgo(now time.Time, days int) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d-days, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date as midnight UTC.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, value, time.UTC)
}

func SameUTCDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
