package dateutil

import "time"

const dayLayout = "2006-01-02"

// DayString formats t as YYYY-MM-DD in the given location. The reward day
// boundary follows the location's midnight, not UTC's.
func DayString(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dayLayout)
}

func Today(loc *time.Location) string {
	return DayString(time.Now(), loc)
}
