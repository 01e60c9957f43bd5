package marketdata

import "fmt"

// TimeRange selects the span of a historical chart request.
type TimeRange string

const (
	Range24h TimeRange = "24h"
	Range7d  TimeRange = "7d"
	Range30d TimeRange = "30d"
	Range90d TimeRange = "90d"
	Range1y  TimeRange = "1y"
	RangeMax TimeRange = "max"
)

// rangeDays maps each range to the upstream day-count parameter.
var rangeDays = map[TimeRange]string{
	Range24h: "1",
	Range7d:  "7",
	Range30d: "30",
	Range90d: "90",
	Range1y:  "365",
	RangeMax: "max",
}

// ParseTimeRange validates a user-supplied range string.
func ParseTimeRange(s string) (TimeRange, error) {
	r := TimeRange(s)
	if _, ok := rangeDays[r]; !ok {
		return "", fmt.Errorf("invalid time range %q (valid: 24h, 7d, 30d, 90d, 1y, max)", s)
	}
	return r, nil
}

// Days returns the upstream day-count parameter for the range.
func (r TimeRange) Days() string {
	return rangeDays[r]
}

// Interval returns the upstream sampling interval: hourly for the 24h
// range, daily for everything else.
func (r TimeRange) Interval() string {
	if r == Range24h {
		return "hourly"
	}
	return "daily"
}
