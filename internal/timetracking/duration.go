package timetracking

import (
	"math"
	"time"
)

// Minutes returns the entry duration in whole minutes, standard rounding.
// A negative span means the clocks disagree, not that time ran backwards;
// it is clamped to zero.
func Minutes(start, end time.Time) int {
	m := int(math.Round(end.Sub(start).Minutes()))
	if m < 0 {
		return 0
	}
	return m
}
