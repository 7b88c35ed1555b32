package extract

import (
	"fmt"
	"strconv"
	"strings"
)

// Clock is a colon-separated time value as it appeared on screen, paired with
// the integer seconds it denotes. Both forms are computed once at candidate
// creation; downstream comparisons use Seconds and never re-parse Display.
type Clock struct {
	Display string `json:"display"`
	Seconds int    `json:"seconds"`
}

// ParseClock parses "M:SS" or "H:MM:SS" into a Clock. Two-part values are
// read as minutes:seconds, which is how fitness apps render durations and
// paces. Returns ok=false for anything that is not a well-formed clock.
func ParseClock(s string) (Clock, bool) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return Clock{}, false
	}
	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Clock{}, false
		}
		nums[i] = n
	}
	var sec int
	if len(nums) == 2 {
		if nums[1] >= 60 {
			return Clock{}, false
		}
		sec = nums[0]*60 + nums[1]
	} else {
		if nums[1] >= 60 || nums[2] >= 60 {
			return Clock{}, false
		}
		sec = nums[0]*3600 + nums[1]*60 + nums[2]
	}
	return Clock{Display: s, Seconds: sec}, true
}

// ClockFromSeconds formats whole seconds as "M:SS", the display form used for
// synthesized pace values.
func ClockFromSeconds(sec int) Clock {
	if sec < 0 {
		sec = 0
	}
	return Clock{
		Display: fmt.Sprintf("%d:%02d", sec/60, sec%60),
		Seconds: sec,
	}
}

func (c Clock) String() string { return c.Display }
