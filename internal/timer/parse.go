package timer

import (
	"strconv"
	"strings"
	"time"
)

// ParseMinutes reads a user-supplied phase length.
//
// A bare integer is taken as minutes ("40"); a Go duration ("40m", "1h") is
// truncated to whole minutes. The result is not clamped. ok is false for an
// empty or unparseable value, in which case callers keep their current
// setting.
func ParseMinutes(input string) (minutes int, ok bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(input); err == nil {
		return n, true
	}
	d, err := time.ParseDuration(input)
	if err != nil {
		return 0, false
	}
	return int(d / time.Minute), true
}
