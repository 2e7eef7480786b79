package format

import (
	"regexp"
	"strconv"
)

var (
	minutesToken = regexp.MustCompile(`(\d+)m`)
	secondsToken = regexp.MustCompile(`(\d+)s`)
)

// ParseEscapeTime reads the first "<N>m" and "<N>s" tokens of s, in any order.
// ok is false when neither token is present.
func ParseEscapeTime(s string) (seconds int, ok bool) {
	if s == "" {
		return 0, false
	}
	if m := minutesToken.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			seconds += n * 60
			ok = true
		}
	}
	if m := secondsToken.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			seconds += n
			ok = true
		}
	}
	return seconds, ok
}

func EscapeTimeMinutes(s string) (float64, bool) {
	seconds, ok := ParseEscapeTime(s)
	if !ok {
		return 0, false
	}
	return float64(seconds) / 60, true
}
