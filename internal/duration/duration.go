// Package duration parses and formats the short duration tokens used by
// moderation commands ("10m", "1h", "2d", "1w", or a bare number of minutes).
package duration

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidDuration = errors.New("invalid duration")

// unitSeconds maps a suffix to the number of seconds it stands for.
var unitSeconds = map[byte]int64{
	'm': 60,
	'h': 3600,
	'd': 86400,
	'w': 604800,
}

// Seconds converts a duration token into a second count.
// A token without a suffix is a number of minutes.
func Seconds(text string) (int64, error) {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return 0, ErrInvalidDuration
	}

	multiplier := int64(60)
	if m, ok := unitSeconds[s[len(s)-1]]; ok {
		multiplier = m
		s = s[:len(s)-1]
	}

	if !isDigits(s) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, text)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, text)
	}
	if n > (1<<63-1)/multiplier/int64(time.Second) {
		return 0, fmt.Errorf("%w: %q is too long", ErrInvalidDuration, text)
	}
	return n * multiplier, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Parse is Seconds returned as a time.Duration.
func Parse(text string) (time.Duration, error) {
	secs, err := Seconds(text)
	if err != nil {
		return 0, err
	}
	return time.Duration(secs) * time.Second, nil
}

// Format renders d in the largest sensible unit, in Russian:
// "30 сек", "15 мин", "1 ч 30 мин", "2 д 3 ч". A zero sub-unit is omitted.
func Format(d time.Duration) string {
	secs := int64(d / time.Second)
	if secs < 0 {
		secs = 0
	}

	switch {
	case secs < 60:
		return fmt.Sprintf("%d сек", secs)
	case secs < 3600:
		return fmt.Sprintf("%d мин", secs/60)
	case secs < 86400:
		return joinUnits(secs/3600, "ч", secs%3600/60, "мин")
	default:
		return joinUnits(secs/86400, "д", secs%86400/3600, "ч")
	}
}

func joinUnits(major int64, majorUnit string, minor int64, minorUnit string) string {
	if minor == 0 {
		return fmt.Sprintf("%d %s", major, majorUnit)
	}
	return fmt.Sprintf("%d %s %d %s", major, majorUnit, minor, minorUnit)
}
