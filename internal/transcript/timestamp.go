package transcript

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// WholeSeconds rounds a timestamp to non-negative integer seconds.
func WholeSeconds(seconds float64) int {
	if math.IsNaN(seconds) || seconds <= 0 {
		return 0
	}
	return int(math.Round(seconds))
}

// Clock formats seconds as HH:MM:SS.
func Clock(seconds float64) string {
	total := WholeSeconds(seconds)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// ShortClock formats seconds as MM:SS below one hour and HH:MM:SS above.
func ShortClock(seconds float64) string {
	total := WholeSeconds(seconds)
	if total < 3600 {
		return fmt.Sprintf("%02d:%02d", total/60, total%60)
	}
	return Clock(seconds)
}

// ParseClock parses "HH:MM:SS", "MM:SS" or "SS" into whole seconds.
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) == 0 || len(parts) > 3 {
		return 0, fmt.Errorf("parse clock %q: want HH:MM:SS", s)
	}
	total := 0
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("parse clock %q: bad field %q", s, p)
		}
		total = total*60 + n
	}
	return total, nil
}
