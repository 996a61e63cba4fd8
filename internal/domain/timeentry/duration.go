package timeentry

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/geocoder89/timetrack/internal/apperror"
)

var ErrInvalidDuration = apperror.Validation("invalid_duration", `duration must look like "1h 30m", "2h" or "45m"`)

var durationPattern = regexp.MustCompile(`^(?:(\d+)\s*h)?\s*(?:(\d+)\s*m(?:in)?)?$`)

// ParseDuration turns "1h 30m" into 1.5. Minutes must be below 60.
func ParseDuration(s string) (float64, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, ErrInvalidDuration
	}

	m := durationPattern.FindStringSubmatch(s)
	if m == nil || (m[1] == "" && m[2] == "") {
		return 0, ErrInvalidDuration
	}

	var hours, minutes int
	if m[1] != "" {
		hours, _ = strconv.Atoi(m[1])
	}
	if m[2] != "" {
		minutes, _ = strconv.Atoi(m[2])
		if minutes >= 60 {
			return 0, ErrInvalidDuration
		}
	}

	return float64(hours) + float64(minutes)/60, nil
}

// FormatDuration renders hours as "1h 30m".
func FormatDuration(h float64) string {
	total := int(math.Round(h * 60))
	hours, minutes := total/60, total%60
	switch {
	case hours == 0:
		return fmt.Sprintf("%dm", minutes)
	case minutes == 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
}
