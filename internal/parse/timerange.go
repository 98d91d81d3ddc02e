package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// timeRangeRe matches schedule strings like "1:00 PM - 2:20 PM".
var timeRangeRe = regexp.MustCompile(`(?i)^\s*(\d{1,2}):(\d{2})\s*(AM|PM)\s*-\s*(\d{1,2}):(\d{2})\s*(AM|PM)\s*$`)

// TimeRange holds the decoded bounds of a textual class-time range,
// expressed as minutes after midnight.
type TimeRange struct {
	StartMinutes int
	EndMinutes   int
}

// ParseTimeRange decodes a 12-hour clock range such as "10:00 AM - 11:20 AM".
// Ranges are assumed not to cross midnight, so the end must be after the start.
func ParseTimeRange(raw string) (TimeRange, error) {
	m := timeRangeRe.FindStringSubmatch(raw)
	if m == nil {
		return TimeRange{}, fmt.Errorf("unable to parse time range: %q", raw)
	}

	start, err := minuteOfDay(m[1], m[2], m[3])
	if err != nil {
		return TimeRange{}, fmt.Errorf("invalid start in time range %q: %w", raw, err)
	}
	end, err := minuteOfDay(m[4], m[5], m[6])
	if err != nil {
		return TimeRange{}, fmt.Errorf("invalid end in time range %q: %w", raw, err)
	}

	if end <= start {
		return TimeRange{}, fmt.Errorf("time range %q ends before it starts", raw)
	}

	return TimeRange{StartMinutes: start, EndMinutes: end}, nil
}

// minuteOfDay converts a 12-hour clock reading to minutes after midnight.
// 12 AM maps to hour 0 and 12 PM stays at hour 12.
func minuteOfDay(hourStr, minStr, meridiem string) (int, error) {
	hour, err := strconv.Atoi(hourStr)
	if err != nil || hour < 1 || hour > 12 {
		return 0, fmt.Errorf("bad hour %q", hourStr)
	}
	min, err := strconv.Atoi(minStr)
	if err != nil || min < 0 || min > 59 {
		return 0, fmt.Errorf("bad minute %q", minStr)
	}

	pm := strings.EqualFold(meridiem, "PM")
	if hour == 12 {
		if !pm {
			hour = 0
		}
	} else if pm {
		hour += 12
	}

	return hour*60 + min, nil
}
