package conditions

import (
	"regexp"
	"strconv"
	"strings"
)

var clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?:\s*(AM|PM))?$`)

// parseClockTime converts "H:MM", optionally suffixed with AM/PM, into
// minutes since midnight. Inputs like "2:30 PM" normalize to 14:30; "12:15 AM"
// to 00:15. Anything that does not parse cleanly is rejected.
func parseClockTime(raw string) (int, bool) {
	match := clockPattern.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(raw)))
	if match == nil {
		return 0, false
	}

	hour, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}

	minute, err := strconv.Atoi(match[2])
	if err != nil {
		return 0, false
	}

	if minute > 59 {
		return 0, false
	}

	switch match[3] {
	case "PM":
		if hour < 1 || hour > 12 {
			return 0, false
		}

		if hour < 12 {
			hour += 12
		}
	case "AM":
		if hour < 1 || hour > 12 {
			return 0, false
		}

		if hour == 12 {
			hour = 0
		}
	default:
		if hour > 23 {
			return 0, false
		}
	}

	return hour*60 + minute, true
}
