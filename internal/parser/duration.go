package parser

import (
	"regexp"
	"strconv"
)

// durationRegexp matches a subset of ISO-8601 durations: PnYnMnWnDTnHnMnS,
// every component optional. Years/months/weeks are captured only so
// parseISO8601Duration can reject them per spec.md §4.6.
var durationRegexp = regexp.MustCompile(`^P(?:(\d+)Y)?(?:(\d+)M)?(?:(\d+)W)?(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?)?$`)

// parseISO8601Duration converts an ISO-8601 duration string to whole
// seconds. Durations containing a year, month, or week component are
// rejected (ok=false) per spec.md §4.6 / §9's DurationOutOfRange rule,
// as are strings that don't match the duration grammar at all.
func parseISO8601Duration(s string) (seconds int64, ok bool) {
	m := durationRegexp.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	if m[1] != "" || m[2] != "" || m[3] != "" {
		return 0, false
	}

	days := parseIntGroup(m[4])
	hours := parseIntGroup(m[5])
	minutes := parseIntGroup(m[6])
	secs := parseFloatGroup(m[7])

	total := days*86400 + hours*3600 + minutes*60 + int64(secs)
	return total, true
}

func parseIntGroup(s string) int64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseFloatGroup(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
