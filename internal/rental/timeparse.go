package rental

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var zonedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
	"2006-01-02 15:04:05Z07:00",
}

var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
}

// ParseTime parses the timestamp shapes the ERP emits. Zone-less values are read in loc.
// Anything unparsable is reported as absent.
func ParseTime(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	s = toGregorianYear(s)
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil && n > 0 {
		// Heuristic: 13-digit values are epoch milliseconds.
		if n >= 1e12 {
			return time.UnixMilli(n).In(loc), true
		}
		if n >= 1e8 {
			return time.Unix(n, 0).In(loc), true
		}
	}
	return time.Time{}, false
}

var (
	isoYear   = regexp.MustCompile(`^(\d{4})-`)
	slashYear = regexp.MustCompile(`^\d{1,2}/\d{1,2}/(\d{4})`)
)

// Thai back-office exports sometimes carry Buddhist Era years (2567 == 2024). The year
// is rewritten before parsing: BE leap years differ from Gregorian ones, so a BE 29/02
// only exists once the year is converted.
func toGregorianYear(s string) string {
	for _, re := range []*regexp.Regexp{isoYear, slashYear} {
		m := re.FindStringSubmatchIndex(s)
		if m == nil {
			continue
		}
		y, err := strconv.Atoi(s[m[2]:m[3]])
		if err != nil || y < buddhistEraThreshold {
			return s
		}
		return s[:m[2]] + strconv.Itoa(y-buddhistEraOffset) + s[m[3]:]
	}
	return s
}

const (
	buddhistEraOffset    = 543
	buddhistEraThreshold = 2400
)
