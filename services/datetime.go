package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	ordinalSuffix = regexp.MustCompile(`(?i)\b(\d{1,2})(st|nd|rd|th)\b`)
	whitespace    = regexp.MustCompile(`\s+`)
	timeOfDay     = regexp.MustCompile(`^(\d{1,2})(?:[:.](\d{2}))?\s*(am|pm)?$`)
	rangeSep      = regexp.MustCompile(`\s*(?:-|–|—|\bto\b|\buntil\b|\btill\b)\s*`)
)

type dateLayout struct {
	layout  string
	weekday bool
}

var gigDateLayouts = []dateLayout{
	{layout: "2006-01-02"},
	{layout: "2/1/2006"},
	{layout: "2-1-2006"},
	{layout: "2 Jan 2006"},
	{layout: "2 January 2006"},
	{layout: "Jan 2 2006"},
	{layout: "January 2 2006"},
	{layout: "Mon 2 Jan 2006", weekday: true},
	{layout: "Mon 2 January 2006", weekday: true},
	{layout: "Monday 2 Jan 2006", weekday: true},
	{layout: "Monday 2 January 2006", weekday: true},
	{layout: "Mon Jan 2 2006", weekday: true},
	{layout: "Monday January 2 2006", weekday: true},
}

// ParseGigDate parses the date formats people actually type for events:
// ISO dates, day-first numeric dates, and written dates with an optional
// weekday, ordinal suffix and comma. The result is midnight in loc.
func ParseGigDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	normalized := normalizeDate(s)
	if normalized == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	for _, l := range gigDateLayouts {
		t, err := time.ParseInLocation(l.layout, normalized, loc)
		if err != nil {
			continue
		}
		if l.weekday && !weekdayMatches(t, normalized) {
			return time.Time{}, fmt.Errorf("date %q: %s is not a %s", s, t.Format("2 Jan 2006"), strings.Fields(normalized)[0])
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

func normalizeDate(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", " ")
	s = ordinalSuffix.ReplaceAllString(s, "$1")
	s = whitespace.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	// "12 of October 2024"
	s = strings.Replace(s, " of ", " ", 1)
	return s
}

func weekdayMatches(t time.Time, normalized string) bool {
	given := strings.ToLower(strings.Fields(normalized)[0])
	if len(given) < 3 {
		return false
	}
	return strings.HasPrefix(strings.ToLower(t.Weekday().String()), given[:3])
}

// ParseTimeOfDay returns the offset from midnight for "22:00", "22.00",
// "10pm", "10:30pm", "noon" and "midnight".
func ParseTimeOfDay(s string) (time.Duration, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.ReplaceAll(v, ".m.", "m")
	switch v {
	case "noon", "midday":
		return 12 * time.Hour, nil
	case "midnight":
		return 0, nil
	}

	m := timeOfDay.FindStringSubmatch(v)
	if m == nil {
		return 0, fmt.Errorf("unrecognised time %q", s)
	}

	hour, _ := strconv.Atoi(m[1])
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	if minute > 59 {
		return 0, fmt.Errorf("time %q: minute out of range", s)
	}

	switch m[3] {
	case "am", "pm":
		if hour < 1 || hour > 12 {
			return 0, fmt.Errorf("time %q: hour out of range", s)
		}
		hour %= 12
		if m[3] == "pm" {
			hour += 12
		}
	default:
		if hour > 23 {
			return 0, fmt.Errorf("time %q: hour out of range", s)
		}
	}

	return time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute, nil
}

// ParseTimeRange combines a gig date with "10pm - 4am" style ranges. A range
// without an end returns a nil end. An end at or before the start is taken to
// be on the following day.
func ParseTimeRange(date, timeRange string, loc *time.Location) (time.Time, *time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	day, err := ParseGigDate(date, loc)
	if err != nil {
		return time.Time{}, nil, err
	}

	timeRange = strings.TrimSpace(timeRange)
	if timeRange == "" {
		return day, nil, nil
	}

	parts := rangeSep.Split(strings.ToLower(timeRange), 2)
	startOffset, err := ParseTimeOfDay(parts[0])
	if err != nil {
		return time.Time{}, nil, err
	}
	start := atOffset(day, startOffset, loc)

	if len(parts) == 1 || strings.TrimSpace(parts[1]) == "" || strings.TrimSpace(parts[1]) == "late" {
		return start, nil, nil
	}

	endOffset, err := ParseTimeOfDay(parts[1])
	if err != nil {
		return time.Time{}, nil, err
	}
	end := atOffset(day, endOffset, loc)
	if !end.After(start) {
		end = atOffset(day.AddDate(0, 0, 1), endOffset, loc)
	}
	return start, &end, nil
}

func atOffset(day time.Time, offset time.Duration, loc *time.Location) time.Time {
	minutes := int(offset / time.Minute)
	return time.Date(day.Year(), day.Month(), day.Day(), minutes/60, minutes%60, 0, 0, loc)
}

// FormatGigDate renders "Sat 12 Oct 2024".
func FormatGigDate(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format("Mon 2 Jan 2006")
}

// FormatTimeRange renders "22:00 – 04:00", or just the start when end is nil.
func FormatTimeRange(start time.Time, end *time.Time, loc *time.Location) string {
	if loc != nil {
		start = start.In(loc)
	}
	if end == nil {
		return start.Format("15:04")
	}
	e := *end
	if loc != nil {
		e = e.In(loc)
	}
	return start.Format("15:04") + " – " + e.Format("15:04")
}

var currencySymbols = map[string]string{
	"GBP": "£",
	"EUR": "€",
	"USD": "$",
	"AUD": "A$",
	"CAD": "C$",
}

// FormatPrice renders minor units with the currency symbol, e.g. "£25.00".
// Currencies without a known symbol render as "25.00 SEK".
func FormatPrice(cents int64, currency string) string {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	amount := fmt.Sprintf("%d.%02d", cents/100, cents%100)
	if symbol, ok := currencySymbols[currency]; ok {
		return sign + symbol + amount
	}
	if currency == "" {
		return sign + amount
	}
	return sign + amount + " " + currency
}
