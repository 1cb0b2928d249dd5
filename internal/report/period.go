package report

import (
	"strings"
	"time"
)

// Period tokens accepted by the dashboards.
const (
	PeriodToday     = "hoje"
	PeriodLast7Days = "7d"
	PeriodThisMonth = "este_mes"
	PeriodLastMonth = "ultimo_mes"
	PeriodThisYear  = "este_ano"
	PeriodLastYear  = "ultimo_ano"
	PeriodCustom    = "CUSTOM"

	// Traffic screen shortcuts.
	PeriodOneMonth    = "1M"
	PeriodThreeMonths = "3M"
	PeriodSixMonths   = "6M"
	PeriodOneYear     = "1Y"
)

const (
	DateLayout = "2006-01-02"

	fallbackMonths = 6
)

// CustomRange holds the raw bounds of a CUSTOM period, as received from the
// client. Either YYYY-MM-DD or RFC3339 is accepted.
type CustomRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func (c CustomRange) IsZero() bool {
	return strings.TrimSpace(c.Start) == "" || strings.TrimSpace(c.End) == ""
}

// Window is a closed time interval.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// StartDate is Start truncated to its calendar date, for date-granular
// tables such as the ad investment ledger.
func (w Window) StartDate() string { return w.Start.Format(DateLayout) }

func (w Window) EndDate() string { return w.End.Format(DateLayout) }

func (w Window) Duration() time.Duration { return w.End.Sub(w.Start) }

// Contains reports whether t falls inside the window, bounds included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Period is a resolved reporting window and the window it is compared to.
// Token is the effective token: unknown input resolves to the 6 month
// fallback and reports Token "6M".
type Period struct {
	Token    string `json:"token"`
	Current  Window `json:"current"`
	Previous Window `json:"previous"`
}

// Resolve maps a period token to concrete windows, using the location of now
// for every calendar boundary. It never fails: an empty token means the
// current month, while unknown tokens and unusable custom ranges fall back to
// the last six months.
func Resolve(token string, custom CustomRange, now time.Time) Period {
	if token == "" {
		token = PeriodThisMonth
	}
	loc := now.Location()
	y, m, d := now.Date()

	switch token {
	case PeriodToday:
		cur := Window{Start: time.Date(y, m, d, 0, 0, 0, 0, loc), End: now}
		return Period{Token: token, Current: cur, Previous: shiftDays(cur, -1)}

	case PeriodLast7Days:
		cur := Window{Start: now.AddDate(0, 0, -7), End: now}
		return Period{Token: token, Current: cur, Previous: shiftDays(cur, -7)}

	case PeriodThisMonth:
		cur := monthWindow(y, m, loc)
		return Period{Token: token, Current: cur, Previous: monthWindow(y, m-1, loc)}

	case PeriodLastMonth:
		return Period{Token: token, Current: monthWindow(y, m-1, loc), Previous: monthWindow(y, m-2, loc)}

	case PeriodThisYear:
		return Period{Token: token, Current: yearWindow(y, loc), Previous: yearWindow(y-1, loc)}

	case PeriodLastYear:
		return Period{Token: token, Current: yearWindow(y-1, loc), Previous: yearWindow(y-2, loc)}

	case PeriodOneMonth:
		return rolling(token, now.AddDate(0, -1, 0), now)

	case PeriodThreeMonths:
		return rolling(token, now.AddDate(0, -3, 0), now)

	case PeriodOneYear:
		return rolling(token, now.AddDate(-1, 0, 0), now)

	case PeriodCustom:
		if start, end, ok := parseCustom(custom, loc); ok {
			return rolling(token, start, end)
		}
	}

	return rolling(PeriodSixMonths, now.AddDate(0, -fallbackMonths, 0), now)
}

// rolling builds a window with a comparison of identical duration ending one
// second before it starts.
func rolling(token string, start, end time.Time) Period {
	cur := Window{Start: start, End: end}
	gap := cur.Duration() + time.Second
	return Period{
		Token:    token,
		Current:  cur,
		Previous: Window{Start: start.Add(-gap), End: end.Add(-gap)},
	}
}

func shiftDays(w Window, days int) Window {
	return Window{Start: w.Start.AddDate(0, 0, days), End: w.End.AddDate(0, 0, days)}
}

// monthWindow normalizes m, so month 0 is December of the previous year.
func monthWindow(y int, m time.Month, loc *time.Location) Window {
	start := time.Date(y, m, 1, 0, 0, 0, 0, loc)
	last := time.Date(y, m+1, 0, 23, 59, 59, 0, loc)
	return Window{Start: start, End: last}
}

func yearWindow(y int, loc *time.Location) Window {
	return Window{
		Start: time.Date(y, time.January, 1, 0, 0, 0, 0, loc),
		End:   time.Date(y, time.December, 31, 23, 59, 59, 0, loc),
	}
}

func parseCustom(c CustomRange, loc *time.Location) (time.Time, time.Time, bool) {
	if c.IsZero() {
		return time.Time{}, time.Time{}, false
	}
	start, _, ok := parseBound(c.Start, loc)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	end, dateOnly, ok := parseBound(c.End, loc)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	if dateOnly {
		end = end.Add(24*time.Hour - time.Second)
	}
	if end.Before(start) {
		start, end = end, start
	}
	return start, end, true
}

func parseBound(s string, loc *time.Location) (time.Time, bool, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(DateLayout, s, loc); err == nil {
		return t, true, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), false, true
	}
	return time.Time{}, false, false
}
