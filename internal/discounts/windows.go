package discounts

import "time"

// FirstFullWeekend returns the bounds of the first Saturday/Sunday pair
// falling entirely within the given month. Start is Saturday midnight UTC;
// end is exclusive (the following Monday midnight).
func FirstFullWeekend(year int, month time.Month) (start, end time.Time) {
	d := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	for d.Weekday() != time.Saturday {
		d = d.AddDate(0, 0, 1)
	}
	// If Sunday spills into the next month, the full weekend is the next one.
	if d.AddDate(0, 0, 1).Month() != month {
		d = d.AddDate(0, 0, 7)
	}
	return d, d.AddDate(0, 0, 2)
}

// InFirstFullWeekend reports whether now falls inside its month's first full
// weekend.
func InFirstFullWeekend(now time.Time) bool {
	start, end := FirstFullWeekend(now.Year(), now.Month())
	return !now.Before(start) && now.Before(end)
}

// NextFirstFullWeekend returns the start date of the next first-full-weekend
// window at or after now (this month's if it has not ended, otherwise next
// month's).
func NextFirstFullWeekend(now time.Time) time.Time {
	start, end := FirstFullWeekend(now.Year(), now.Month())
	if now.Before(end) {
		return start
	}
	next := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	start, _ = FirstFullWeekend(next.Year(), next.Month())
	return start
}

// nextOccurrence resolves the next active date for a recurring window, used
// for the nextEligible hint on non-qualifying rows. Returns the zero string
// when the pattern is unknown or the window is fixed and already over.
func nextOccurrence(w *Window, now time.Time) string {
	if w == nil {
		return ""
	}
	switch w.Recurring {
	case RecurFirstFullWeekend:
		return NextFirstFullWeekend(now).Format(DateLayout)
	}
	if w.Start != "" {
		start, err := time.Parse(DateLayout, w.Start)
		if err == nil && now.Before(start) {
			return w.Start
		}
	}
	return ""
}
