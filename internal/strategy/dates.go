package strategy

import (
	"time"

	"github.com/milestoneapp/milestone-server/internal/domain"
)

// maxYear bounds candidate dates. Anything past it is treated as
// unrepresentable and the candidate is dropped.
const maxYear = 9999

// addDays adds n days. ok is false when the result leaves the
// representable range.
func addDays(d time.Time, n int) (time.Time, bool) {
	t := d.AddDate(0, 0, n)
	return t, t.Year() >= 1 && t.Year() <= maxYear
}

// addMonths adds n calendar months, clamping to the last day of the target
// month: Jan 31 + 1 month = Feb 28 (or 29). time.AddDate would normalize
// that to Mar 2/3 instead, shifting the milestone into the wrong month.
func addMonths(d time.Time, n int) (time.Time, bool) {
	months := int(d.Month()) - 1 + n
	year := d.Year() + months/12
	month := time.Month(months%12 + 1)
	if months < 0 {
		// Go's integer division truncates toward zero; fix up for
		// negative month offsets.
		year--
		month += 12
	}
	if year < 1 || year > maxYear {
		return time.Time{}, false
	}

	day := d.Day()
	if last := daysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, d.Location()), true
}

// addYears adds n calendar years; Feb 29 clamps to Feb 28 in non-leap
// years.
func addYears(d time.Time, n int) (time.Time, bool) {
	return addMonths(d, n*12)
}

// addUnit adds n of a calendar unit to d.
func addUnit(d time.Time, n int, unit domain.Unit) (time.Time, bool) {
	switch unit {
	case domain.UnitDays:
		return addDays(d, n)
	case domain.UnitWeeks:
		return addDays(d, n*7)
	case domain.UnitMonths:
		return addMonths(d, n)
	case domain.UnitYears:
		return addYears(d, n)
	default:
		return time.Time{}, false
	}
}

// daysBetween returns the number of calendar days from a to b. It counts
// dates rather than subtracting instants, so spans beyond time.Duration's
// range stay exact.
func daysBetween(a, b time.Time) int {
	au := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC).Unix()
	bu := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC).Unix()
	return int((bu - au) / 86400)
}

// daysIn returns the number of days in the given month.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
