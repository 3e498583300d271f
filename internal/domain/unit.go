package domain

// Unit is the unit of elapsed time an interval magnitude is expressed in.
// The values match what strategy parameter bags and stored rows use.
type Unit string

const (
	UnitDays   Unit = "days"
	UnitWeeks  Unit = "weeks"
	UnitMonths Unit = "months"
	UnitYears  Unit = "years"
	// UnitCompound marks intervals assembled from several calendar units;
	// the magnitude is the total elapsed days.
	UnitCompound Unit = "compound"
)

// ParseUnit converts a string to a Unit.
func ParseUnit(s string) (Unit, bool) {
	switch Unit(s) {
	case UnitDays, UnitWeeks, UnitMonths, UnitYears, UnitCompound:
		return Unit(s), true
	default:
		return "", false
	}
}

// Calendar reports whether the unit is a plain calendar unit
// (anything but compound).
func (u Unit) Calendar() bool {
	return u != UnitCompound && u != ""
}
