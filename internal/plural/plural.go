// Package plural converts quantities of calendar units into grammatically
// correct Russian and English phrases ("1 день", "2 дня", "5 дней",
// "1 day", "5 days"). It backs the labels on every beautiful date.
package plural

import (
	"fmt"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"

	"github.com/milestoneapp/milestone-server/internal/domain"
)

// Supported label languages.
var (
	Russian = language.Russian
	English = language.English
)

// ruForms holds the Russian noun forms per unit, indexed by the cardinal
// plural categories One, Few and Many.
var ruForms = map[domain.Unit][3]string{
	domain.UnitDays:   {"день", "дня", "дней"},
	domain.UnitWeeks:  {"неделя", "недели", "недель"},
	domain.UnitMonths: {"месяц", "месяца", "месяцев"},
	domain.UnitYears:  {"год", "года", "лет"},
}

// enSingular holds the English singular per unit; the plural just adds "s".
var enSingular = map[domain.Unit]string{
	domain.UnitDays:   "day",
	domain.UnitWeeks:  "week",
	domain.UnitMonths: "month",
	domain.UnitYears:  "year",
}

// Service declines calendar-unit quantities. It is stateless and safe for
// concurrent use.
type Service struct{}

// NewService returns a pluralization service covering Russian and English.
func NewService() *Service {
	return &Service{}
}

// Label formats n units in the given language, e.g. Label(21,
// domain.UnitDays, Russian) == "21 день". Unknown units or languages fall
// back to "<n> <unit>" rather than failing: a wrong but readable label beats
// a dropped milestone.
func (s *Service) Label(n int, unit domain.Unit, lang language.Tag) string {
	switch lang {
	case Russian:
		forms, ok := ruForms[unit]
		if !ok {
			break
		}
		switch formFor(lang, n) {
		case plural.One:
			return fmt.Sprintf("%d %s", n, forms[0])
		case plural.Few:
			return fmt.Sprintf("%d %s", n, forms[1])
		default:
			return fmt.Sprintf("%d %s", n, forms[2])
		}
	case English:
		word, ok := enSingular[unit]
		if !ok {
			break
		}
		if formFor(lang, n) != plural.One {
			word += "s"
		}
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %s", n, unit)
}

// formFor resolves the CLDR cardinal category of n for the language.
// This is what gets 11–14 right in Russian (always Many, despite ending
// in 1–4).
func formFor(lang language.Tag, n int) plural.Form {
	return plural.Cardinal.MatchPlural(lang, abs(n), 0, 0, 0, 0)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
