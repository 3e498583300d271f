// Package strategy implements the calculation rules that turn a milestone
// event into candidate beautiful dates: round multiples, anniversaries,
// repdigits, number sequences, special numbers, powers of two, and compound
// multi-unit intervals.
//
// Strategies are pure: they read the event date, title and a parameter bag
// and return candidates. They never touch storage; the engine decides what
// gets persisted.
package strategy

import (
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/text/language"

	"github.com/milestoneapp/milestone-server/internal/domain"
	"github.com/milestoneapp/milestone-server/internal/validation"
)

// Candidate is one computed beautiful date before engine-side filtering
// and storage.
type Candidate struct {
	TargetDate    time.Time
	IntervalValue int
	IntervalUnit  domain.Unit
	LabelRU       string
	LabelEN       string
	CompoundParts map[string]int // nil unless produced by the compound strategy
}

// Labeler declines a quantity of a calendar unit in a language
// ("5 дней", "5 days"). Implemented by internal/plural.
type Labeler interface {
	Label(n int, unit domain.Unit, lang language.Tag) string
}

// Strategy is one pure calculation rule. Calculate returns an error only
// for an invalid parameter bag; individual candidates that fall outside the
// representable calendar are skipped, never fatal.
type Strategy interface {
	Calculate(eventDate time.Time, title string, params json.RawMessage) ([]Candidate, error)
}

var paramsValidator = validation.New()

// decodeParams unmarshals a parameter bag into dst and validates it.
func decodeParams(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		raw = []byte("{}")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode params: %w", err)
	}
	if err := paramsValidator.Validate(dst); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}
	return nil
}

// sinceLabels renders the standard bilingual "<quantity> since <event>"
// pair used by every strategy except compound.
func sinceLabels(lb Labeler, n int, unit domain.Unit, title string) (ru, en string) {
	ru = fmt.Sprintf("%s с «%s»", lb.Label(n, unit, language.Russian), title)
	en = fmt.Sprintf("%s since %q", lb.Label(n, unit, language.English), title)
	return ru, en
}
