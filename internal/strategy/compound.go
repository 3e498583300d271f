package strategy

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/milestoneapp/milestone-server/internal/domain"
)

// CompoundParams configures the compound rule: for each n in [min_n, max_n],
// add n of every listed unit in order. Defaults: n from 1 to 12.
type CompoundParams struct {
	Parts []string `json:"parts" validate:"required,min=1,dive,oneof=days weeks months years"`
	MinN  int      `json:"min_n" validate:"min=0"`
	MaxN  int      `json:"max_n" validate:"min=0"`
}

// Compound emits candidates like "1 day 1 week 1 month since ...": the same
// n applied to several calendar units sequentially. The interval value is
// the total elapsed days from the event to the result.
type Compound struct {
	labels Labeler
}

// NewCompound creates the compound strategy.
func NewCompound(labels Labeler) *Compound {
	return &Compound{labels: labels}
}

// Calculate implements Strategy.
func (s *Compound) Calculate(eventDate time.Time, title string, params json.RawMessage) ([]Candidate, error) {
	var p CompoundParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	if p.MinN == 0 {
		p.MinN = 1
	}
	if p.MaxN == 0 {
		p.MaxN = 12
	}

	var results []Candidate
	for n := p.MinN; n <= p.MaxN; n++ {
		target, ok := s.compose(eventDate, n, p.Parts)
		if !ok {
			continue
		}

		totalDays := daysBetween(eventDate, target)
		if totalDays <= 0 {
			continue
		}

		parts := make(map[string]int, len(p.Parts))
		for _, u := range p.Parts {
			parts[u] = n
		}

		results = append(results, Candidate{
			TargetDate:    target,
			IntervalValue: totalDays,
			IntervalUnit:  domain.UnitCompound,
			LabelRU:       s.label(n, p.Parts, title, language.Russian),
			LabelEN:       s.label(n, p.Parts, title, language.English),
			CompoundParts: parts,
		})
	}
	return results, nil
}

// compose adds n of each unit to the event date, in the configured order.
// Order matters: adding a month before a day can land on a different date
// than the reverse around month ends.
func (s *Compound) compose(eventDate time.Time, n int, parts []string) (time.Time, bool) {
	target := eventDate
	for _, u := range parts {
		var ok bool
		target, ok = addUnit(target, n, domain.Unit(u))
		if !ok {
			return time.Time{}, false
		}
	}
	return target, true
}

// label space-joins the declined phrase of every part, then the event
// reference: "1 день 1 неделя 1 месяц с «X»".
func (s *Compound) label(n int, parts []string, title string, lang language.Tag) string {
	phrases := make([]string, len(parts))
	for i, u := range parts {
		phrases[i] = s.labels.Label(n, domain.Unit(u), lang)
	}
	joined := strings.Join(phrases, " ")
	if lang == language.Russian {
		return fmt.Sprintf("%s с «%s»", joined, title)
	}
	return fmt.Sprintf("%s since %q", joined, title)
}
