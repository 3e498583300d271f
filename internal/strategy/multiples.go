package strategy

import (
	"encoding/json"
	"time"

	"github.com/milestoneapp/milestone-server/internal/domain"
)

// MultiplesParams configures the round-multiples rule: every n = min,
// min+base, ... <= max of the given unit after the event.
type MultiplesParams struct {
	Base int    `json:"base" validate:"required,min=1"`
	Min  int    `json:"min" validate:"required,min=1"`
	Max  int    `json:"max" validate:"required,gtefield=Min"`
	Unit string `json:"unit" validate:"required,oneof=days weeks months years"`
}

// Multiples emits candidates at round counts of a single calendar unit
// ("100 days", "50 weeks", "10 months").
type Multiples struct {
	labels Labeler
}

// NewMultiples creates the multiples strategy.
func NewMultiples(labels Labeler) *Multiples {
	return &Multiples{labels: labels}
}

// Calculate implements Strategy.
func (s *Multiples) Calculate(eventDate time.Time, title string, params json.RawMessage) ([]Candidate, error) {
	var p MultiplesParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	unit := domain.Unit(p.Unit)

	var results []Candidate
	for n := p.Min; n <= p.Max; n += p.Base {
		target, ok := addUnit(eventDate, n, unit)
		if !ok {
			continue
		}

		ru, en := sinceLabels(s.labels, n, unit, title)
		results = append(results, Candidate{
			TargetDate:    target,
			IntervalValue: n,
			IntervalUnit:  unit,
			LabelRU:       ru,
			LabelEN:       en,
		})
	}
	return results, nil
}
