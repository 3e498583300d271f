package strategy

import (
	"encoding/json"
	"time"

	"github.com/milestoneapp/milestone-server/internal/domain"
)

// PowersOfTwoParams configures the powers-of-two rule. Defaults: powers 8
// through 20, days only.
type PowersOfTwoParams struct {
	MinPower int      `json:"min_power" validate:"min=0"`
	MaxPower int      `json:"max_power" validate:"min=0,lte=40"`
	Units    []string `json:"units" validate:"dive,oneof=days weeks"`
}

// PowersOfTwo emits a candidate at 2^p days and/or weeks for each power in
// the configured range.
type PowersOfTwo struct {
	labels Labeler
}

// NewPowersOfTwo creates the powers-of-two strategy.
func NewPowersOfTwo(labels Labeler) *PowersOfTwo {
	return &PowersOfTwo{labels: labels}
}

// Calculate implements Strategy.
func (s *PowersOfTwo) Calculate(eventDate time.Time, title string, params json.RawMessage) ([]Candidate, error) {
	var p PowersOfTwoParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	if p.MinPower == 0 && p.MaxPower == 0 {
		p.MinPower, p.MaxPower = 8, 20
	}
	if len(p.Units) == 0 {
		p.Units = []string{string(domain.UnitDays)}
	}

	var results []Candidate
	for power := p.MinPower; power <= p.MaxPower; power++ {
		n := 1 << power
		for _, u := range p.Units {
			unit := domain.Unit(u)
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
	}
	return results, nil
}
