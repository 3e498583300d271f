package strategy

import (
	"encoding/json"
	"time"

	"github.com/milestoneapp/milestone-server/internal/domain"
)

// SequenceParams lists the digit-run day counts (123, 1234, ...) that get
// a candidate.
type SequenceParams struct {
	Sequences []int `json:"sequences" validate:"dive,min=1"`
}

// Sequence emits one candidate per listed day count.
type Sequence struct {
	labels Labeler
}

// NewSequence creates the sequence strategy.
func NewSequence(labels Labeler) *Sequence {
	return &Sequence{labels: labels}
}

// Calculate implements Strategy.
func (s *Sequence) Calculate(eventDate time.Time, title string, params json.RawMessage) ([]Candidate, error) {
	var p SequenceParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	return dayCountCandidates(s.labels, eventDate, title, p.Sequences), nil
}

// dayCountCandidates is the shared body of the sequence and special
// strategies: one day-unit candidate per listed count.
func dayCountCandidates(lb Labeler, eventDate time.Time, title string, counts []int) []Candidate {
	var results []Candidate
	for _, n := range counts {
		target, ok := addDays(eventDate, n)
		if !ok {
			continue
		}

		ru, en := sinceLabels(lb, n, domain.UnitDays, title)
		results = append(results, Candidate{
			TargetDate:    target,
			IntervalValue: n,
			IntervalUnit:  domain.UnitDays,
			LabelRU:       ru,
			LabelEN:       en,
		})
	}
	return results
}
