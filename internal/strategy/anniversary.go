package strategy

import (
	"encoding/json"
	"time"

	"github.com/milestoneapp/milestone-server/internal/domain"
)

// AnniversaryParams lists the year counts that get a candidate.
type AnniversaryParams struct {
	Years []int `json:"years" validate:"dive,min=1"`
}

// Anniversary emits one candidate per configured year count.
type Anniversary struct {
	labels Labeler
}

// NewAnniversary creates the anniversary strategy.
func NewAnniversary(labels Labeler) *Anniversary {
	return &Anniversary{labels: labels}
}

// Calculate implements Strategy.
func (s *Anniversary) Calculate(eventDate time.Time, title string, params json.RawMessage) ([]Candidate, error) {
	var p AnniversaryParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	var results []Candidate
	for _, n := range p.Years {
		target, ok := addYears(eventDate, n)
		if !ok {
			continue
		}

		ru, en := sinceLabels(s.labels, n, domain.UnitYears, title)
		results = append(results, Candidate{
			TargetDate:    target,
			IntervalValue: n,
			IntervalUnit:  domain.UnitYears,
			LabelRU:       ru,
			LabelEN:       en,
		})
	}
	return results, nil
}
