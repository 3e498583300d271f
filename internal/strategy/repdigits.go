package strategy

import (
	"encoding/json"
	"time"

	"github.com/milestoneapp/milestone-server/internal/domain"
)

// RepdigitsParams configures the repdigit rule. MaxDays defaults to 100000
// when omitted.
type RepdigitsParams struct {
	MaxDays int   `json:"max_days" validate:"min=0"`
	Exclude []int `json:"exclude"`
}

// Repdigits emits a candidate for every day count in [111, max_days] whose
// decimal digits are all identical (111, 222, ..., 1111, ...), minus an
// explicit exclusion set. Day counts only.
type Repdigits struct {
	labels Labeler
}

// NewRepdigits creates the repdigits strategy.
func NewRepdigits(labels Labeler) *Repdigits {
	return &Repdigits{labels: labels}
}

// Calculate implements Strategy.
func (s *Repdigits) Calculate(eventDate time.Time, title string, params json.RawMessage) ([]Candidate, error) {
	var p RepdigitsParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	if p.MaxDays == 0 {
		p.MaxDays = 100000
	}

	excluded := make(map[int]bool, len(p.Exclude))
	for _, n := range p.Exclude {
		excluded[n] = true
	}

	var results []Candidate
	// Repdigits of length >= 3: d * 111, d * 1111, ... for d in 1..9.
	for repunit := 111; repunit <= p.MaxDays; repunit = repunit*10 + 1 {
		for d := 1; d <= 9; d++ {
			n := d * repunit
			if n > p.MaxDays || excluded[n] {
				continue
			}
			target, ok := addDays(eventDate, n)
			if !ok {
				continue
			}

			ru, en := sinceLabels(s.labels, n, domain.UnitDays, title)
			results = append(results, Candidate{
				TargetDate:    target,
				IntervalValue: n,
				IntervalUnit:  domain.UnitDays,
				LabelRU:       ru,
				LabelEN:       en,
			})
		}
	}
	return results, nil
}
