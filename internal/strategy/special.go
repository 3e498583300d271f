package strategy

import (
	"encoding/json"
	"time"
)

// SpecialParams lists curated day counts that get a candidate.
type SpecialParams struct {
	Numbers []int `json:"numbers" validate:"dive,min=1"`
}

// Special emits one candidate per curated day count.
type Special struct {
	labels Labeler
}

// NewSpecial creates the special-numbers strategy.
func NewSpecial(labels Labeler) *Special {
	return &Special{labels: labels}
}

// Calculate implements Strategy.
func (s *Special) Calculate(eventDate time.Time, title string, params json.RawMessage) ([]Candidate, error) {
	var p SpecialParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	return dayCountCandidates(s.labels, eventDate, title, p.Numbers), nil
}
