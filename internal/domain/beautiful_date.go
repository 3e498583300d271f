package domain

import "time"

// BeautifulDate is a computed, persisted future date deemed noteworthy by
// some strategy. Rows are created and destroyed wholesale by the
// recalculation engine; ShareToken is the only field mutated outside it.
type BeautifulDate struct {
	ID            int64          `json:"id"`
	EventID       string         `json:"event_id"`
	StrategyID    string         `json:"strategy_id"`
	TargetDate    time.Time      `json:"target_date"`
	LabelRU       string         `json:"label_ru"`
	LabelEN       string         `json:"label_en"`
	IntervalValue int            `json:"interval_value"`
	IntervalUnit  Unit           `json:"interval_unit"`
	CompoundParts map[string]int `json:"compound_parts,omitempty"`
	ShareToken    *string        `json:"share_token,omitempty"`

	// Event is populated on share-token lookups so callers can render the
	// owning event without a second query.
	Event *Event `json:"event,omitempty"`
}

// Label returns the label for the given language code, falling back to
// English for anything but "ru".
func (bd *BeautifulDate) Label(lang string) string {
	if lang == "ru" {
		return bd.LabelRU
	}
	return bd.LabelEN
}

// DaysUntil returns the number of whole days from `from` to the target
// date. It counts calendar dates rather than subtracting instants, so a
// far-future target is not clipped by time.Duration's range.
func (bd *BeautifulDate) DaysUntil(from time.Time) int {
	t := bd.TargetDate
	tu := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).Unix()
	fu := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC).Unix()
	return int((tu - fu) / 86400)
}
