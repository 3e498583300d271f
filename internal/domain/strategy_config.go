package domain

import (
	"encoding/json"
	"time"
)

// Strategy type identifiers. The set is closed: the registry maps each of
// these to its implementation at construction time.
const (
	StrategyMultiples   = "multiples"
	StrategyRepdigits   = "repdigits"
	StrategySequence    = "sequence"
	StrategySpecial     = "special"
	StrategyCompound    = "compound"
	StrategyAnniversary = "anniversary"
	StrategyPowersOfTwo = "powers_of_two"
)

// StrategyConfig is a named, versioned rule configuration. Params is an
// opaque bag whose shape depends on Type; the strategy validates it at
// calculation time.
type StrategyConfig struct {
	ID        string          `json:"id"`
	NameRU    string          `json:"name_ru"`
	NameEN    string          `json:"name_en"`
	Type      string          `json:"type"`
	Params    json.RawMessage `json:"params"`
	Active    bool            `json:"active"`
	Priority  int             `json:"priority"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
