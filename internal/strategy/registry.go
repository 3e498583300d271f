package strategy

import (
	"sort"

	"github.com/milestoneapp/milestone-server/internal/domain"
)

// Registry maps strategy type identifiers to their implementations. The
// set is closed and built once at construction; looking up an unknown type
// is a recoverable condition the caller handles (log and skip).
type Registry struct {
	strategies map[string]Strategy
}

// NewRegistry builds the registry with all seven strategies, sharing one
// pluralization service.
func NewRegistry(labels Labeler) *Registry {
	return &Registry{
		strategies: map[string]Strategy{
			domain.StrategyMultiples:   NewMultiples(labels),
			domain.StrategyRepdigits:   NewRepdigits(labels),
			domain.StrategySequence:    NewSequence(labels),
			domain.StrategySpecial:     NewSpecial(labels),
			domain.StrategyCompound:    NewCompound(labels),
			domain.StrategyAnniversary: NewAnniversary(labels),
			domain.StrategyPowersOfTwo: NewPowersOfTwo(labels),
		},
	}
}

// Resolve returns the implementation for a strategy type.
func (r *Registry) Resolve(strategyType string) (Strategy, bool) {
	s, ok := r.strategies[strategyType]
	return s, ok
}

// Types returns the known strategy type identifiers, sorted.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.strategies))
	for t := range r.strategies {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
