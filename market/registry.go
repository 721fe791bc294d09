package market

import (
	"fmt"
	"math"
)

// Registry is the set of instruments and correlation edges known to a
// simulation. It is written during setup and frozen before the first tick.
// Registry is not safe for concurrent use; the owning simulation serializes
// access.
type Registry struct {
	instruments []Instrument
	index       map[string]int
	edges       []CorrelationEdge
	frozen      bool
}

func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Register adds an instrument definition.
func (r *Registry) Register(inst Instrument) error {
	if r.frozen {
		return ErrRegistryFrozen
	}
	if err := inst.Validate(); err != nil {
		return err
	}
	if _, ok := r.index[inst.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateInstrument, inst.ID)
	}
	if inst.Symbol == "" {
		inst.Symbol = inst.ID
	}
	if inst.Name == "" {
		inst.Name = inst.Symbol
	}
	r.index[inst.ID] = len(r.instruments)
	r.instruments = append(r.instruments, inst)
	return nil
}

// Correlate adds the directed edge from -> to. Registering the same pair
// again replaces its factor.
func (r *Registry) Correlate(from, to string, factor float64) error {
	if r.frozen {
		return ErrRegistryFrozen
	}
	if _, ok := r.index[from]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownInstrument, from)
	}
	if _, ok := r.index[to]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownInstrument, to)
	}
	if from == to {
		return fmt.Errorf("%w: %s cannot correlate with itself", ErrInvalidCorrelation, from)
	}
	if math.IsNaN(factor) || factor < -1 || factor > 1 {
		return fmt.Errorf("%w: factor %v outside [-1,1]", ErrInvalidCorrelation, factor)
	}

	for i, e := range r.edges {
		if e.From == from && e.To == to {
			r.edges[i].Factor = factor
			return nil
		}
	}
	r.edges = append(r.edges, CorrelationEdge{From: from, To: to, Factor: factor})
	return nil
}

// Freeze rejects any further registration.
func (r *Registry) Freeze() { r.frozen = true }

func (r *Registry) Frozen() bool { return r.frozen }

func (r *Registry) Len() int { return len(r.instruments) }

func (r *Registry) Get(id string) (Instrument, bool) {
	i, ok := r.index[id]
	if !ok {
		return Instrument{}, false
	}
	return r.instruments[i], true
}

// Instruments returns the definitions in registration order.
func (r *Registry) Instruments() []Instrument {
	out := make([]Instrument, len(r.instruments))
	copy(out, r.instruments)
	return out
}

// ByCategory returns the instruments of category c in registration order.
func (r *Registry) ByCategory(c Category) []Instrument {
	var out []Instrument
	for _, inst := range r.instruments {
		if inst.Category == c {
			out = append(out, inst)
		}
	}
	return out
}

// Edges returns the correlation table in insertion order.
func (r *Registry) Edges() []CorrelationEdge {
	out := make([]CorrelationEdge, len(r.edges))
	copy(out, r.edges)
	return out
}
