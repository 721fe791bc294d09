package pricing

import (
	"fmt"

	"github.com/rustyeddy/papersim/market"
)

type Impact int

const (
	ImpactLow Impact = iota
	ImpactMedium
	ImpactHigh
)

func (i Impact) String() string {
	switch i {
	case ImpactLow:
		return "LOW"
	case ImpactMedium:
		return "MEDIUM"
	case ImpactHigh:
		return "HIGH"
	default:
		return "UNKNOWN"
	}
}

func (i Impact) MarshalText() ([]byte, error) { return []byte(i.String()), nil }

// Scope says which instruments a news event touches.
type Scope string

const (
	ScopeInstrument Scope = "instrument"
	ScopeCategory   Scope = "category"
	ScopeAll        Scope = "ALL"
)

// NewsEvent is a synthetic headline emitted alongside a sentiment shock.
type NewsEvent struct {
	ID        string  `json:"id"`
	Tick      int64   `json:"tick"`
	Headline  string  `json:"headline"`
	Impact    Impact  `json:"impact"`
	Scope     Scope   `json:"scope"`
	Target    string  `json:"target"` // instrument id, category, or "ALL"
	Direction float64 `json:"direction"`
	Magnitude float64 `json:"magnitude"`
}

// Affects reports whether inst is within the event's scope.
func (n NewsEvent) Affects(inst market.Instrument) bool {
	switch n.Scope {
	case ScopeAll:
		return true
	case ScopeCategory:
		return string(inst.Category) == n.Target
	case ScopeInstrument:
		return inst.ID == n.Target
	}
	return false
}

var (
	bullishHeadlines = []string{
		"%s rallies as institutional buyers pile in",
		"Supply squeeze lifts %s",
		"Analysts upgrade outlook for %s",
		"Central bank signals support; %s bid higher",
	}
	bearishHeadlines = []string{
		"%s slides on surprise inventory build",
		"Regulators open probe; %s under pressure",
		"Risk-off wave hits %s",
		"Demand warning sends %s lower",
	}
)

func headline(r RandomSource, direction float64, subject string) string {
	pool := bullishHeadlines
	if direction < 0 {
		pool = bearishHeadlines
	}
	return fmt.Sprintf(pool[r.Intn(len(pool))], subject)
}

func impactFor(magnitude, lo, hi float64) Impact {
	if hi <= lo {
		return ImpactMedium
	}
	f := (magnitude - lo) / (hi - lo)
	switch {
	case f < 1.0/3:
		return ImpactLow
	case f < 2.0/3:
		return ImpactMedium
	default:
		return ImpactHigh
	}
}
