package pricing

import (
	"testing"

	"github.com/rustyeddy/papersim/market"
	"github.com/stretchr/testify/assert"
)

func TestNewsAffects(t *testing.T) {
	gold := market.Instrument{ID: "GOLD", Category: market.CategoryCommodity}
	tower := market.Instrument{ID: "NYC-TWR", Category: market.CategoryRealEstate}

	tests := []struct {
		name  string
		ev    NewsEvent
		gold  bool
		tower bool
	}{
		{"all", NewsEvent{Scope: ScopeAll, Target: "ALL"}, true, true},
		{"category", NewsEvent{Scope: ScopeCategory, Target: "real-estate"}, false, true},
		{"instrument", NewsEvent{Scope: ScopeInstrument, Target: "GOLD"}, true, false},
		{"unknown scope", NewsEvent{Scope: "sector"}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.gold, tt.ev.Affects(gold))
			assert.Equal(t, tt.tower, tt.ev.Affects(tower))
		})
	}
}

func TestImpactFor(t *testing.T) {
	assert.Equal(t, ImpactLow, impactFor(0.31, 0.3, 0.6))
	assert.Equal(t, ImpactMedium, impactFor(0.45, 0.3, 0.6))
	assert.Equal(t, ImpactHigh, impactFor(0.59, 0.3, 0.6))
	assert.Equal(t, ImpactMedium, impactFor(1, 1, 1))
	assert.Equal(t, "HIGH", ImpactHigh.String())
}
