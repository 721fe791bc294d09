package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gold() Instrument {
	return Instrument{ID: "GOLD", Name: "Gold", Symbol: "XAU", BasePrice: 2000, Volatility: 0.01, Category: CategoryCommodity}
}

func silver() Instrument {
	return Instrument{ID: "SILVER", Name: "Silver", Symbol: "XAG", BasePrice: 25, Volatility: 0.02, Category: CategoryCommodity}
}

func TestRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(gold()))
	require.NoError(t, r.Register(silver()))

	got, ok := r.Get("GOLD")
	assert.True(t, ok)
	assert.Equal(t, gold(), got)
	assert.Equal(t, 2, r.Len())

	ids := []string{}
	for _, inst := range r.Instruments() {
		ids = append(ids, inst.ID)
	}
	assert.Equal(t, []string{"GOLD", "SILVER"}, ids)

	_, ok = r.Get("COPPER")
	assert.False(t, ok)
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name string
		inst Instrument
		want error
	}{
		{"missing id", Instrument{BasePrice: 1, Volatility: 0.1}, ErrInvalidInstrument},
		{"zero price", Instrument{ID: "X", BasePrice: 0, Volatility: 0.1}, ErrInvalidInstrument},
		{"volatility too high", Instrument{ID: "X", BasePrice: 1, Volatility: 1}, ErrInvalidInstrument},
		{"volatility zero", Instrument{ID: "X", BasePrice: 1, Volatility: 0}, ErrInvalidInstrument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewRegistry().Register(tt.inst)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRegisterDefaultsSymbolAndName(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Instrument{ID: "X", BasePrice: 10, Volatility: 0.1}))

	got, _ := r.Get("X")
	assert.Equal(t, "X", got.Symbol)
	assert.Equal(t, "X", got.Name)
}

func TestRegisterDuplicate(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(gold()))
	assert.ErrorIs(t, r.Register(gold()), ErrDuplicateInstrument)
}

func TestCorrelate(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(gold()))
	require.NoError(t, r.Register(silver()))

	require.NoError(t, r.Correlate("GOLD", "SILVER", 0.5))
	require.NoError(t, r.Correlate("GOLD", "SILVER", 0.7))
	assert.Equal(t, []CorrelationEdge{{From: "GOLD", To: "SILVER", Factor: 0.7}}, r.Edges())

	assert.ErrorIs(t, r.Correlate("GOLD", "COPPER", 0.1), ErrUnknownInstrument)
	assert.ErrorIs(t, r.Correlate("GOLD", "GOLD", 0.1), ErrInvalidCorrelation)
	assert.ErrorIs(t, r.Correlate("GOLD", "SILVER", 1.5), ErrInvalidCorrelation)
	assert.ErrorIs(t, r.Correlate("GOLD", "SILVER", -1.01), ErrInvalidCorrelation)
}

func TestFrozenRegistryRejectsSetup(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(gold()))
	require.NoError(t, r.Register(silver()))
	r.Freeze()

	assert.True(t, r.Frozen())
	assert.ErrorIs(t, r.Register(Instrument{ID: "X", BasePrice: 1, Volatility: 0.1}), ErrRegistryFrozen)
	assert.ErrorIs(t, r.Correlate("GOLD", "SILVER", 0.2), ErrRegistryFrozen)
}

func TestByCategory(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, LoadDemo(r))

	for _, inst := range r.ByCategory(CategoryRealEstate) {
		assert.Equal(t, CategoryRealEstate, inst.Category)
	}
	assert.Len(t, r.ByCategory(CategoryRealEstate), 4)
	assert.Empty(t, r.ByCategory(CategoryCrypto))
}

func TestLoadDemo(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, LoadDemo(r))
	assert.Equal(t, len(DemoInstruments), r.Len())
	assert.Len(t, r.Edges(), len(DemoCorrelations))
}
