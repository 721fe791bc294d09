package strategies

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBotValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  BotConfig
	}{
		{"missing name", BotConfig{Instrument: "GOLD", Strategy: "momentum", OrderSize: 1}},
		{"missing instrument", BotConfig{Name: "b", Strategy: "momentum", OrderSize: 1}},
		{"zero size", BotConfig{Name: "b", Instrument: "GOLD", Strategy: "momentum"}},
		{"bad strategy", BotConfig{Name: "b", Instrument: "GOLD", Strategy: "yolo", OrderSize: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBot(tt.cfg)
			assert.Error(t, err)
		})
	}
}

func TestBotToggle(t *testing.T) {
	b, err := NewBot(BotConfig{Name: "trend", Instrument: "GOLD", Strategy: "momentum", OrderSize: 5})
	require.NoError(t, err)

	assert.Equal(t, Inactive, b.State())
	assert.Equal(t, Hold, b.Evaluate(input(rising())), "inactive bots hold")

	b.SetActive(true)
	assert.True(t, b.Active())
	assert.Equal(t, Buy, b.Evaluate(input(rising())))

	b.SetActive(false)
	assert.Equal(t, Hold, b.Evaluate(input(rising())))
}

func TestBotUsesOwnOrderSize(t *testing.T) {
	b, err := NewBot(BotConfig{Name: "big", Instrument: "GOLD", Strategy: "momentum", OrderSize: 1000, Active: true})
	require.NoError(t, err)

	// 1000 * 105 exceeds the 10k cash in input().
	assert.Equal(t, Hold, b.Evaluate(input(rising())))
}

func TestBotStatus(t *testing.T) {
	b, err := NewBot(BotConfig{Name: "rev", Instrument: "SILVER", Strategy: "reversion", OrderSize: 2, Active: true})
	require.NoError(t, err)

	b.RecordResult(nil)
	b.RecordResult(nil)
	b.RecordResult(errors.New("insufficient funds"))

	st := b.Status()
	assert.Equal(t, "rev", st.Name)
	assert.Equal(t, MeanReversion, st.Strategy)
	assert.Equal(t, Active, st.State)
	assert.Equal(t, 2, st.Fills)
	assert.Equal(t, 1, st.Rejects)
	assert.Equal(t, "insufficient funds", st.LastError)
	assert.Equal(t, DefaultParams(), b.Params())
}
