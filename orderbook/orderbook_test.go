package orderbook

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSynth(seed int64) *Synthesizer {
	return NewSynthesizer(DefaultConfig(), rand.New(rand.NewSource(seed)))
}

func TestSynthesizeShape(t *testing.T) {
	s := newSynth(1)
	book := s.Synthesize(100, 10)

	require.Len(t, book.Bids, 10)
	require.Len(t, book.Asks, 10)

	for i := range book.Bids {
		assert.Less(t, book.Bids[i].Price, 100.0)
		assert.Greater(t, book.Asks[i].Price, 100.0)
		assert.Greater(t, book.Bids[i].Size, 0.0)
		assert.Greater(t, book.Asks[i].Size, 0.0)
		assert.LessOrEqual(t, book.Asks[i].Size, s.Config().MaxSize)
		if i > 0 {
			assert.GreaterOrEqual(t, book.Bids[i-1].Price, book.Bids[i].Price, "bids descending")
			assert.LessOrEqual(t, book.Asks[i-1].Price, book.Asks[i].Price, "asks ascending")
		}
	}

	assert.Greater(t, book.Spread(), 0.0)
}

func TestSynthesizeSpreadBounds(t *testing.T) {
	cfg := DefaultConfig()
	s := NewSynthesizer(cfg, rand.New(rand.NewSource(2)))
	price := 2000.0
	depth := 5
	book := s.Synthesize(price, depth)

	maxSpread := price * cfg.BaseSpreadFraction * float64(depth) * cfg.JitterMax
	minSpread := price * cfg.BaseSpreadFraction * cfg.JitterMin
	for _, b := range book.Bids {
		assert.GreaterOrEqual(t, price-b.Price, minSpread-1e-9)
		assert.LessOrEqual(t, price-b.Price, maxSpread+1e-9)
	}
	for _, a := range book.Asks {
		assert.GreaterOrEqual(t, a.Price-price, minSpread-1e-9)
		assert.LessOrEqual(t, a.Price-price, maxSpread+1e-9)
	}
}

func TestSynthesizeDefaultDepth(t *testing.T) {
	s := newSynth(3)
	book := s.Synthesize(50, 0)
	assert.Len(t, book.Bids, DefaultConfig().Depth)
	assert.Len(t, book.Asks, DefaultConfig().Depth)
}

func TestSynthesizeDropsNonPositiveBids(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseSpreadFraction = 0.5
	s := NewSynthesizer(cfg, rand.New(rand.NewSource(4)))

	book := s.Synthesize(10, 10)
	assert.Len(t, book.Asks, 10)
	assert.Less(t, len(book.Bids), 10)
	for _, b := range book.Bids {
		assert.Greater(t, b.Price, 0.0)
	}
}

func TestSynthesizeInvalidPrice(t *testing.T) {
	s := newSynth(5)
	book := s.Synthesize(0, 10)
	assert.Empty(t, book.Bids)
	assert.Empty(t, book.Asks)

	_, ok := book.BestBid()
	assert.False(t, ok)
	assert.Equal(t, 0.0, book.Spread())
}

func TestSynthesizeRecomputesEachCall(t *testing.T) {
	s := newSynth(6)
	a := s.Synthesize(100, 5)
	b := s.Synthesize(100, 5)
	assert.NotEqual(t, a, b)
}

func TestSynthesizeClampsToMaxDepth(t *testing.T) {
	s := newSynth(5)
	maxDepth := DefaultConfig().MaxDepth

	book := s.Synthesize(100, 1<<30)
	assert.Len(t, book.Asks, maxDepth)
	assert.LessOrEqual(t, len(book.Bids), maxDepth)

	assert.NoError(t, s.CheckDepth(maxDepth))
	assert.ErrorIs(t, s.CheckDepth(maxDepth+1), ErrDepthTooLarge)
}

func TestNewSynthesizerCapsDefaultDepth(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Depth = 50
	cfg.MaxDepth = 20
	s := NewSynthesizer(cfg, rand.New(rand.NewSource(6)))
	assert.Equal(t, 20, s.Config().Depth)
	assert.Len(t, s.Synthesize(100, 0).Asks, 20)
}
