package id

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsSortable(t *testing.T) {
	prev := New()
	for i := 0; i < 100; i++ {
		next := New()
		assert.Less(t, prev, next)
		prev = next
	}
}

func TestGeneratorDeterministic(t *testing.T) {
	at := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	clock := func() time.Time { return at }

	a := NewGenerator(42, clock)
	b := NewGenerator(42, clock)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.New(), b.New())
	}
}

func TestTimeRoundTrip(t *testing.T) {
	at := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	g := NewGenerator(1, func() time.Time { return at })

	got, err := Time(g.New())
	require.NoError(t, err)
	assert.True(t, got.Equal(at))

	_, err = Time("not-a-ulid")
	assert.Error(t, err)
}
