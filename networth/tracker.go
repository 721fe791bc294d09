// Package networth samples account value into a bounded time series for
// performance charts.
package networth

import (
	"time"

	"github.com/rustyeddy/papersim/internal/ring"
)

type Sample struct {
	Tick           int64     `json:"tick"`
	Time           time.Time `json:"time"`
	Cash           float64   `json:"cash"`
	PositionsValue float64   `json:"positions_value"`
	NetWorth       float64   `json:"net_worth"`
}

// Tracker keeps one sample every `every` ticks, dropping the oldest once
// the series is full.
type Tracker struct {
	every  int64
	series *ring.Buffer[Sample]
}

func New(every, capacity int) *Tracker {
	if every < 1 {
		every = 1
	}
	return &Tracker{
		every:  int64(every),
		series: ring.New[Sample](capacity),
	}
}

func (t *Tracker) Every() int64 { return t.every }

// Due reports whether tick is a sampling tick.
func (t *Tracker) Due(tick int64) bool {
	return tick%t.every == 0
}

// Observe records a sample if tick is due and reports whether it did.
func (t *Tracker) Observe(tick int64, at time.Time, cash, positionsValue float64) (Sample, bool) {
	if !t.Due(tick) {
		return Sample{}, false
	}
	s := Sample{
		Tick:           tick,
		Time:           at,
		Cash:           cash,
		PositionsValue: positionsValue,
		NetWorth:       cash + positionsValue,
	}
	t.series.Push(s)
	return s, true
}

// Series returns the samples, oldest first.
func (t *Tracker) Series() []Sample { return t.series.Items() }

func (t *Tracker) Last() (Sample, bool) { return t.series.Last() }

func (t *Tracker) Len() int { return t.series.Len() }

// Change is the difference between the newest and oldest sample.
func (t *Tracker) Change() float64 {
	items := t.series.Items()
	if len(items) < 2 {
		return 0
	}
	return items[len(items)-1].NetWorth - items[0].NetWorth
}
