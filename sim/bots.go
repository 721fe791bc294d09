package sim

import (
	"errors"
	"fmt"

	"github.com/rustyeddy/papersim/metrics"
	"github.com/rustyeddy/papersim/strategies"
)

var (
	ErrUnknownBot   = errors.New("unknown bot")
	ErrDuplicateBot = errors.New("duplicate bot")
)

// AddBot attaches a bot. Bots may be added at any time, including while
// the clock runs; they act from the next tick.
func (s *State) AddBot(cfg strategies.BotConfig) (strategies.BotStatus, error) {
	b, err := strategies.NewBot(cfg)
	if err != nil {
		return strategies.BotStatus{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reg.Get(b.Instrument()); !ok {
		return strategies.BotStatus{}, fmt.Errorf("bot %s: %w: %s", b.Name(), ErrUnknownInstrument, b.Instrument())
	}
	if s.bot(b.Name()) != nil {
		return strategies.BotStatus{}, fmt.Errorf("%w: %s", ErrDuplicateBot, b.Name())
	}
	s.bots = append(s.bots, b)
	s.observeBots()
	s.log.Info("bot added", "bot", b.Name(), "instrument", b.Instrument(), "strategy", b.Kind(), "active", b.Active())
	return b.Status(), nil
}

// SetBotActive toggles a bot between Active and Inactive.
func (s *State) SetBotActive(name string, active bool) (strategies.BotStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.bot(name)
	if b == nil {
		return strategies.BotStatus{}, fmt.Errorf("%w: %s", ErrUnknownBot, name)
	}
	b.SetActive(active)
	s.observeBots()
	return b.Status(), nil
}

// Bots returns the status of every bot in the order they were added.
func (s *State) Bots() []strategies.BotStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]strategies.BotStatus, 0, len(s.bots))
	for _, b := range s.bots {
		out = append(out, b.Status())
	}
	return out
}

func (s *State) bot(name string) *strategies.Bot {
	for _, b := range s.bots {
		if b.Name() == name {
			return b
		}
	}
	return nil
}

func (s *State) observeBots() {
	n := 0
	for _, b := range s.bots {
		if b.Active() {
			n++
		}
	}
	metrics.ActiveBots.Set(float64(n))
}
