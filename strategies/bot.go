package strategies

import (
	"errors"
	"fmt"
	"strings"
)

type State int

const (
	Inactive State = iota
	Active
)

func (s State) String() string {
	if s == Active {
		return "ACTIVE"
	}
	return "INACTIVE"
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// BotConfig describes an automated trader bound to one instrument.
type BotConfig struct {
	Name       string  `json:"name" yaml:"name"`
	Instrument string  `json:"instrument" yaml:"instrument"`
	Strategy   string  `json:"strategy" yaml:"strategy"`
	OrderSize  float64 `json:"order_size" yaml:"order_size"`
	Params     Params  `json:"params" yaml:"params"`
	Active     bool    `json:"active" yaml:"active"`
}

// Bot runs one strategy with a fixed order size. It toggles between
// Inactive and Active only; an inactive bot always holds.
type Bot struct {
	name       string
	instrument string
	kind       Kind
	orderSize  float64
	params     Params
	state      State

	fills   int
	rejects int
	lastErr string
}

func NewBot(cfg BotConfig) (*Bot, error) {
	if strings.TrimSpace(cfg.Name) == "" {
		return nil, errors.New("bot name is required")
	}
	if cfg.Instrument == "" {
		return nil, fmt.Errorf("bot %s: instrument is required", cfg.Name)
	}
	if !(cfg.OrderSize > 0) {
		return nil, fmt.Errorf("bot %s: order_size must be positive", cfg.Name)
	}
	kind, err := ParseKind(cfg.Strategy)
	if err != nil {
		return nil, fmt.Errorf("bot %s: %w", cfg.Name, err)
	}

	b := &Bot{
		name:       cfg.Name,
		instrument: cfg.Instrument,
		kind:       kind,
		orderSize:  cfg.OrderSize,
		params:     cfg.Params.withDefaults(),
	}
	b.SetActive(cfg.Active)
	return b, nil
}

func (b *Bot) Name() string { return b.name }

func (b *Bot) Instrument() string { return b.instrument }

func (b *Bot) Kind() Kind { return b.kind }

func (b *Bot) OrderSize() float64 { return b.orderSize }

func (b *Bot) Params() Params { return b.params }

func (b *Bot) State() State { return b.state }

func (b *Bot) Active() bool { return b.state == Active }

func (b *Bot) SetActive(on bool) {
	if on {
		b.state = Active
	} else {
		b.state = Inactive
	}
}

// Evaluate fills in the bot's order size and params and runs its strategy.
func (b *Bot) Evaluate(in Input) Action {
	if b.state != Active {
		return Hold
	}
	in.OrderSize = b.orderSize
	in.Params = b.params
	return Decide(b.kind, in)
}

// RecordResult counts a submitted order. A nil err is a fill.
func (b *Bot) RecordResult(err error) {
	if err != nil {
		b.rejects++
		b.lastErr = err.Error()
		return
	}
	b.fills++
}

// BotStatus is a read-only copy of a bot.
type BotStatus struct {
	Name       string  `json:"name"`
	Instrument string  `json:"instrument"`
	Strategy   Kind    `json:"strategy"`
	OrderSize  float64 `json:"order_size"`
	State      State   `json:"state"`
	Fills      int     `json:"fills"`
	Rejects    int     `json:"rejects"`
	LastError  string  `json:"last_error,omitempty"`
}

func (b *Bot) Status() BotStatus {
	return BotStatus{
		Name:       b.name,
		Instrument: b.instrument,
		Strategy:   b.kind,
		OrderSize:  b.orderSize,
		State:      b.state,
		Fills:      b.fills,
		Rejects:    b.rejects,
		LastError:  b.lastErr,
	}
}
