// Package strategies holds the trading rules bots run on every clock tick.
//
// A strategy is a pure function of the instrument's recent prices and the
// account's position and cash. Kind is a closed set: adding a strategy means
// adding a constant and a case in Decide, nothing in the clock or ledger.
package strategies

import (
	"fmt"
	"strings"
)

type Action int

const (
	Hold Action = iota
	Buy
	Sell
)

func (a Action) String() string {
	switch a {
	case Hold:
		return "HOLD"
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

type Kind string

const (
	Noop          Kind = "noop"
	Momentum      Kind = "momentum"
	Arbitrage     Kind = "arbitrage"
	MeanReversion Kind = "mean-reversion"
	EMACross      Kind = "ema-cross"
)

// Kinds lists every supported strategy.
func Kinds() []Kind {
	return []Kind{Noop, Momentum, Arbitrage, MeanReversion, EMACross}
}

// ParseKind accepts the canonical names plus a few spellings.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "noop", "none", "":
		return Noop, nil
	case "momentum", "trend":
		return Momentum, nil
	case "arbitrage", "arb":
		return Arbitrage, nil
	case "mean-reversion", "meanreversion", "mean_reversion", "reversion":
		return MeanReversion, nil
	case "ema-cross", "ema_cross", "emacross", "crossover":
		return EMACross, nil
	default:
		return "", fmt.Errorf("unknown strategy %q (supported: noop, momentum, arbitrage, mean-reversion, ema-cross)", name)
	}
}

// Params tunes a strategy. Zero values fall back to DefaultParams.
type Params struct {
	Lookback  int     `json:"lookback" yaml:"lookback"`
	Threshold float64 `json:"threshold" yaml:"threshold"`
}

func DefaultParams() Params {
	return Params{Lookback: 10, Threshold: 0.01}
}

func (p Params) withDefaults() Params {
	def := DefaultParams()
	if p.Lookback <= 0 {
		p.Lookback = def.Lookback
	}
	if !(p.Threshold > 0) {
		p.Threshold = def.Threshold
	}
	return p
}

// Input is everything a strategy may look at.
type Input struct {
	History   []float64 // oldest first, includes the current price
	Price     float64
	Reference float64 // external fair-value quote, used by Arbitrage
	Position  float64 // quantity held
	Cash      float64
	OrderSize float64
	Params    Params
}

func (in Input) canBuy() bool {
	return in.OrderSize > 0 && in.Cash >= in.OrderSize*in.Price
}

func (in Input) canSell() bool {
	return in.OrderSize > 0 && in.Position >= in.OrderSize
}

// Decide runs strategy k on in.
func Decide(k Kind, in Input) Action {
	in.Params = in.Params.withDefaults()
	if !(in.Price > 0) {
		return Hold
	}

	switch k {
	case Noop:
		return noop(in)
	case Momentum:
		return momentum(in)
	case Arbitrage:
		return arbitrage(in)
	case MeanReversion:
		return meanReversion(in)
	case EMACross:
		return emaCross(in)
	default:
		return Hold
	}
}
