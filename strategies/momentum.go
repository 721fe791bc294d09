package strategies

import "github.com/rustyeddy/papersim/indicators"

// momentum buys after a rise of more than Threshold over Lookback ticks and
// sells after a fall of the same size.
func momentum(in Input) Action {
	change, err := indicators.Change(in.History, in.Params.Lookback)
	if err != nil {
		return Hold
	}
	switch {
	case change > in.Params.Threshold && in.canBuy():
		return Buy
	case change < -in.Params.Threshold && in.canSell():
		return Sell
	}
	return Hold
}
