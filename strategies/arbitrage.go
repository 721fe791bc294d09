package strategies

import "github.com/rustyeddy/papersim/indicators"

// arbitrage compares the traded price against a reference quote (the
// instrument's base price stands in for a second venue). Without a
// reference it falls back to a fast EMA of the history.
func arbitrage(in Input) Action {
	ref := in.Reference
	if !(ref > 0) {
		period := in.Params.Lookback / 2
		if period < 1 {
			period = 1
		}
		ema, err := indicators.EMA(in.History, period)
		if err != nil {
			return Hold
		}
		ref = ema
	}

	switch {
	case in.Price < ref*(1-in.Params.Threshold) && in.canBuy():
		return Buy
	case in.Price > ref*(1+in.Params.Threshold) && in.canSell():
		return Sell
	}
	return Hold
}
