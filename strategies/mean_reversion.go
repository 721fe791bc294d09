package strategies

import "github.com/rustyeddy/papersim/indicators"

// meanReversion fades moves away from the Lookback-tick simple moving
// average.
func meanReversion(in Input) Action {
	sma, err := indicators.SMA(in.History, in.Params.Lookback)
	if err != nil || sma <= 0 {
		return Hold
	}
	dev := (in.Price - sma) / sma
	switch {
	case dev < -in.Params.Threshold && in.canBuy():
		return Buy
	case dev > in.Params.Threshold && in.canSell():
		return Sell
	}
	return Hold
}
