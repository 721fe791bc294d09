package strategies

import "github.com/rustyeddy/papersim/indicators"

// emaCross trades the crossover of a fast EMA (Lookback/2, at least 2) and a
// slow EMA (Lookback, at least fast+1). It enters only on the tick the fast
// line crosses the slow one, never while they stay apart.
func emaCross(in Input) Action {
	slow := in.Params.Lookback
	fast := slow / 2
	if fast < 2 {
		fast = 2
	}
	if slow <= fast {
		slow = fast + 1
	}
	if len(in.History) <= slow {
		return Hold
	}

	prev, ok := emaDiff(in.History[:len(in.History)-1], fast, slow)
	if !ok {
		return Hold
	}
	diff, ok := emaDiff(in.History, fast, slow)
	if !ok {
		return Hold
	}

	switch {
	case prev <= 0 && diff > 0 && in.canBuy():
		return Buy
	case prev >= 0 && diff < 0 && in.canSell():
		return Sell
	}
	return Hold
}

func emaDiff(values []float64, fast, slow int) (float64, bool) {
	f, err := indicators.EMA(values, fast)
	if err != nil {
		return 0, false
	}
	s, err := indicators.EMA(values, slow)
	if err != nil {
		return 0, false
	}
	return f - s, true
}
