package strategies

// noop never trades.
func noop(Input) Action { return Hold }
