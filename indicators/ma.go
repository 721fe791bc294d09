package indicators

import "fmt"

// SMA calculates the Simple Moving Average of the last period values.
func SMA(values []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(values) < period {
		return 0, fmt.Errorf("not enough values: need %d, got %d", period, len(values))
	}

	sum := 0.0
	for _, v := range values[len(values)-period:] {
		sum += v
	}
	return sum / float64(period), nil
}

// EMA calculates the Exponential Moving Average for the given period,
// seeded with the SMA of the first period values.
func EMA(values []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(values) < period {
		return 0, fmt.Errorf("not enough values: need %d, got %d", period, len(values))
	}

	multiplier := 2.0 / float64(period+1)

	ema := 0.0
	for _, v := range values[:period] {
		ema += v
	}
	ema /= float64(period)

	for _, v := range values[period:] {
		ema = (v-ema)*multiplier + ema
	}
	return ema, nil
}

// Change returns the fractional change between the value period steps ago
// and the latest value.
func Change(values []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(values) <= period {
		return 0, fmt.Errorf("not enough values: need %d, got %d", period+1, len(values))
	}
	past := values[len(values)-1-period]
	if past == 0 {
		return 0, fmt.Errorf("reference value is zero")
	}
	return (values[len(values)-1] - past) / past, nil
}
