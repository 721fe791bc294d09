// Package market holds the static definitions of tradable instruments and
// the sparse correlation table between them.
package market

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	ErrUnknownInstrument   = errors.New("unknown instrument")
	ErrDuplicateInstrument = errors.New("duplicate instrument")
	ErrInvalidInstrument   = errors.New("invalid instrument")
	ErrInvalidCorrelation  = errors.New("invalid correlation")
	ErrRegistryFrozen      = errors.New("registry is frozen")
)

type Category string

const (
	CategoryCommodity  Category = "commodity"
	CategoryRealEstate Category = "real-estate"
	CategorySovereign  Category = "sovereign"
	CategoryEquity     Category = "equity"
	CategoryCrypto     Category = "crypto"
)

// Instrument is immutable once registered.
type Instrument struct {
	ID         string   `json:"id" yaml:"id"`
	Name       string   `json:"name" yaml:"name"`
	Symbol     string   `json:"symbol" yaml:"symbol"`
	BasePrice  float64  `json:"base_price" yaml:"base_price"`
	Volatility float64  `json:"volatility" yaml:"volatility"`
	Category   Category `json:"category" yaml:"category"`
}

// Validate checks the fields the price engine relies on.
func (i Instrument) Validate() error {
	if strings.TrimSpace(i.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidInstrument)
	}
	if !(i.BasePrice > 0) || math.IsInf(i.BasePrice, 0) {
		return fmt.Errorf("%w: %s base_price must be positive", ErrInvalidInstrument, i.ID)
	}
	if !(i.Volatility > 0 && i.Volatility < 1) {
		return fmt.Errorf("%w: %s volatility must be in (0,1)", ErrInvalidInstrument, i.ID)
	}
	return nil
}

// CorrelationEdge is a directed influence of From's price delta on To's.
type CorrelationEdge struct {
	From   string  `json:"from" yaml:"from"`
	To     string  `json:"to" yaml:"to"`
	Factor float64 `json:"factor" yaml:"factor"`
}
