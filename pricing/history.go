package pricing

import "github.com/rustyeddy/papersim/internal/ring"

// PricePoint is one sample of an instrument's price.
type PricePoint struct {
	Tick   int64   `json:"tick"`
	Price  float64 `json:"price"`
	Volume float64 `json:"volume"`
}

// History is a bounded, append-only price series. The oldest point is
// evicted once the capacity is reached.
type History struct {
	buf *ring.Buffer[PricePoint]
}

func NewHistory(capacity int) *History {
	return &History{buf: ring.New[PricePoint](capacity)}
}

func (h *History) Append(p PricePoint) { h.buf.Push(p) }

func (h *History) Len() int { return h.buf.Len() }

func (h *History) Cap() int { return h.buf.Cap() }

func (h *History) Last() (PricePoint, bool) { return h.buf.Last() }

// Points returns a copy of the series, oldest first.
func (h *History) Points() []PricePoint { return h.buf.Items() }

// Prices returns just the price column, oldest first.
func (h *History) Prices() []float64 {
	pts := h.buf.Items()
	out := make([]float64, len(pts))
	for i, p := range pts {
		out[i] = p.Price
	}
	return out
}
