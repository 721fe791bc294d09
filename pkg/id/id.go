package id

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Generator hands out monotonic ULIDs. IDs generated within the same
// millisecond remain lexicographically increasing.
type Generator struct {
	mu      sync.Mutex
	entropy io.Reader
	now     func() time.Time
}

// NewGenerator builds a generator whose entropy comes from a PRNG seeded
// with seed. Passing the same seed and clock yields the same IDs.
func NewGenerator(seed int64, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{
		entropy: ulid.Monotonic(rand.New(rand.NewSource(seed)), 0),
		now:     now,
	}
}

// New returns the next ULID string.
func (g *Generator) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(g.now().UTC()), g.entropy)
	if err != nil {
		// Only possible if the clock runs backwards past the monotonic window.
		panic(err)
	}
	return id.String()
}

var std = NewGenerator(cryptoSeed(), nil)

// New returns a ULID string from the process-wide generator.
//
// ULIDs sort by generation time, which keeps transaction logs and journal
// tables naturally ordered.
func New() string {
	return std.New()
}

// Time extracts the millisecond timestamp embedded in a ULID.
func Time(s string) (time.Time, error) {
	id, err := ulid.ParseStrict(s)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(id.Time()), nil
}

func cryptoSeed() int64 {
	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return seed
}
