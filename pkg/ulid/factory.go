package ulid

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"sync"
	"time"
)

// Factory produces IDs that strictly increase for as long as the Factory lives.
//
// Within one millisecond, and whenever the clock goes backwards, the randomness
// of the previous ID is incremented instead of drawn again. When the 80-bit
// randomness overflows it resets to zero and the timestamp advances by one,
// so the timestamp of such an ID may run ahead of the wall clock.
//
// A Factory is safe for concurrent use.
type Factory struct {
	mu      sync.Mutex
	entropy io.Reader
	now     func() time.Time

	// state of the last ID returned.
	seen bool
	ms   uint64
	hi   uint16
	lo   uint64
}

// Option configures a Factory.
type Option func(*Factory)

// WithEntropy sets the source of randomness. The default is crypto/rand.Reader.
func WithEntropy(r io.Reader) Option {
	return func(f *Factory) {
		if r != nil {
			f.entropy = r
		}
	}
}

// WithClock sets the time source. The default is time.Now.
func WithClock(now func() time.Time) Option {
	return func(f *Factory) {
		if now != nil {
			f.now = now
		}
	}
}

// NewFactory creates a Factory with no prior state.
func NewFactory(opts ...Option) *Factory {
	f := &Factory{
		entropy: rand.Reader,
		now:     time.Now,
	}

	for _, optFn := range opts {
		optFn(f)
	}

	return f
}

// Next returns a new ID.
// Errors match ErrClock, ErrEntropy or ErrMonotonicOverflow and leave the Factory unchanged.
func (f *Factory) Next() (ID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.next()
}

// MustNext is like Next but panics on error.
func (f *Factory) MustNext() ID {
	id, err := f.Next()
	if err != nil {
		panic(err)
	}
	return id
}

// next requires exclusive access to f.
func (f *Factory) next() (ID, error) {
	ms, err := timestamp(f.now())
	if err != nil {
		return Zero, err
	}

	if !f.seen || ms > f.ms {
		var r [10]byte
		if _, err := io.ReadFull(f.entropy, r[:]); err != nil {
			return Zero, fmt.Errorf("%w: %w", ErrEntropy, err)
		}

		f.seen = true
		f.ms = ms
		f.hi = binary.BigEndian.Uint16(r[:2])
		f.lo = binary.BigEndian.Uint64(r[2:])
		return compose(f.ms, f.hi, f.lo), nil
	}

	// same millisecond, or the clock went backwards: continue from the last ID.
	ms, hi, lo := f.ms, f.hi, f.lo+1
	if lo == 0 {
		hi++
		if hi == 0 {
			if ms == MaxTime {
				return Zero, ErrMonotonicOverflow
			}
			ms++
		}
	}

	f.ms, f.hi, f.lo = ms, hi, lo
	return compose(f.ms, f.hi, f.lo), nil
}

func timestamp(t time.Time) (uint64, error) {
	ms := t.UnixMilli()
	if ms < 0 || uint64(ms) > MaxTime {
		return 0, fmt.Errorf("%w: %s", ErrClock, t.UTC().Format(time.RFC3339Nano))
	}
	return uint64(ms), nil
}
