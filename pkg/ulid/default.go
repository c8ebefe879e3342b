package ulid

import (
	"context"
	"crypto/rand"
)

// implicit is the factory behind New. It lives as long as the process, so IDs
// from New strictly increase across all callers. Its ChaCha20 entropy reader
// is only read under the factory mutex.
var implicit = NewFactory(WithEntropy(newChaChaReader(rand.Reader)))

// New returns an ID from the implicit factory.
func New() (ID, error) { return implicit.Next() }

// Make is like New but panics on error.
func Make() ID {
	id, err := New()
	if err != nil {
		panic(err)
	}
	return id
}

type key int

const factoryKey key = 0

// NewContext returns a copy of ctx carrying f.
func NewContext(ctx context.Context, f *Factory) context.Context {
	return context.WithValue(ctx, factoryKey, f)
}

// FromContext returns the Factory carried by ctx, if any.
func FromContext(ctx context.Context) (*Factory, bool) {
	f, ok := ctx.Value(factoryKey).(*Factory)
	return f, ok && f != nil
}

// NewFromContext returns an ID from the Factory in ctx, falling back to New.
func NewFromContext(ctx context.Context) (ID, error) {
	if f, ok := FromContext(ctx); ok {
		return f.Next()
	}
	return New()
}
