package ulid

import (
	"bytes"
	"crypto/rand"
	"errors"
	"io"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingReader counts reads from the wrapped reader.
type countingReader struct {
	r     io.Reader
	reads int
}

func (c *countingReader) Read(p []byte) (int, error) {
	c.reads++
	return c.r.Read(p)
}

func TestChaChaReaderFills(t *testing.T) {
	r := newChaChaReader(rand.Reader)

	a := make([]byte, 64)
	b := make([]byte, 64)
	n, err := r.Read(a)
	require.NoError(t, err)
	assert.Equal(t, 64, n)
	_, err = r.Read(b)
	require.NoError(t, err)

	assert.NotEqual(t, make([]byte, 64), a)
	assert.NotEqual(t, a, b)
}

func TestChaChaReaderDeterministicForSeed(t *testing.T) {
	seed := bytes.Repeat([]byte{0x07}, 44)

	a := make([]byte, 32)
	b := make([]byte, 32)
	_, err := newChaChaReader(bytes.NewReader(seed)).Read(a)
	require.NoError(t, err)
	_, err = newChaChaReader(bytes.NewReader(seed)).Read(b)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestChaChaReaderReseeds(t *testing.T) {
	seed := &countingReader{r: rand.Reader}
	r := newChaChaReader(seed)

	buf := make([]byte, 10)
	_, err := r.Read(buf)
	require.NoError(t, err)
	reads := seed.reads
	require.NotZero(t, reads)

	// exhaust the budget mid-read.
	r.left = 4
	_, err = r.Read(buf)
	require.NoError(t, err)
	assert.Greater(t, seed.reads, reads)
	assert.Equal(t, reseedAfter-6, r.left)
}

func TestChaChaReaderSeedFailure(t *testing.T) {
	boom := errors.New("boom")
	r := newChaChaReader(iotest.ErrReader(boom))

	n, err := r.Read(make([]byte, 10))
	assert.Zero(t, n)
	assert.ErrorIs(t, err, boom)

	f := NewFactory(WithEntropy(newChaChaReader(iotest.ErrReader(boom))))
	_, err = f.Next()
	assert.ErrorIs(t, err, ErrEntropy)
}
