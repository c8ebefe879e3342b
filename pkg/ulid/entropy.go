package ulid

import (
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20"
)

// reseedAfter bounds the keystream read from one key, well below the
// 256 GiB chacha20 counter limit.
const reseedAfter = 1 << 30

// chachaReader is a CSPRNG: a ChaCha20 keystream keyed from seed.
// It is not safe for concurrent use.
type chachaReader struct {
	seed   io.Reader
	cipher *chacha20.Cipher
	left   int
}

func newChaChaReader(seed io.Reader) *chachaReader {
	return &chachaReader{seed: seed}
}

func (r *chachaReader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if r.cipher == nil || r.left == 0 {
			if err := r.reseed(); err != nil {
				return n, err
			}
		}

		chunk := p[n:]
		if len(chunk) > r.left {
			chunk = chunk[:r.left]
		}
		for i := range chunk {
			chunk[i] = 0
		}
		r.cipher.XORKeyStream(chunk, chunk)
		r.left -= len(chunk)
		n += len(chunk)
	}
	return n, nil
}

func (r *chachaReader) reseed() error {
	var seed [chacha20.KeySize + chacha20.NonceSize]byte
	if _, err := io.ReadFull(r.seed, seed[:]); err != nil {
		return fmt.Errorf("seed chacha20: %w", err)
	}

	c, err := chacha20.NewUnauthenticatedCipher(seed[:chacha20.KeySize], seed[chacha20.KeySize:])
	if err != nil {
		return fmt.Errorf("create chacha20 cipher: %w", err)
	}

	r.cipher = c
	r.left = reseedAfter
	return nil
}
