package ulid

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Crockford's base32, without I, L, O and U.
const alphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

const invalid = 0xFF

// dec maps a byte to its 5-bit value, case-insensitively, or to invalid.
var dec [256]byte

func init() {
	for i := range dec {
		dec[i] = invalid
	}
	for i := 0; i < len(alphabet); i++ {
		c := alphabet[i]
		dec[c] = byte(i)
		if c >= 'A' && c <= 'Z' {
			dec[c+'a'-'A'] = byte(i)
		}
	}
}

var (
	// ErrDataSize is returned when decoding input of the wrong length.
	ErrDataSize = errors.New("ulid: bad data size when decoding")

	// ErrBufferSize is returned when the destination can't hold EncodedSize bytes.
	ErrBufferSize = errors.New("ulid: buffer too small for encoding")

	// ErrOverflow is returned when the text encodes a value larger than 128 bits.
	ErrOverflow = errors.New("ulid: text value larger than 128 bits")

	// ErrInvalidCharacter is matched by every *SymbolError.
	ErrInvalidCharacter = errors.New("ulid: invalid character")
)

// SymbolError reports a byte outside the base32 alphabet.
type SymbolError struct {
	Pos  int
	Char byte
}

func (e *SymbolError) Error() string {
	return fmt.Sprintf("ulid: invalid character %q at position %d", e.Char, e.Pos)
}

// Is makes errors.Is(err, ErrInvalidCharacter) hold.
func (e *SymbolError) Is(target error) bool { return target == ErrInvalidCharacter }

// Encode returns the 26 character text form of id.
func Encode(id ID) string { return id.String() }

// String implements fmt.Stringer.
func (id ID) String() string {
	var b [EncodedSize]byte
	id.encode(b[:])
	return string(b[:])
}

// EncodeTo writes exactly EncodedSize bytes to the start of dst.
func (id ID) EncodeTo(dst []byte) error {
	if len(dst) < EncodedSize {
		return ErrBufferSize
	}
	id.encode(dst)
	return nil
}

// AppendText appends the text form of id to b.
func (id ID) AppendText(b []byte) []byte {
	var buf [EncodedSize]byte
	id.encode(buf[:])
	return append(b, buf[:]...)
}

// MarshalText implements encoding.TextMarshaler.
func (id ID) MarshalText() ([]byte, error) {
	b := make([]byte, EncodedSize)
	id.encode(b)
	return b, nil
}

// UnmarshalText implements encoding.TextUnmarshaler. The input must be exactly EncodedSize bytes.
func (id *ID) UnmarshalText(text []byte) error {
	if len(text) != EncodedSize {
		return ErrDataSize
	}
	v, err := Decode(text)
	if err != nil {
		return err
	}
	*id = v
	return nil
}

// encode fills dst[:26] with 5-bit groups, least significant last.
// The first group only carries the top 3 bits.
func (id ID) encode(dst []byte) {
	hi := binary.BigEndian.Uint64(id[:8])
	lo := binary.BigEndian.Uint64(id[8:])
	for i := EncodedSize - 1; i >= 0; i-- {
		dst[i] = alphabet[lo&0x1F]
		lo = lo>>5 | hi<<59
		hi >>= 5
	}
}

// Decode parses the first EncodedSize bytes of text. Trailing bytes are ignored.
// On error it returns Zero.
func Decode(text []byte) (ID, error) {
	if len(text) < EncodedSize {
		return Zero, ErrDataSize
	}

	var hi, lo uint64
	for i := 0; i < EncodedSize; i++ {
		v := dec[text[i]]
		if v == invalid {
			return Zero, &SymbolError{Pos: i, Char: text[i]}
		}
		if i == 0 && v > 7 {
			return Zero, ErrOverflow
		}
		hi = hi<<5 | lo>>59
		lo = lo<<5 | uint64(v)
	}

	var id ID
	binary.BigEndian.PutUint64(id[:8], hi)
	binary.BigEndian.PutUint64(id[8:], lo)
	return id, nil
}

// Parse decodes s, which must be exactly EncodedSize characters.
func Parse(s string) (ID, error) {
	if len(s) != EncodedSize {
		return Zero, ErrDataSize
	}
	return Decode([]byte(s))
}

// MustParse is like Parse but panics on error.
func MustParse(s string) ID {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}
