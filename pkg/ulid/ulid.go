// Package ulid implements Universally Unique Lexicographically Sortable Identifiers.
//
// An ID is 16 bytes: a 48-bit big-endian millisecond timestamp followed by
// 80 bits of randomness. The text form is 26 characters of Crockford's base32
// and sorts the same way as the bytes do.
//
// IDs come from a Factory, which keeps IDs created in the same millisecond
// strictly increasing:
//
//	f := ulid.NewFactory()
//	id, err := f.Next()
//
// New and Make use an implicit factory and need no setup.
package ulid

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

// ID is a ULID. The zero value is Zero.
type ID [16]byte

const (
	// EncodedSize is the length of the text form of an ID.
	EncodedSize = 26

	// MaxTime is the largest timestamp an ID can hold, in milliseconds since the Unix epoch.
	MaxTime uint64 = 1<<48 - 1
)

// Zero is the ID with all bits unset. A factory returns it only when its clock
// reads the Unix epoch and its entropy is all zeros.
var Zero ID

var (
	// ErrClock is returned when the clock reads a time that can't be stored in an ID.
	ErrClock = errors.New("ulid: clock reading out of range")

	// ErrEntropy is returned when the entropy source fails.
	ErrEntropy = errors.New("ulid: read entropy")

	// ErrMonotonicOverflow is returned when the randomness carry would push
	// the timestamp past MaxTime.
	ErrMonotonicOverflow = errors.New("ulid: monotonic sequence exhausted")

	// ErrBigTime is returned when a timestamp is larger than MaxTime.
	ErrBigTime = errors.New("ulid: timestamp larger than 48 bits")
)

// FromParts builds an ID from a millisecond timestamp and 80 bits of randomness.
func FromParts(ms uint64, randomness [10]byte) (ID, error) {
	if ms > MaxTime {
		return Zero, fmt.Errorf("%w: %d", ErrBigTime, ms)
	}

	var id ID
	putTimestamp(&id, ms)
	copy(id[6:], randomness[:])
	return id, nil
}

// Equal reports whether a and b hold the same 128 bits.
func Equal(a, b ID) bool { return a == b }

// Equal reports whether id and other hold the same 128 bits.
func (id ID) Equal(other ID) bool { return id == other }

// Compare returns -1, 0 or 1 ordering the IDs as unsigned big-endian integers.
// The order is the same as ordering by timestamp, then randomness.
func (id ID) Compare(other ID) int { return bytes.Compare(id[:], other[:]) }

// IsZero reports whether id is Zero.
func (id ID) IsZero() bool { return id == Zero }

// Timestamp returns the 48-bit millisecond timestamp.
func (id ID) Timestamp() uint64 {
	return uint64(id[5]) | uint64(id[4])<<8 |
		uint64(id[3])<<16 | uint64(id[2])<<24 |
		uint64(id[1])<<32 | uint64(id[0])<<40
}

// TimestampMs returns the timestamp as a signed integer.
// It is never negative for an ID held in this type.
func (id ID) TimestampMs() int64 { return int64(id.Timestamp()) }

// Time returns the timestamp as a UTC time.
func (id ID) Time() time.Time { return time.UnixMilli(id.TimestampMs()).UTC() }

// Randomness returns the 80 random bits.
func (id ID) Randomness() [10]byte {
	var r [10]byte
	copy(r[:], id[6:])
	return r
}

// Bytes returns a copy of the 16 raw bytes.
func (id ID) Bytes() []byte {
	b := make([]byte, len(id))
	copy(b, id[:])
	return b
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (id ID) MarshalBinary() ([]byte, error) { return id.Bytes(), nil }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (id *ID) UnmarshalBinary(data []byte) error {
	if len(data) != len(*id) {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrDataSize, len(data), len(*id))
	}
	copy((*id)[:], data)
	return nil
}

func putTimestamp(id *ID, ms uint64) {
	id[0] = byte(ms >> 40)
	id[1] = byte(ms >> 32)
	id[2] = byte(ms >> 24)
	id[3] = byte(ms >> 16)
	id[4] = byte(ms >> 8)
	id[5] = byte(ms)
}

// compose packs a timestamp and the randomness, held as its top 16 and low 64 bits.
func compose(ms uint64, hi uint16, lo uint64) ID {
	var id ID
	putTimestamp(&id, ms)
	binary.BigEndian.PutUint16(id[6:8], hi)
	binary.BigEndian.PutUint64(id[8:], lo)
	return id
}
