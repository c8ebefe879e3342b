package ulid

import (
	"crypto/rand"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomID(t testing.TB) ID {
	t.Helper()
	var id ID
	_, err := rand.Read(id[:])
	require.NoError(t, err)
	return id
}

func TestEncodeKnownValues(t *testing.T) {
	tests := []struct {
		name string
		id   ID
		want string
	}{
		{"zero", Zero, "00000000000000000000000000"},
		{"max", ID{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, "7ZZZZZZZZZZZZZZZZZZZZZZZZZ"},
		{"counting bytes", ID{0x01, 0x23, 0x45, 0x67, 0x89, 0xAB, 0xCD, 0xEF, 0x00, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77}, "014D2PF2DBSQQG04926D25ASKQ"},
		{"lowest bits", ID{5: 0x01, 15: 0x01}, "00000000010000000000000001"},
		{"canonical", ID{0x01, 0x56, 0x3E, 0x3A, 0xB5, 0xD3, 0xD6, 0x76, 0x4C, 0x61, 0xEF, 0xB9, 0x93, 0x02, 0xBD, 0x5B}, "01ARZ3NDEKTSV4RRFFQ69G5FAV"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Encode(tt.id))

			got, err := Parse(tt.want)
			require.NoError(t, err)
			assert.Equal(t, tt.id, got)
		})
	}
}

func TestCanonicalTimestamp(t *testing.T) {
	id := MustParse("01ARZ3NDEKTSV4RRFFQ69G5FAV")
	assert.Equal(t, uint64(1469922850259), id.Timestamp())
}

func TestRoundTrip(t *testing.T) {
	for i := 0; i < 1000; i++ {
		id := randomID(t)
		s := id.String()
		require.Len(t, s, EncodedSize)

		got, err := Decode([]byte(s))
		require.NoError(t, err)
		require.Equal(t, id, got)
	}
}

func TestEncodeUsesAlphabetOnly(t *testing.T) {
	for i := 0; i < 500; i++ {
		s := randomID(t).String()
		for _, c := range s {
			require.Truef(t, strings.ContainsRune(alphabet, c), "%q contains %q", s, c)
		}
		require.False(t, strings.ContainsAny(s, "ILOUilou"))
	}
}

func TestEncodingSortsLikeBytes(t *testing.T) {
	for i := 0; i < 1000; i++ {
		a, b := randomID(t), randomID(t)
		// share the timestamp half the time to exercise ties.
		if i%2 == 0 {
			copy(b[:6], a[:6])
		}
		require.Equal(t, a.Compare(b), strings.Compare(a.String(), b.String()))
	}
}

func TestDecodeCaseInsensitive(t *testing.T) {
	id := randomID(t)
	lower := strings.ToLower(id.String())

	got, err := Parse(lower)
	require.NoError(t, err)
	assert.Equal(t, id, got)
	assert.Equal(t, strings.ToUpper(lower), got.String())
}

func TestDecodeInvalidCharacter(t *testing.T) {
	tests := []struct {
		name  string
		input string
		pos   int
	}{
		{"contains I", "01ARZ3NDIKTSV4RRFFQ69G5FAV", 8},
		{"contains L", "01ARZ3NDLKTSV4RRFFQ69G5FAV", 8},
		{"contains O", "01ARZ3NDOKTSV4RRFFQ69G5FAV", 8},
		{"contains U", "01ARZ3NDUKTSV4RRFFQ69G5FAV", 8},
		{"lowercase u", "01ARZ3NDEKTSV4RRFFQ69G5FAu", 25},
		{"space", "01ARZ3NDE KTSV4RRFFQ69G5FA", 9},
		{"dash", "-1ARZ3NDEKTSV4RRFFQ69G5FAV", 0},
		{"non ascii", "01ARZ3NDEKTSV4RRFFQ69G5FA\xff", 25},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			id, err := Parse(tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidCharacter))
			assert.Equal(t, Zero, id)

			var symErr *SymbolError
			require.True(t, errors.As(err, &symErr))
			assert.Equal(t, tt.pos, symErr.Pos)
			assert.Equal(t, tt.input[tt.pos], symErr.Char)
		})
	}
}

func TestDecodeOverflow(t *testing.T) {
	for _, lead := range "89ABCDEFGHJKMNPQRSTVWXYZ" {
		s := string(lead) + strings.Repeat("0", EncodedSize-1)
		id, err := Parse(s)
		assert.ErrorIsf(t, err, ErrOverflow, "input %s", s)
		assert.Equal(t, Zero, id)
	}

	_, err := Parse("7ZZZZZZZZZZZZZZZZZZZZZZZZZ")
	assert.NoError(t, err)
}

func TestDecodeLength(t *testing.T) {
	s := Make().String()

	_, err := Decode([]byte(s[:EncodedSize-1]))
	assert.ErrorIs(t, err, ErrDataSize)

	_, err = Decode(nil)
	assert.ErrorIs(t, err, ErrDataSize)

	// Decode reads only the first 26 bytes.
	got, err := Decode([]byte(s + "!!trailing"))
	require.NoError(t, err)
	assert.Equal(t, s, got.String())

	// Parse and UnmarshalText are strict about length.
	_, err = Parse(s + "0")
	assert.ErrorIs(t, err, ErrDataSize)

	var id ID
	assert.ErrorIs(t, id.UnmarshalText([]byte(s+"0")), ErrDataSize)
}

func TestEncodeTo(t *testing.T) {
	id := randomID(t)

	small := make([]byte, EncodedSize-1)
	assert.ErrorIs(t, id.EncodeTo(small), ErrBufferSize)

	buf := []byte(strings.Repeat("#", EncodedSize+4))
	require.NoError(t, id.EncodeTo(buf))
	assert.Equal(t, id.String(), string(buf[:EncodedSize]))
	assert.Equal(t, "####", string(buf[EncodedSize:]))
}

func TestAppendText(t *testing.T) {
	id := randomID(t)
	got := id.AppendText([]byte("id="))
	assert.Equal(t, "id="+id.String(), string(got))
}

func TestMustParsePanics(t *testing.T) {
	assert.Panics(t, func() { MustParse("not a ulid") })
}

func BenchmarkEncode(b *testing.B) {
	id := randomID(b)
	buf := make([]byte, EncodedSize)
	for i := 0; i < b.N; i++ {
		_ = id.EncodeTo(buf)
	}
}

func BenchmarkDecode(b *testing.B) {
	s := []byte(randomID(b).String())
	for i := 0; i < b.N; i++ {
		_, _ = Decode(s)
	}
}
