package frame

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slices"
)

func TestEncodeVerify(t *testing.T) {
	f, err := Encode(nil, []byte("hello"))
	require.NoError(t, err)
	require.Len(t, f, 5+Overhead)
	require.Equal(t, Sync, f[0])

	payload, err := Verify(f)
	require.NoError(t, err)
	require.Equal(t, "hello", string(payload))

	f[3] ^= 0x01
	_, err = Verify(f)
	require.ErrorIs(t, err, ErrChecksum)

	_, err = Verify([]byte{Sync})
	require.Error(t, err)
}

func TestEncode_TooLong(t *testing.T) {
	_, err := Encode(nil, make([]byte, MaxPayload+1))
	require.ErrorIs(t, err, ErrTooLong)
}

func TestDecoder_SplitStream(t *testing.T) {
	var stream []byte
	stream = append(stream, 0x00, 0x13) // noise
	stream, _ = Encode(stream, []byte("one"))
	stream, _ = Encode(stream, nil)
	stream, _ = Encode(stream, []byte("three"))

	var d Decoder
	var got []string
	for i := 0; i < len(stream); i += 4 {
		end := min(i+4, len(stream))
		d.Feed(stream[i:end], func(p []byte) { got = append(got, string(p)) })
	}

	require.True(t, slices.Equal([]string{"one", "", "three"}, got), "%q", got)
	require.Equal(t, 2, d.Skipped)
	require.Zero(t, d.Corrupt)
}

func TestDecoder_CorruptFrame(t *testing.T) {
	bad, _ := Encode(nil, []byte("bad"))
	bad[len(bad)-1]++
	good, _ := Encode(nil, []byte("good"))

	var d Decoder
	var got []string
	d.Feed(append(bad, good...), func(p []byte) { got = append(got, string(p)) })
	require.Equal(t, []string{"good"}, got)
	require.Equal(t, 1, d.Corrupt)
}
