package uartx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRingBuffer_PutGet(t *testing.T) {
	var rb RingBuffer
	require.True(t, rb.Empty())
	require.Equal(t, FIFODepth, rb.Size())

	for i := 0; i < FIFODepth; i++ {
		require.True(t, rb.Put(byte(i)))
	}
	require.True(t, rb.Full())
	require.Zero(t, rb.Free())
	require.False(t, rb.Put(0xFF))
	// head wrapped back onto tail; only count tells full from empty.
	require.Equal(t, rb.head, rb.tail)

	for i := 0; i < FIFODepth; i++ {
		v, ok := rb.Get()
		require.True(t, ok)
		require.Equal(t, byte(i), v)
	}
	_, ok := rb.Get()
	require.False(t, ok)
	require.Equal(t, rb.head, rb.tail)
	require.True(t, rb.Empty())
}

func TestRingBuffer_DiscardAndPeek(t *testing.T) {
	var rb RingBuffer
	for i := 0; i < 10; i++ {
		rb.Put(byte(i))
	}

	require.Equal(t, 3, rb.Discard(3))
	v, ok := rb.Peek(0)
	require.True(t, ok)
	require.Equal(t, byte(3), v)
	_, ok = rb.Peek(7)
	require.False(t, ok)
	_, ok = rb.Peek(-1)
	require.False(t, ok)

	require.Zero(t, rb.Discard(0))
	require.Zero(t, rb.Discard(-2))
	require.Equal(t, 7, rb.Discard(50))
	require.True(t, rb.Empty())
}

func TestRingBuffer_Wraparound(t *testing.T) {
	var rb RingBuffer
	for round := 0; round < 5; round++ {
		for i := 0; i < 11; i++ {
			require.True(t, rb.Put(byte(round*11+i)))
		}
		for i := 0; i < 11; i++ {
			v, ok := rb.Get()
			require.True(t, ok)
			require.Equal(t, byte(round*11+i), v)
		}
	}
	require.Equal(t, (5*11)%FIFODepth, rb.head)
}

func TestRingBuffer_Clear(t *testing.T) {
	var rb RingBuffer
	rb.Put(1)
	rb.Put(2)
	rb.Get()
	rb.Clear()
	require.True(t, rb.Empty())
	require.Zero(t, rb.head)
	require.Zero(t, rb.tail)
}
