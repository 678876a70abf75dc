package uartx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBus_Decode(t *testing.T) {
	u := newTestUART(t)
	b := NewBus(DefaultBase, u.Regs)

	v, ok := b.Read32(DefaultBase + uint32(RegBaud))
	require.True(t, ok)
	require.Equal(t, uint32(115200), v)

	v, ok = b.Read32(DefaultBase + uint32(RegStatus))
	require.True(t, ok)
	require.Equal(t, uint32(StatusTxEmpty|StatusRxEmpty), v)

	_, ok = b.Read32(DefaultBase - 4)
	require.False(t, ok)
	_, ok = b.Read32(DefaultBase + regBlockSize)
	require.False(t, ok)
	_, ok = b.Read32(DefaultBase + 2)
	require.False(t, ok)
	require.False(t, b.Contains(DefaultBase+0x10))
	require.True(t, b.Contains(DefaultBase+0x0F))
}

func TestBus_Write32MatchesRegisterPath(t *testing.T) {
	u := newTestUART(t)
	b := NewBus(DefaultBase, u.Regs)

	u.SimulateReceive(seq(FIFODepth+1, 0))
	require.True(t, u.HasError())

	require.True(t, b.Write32(DefaultBase+uint32(RegStatus), uint32(StatusOverrun)))
	require.False(t, u.HasError())
	require.True(t, u.Regs.IsStatusBitSet(StatusRxFull))

	require.True(t, b.Write32(DefaultBase+uint32(RegControl), 0))
	require.False(t, u.CanTransmit())
	require.False(t, b.Write32(0, 1))
}

func TestBus_ByteLanes(t *testing.T) {
	u := newTestUART(t)
	b := NewBus(DefaultBase, u.Regs)
	baud := DefaultBase + uint32(RegBaud)

	require.True(t, b.Write32(baud, 0x11223344))
	for lane, want := range []uint8{0x44, 0x33, 0x22, 0x11} {
		got, ok := b.Read8(baud + uint32(lane))
		require.True(t, ok)
		require.Equal(t, want, got)
	}

	require.True(t, b.Write8(baud+2, 0xAA))
	require.Equal(t, uint32(0x11AA3344), u.Regs.Baud())

	// Data keeps the low byte only.
	data := DefaultBase + uint32(RegData)
	require.True(t, b.Write8(data, 0x5A))
	require.True(t, b.Write8(data+1, 0x77))
	require.Equal(t, uint32(0x5A), u.Regs.Data())
}

func TestBus_Write8StatusLeavesOtherLanes(t *testing.T) {
	u := newTestUART(t)
	b := NewBus(DefaultBase, u.Regs)
	u.Regs.SetStatusBit(StatusOverrun | StatusFrameError)

	status := DefaultBase + uint32(RegStatus)
	require.True(t, b.Write8(status+1, 0xFF))
	require.True(t, u.HasError())

	require.True(t, b.Write8(status, uint8(StatusFrameError)))
	require.True(t, u.Regs.IsStatusBitSet(StatusOverrun))
	require.False(t, u.Regs.IsStatusBitSet(StatusFrameError))
}
