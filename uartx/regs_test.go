package uartx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegisters_PowerOn(t *testing.T) {
	r := NewRegisters()

	require.Zero(t, r.ReadRegister(RegData))
	require.Equal(t, uint32(StatusTxEmpty|StatusRxEmpty), r.ReadRegister(RegStatus))
	require.Zero(t, r.ReadRegister(RegControl))
	require.Zero(t, r.ReadRegister(RegBaud))
	require.False(t, r.IsEnabled())
}

func TestRegisters_BitLayout(t *testing.T) {
	require.Equal(t, Offset(0x00), RegData)
	require.Equal(t, Offset(0x04), RegStatus)
	require.Equal(t, Offset(0x08), RegControl)
	require.Equal(t, Offset(0x0C), RegBaud)

	require.Equal(t, Status(0x01), StatusTxEmpty)
	require.Equal(t, Status(0x02), StatusTxFull)
	require.Equal(t, Status(0x04), StatusRxEmpty)
	require.Equal(t, Status(0x08), StatusRxFull)
	require.Equal(t, Status(0x10), StatusFrameError)
	require.Equal(t, Status(0x20), StatusOverrun)

	require.Equal(t, Control(0x01), CtrlEnable)
	require.Equal(t, Control(0x02), CtrlTxEnable)
	require.Equal(t, Control(0x04), CtrlRxEnable)
	require.Equal(t, Control(0x08), CtrlParityEn)
	require.Equal(t, Control(0x10), CtrlParityOdd)
}

func TestWriteRegister_DataKeepsLowByte(t *testing.T) {
	r := NewRegisters()
	r.WriteRegister(RegData, 0x12345678)
	require.Equal(t, uint32(0x78), r.ReadRegister(RegData))
}

func TestWriteRegister_ControlAndBaudOverwrite(t *testing.T) {
	r := NewRegisters()

	r.WriteRegister(RegControl, uint32(CtrlEnable|CtrlTxEnable|CtrlParityEn))
	require.True(t, r.IsEnabled())
	require.True(t, r.IsTxEnabled())
	require.False(t, r.IsRxEnabled())
	require.True(t, r.IsParityEnabled())
	require.False(t, r.IsParityOdd())

	r.WriteRegister(RegControl, uint32(CtrlRxEnable|CtrlParityOdd))
	require.False(t, r.IsEnabled())
	require.True(t, r.IsRxEnabled())
	require.True(t, r.IsParityOdd())

	r.WriteRegister(RegBaud, 0xDEADBEEF)
	require.Equal(t, uint32(0xDEADBEEF), r.ReadRegister(RegBaud))
}

func TestWriteRegister_StatusIsWriteOneToClear(t *testing.T) {
	r := NewRegisters()
	r.SetStatusBit(StatusOverrun | StatusFrameError | StatusTxFull)
	r.ClearStatusBit(StatusTxEmpty)

	// Writing all ones only clears the error bits.
	r.WriteRegister(RegStatus, 0xFFFFFFFF)
	require.Equal(t, StatusTxFull|StatusRxEmpty, r.Status())

	// A one can never set a bit through this path.
	r.WriteRegister(RegStatus, uint32(StatusOverrun|StatusTxEmpty))
	require.Equal(t, StatusTxFull|StatusRxEmpty, r.Status())
}

func TestWriteRegister_StatusClearsOnlyTargetedBit(t *testing.T) {
	r := NewRegisters()
	r.SetStatusBit(StatusOverrun | StatusFrameError)

	r.WriteRegister(RegStatus, uint32(StatusOverrun))
	require.True(t, r.IsStatusBitSet(StatusFrameError))
	require.False(t, r.IsStatusBitSet(StatusOverrun))
}

func TestRegisters_UnknownOffset(t *testing.T) {
	r := NewRegisters()
	before := r.Snapshot()

	for _, off := range []Offset{0x01, 0x10, 0x40, 0xFFFFFFFC} {
		r.WriteRegister(off, 0xFFFFFFFF)
		require.Zero(t, r.ReadRegister(off))
	}
	require.Equal(t, before, r.Snapshot())
}

func TestRegisters_DirectStatusBits(t *testing.T) {
	r := NewRegisters()

	r.SetStatusBit(StatusRxFull)
	require.True(t, r.IsStatusBitSet(StatusRxFull))
	require.True(t, r.IsStatusBitSet(StatusRxFull|StatusOverrun))
	require.False(t, r.IsStatusBitSet(StatusOverrun))

	r.ClearStatusBit(StatusRxFull | StatusRxEmpty)
	require.Equal(t, StatusTxEmpty, r.Status())
}

func TestRegisters_Reset(t *testing.T) {
	r := NewRegisters()
	r.WriteRegister(RegData, 0xAB)
	r.WriteRegister(RegControl, 0x1F)
	r.WriteRegister(RegBaud, 9600)
	r.SetStatusBit(StatusOverrun)

	r.Reset()
	require.Equal(t, RegSnapshot{Status: StatusTxEmpty | StatusRxEmpty}, r.Snapshot())
}

func TestStatusString(t *testing.T) {
	require.Equal(t, "0", Status(0).String())
	require.Equal(t, "TX_EMPTY|RX_EMPTY", (StatusTxEmpty | StatusRxEmpty).String())
	require.Equal(t, "RX_FULL|OVERRUN", (StatusOverrun | StatusRxFull).String())
	require.Equal(t, "ENABLE|TX_ENABLE|RX_ENABLE", (CtrlEnable | CtrlTxEnable | CtrlRxEnable).String())
}
