//go:build uartxdebug

package uartx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDebugStats(t *testing.T) {
	u := newTestUART(t)

	u.SendData(seq(FIFODepth+2, 0))
	u.SimulateTransmit(4)
	u.SimulateReceive(seq(FIFODepth+3, 0))
	u.ClearErrors()
	u.ClearErrors()

	s := u.DebugStats()
	require.Equal(t, uint32(FIFODepth), s.TxAccepted)
	require.Equal(t, uint32(1), s.TxRejected)
	require.Equal(t, uint32(4), s.TxWire)
	require.Equal(t, uint32(FIFODepth), s.TxMaxUsed)
	require.Equal(t, uint32(FIFODepth), s.RxAccepted)
	require.Equal(t, uint32(3), s.RxDropped)
	require.Equal(t, uint32(1), s.Overruns)
	require.Equal(t, uint32(1), s.ErrorClears)

	u.DebugReset()
	require.Equal(t, Stats{}, u.DebugStats())
}
