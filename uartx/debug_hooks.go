//go:build uartxdebug

package uartx

func (u *UART) dbgTx(accepted bool) {
	if !accepted {
		u.stats.TxRejected++
		return
	}
	u.stats.TxAccepted++
	if used := uint32(u.TxBuffer.Used()); used > u.stats.TxMaxUsed {
		u.stats.TxMaxUsed = used
	}
}

// Called once per SimulateReceive with the split between stored and dropped
// bytes.
func (u *UART) dbgRx(accepted, dropped int) {
	u.stats.RxAccepted += uint32(accepted)
	if dropped > 0 {
		u.stats.RxDropped += uint32(dropped)
		u.stats.Overruns++
	}
	if used := uint32(u.Buffer.Used()); used > u.stats.RxMaxUsed {
		u.stats.RxMaxUsed = used
	}
}

func (u *UART) dbgWire(n int) {
	u.stats.TxWire += uint32(n)
}

func (u *UART) dbgErrorsCleared() {
	u.stats.ErrorClears++
}
