//go:build uartxdebug

package uartx

// Stats holds counters since the last reset.
type Stats struct {
	// TX path
	TxAccepted uint32 // SendByte calls that queued a byte
	TxRejected uint32 // SendByte calls refused (disabled or full)
	TxWire     uint32 // bytes taken off the TX FIFO by the wire
	TxMaxUsed  uint32 // high-water mark of TX occupancy

	// RX path
	RxAccepted uint32 // bytes SimulateReceive put into the RX FIFO
	RxDropped  uint32 // bytes SimulateReceive dropped after an overrun
	RxMaxUsed  uint32 // high-water mark of RX occupancy
	Overruns   uint32 // SimulateReceive calls that latched OVERRUN

	ErrorClears uint32 // ClearErrors calls that found an error latched
}

// DebugReset zeroes the counters.
func (u *UART) DebugReset() {
	u.stats = Stats{}
}

// DebugStats returns a copy of the counters.
func (u *UART) DebugStats() Stats {
	return u.stats
}
