// uartx/uartx.go

// Package uartx simulates a byte-oriented UART with 16-deep TX and RX FIFOs
// behind a small memory-mapped register file. Nothing blocks: where real
// hardware would wait for FIFO space or data, the calls here fail immediately
// and report it through their bool or count result.
//
// The external wire is driven by the caller through SimulateReceive (bytes
// arriving) and SimulateTransmit or Drain (bytes leaving). A UART is not safe
// for concurrent use.
package uartx

// UART is one simulated peripheral instance.
//
// Invariant: after every mutating call the TX/RX EMPTY and FULL status bits
// match the occupancy of Buffer and TxBuffer.
type UART struct {
	Regs *Registers

	Buffer   RingBuffer // RX FIFO, filled from the wire
	TxBuffer RingBuffer // TX FIFO, drained by the wire

	stats Stats
}

// NewUART returns a UART in its power-on state: registers reset, FIFOs empty,
// everything disabled.
func NewUART() *UART {
	return &UART{Regs: NewRegisters()}
}

// Initialize resets the register file, programs the baud divisor and enables
// the UART, transmitter and receiver (plus parity when requested). Both FIFOs
// are emptied. It reports whether the enable bit is set afterwards and can be
// called again at any time to start over.
func (uart *UART) Initialize(baudDivisor uint32, parityEnabled, oddParity bool) bool {
	uart.Regs.Reset()
	uart.Regs.WriteRegister(RegBaud, baudDivisor)

	ctrl := CtrlEnable | CtrlTxEnable | CtrlRxEnable
	if parityEnabled {
		ctrl |= CtrlParityEn
		if oddParity {
			ctrl |= CtrlParityOdd
		}
	}
	uart.Regs.WriteRegister(RegControl, uint32(ctrl))

	uart.TxBuffer.Clear()
	uart.Buffer.Clear()
	uart.updateStatusFlags()

	return uart.Regs.IsEnabled()
}

// Shutdown disables the UART and throws away anything still queued in either
// direction. Queued TX bytes are not flushed to the wire.
func (uart *UART) Shutdown() {
	uart.Regs.WriteRegister(RegControl, 0)
	uart.TxBuffer.Clear()
	uart.Buffer.Clear()
	uart.updateStatusFlags()
}

// Close shuts the UART down. It always returns nil.
func (uart *UART) Close() error {
	uart.Shutdown()
	return nil
}

// SendByte queues one byte for transmission. It returns false, changing
// nothing, when the transmitter is disabled or the TX FIFO is full.
func (uart *UART) SendByte(c byte) bool {
	if !uart.Regs.IsTxEnabled() || !uart.TxBuffer.Put(c) {
		uart.dbgTx(false)
		return false
	}
	uart.dbgTx(true)
	uart.updateStatusFlags()
	return true
}

// SendData queues bytes from p in order and stops at the first byte that does
// not fit. It returns the number queued; 0 when p is nil or the transmitter is
// disabled.
func (uart *UART) SendData(p []byte) int {
	if p == nil || !uart.Regs.IsTxEnabled() {
		return 0
	}
	n := 0
	for _, c := range p {
		if !uart.SendByte(c) {
			break
		}
		n++
	}
	return n
}

// RecvByte pops one byte from the RX FIFO. ok is false when the receiver is
// disabled or the FIFO is empty.
func (uart *UART) RecvByte() (c byte, ok bool) {
	if !uart.Regs.IsRxEnabled() {
		return 0, false
	}
	c, ok = uart.Buffer.Get()
	if !ok {
		return 0, false
	}
	uart.updateStatusFlags()
	return c, true
}

// RecvData fills p from the RX FIFO until p is full or the FIFO runs dry and
// returns the number of bytes read; 0 when p is nil or the receiver is
// disabled.
func (uart *UART) RecvData(p []byte) int {
	if p == nil || !uart.Regs.IsRxEnabled() {
		return 0
	}
	n := 0
	for n < len(p) {
		c, ok := uart.RecvByte()
		if !ok {
			break
		}
		p[n] = c
		n++
	}
	return n
}

// CanTransmit reports whether SendByte would currently succeed.
func (uart *UART) CanTransmit() bool {
	return uart.Regs.IsTxEnabled() && !uart.TxBuffer.Full()
}

// HasData reports whether RecvByte would currently succeed.
func (uart *UART) HasData() bool {
	return uart.Regs.IsRxEnabled() && !uart.Buffer.Empty()
}

// TxFifoCount returns the number of bytes waiting in the TX FIFO.
func (uart *UART) TxFifoCount() int { return uart.TxBuffer.Used() }

// RxFifoCount returns the number of bytes waiting in the RX FIFO.
func (uart *UART) RxFifoCount() int { return uart.Buffer.Used() }

// Buffered returns the number of bytes currently stored in the RX FIFO.
func (uart *UART) Buffered() int { return uart.Buffer.Used() }

// TxFree returns the remaining space in the TX FIFO in bytes.
func (uart *UART) TxFree() int { return uart.TxBuffer.Free() }

// HasError reports whether FRAME_ERROR or OVERRUN is latched.
func (uart *UART) HasError() bool {
	return uart.Regs.IsStatusBitSet(StatusErrors)
}

// ClearErrors clears FRAME_ERROR and OVERRUN through the status register's
// write-one-to-clear path.
func (uart *UART) ClearErrors() {
	if uart.HasError() {
		uart.dbgErrorsCleared()
	}
	uart.Regs.WriteRegister(RegStatus, uint32(StatusErrors))
}

// SimulateReceive feeds bytes arriving from the wire into the RX FIFO. If the
// FIFO is full when a byte arrives, OVERRUN is latched and that byte and every
// byte after it in p are dropped. Nothing happens when p is nil or the
// receiver is disabled.
func (uart *UART) SimulateReceive(p []byte) {
	if p == nil || !uart.Regs.IsRxEnabled() {
		return
	}
	accepted := 0
	for _, c := range p {
		if !uart.Buffer.Put(c) {
			uart.Regs.SetStatusBit(StatusOverrun)
			break
		}
		accepted++
	}
	uart.dbgRx(accepted, len(p)-accepted)
	uart.updateStatusFlags()
}

// SimulateTransmit lets the wire take up to n bytes from the TX FIFO. The bytes
// are discarded; use Drain to see them. Nothing happens when the transmitter
// is disabled.
func (uart *UART) SimulateTransmit(n int) {
	if !uart.Regs.IsTxEnabled() {
		return
	}
	uart.dbgWire(uart.TxBuffer.Discard(n))
	uart.updateStatusFlags()
}

// updateStatusFlags recomputes the TX and RX EMPTY/FULL bits from scratch.
func (uart *UART) updateStatusFlags() {
	setFIFOFlags(uart.Regs, &uart.TxBuffer, StatusTxEmpty, StatusTxFull)
	setFIFOFlags(uart.Regs, &uart.Buffer, StatusRxEmpty, StatusRxFull)
}

func setFIFOFlags(r *Registers, rb *RingBuffer, empty, full Status) {
	switch {
	case rb.Empty():
		r.SetStatusBit(empty)
		r.ClearStatusBit(full)
	case rb.Full():
		r.ClearStatusBit(empty)
		r.SetStatusBit(full)
	default:
		r.ClearStatusBit(empty | full)
	}
}
