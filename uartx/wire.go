// uartx/wire.go

package uartx

// Drain is SimulateTransmit that keeps the bytes: it moves up to len(p) bytes
// from the TX FIFO onto the wire, copying them into p, and returns how many
// left. Nothing happens when the transmitter is disabled.
func (uart *UART) Drain(p []byte) int {
	if !uart.Regs.IsTxEnabled() {
		return 0
	}
	n := 0
	for n < len(p) {
		c, ok := uart.TxBuffer.Get()
		if !ok {
			break
		}
		p[n] = c
		n++
	}
	uart.dbgWire(n)
	uart.updateStatusFlags()
	return n
}

// Loopback wires the TX side of from to the RX side of to and lets up to n
// bytes cross. It returns the number of bytes that left from's TX FIFO. Bytes
// that to cannot store are lost to an overrun on to, as they would be on a
// real line.
func Loopback(from, to *UART, n int) int {
	var buf [FIFODepth]byte
	moved := 0
	for moved < n {
		chunk := buf[:min(n-moved, len(buf))]
		k := from.Drain(chunk)
		if k == 0 {
			break
		}
		to.SimulateReceive(chunk[:k])
		moved += k
	}
	return moved
}
