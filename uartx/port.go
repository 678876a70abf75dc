// uartx/port.go

package uartx

import "errors"

var (
	ErrBufferEmpty = errors.New("uartx: RX buffer empty")
	ErrBufferFull  = errors.New("uartx: TX buffer full")
	ErrDisabled    = errors.New("uartx: disabled")
)

// Port exposes a UART through the io interfaces. Like the UART it never
// blocks: a Read with nothing buffered returns ErrBufferEmpty and a Write that
// does not fit returns a short count with ErrBufferFull.
type Port struct {
	uart *UART
}

// NewPort returns a Port backed by u.
func NewPort(u *UART) *Port { return &Port{uart: u} }

// UART returns the underlying peripheral.
func (p *Port) UART() *UART { return p.uart }

// TryRead returns immediately with up to len(b) bytes copied from the RX FIFO.
// It never blocks and never returns an error. A return value of 0 means "no
// data now".
func (p *Port) TryRead(b []byte) int {
	if len(b) == 0 {
		return 0
	}
	return p.uart.RecvData(b)
}

// TryWrite returns immediately with 0..len(b) bytes accepted into the TX
// FIFO. A return value of 0 means "no space now".
func (p *Port) TryWrite(b []byte) int {
	if len(b) == 0 {
		return 0
	}
	return p.uart.SendData(b)
}

// Read implements io.Reader.
func (p *Port) Read(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, nil
	}
	if !p.uart.Regs.IsRxEnabled() {
		return 0, ErrDisabled
	}
	if n := p.TryRead(b); n > 0 {
		return n, nil
	}
	return 0, ErrBufferEmpty
}

// ReadByte implements io.ByteReader.
func (p *Port) ReadByte() (byte, error) {
	if !p.uart.Regs.IsRxEnabled() {
		return 0, ErrDisabled
	}
	c, ok := p.uart.RecvByte()
	if !ok {
		return 0, ErrBufferEmpty
	}
	return c, nil
}

// Write implements io.Writer. Bytes that fit are queued even when the whole of
// b does not.
func (p *Port) Write(b []byte) (int, error) {
	if !p.uart.Regs.IsTxEnabled() {
		return 0, ErrDisabled
	}
	n := p.TryWrite(b)
	if n < len(b) {
		return n, ErrBufferFull
	}
	return n, nil
}

// WriteByte implements io.ByteWriter.
func (p *Port) WriteByte(c byte) error {
	if !p.uart.Regs.IsTxEnabled() {
		return ErrDisabled
	}
	if !p.uart.SendByte(c) {
		return ErrBufferFull
	}
	return nil
}

// Writev writes the provided buffers in sequence.
// It stops on the first error and returns the total number of bytes accepted up to that point.
func (p *Port) Writev(bufs ...[]byte) (int, error) {
	sent := 0
	for _, b := range bufs {
		n, err := p.Write(b)
		sent += n
		if err != nil {
			return sent, err
		}
	}
	return sent, nil
}

// Buffered returns the number of bytes waiting to be read.
func (p *Port) Buffered() int { return p.uart.Buffered() }
