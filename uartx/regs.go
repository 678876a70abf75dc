// uartx/regs.go

package uartx

import (
	"fmt"
	"strings"
)

// Offset addresses one register inside the UART register block.
type Offset uint32

// Register offsets.
const (
	RegData    Offset = 0x00 // data register (TX/RX)
	RegStatus  Offset = 0x04 // status register
	RegControl Offset = 0x08 // control register
	RegBaud    Offset = 0x0C // baud rate divisor

	regBlockSize = 0x10
)

// Status holds the bits of the status register.
type Status uint32

const (
	StatusTxEmpty    Status = 1 << 0 // TX FIFO empty
	StatusTxFull     Status = 1 << 1 // TX FIFO full
	StatusRxEmpty    Status = 1 << 2 // RX FIFO empty
	StatusRxFull     Status = 1 << 3 // RX FIFO full
	StatusFrameError Status = 1 << 4 // frame error
	StatusOverrun    Status = 1 << 5 // RX overrun

	// StatusErrors are the error bits. They are also the only bits an
	// external status write can touch.
	StatusErrors = StatusFrameError | StatusOverrun
)

// Has reports whether any bit of mask is set in s.
func (s Status) Has(mask Status) bool { return s&mask != 0 }

var statusNames = []struct {
	bit  Status
	name string
}{
	{StatusTxEmpty, "TX_EMPTY"},
	{StatusTxFull, "TX_FULL"},
	{StatusRxEmpty, "RX_EMPTY"},
	{StatusRxFull, "RX_FULL"},
	{StatusFrameError, "FRAME_ERROR"},
	{StatusOverrun, "OVERRUN"},
}

// String lists the set bits by name, joined with |, or "0".
func (s Status) String() string {
	var parts []string
	for _, n := range statusNames {
		if s&n.bit != 0 {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "0"
	}
	return strings.Join(parts, "|")
}

// Control holds the bits of the control register.
type Control uint32

const (
	CtrlEnable    Control = 1 << 0 // UART enable
	CtrlTxEnable  Control = 1 << 1 // transmitter enable
	CtrlRxEnable  Control = 1 << 2 // receiver enable
	CtrlParityEn  Control = 1 << 3 // parity enable
	CtrlParityOdd Control = 1 << 4 // odd parity (0 = even)
)

// Has reports whether every bit of mask is set in c.
func (c Control) Has(mask Control) bool { return c&mask == mask }

var controlNames = []struct {
	bit  Control
	name string
}{
	{CtrlEnable, "ENABLE"},
	{CtrlTxEnable, "TX_ENABLE"},
	{CtrlRxEnable, "RX_ENABLE"},
	{CtrlParityEn, "PARITY_EN"},
	{CtrlParityOdd, "PARITY_ODD"},
}

// String lists the set bits by name, joined with |, or "0".
func (c Control) String() string {
	var parts []string
	for _, n := range controlNames {
		if c&n.bit != 0 {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "0"
	}
	return strings.Join(parts, "|")
}

// Registers is the register file of the simulated UART. It is a passive bit
// store: nothing in here looks at FIFO state. The driver pushes status bits in
// through SetStatusBit/ClearStatusBit after every FIFO mutation.
type Registers struct {
	data    uint32
	status  Status
	control Control
	baud    uint32
}

// NewRegisters returns a register file in its power-on state.
func NewRegisters() *Registers {
	r := &Registers{}
	r.Reset()
	return r
}

// Reset restores power-on defaults. Both FIFOs are reported empty.
func (r *Registers) Reset() {
	r.data = 0
	r.status = StatusTxEmpty | StatusRxEmpty
	r.control = 0
	r.baud = 0
}

// WriteRegister performs an external register write.
//
// DATA keeps the low 8 bits. STATUS is write-one-to-clear for FRAME_ERROR and
// OVERRUN; every other status bit is read-only on this path. CONTROL and BAUD
// are overwritten. Writes to unknown offsets are ignored.
func (r *Registers) WriteRegister(offset Offset, value uint32) {
	switch offset {
	case RegData:
		r.data = value & 0xFF
	case RegStatus:
		r.status &^= Status(value) & StatusErrors
	case RegControl:
		r.control = Control(value)
	case RegBaud:
		r.baud = value
	}
}

// ReadRegister returns the value at offset, or 0 for an unknown offset.
func (r *Registers) ReadRegister(offset Offset) uint32 {
	switch offset {
	case RegData:
		return r.data
	case RegStatus:
		return uint32(r.status)
	case RegControl:
		return uint32(r.control)
	case RegBaud:
		return r.baud
	default:
		return 0
	}
}

// SetStatusBit sets bits in the status register directly, bypassing the
// write-one-to-clear policy.
func (r *Registers) SetStatusBit(bits Status) { r.status |= bits }

// ClearStatusBit clears bits in the status register directly.
func (r *Registers) ClearStatusBit(bits Status) { r.status &^= bits }

// IsStatusBitSet reports whether any of bits is set.
func (r *Registers) IsStatusBitSet(bits Status) bool { return r.status.Has(bits) }

// IsEnabled reports whether CONTROL has the UART enable bit.
func (r *Registers) IsEnabled() bool { return r.control.Has(CtrlEnable) }

// IsTxEnabled reports whether the transmitter is enabled.
func (r *Registers) IsTxEnabled() bool { return r.control.Has(CtrlTxEnable) }

// IsRxEnabled reports whether the receiver is enabled.
func (r *Registers) IsRxEnabled() bool { return r.control.Has(CtrlRxEnable) }

// IsParityEnabled reports whether parity is configured.
func (r *Registers) IsParityEnabled() bool { return r.control.Has(CtrlParityEn) }

// IsParityOdd reports whether odd parity is selected.
func (r *Registers) IsParityOdd() bool { return r.control.Has(CtrlParityOdd) }

// Data returns the DATA register.
func (r *Registers) Data() uint32 { return r.data }

// Status returns the STATUS register.
func (r *Registers) Status() Status { return r.status }

// Control returns the CONTROL register.
func (r *Registers) Control() Control { return r.control }

// Baud returns the BAUD divisor.
func (r *Registers) Baud() uint32 { return r.baud }

// RegSnapshot is a copy of the whole register block.
type RegSnapshot struct {
	Data    uint32
	Status  Status
	Control Control
	Baud    uint32
}

// Snapshot copies every register.
func (r *Registers) Snapshot() RegSnapshot {
	return RegSnapshot{Data: r.data, Status: r.status, Control: r.control, Baud: r.baud}
}

// String formats the snapshot on one line for dumps.
func (s RegSnapshot) String() string {
	return fmt.Sprintf("DATA=0x%02x STATUS=0x%02x [%v] CONTROL=0x%02x [%v] BAUD=%d",
		s.Data, uint32(s.Status), s.Status, uint32(s.Control), s.Control, s.Baud)
}
