// uartx/bus.go

package uartx

// Simple address map for the register block:
//   Base+0x00 DATA, Base+0x04 STATUS, Base+0x08 CONTROL, Base+0x0C BAUD
// Registers are little endian; the byte helpers address individual lanes.

// DefaultBase is where the register block is mapped unless told otherwise.
const DefaultBase = 0x10000000

// Bus maps the register file into a 32-bit address space.
type Bus struct {
	Base uint32
	regs *Registers
}

// NewBus maps regs at base.
func NewBus(base uint32, regs *Registers) *Bus {
	return &Bus{Base: base, regs: regs}
}

// decode splits addr into a register offset and byte lane.
func (b *Bus) decode(addr uint32) (off Offset, lane uint32, ok bool) {
	if addr < b.Base || addr-b.Base >= regBlockSize {
		return 0, 0, false
	}
	rel := addr - b.Base
	return Offset(rel &^ 3), rel & 3, true
}

// Contains reports whether addr falls inside the register block.
func (b *Bus) Contains(addr uint32) bool {
	_, _, ok := b.decode(addr)
	return ok
}

// Read32 reads a whole register. addr must be word aligned.
func (b *Bus) Read32(addr uint32) (uint32, bool) {
	off, lane, ok := b.decode(addr)
	if !ok || lane != 0 {
		return 0, false
	}
	return b.regs.ReadRegister(off), true
}

// Write32 writes a whole register through WriteRegister. addr must be word
// aligned.
func (b *Bus) Write32(addr uint32, v uint32) bool {
	off, lane, ok := b.decode(addr)
	if !ok || lane != 0 {
		return false
	}
	b.regs.WriteRegister(off, v)
	return true
}

// Read8 reads one byte lane of a register.
func (b *Bus) Read8(addr uint32) (uint8, bool) {
	off, lane, ok := b.decode(addr)
	if !ok {
		return 0, false
	}
	return uint8(b.regs.ReadRegister(off) >> (8 * lane)), true
}

// Write8 updates one byte lane. STATUS gets only the written lane, so the
// write-one-to-clear bits in other lanes are left alone; the other registers
// are read-modify-written.
func (b *Bus) Write8(addr uint32, v uint8) bool {
	off, lane, ok := b.decode(addr)
	if !ok {
		return false
	}
	shift := 8 * lane
	if off == RegStatus {
		b.regs.WriteRegister(off, uint32(v)<<shift)
		return true
	}
	cur := b.regs.ReadRegister(off)
	cur = cur&^(0xFF<<shift) | uint32(v)<<shift
	b.regs.WriteRegister(off, cur)
	return true
}
