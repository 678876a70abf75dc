// Package selftest is the console self-test for the simulated UART: a fixed
// list of named checks printed as [PASS]/[FAIL] lines with a summary.
package selftest

import (
	"fmt"
	"io"

	"golang.org/x/exp/slices"

	"github.com/jangala-dev/uartsim/uartx"
)

// Result is one named check.
type Result struct {
	Suite  string
	Name   string
	Passed bool
}

// Report aggregates results across suites.
type Report struct {
	Run     int
	Passed  int
	Failed  int
	Results []Result

	out   io.Writer
	suite string
}

// NewReport returns an empty report that prints progress to out. A nil out
// discards progress.
func NewReport(out io.Writer) *Report {
	if out == nil {
		out = io.Discard
	}
	return &Report{out: out}
}

// Section starts a named group of checks.
func (r *Report) Section(name string) {
	r.suite = name
	fmt.Fprintf(r.out, "\n=== %s ===\n", name)
}

// Check records cond under name.
func (r *Report) Check(name string, cond bool) {
	r.Run++
	if cond {
		r.Passed++
		fmt.Fprintf(r.out, "[PASS] %s\n", name)
	} else {
		r.Failed++
		fmt.Fprintf(r.out, "[FAIL] %s\n", name)
	}
	r.Results = append(r.Results, Result{Suite: r.suite, Name: name, Passed: cond})
}

// OK reports whether nothing failed.
func (r *Report) OK() bool { return r.Failed == 0 }

// Failures returns the failed results.
func (r *Report) Failures() []Result {
	var out []Result
	for _, res := range r.Results {
		if !res.Passed {
			out = append(out, res)
		}
	}
	return out
}

// Summary writes the totals.
func (r *Report) Summary(w io.Writer) {
	fmt.Fprintln(w, "\n=======================================")
	fmt.Fprintln(w, "Test Summary")
	fmt.Fprintln(w, "=======================================")
	fmt.Fprintf(w, "Total tests:  %d\n", r.Run)
	fmt.Fprintf(w, "Passed:       %d\n", r.Passed)
	fmt.Fprintf(w, "Failed:       %d\n", r.Failed)
	fmt.Fprintln(w, "=======================================")
	if r.OK() {
		fmt.Fprintln(w, "\nAll tests PASSED!")
	} else {
		fmt.Fprintln(w, "\nSome tests FAILED! Please investigate.")
	}
}

// RunAll runs every suite into a fresh report.
func RunAll(out io.Writer) *Report {
	r := NewReport(out)
	RunBasic(r)
	RunFIFO(r)
	return r
}

func newUART(baud uint32) *uartx.UART {
	u := uartx.NewUART()
	u.Initialize(baud, false, false)
	return u
}

func seq(n int, start byte, step byte) []byte {
	p := make([]byte, n)
	for i := range p {
		p[i] = start + byte(i)*step
	}
	return p
}

// RunBasic covers initialization, single and multi byte transfers, parity
// configuration and shutdown.
func RunBasic(r *Report) {
	r.Section("Basic Initialization Tests")
	{
		u := uartx.NewUART()
		r.Check("Initialize UART", u.Initialize(115200, false, false))
		r.Check("Can transmit after init", u.CanTransmit())
		r.Check("No data after init", !u.HasData())
		r.Check("No errors after init", !u.HasError())
		r.Check("TX FIFO count is 0", u.TxFifoCount() == 0)
		r.Check("RX FIFO count is 0", u.RxFifoCount() == 0)
	}

	r.Section("Single Byte Transmit Tests")
	{
		u := newUART(115200)
		r.Check("Write single byte", u.SendByte(0x42))
		r.Check("TX FIFO count is 1", u.TxFifoCount() == 1)
		r.Check("Can still transmit", u.CanTransmit())
		u.SimulateTransmit(1)
		r.Check("TX FIFO count is 0 after transmit", u.TxFifoCount() == 0)
	}

	r.Section("Single Byte Receive Tests")
	{
		u := newUART(115200)
		u.SimulateReceive([]byte{0x55})
		r.Check("Has data after receive", u.HasData())
		r.Check("RX FIFO count is 1", u.RxFifoCount() == 1)
		c, ok := u.RecvByte()
		r.Check("Read byte succeeds", ok)
		r.Check("Received data matches", c == 0x55)
		r.Check("No data after read", !u.HasData())
	}

	r.Section("Multi-Byte Operations Tests")
	{
		u := newUART(115200)
		r.Check("Write 5 bytes", u.SendData([]byte{0x01, 0x02, 0x03, 0x04, 0x05}) == 5)
		r.Check("TX FIFO count is 5", u.TxFifoCount() == 5)
		u.SimulateReceive([]byte{0xAA, 0xBB, 0xCC})
		r.Check("RX FIFO count is 3", u.RxFifoCount() == 3)
		buf := make([]byte, 10)
		n := u.RecvData(buf)
		r.Check("Read 3 bytes", n == 3)
		r.Check("Data bytes correct", slices.Equal(buf[:n], []byte{0xAA, 0xBB, 0xCC}))
	}

	r.Section("Parity Configuration Tests")
	{
		u := uartx.NewUART()
		u.Initialize(115200, false, false)
		r.Check("Initialize without parity", u.CanTransmit() && !u.Regs.IsParityEnabled())
		u.Initialize(115200, true, false)
		r.Check("Initialize with even parity", u.CanTransmit() && u.Regs.IsParityEnabled() && !u.Regs.IsParityOdd())
		u.Initialize(115200, true, true)
		r.Check("Initialize with odd parity", u.CanTransmit() && u.Regs.IsParityOdd())
	}

	r.Section("Shutdown Tests")
	{
		u := newUART(115200)
		u.SendByte(0x42)
		u.Shutdown()
		r.Check("Cannot transmit after shutdown", !u.CanTransmit())
		r.Check("Cannot write after shutdown", !u.SendByte(0x55))
	}
}

// RunFIFO covers the FIFO boundaries: near full, exactly full, RX overrun,
// wraparound, alternating traffic, empty and nil buffers, and refill.
func RunFIFO(r *Report) {
	r.Section("FIFO Near-Full Tests")
	{
		u := newUART(115200)
		data := seq(20, 0, 1)
		r.Check("Write 15 bytes to TX FIFO", u.SendData(data[:15]) == 15)
		r.Check("TX FIFO count is 15", u.TxFifoCount() == 15)
		r.Check("Can still transmit at 15 bytes", u.CanTransmit())
		r.Check("Write 16th byte succeeds", u.SendByte(0xFF))
		r.Check("TX FIFO count is 16", u.TxFifoCount() == uartx.FIFODepth)
		r.Check("Cannot transmit when full", !u.CanTransmit())
		r.Check("Write to full FIFO fails", !u.SendByte(0xEE))
		r.Check("TX FIFO count still 16", u.TxFifoCount() == uartx.FIFODepth)
	}

	r.Section("FIFO Exactly Full Tests")
	{
		u := newUART(115200)
		r.Check("Write exactly 16 bytes", u.SendData(seq(16, 0, 2)) == 16)
		r.Check("TX FIFO count is 16", u.TxFifoCount() == 16)
		r.Check("Cannot transmit when exactly full", !u.CanTransmit())
	}

	r.Section("RX FIFO Full Tests")
	{
		u := newUART(115200)
		rx := seq(20, 0x80, 1)
		u.SimulateReceive(rx[:16])
		r.Check("RX FIFO count is 16", u.RxFifoCount() == 16)
		r.Check("Has data when full", u.HasData())
		r.Check("No error at exactly full", !u.HasError())
		u.SimulateReceive(rx[16:17])
		r.Check("Overrun error after exceeding FIFO", u.HasError())
		r.Check("RX FIFO count stays 16", u.RxFifoCount() == 16)
		u.ClearErrors()
		r.Check("Error cleared", !u.HasError())
		u.ClearErrors()
		r.Check("Second clear is a no-op", !u.HasError() && u.RxFifoCount() == 16)
	}

	r.Section("FIFO Wrap-Around Tests")
	{
		u := newUART(115200)
		u.SendData(seq(10, 1, 1))
		u.SimulateTransmit(5)
		r.Check("TX FIFO count is 5 after partial transmit", u.TxFifoCount() == 5)
		r.Check("Write 10 more bytes", u.SendData(seq(10, 11, 1)) == 10)
		r.Check("TX FIFO count is 15", u.TxFifoCount() == 15)
		wire := make([]byte, 15)
		u.Drain(wire)
		r.Check("Wire order preserved across wrap", slices.Equal(wire, seq(15, 6, 1)))
	}

	r.Section("Alternating Read/Write Tests")
	{
		u := newUART(115200)
		for i := 0; i < 5; i++ {
			r.Check("Write byte in loop", u.SendByte(0x10+byte(i)))
			u.SimulateTransmit(1)
			rx := 0x20 + byte(i)
			u.SimulateReceive([]byte{rx})
			c, ok := u.RecvByte()
			r.Check("Read byte in loop", ok)
			r.Check("Read data matches", c == rx)
		}
	}

	r.Section("Boundary Condition Tests")
	{
		u := newUART(115200)
		r.Check("Write 0 bytes", u.SendData([]byte{}) == 0)
		r.Check("Read from empty FIFO returns 0", u.RecvData(make([]byte, 10)) == 0)
		r.Check("Write with nil buffer returns 0", u.SendData(nil) == 0)
		r.Check("Read with nil buffer returns 0", u.RecvData(nil) == 0)
	}

	r.Section("Sequential Fill Test")
	{
		u := newUART(115200)
		fill := func(start byte) int {
			n := 0
			for i := 0; i < 20; i++ {
				if !u.SendByte(start + byte(i)) {
					break
				}
				n++
			}
			return n
		}
		r.Check("Wrote exactly 16 bytes", fill(0) == 16)
		r.Check("TX FIFO count matches", u.TxFifoCount() == 16)
		u.SimulateTransmit(16)
		r.Check("FIFO empty after transmit", u.TxFifoCount() == 0)
		r.Check("Wrote exactly 16 bytes again", fill(100) == 16)
	}
}
