package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jangala-dev/uartsim/uartx"
)

func newRegsCmd(opts *rootOptions) *cobra.Command {
	var rx, tx int
	cmd := &cobra.Command{
		Use:   "regs",
		Short: "Dump the register block as seen on the bus",
		Long: `Initialize a UART from the configuration, optionally push bytes through
either FIFO, then print every register read through the memory-mapped window.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u := opts.newUART()
			u.SendData(make([]byte, fifoBytes(tx)))
			u.SimulateReceive(make([]byte, fifoBytes(rx)))
			return dumpRegs(cmd.OutOrStdout(), uartx.NewBus(opts.cfg.Base, u.Regs))
		},
	}
	cmd.Flags().IntVar(&rx, "rx", 0, "bytes to receive before the dump (over 16 overruns)")
	cmd.Flags().IntVar(&tx, "tx", 0, "bytes to queue for transmit before the dump")
	return cmd
}

// fifoBytes clamps n to 0..FIFODepth+1. One byte past the depth is enough to
// fill TX or overrun RX; anything more changes nothing.
func fifoBytes(n int) int {
	return min(max(n, 0), uartx.FIFODepth+1)
}

var regNames = []struct {
	off  uartx.Offset
	name string
}{
	{uartx.RegData, "DATA"},
	{uartx.RegStatus, "STATUS"},
	{uartx.RegControl, "CONTROL"},
	{uartx.RegBaud, "BAUD"},
}

func dumpRegs(w io.Writer, bus *uartx.Bus) error {
	for _, r := range regNames {
		addr := bus.Base + uint32(r.off)
		v, ok := bus.Read32(addr)
		if !ok {
			return fmt.Errorf("register %s at 0x%08x not mapped", r.name, addr)
		}
		fmt.Fprintf(w, "0x%08x  %-7s 0x%08x", addr, r.name, v)
		switch r.off {
		case uartx.RegStatus:
			fmt.Fprintf(w, "  [%v]", uartx.Status(v))
		case uartx.RegControl:
			fmt.Fprintf(w, "  [%v]", uartx.Control(v))
		case uartx.RegBaud:
			fmt.Fprintf(w, "  (%d)", v)
		}
		fmt.Fprintln(w)
	}
	return nil
}
