package main

import (
	"fmt"
	"strings"

	tty "github.com/mattn/go-tty"
	"github.com/spf13/cobra"
	"golang.org/x/text/encoding"

	"github.com/jangala-dev/uartsim/internal/charset"
	"github.com/jangala-dev/uartsim/uartx"
)

const (
	keyInterrupt = 0x03 // Ctrl-C
	keyEOF       = 0x04 // Ctrl-D
)

func newTermCmd(opts *rootOptions) *cobra.Command {
	var echo, noEcho bool
	cmd := &cobra.Command{
		Use:   "term",
		Short: "Type into the UART receiver from the terminal",
		Long: `Put the terminal in raw mode and feed every key into the UART RX FIFO.

With echo on, the received bytes are read back, queued for transmit and the
transmitted bytes are shown. With echo off the received bytes are shown in hex.
Ctrl-C or Ctrl-D quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			on := opts.cfg.Echo
			if cmd.Flags().Changed("echo") {
				on = echo
			}
			if noEcho {
				on = false
			}
			return runTerm(newConsole(opts.newUART(), opts.enc, on))
		},
	}
	cmd.Flags().BoolVar(&echo, "echo", true, "echo received bytes back through TX")
	cmd.Flags().BoolVar(&noEcho, "no-echo", false, "show received bytes in hex instead of echoing")
	return cmd
}

// console turns key presses into UART traffic and the text to display.
type console struct {
	uart *uartx.UART
	port *uartx.Port
	enc  encoding.Encoding
	echo bool

	rx   [uartx.FIFODepth]byte
	wire [uartx.FIFODepth]byte
}

func newConsole(u *uartx.UART, enc encoding.Encoding, echo bool) *console {
	if enc == nil {
		enc, _ = charset.Lookup("")
	}
	return &console{uart: u, port: uartx.NewPort(u), enc: enc, echo: echo}
}

// key handles one typed rune. It returns what to show and whether to quit.
func (c *console) key(r rune) (string, bool) {
	if r == keyInterrupt || r == keyEOF {
		return "", true
	}
	p, err := charset.Encode(c.enc, string(r))
	if err != nil {
		return "\a", false
	}
	c.uart.SimulateReceive(p)

	var out strings.Builder
	if c.uart.HasError() {
		fmt.Fprintf(&out, "\r\n[%v]\r\n", c.uart.Regs.Status()&uartx.StatusErrors)
		c.uart.ClearErrors()
	}

	n := c.port.TryRead(c.rx[:])
	if !c.echo {
		for _, b := range c.rx[:n] {
			fmt.Fprintf(&out, "<%02x>", b)
		}
		return out.String(), false
	}

	c.port.TryWrite(c.rx[:n])
	k := c.uart.Drain(c.wire[:])
	s, err := charset.Decode(c.enc, c.wire[:k])
	if err != nil {
		return out.String() + "\a", false
	}
	out.WriteString(strings.ReplaceAll(s, "\r", "\r\n"))
	return out.String(), false
}

func runTerm(c *console) error {
	t, err := tty.Open()
	if err != nil {
		return err
	}
	defer t.Close()

	restore := t.MustRaw()
	defer restore()

	out := t.Output()
	fmt.Fprintf(out, "uartsim term: baud=%d parity=%v echo=%t (Ctrl-C or Ctrl-D quits)\r\n",
		c.uart.Regs.Baud(), c.uart.Config().Parity, c.echo)
	for {
		r, err := t.ReadRune()
		if err != nil {
			return err
		}
		s, quit := c.key(r)
		if quit {
			fmt.Fprint(out, "\r\n")
			return c.uart.Close()
		}
		fmt.Fprint(out, s)
	}
}
