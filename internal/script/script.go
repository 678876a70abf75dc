// Package script runs line-oriented stimulus scripts against a simulated UART.
//
// Each line is split with POSIX shell quoting rules. Blank lines and lines
// starting with # are skipped. Example:
//
//	init 115200 even
//	tx 0x01 0x02 0x03
//	expect tx 3
//	rxs "hello"
//	read 5
//	expect data 0x68 0x65 0x6c 0x6c 0x6f
package script

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/buildkite/shellwords"
	"golang.org/x/exp/slices"
	"golang.org/x/text/encoding"

	"github.com/jangala-dev/uartsim/internal/charset"
	"github.com/jangala-dev/uartsim/uartx"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("bad arguments")
	ErrExpect         = errors.New("expectation failed")
)

// Runner executes script commands against one UART.
type Runner struct {
	UART *uartx.UART
	Bus  *uartx.Bus
	Enc  encoding.Encoding
	Out  io.Writer

	lastRead []byte
	lastSent int
	cmds     map[string]command
}

type command struct {
	usage string
	run   func(r *Runner, args []string) error
}

// NewRunner returns a Runner for u with its registers mapped at base. Output
// goes to out; text commands use enc (nil means UTF-8).
func NewRunner(u *uartx.UART, base uint32, enc encoding.Encoding, out io.Writer) *Runner {
	if enc == nil {
		enc, _ = charset.Lookup("")
	}
	r := &Runner{
		UART: u,
		Bus:  uartx.NewBus(base, u.Regs),
		Enc:  enc,
		Out:  out,
	}
	r.cmds = commands()
	return r
}

// Run executes every line of src and stops at the first failing line.
func (r *Runner) Run(src io.Reader) error {
	sc := bufio.NewScanner(src)
	line := 0
	for sc.Scan() {
		line++
		if err := r.Exec(sc.Text()); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
	return sc.Err()
}

// Exec runs a single line.
func (r *Runner) Exec(text string) error {
	text = strings.TrimSpace(text)
	if text == "" || strings.HasPrefix(text, "#") {
		return nil
	}
	words, err := shellwords.SplitPosix(text)
	if err != nil {
		return err
	}
	if len(words) == 0 {
		return nil
	}
	cmd, ok := r.cmds[words[0]]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownCommand, words[0])
	}
	if err := cmd.run(r, words[1:]); err != nil {
		if errors.Is(err, ErrUsage) {
			return fmt.Errorf("%s: %w (usage: %s %s)", words[0], err, words[0], cmd.usage)
		}
		return fmt.Errorf("%s: %w", words[0], err)
	}
	return nil
}

// Help writes the command list.
func (r *Runner) Help(w io.Writer) {
	names := make([]string, 0, len(r.cmds))
	for name := range r.cmds {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-9s %s\n", name, r.cmds[name].usage)
	}
}

func commands() map[string]command {
	return map[string]command{
		"init":     {"BAUD [none|even|odd]", cmdInit},
		"shutdown": {"", cmdShutdown},
		"tx":       {"BYTE...", cmdTx},
		"txs":      {"TEXT...", cmdTxs},
		"rx":       {"BYTE...", cmdRx},
		"rxs":      {"TEXT...", cmdRxs},
		"read":     {"N", cmdRead},
		"drain":    {"N", cmdDrain},
		"transmit": {"N", cmdTransmit},
		"clear":    {"", cmdClear},
		"status":   {"", cmdStatus},
		"regs":     {"", cmdRegs},
		"peek":     {"ADDR", cmdPeek},
		"poke":     {"ADDR VALUE", cmdPoke},
		"expect":   {"tx N | rx N | sent N | error BOOL | data BYTE...", cmdExpect},
	}
}

func parseNum(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return uint32(v), nil
}

func parseBytes(args []string) ([]byte, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: no bytes", ErrUsage)
	}
	out := make([]byte, 0, len(args))
	for _, a := range args {
		v, err := parseNum(a)
		if err != nil {
			return nil, err
		}
		if v > 0xFF {
			return nil, fmt.Errorf("%w: %s does not fit in a byte", ErrUsage, a)
		}
		out = append(out, byte(v))
	}
	return out, nil
}

func oneNum(args []string) (int, error) {
	if len(args) != 1 {
		return 0, ErrUsage
	}
	v, err := parseNum(args[0])
	return int(v), err
}

// fifoNum is oneNum for byte counts, capped at the FIFO depth. Neither FIFO
// can supply or take more than that in one go.
func fifoNum(args []string) (int, error) {
	if len(args) != 1 {
		return 0, ErrUsage
	}
	v, err := parseNum(args[0])
	return int(min(v, uartx.FIFODepth)), err
}

func hex(p []byte) string {
	var sb strings.Builder
	for i, c := range p {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "0x%02x", c)
	}
	return sb.String()
}

func cmdInit(r *Runner, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return ErrUsage
	}
	baud, err := parseNum(args[0])
	if err != nil {
		return err
	}
	parity := uartx.ParityNone
	if len(args) == 2 {
		if parity, err = uartx.ParseParity(args[1]); err != nil {
			return fmt.Errorf("%w: %v", ErrUsage, err)
		}
	}
	ok := r.UART.Initialize(baud, parity != uartx.ParityNone, parity == uartx.ParityOdd)
	fmt.Fprintf(r.Out, "init: baud=%d parity=%v enabled=%t\n", baud, parity, ok)
	return nil
}

func cmdShutdown(r *Runner, args []string) error {
	r.UART.Shutdown()
	fmt.Fprintln(r.Out, "shutdown")
	return nil
}

func (r *Runner) send(p []byte) {
	r.lastSent = r.UART.SendData(p)
	fmt.Fprintf(r.Out, "tx: queued %d/%d\n", r.lastSent, len(p))
}

func (r *Runner) receive(p []byte) {
	before := r.UART.RxFifoCount()
	r.UART.SimulateReceive(p)
	fmt.Fprintf(r.Out, "rx: stored %d/%d overrun=%t\n",
		r.UART.RxFifoCount()-before, len(p), r.UART.Regs.IsStatusBitSet(uartx.StatusOverrun))
}

func (r *Runner) text(args []string) ([]byte, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: no text", ErrUsage)
	}
	return charset.Encode(r.Enc, strings.Join(args, " "))
}

func cmdTx(r *Runner, args []string) error {
	p, err := parseBytes(args)
	if err != nil {
		return err
	}
	r.send(p)
	return nil
}

func cmdTxs(r *Runner, args []string) error {
	p, err := r.text(args)
	if err != nil {
		return err
	}
	r.send(p)
	return nil
}

func cmdRx(r *Runner, args []string) error {
	p, err := parseBytes(args)
	if err != nil {
		return err
	}
	r.receive(p)
	return nil
}

func cmdRxs(r *Runner, args []string) error {
	p, err := r.text(args)
	if err != nil {
		return err
	}
	r.receive(p)
	return nil
}

func cmdRead(r *Runner, args []string) error {
	n, err := fifoNum(args)
	if err != nil {
		return err
	}
	buf := make([]byte, n)
	got := r.UART.RecvData(buf)
	r.lastRead = buf[:got]
	fmt.Fprintf(r.Out, "read %d: %s\n", got, hex(r.lastRead))
	return nil
}

func cmdDrain(r *Runner, args []string) error {
	n, err := fifoNum(args)
	if err != nil {
		return err
	}
	buf := make([]byte, n)
	got := r.UART.Drain(buf)
	fmt.Fprintf(r.Out, "wire %d: %s\n", got, hex(buf[:got]))
	return nil
}

func cmdTransmit(r *Runner, args []string) error {
	n, err := fifoNum(args)
	if err != nil {
		return err
	}
	r.UART.SimulateTransmit(n)
	fmt.Fprintf(r.Out, "transmit: tx fifo %d\n", r.UART.TxFifoCount())
	return nil
}

func cmdClear(r *Runner, args []string) error {
	r.UART.ClearErrors()
	fmt.Fprintln(r.Out, "errors cleared")
	return nil
}

func cmdStatus(r *Runner, args []string) error {
	u := r.UART
	fmt.Fprintf(r.Out, "tx=%d rx=%d canTransmit=%t hasData=%t error=%t status=[%v]\n",
		u.TxFifoCount(), u.RxFifoCount(), u.CanTransmit(), u.HasData(), u.HasError(), u.Regs.Status())
	return nil
}

func cmdRegs(r *Runner, args []string) error {
	fmt.Fprintln(r.Out, r.UART.Regs.Snapshot())
	return nil
}

func cmdPeek(r *Runner, args []string) error {
	addr, err := oneNum(args)
	if err != nil {
		return err
	}
	v, ok := r.Bus.Read32(uint32(addr))
	if !ok {
		return fmt.Errorf("%w: 0x%08x not mapped", ErrUsage, uint32(addr))
	}
	fmt.Fprintf(r.Out, "[0x%08x] = 0x%08x\n", uint32(addr), v)
	return nil
}

func cmdPoke(r *Runner, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	addr, err := parseNum(args[0])
	if err != nil {
		return err
	}
	v, err := parseNum(args[1])
	if err != nil {
		return err
	}
	if !r.Bus.Write32(addr, v) {
		return fmt.Errorf("%w: 0x%08x not mapped", ErrUsage, addr)
	}
	return nil
}

func cmdExpect(r *Runner, args []string) error {
	if len(args) < 2 {
		return ErrUsage
	}
	what, rest := args[0], args[1:]
	switch what {
	case "tx", "rx", "sent":
		want, err := oneNum(rest)
		if err != nil {
			return err
		}
		got := r.lastSent
		switch what {
		case "tx":
			got = r.UART.TxFifoCount()
		case "rx":
			got = r.UART.RxFifoCount()
		}
		if got != want {
			return fmt.Errorf("%w: %s = %d, want %d", ErrExpect, what, got, want)
		}
	case "error":
		if len(rest) != 1 {
			return ErrUsage
		}
		want, err := strconv.ParseBool(rest[0])
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUsage, err)
		}
		if got := r.UART.HasError(); got != want {
			return fmt.Errorf("%w: error = %t, want %t", ErrExpect, got, want)
		}
	case "data":
		want, err := parseBytes(rest)
		if err != nil {
			return err
		}
		if !slices.Equal(r.lastRead, want) {
			return fmt.Errorf("%w: data = [%s], want [%s]", ErrExpect, hex(r.lastRead), hex(want))
		}
	default:
		return ErrUsage
	}
	return nil
}
