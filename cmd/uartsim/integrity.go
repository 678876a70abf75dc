package main

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jangala-dev/uartsim/internal/frame"
	"github.com/jangala-dev/uartsim/uartx"
)

const (
	preambleByte = 0x55 // sent ahead of the frames; the decoder must skip it
	seqLen       = 2    // every payload starts with a big-endian sequence number
)

type integrityOptions struct {
	frames    int
	maxLen    int
	seed      uint64
	burst     int
	readEvery int
	duplex    bool
}

func newIntegrityCmd(opts *rootOptions) *cobra.Command {
	var iopts integrityOptions
	cmd := &cobra.Command{
		Use:   "integrity",
		Short: "Pass checksummed frames between two UARTs",
		Long: `Connect the TX of UART A to the RX of UART B (and B back to A with
--duplex), push random CRC-8 framed payloads across in FIFO-sized steps and
check that every frame arrives intact and in order.

Reading the receiver less often than every step (--read-every) lets the RX
FIFO overrun and shows the resulting frame loss.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIntegrity(cmd.OutOrStdout(), opts.cfg.UARTConfig(), iopts)
		},
	}
	f := cmd.Flags()
	f.IntVarP(&iopts.frames, "frames", "n", 200, "frames per direction")
	f.IntVar(&iopts.maxLen, "max-len", 32, "largest payload in bytes")
	f.Uint64Var(&iopts.seed, "seed", 1, "random seed for payloads")
	f.IntVar(&iopts.burst, "burst", uartx.FIFODepth, "bytes allowed on the wire per step")
	f.IntVar(&iopts.readEvery, "read-every", 1, "read the receiver every N steps")
	f.BoolVar(&iopts.duplex, "duplex", false, "run both directions at once")
	return cmd
}

// link is one direction of the connection.
type link struct {
	name     string
	from, to *uartx.UART
	tx, rx   *uartx.Port

	sent    [][]byte // payloads in send order, indexed by sequence number
	pending []byte   // encoded bytes not yet taken by the TX FIFO

	dec        frame.Decoder
	next       int // sequence number expected next
	received   int
	missing    int
	mismatched int
	overruns   int
	firstBad   string
}

func newLink(name string, from, to *uartx.UART, rng *rand.Rand, frames, maxLen int) (*link, error) {
	l := &link{
		name: name,
		from: from,
		to:   to,
		tx:   uartx.NewPort(from),
		rx:   uartx.NewPort(to),
	}
	l.pending = append(l.pending, preambleByte)
	for i := 0; i < frames; i++ {
		p := make([]byte, seqLen+rng.IntN(maxLen-seqLen+1))
		binary.BigEndian.PutUint16(p, uint16(i))
		for j := seqLen; j < len(p); j++ {
			p[j] = byte(rng.Uint32())
		}
		var err error
		if l.pending, err = frame.Encode(l.pending, p); err != nil {
			return nil, err
		}
		l.sent = append(l.sent, p)
	}
	return l, nil
}

// idle reports whether everything has left the sender.
func (l *link) idle() bool {
	return len(l.pending) == 0 && l.from.TxFifoCount() == 0
}

// feed queues what the TX FIFO will take.
func (l *link) feed() {
	if len(l.pending) == 0 {
		return
	}
	n, _ := l.tx.Write(l.pending)
	l.pending = l.pending[n:]
}

// carry moves up to burst bytes onto the receiver and counts overruns.
func (l *link) carry(burst int) int {
	n := uartx.Loopback(l.from, l.to, burst)
	if l.to.HasError() {
		l.overruns++
		l.to.ClearErrors()
	}
	return n
}

// collect empties the receiver into the frame decoder.
func (l *link) collect() {
	var buf [uartx.FIFODepth]byte
	for {
		n, err := l.rx.Read(buf[:])
		if errors.Is(err, uartx.ErrBufferEmpty) || n == 0 {
			return
		}
		l.dec.Feed(buf[:n], l.check)
	}
}

func (l *link) check(payload []byte) {
	l.received++
	if len(payload) < seqLen {
		l.mismatch(-1, payload, "short payload")
		return
	}
	seq := int(binary.BigEndian.Uint16(payload))
	if seq < l.next || seq >= len(l.sent) {
		l.mismatch(seq, payload, "unexpected sequence number")
		return
	}
	l.missing += seq - l.next
	l.next = seq + 1
	if !bytes.Equal(l.sent[seq], payload) {
		l.mismatch(seq, payload, "payload differs")
	}
}

func (l *link) mismatch(seq int, got []byte, why string) {
	l.mismatched++
	if l.firstBad != "" {
		return
	}
	var want []byte
	if seq >= 0 && seq < len(l.sent) {
		want = l.sent[seq]
	}
	l.firstBad = fmt.Sprintf("frame %d: %s\n exp:%s\n act:%s", seq, why, hexLine(want, got), hexLine(got, want))
}

func (l *link) ok() bool {
	return l.received == len(l.sent) && l.missing == 0 && l.mismatched == 0 && l.dec.Corrupt == 0
}

func (l *link) report(w io.Writer) {
	fmt.Fprintf(w, "%s: frames sent=%d received=%d missing=%d corrupt=%d mismatched=%d skipped=%d overruns=%d\n",
		l.name, len(l.sent), l.received, l.missing+len(l.sent)-l.next, l.dec.Corrupt, l.mismatched, l.dec.Skipped, l.overruns)
	if l.firstBad != "" {
		fmt.Fprintln(w, "First mismatch at", l.firstBad)
	}
}

// hexLine prints p with the bytes that differ from ref bracketed.
func hexLine(p, ref []byte) string {
	var sb strings.Builder
	for i, c := range p {
		if i >= len(ref) || ref[i] != c {
			fmt.Fprintf(&sb, "[%02X]", c)
		} else {
			fmt.Fprintf(&sb, " %02X ", c)
		}
	}
	return sb.String()
}

func runIntegrity(w io.Writer, cfg uartx.Config, o integrityOptions) error {
	if o.frames < 0 || o.frames > 1<<16 {
		return fmt.Errorf("frames must be between 0 and %d", 1<<16)
	}
	if o.maxLen < seqLen || o.maxLen > frame.MaxPayload {
		return fmt.Errorf("max-len must be between %d and %d", seqLen, frame.MaxPayload)
	}
	if o.burst < 1 {
		return errors.New("burst must be positive")
	}
	if o.readEvery < 1 {
		return errors.New("read-every must be positive")
	}

	a, b := uartx.NewUART(), uartx.NewUART()
	a.Configure(cfg)
	b.Configure(cfg)
	defer a.Close()
	defer b.Close()

	rng := rand.New(rand.NewPCG(o.seed, o.seed^0x9E3779B97F4A7C15))
	ab, err := newLink("A -> B", a, b, rng, o.frames, o.maxLen)
	if err != nil {
		return err
	}
	links := []*link{ab}
	if o.duplex {
		ba, err := newLink("B -> A", b, a, rng, o.frames, o.maxLen)
		if err != nil {
			return err
		}
		links = append(links, ba)
	}

	fmt.Fprintf(w, "uartx integrity test: baud=%d parity=%v frames/dir=%d duplex=%t burst=%d read-every=%d\n",
		cfg.BaudRate, cfg.Parity, o.frames, o.duplex, o.burst, o.readEvery)

	for step := 1; ; step++ {
		busy := false
		for _, l := range links {
			l.feed()
			if l.carry(o.burst) > 0 {
				busy = true
			}
			if step%o.readEvery == 0 {
				l.collect()
			}
		}
		if !busy && allIdle(links) {
			break
		}
	}
	for _, l := range links {
		l.collect()
	}

	pass := 0
	for _, l := range links {
		l.report(w)
		if l.ok() {
			fmt.Fprintln(w, "[PASS]", l.name, "integrity")
			pass++
		} else {
			fmt.Fprintln(w, "[FAIL]", l.name, "integrity")
		}
	}
	fmt.Fprintf(w, "\nSummary\n  passed = %d\n  failed = %d\n", pass, len(links)-pass)
	if pass != len(links) {
		return errors.New("integrity check failed")
	}
	return nil
}

func allIdle(links []*link) bool {
	for _, l := range links {
		if !l.idle() {
			return false
		}
	}
	return true
}
