// Package frame is the small checksummed framing used to check data integrity
// across a simulated UART link.
//
// A frame is
//
//	0x7E | len | payload (len bytes) | crc8(len, payload)
//
// with CRC-8/MAXIM over the length byte and the payload.
package frame

import (
	"errors"

	"github.com/sigurn/crc8"
)

const (
	Sync       byte = 0x7E
	MaxPayload      = 255
	Overhead        = 3
)

var (
	ErrTooLong  = errors.New("frame: payload too long")
	ErrChecksum = errors.New("frame: checksum mismatch")
)

var table = crc8.MakeTable(crc8.CRC8_MAXIM)

func checksum(length byte, payload []byte) byte {
	csum := crc8.Init(table)
	csum = crc8.Update(csum, []byte{length}, table)
	csum = crc8.Update(csum, payload, table)
	return crc8.Complete(csum, table)
}

// Encode appends the frame for payload to dst.
func Encode(dst, payload []byte) ([]byte, error) {
	if len(payload) > MaxPayload {
		return dst, ErrTooLong
	}
	n := byte(len(payload))
	dst = append(dst, Sync, n)
	dst = append(dst, payload...)
	return append(dst, checksum(n, payload)), nil
}

type state uint8

const (
	stateSync state = iota
	stateLen
	statePayload
	stateCRC
)

// Decoder reassembles frames from a byte stream that may arrive in pieces.
// Bytes before a sync byte are skipped.
type Decoder struct {
	st      state
	want    int
	payload []byte

	Skipped int // bytes discarded while hunting for sync
	Corrupt int // frames dropped for a bad checksum
}

// Feed consumes p and calls fn for every complete, valid frame. The payload
// passed to fn is only valid during the call.
func (d *Decoder) Feed(p []byte, fn func(payload []byte)) {
	for _, c := range p {
		switch d.st {
		case stateSync:
			if c == Sync {
				d.st = stateLen
			} else {
				d.Skipped++
			}
		case stateLen:
			d.want = int(c)
			d.payload = d.payload[:0]
			if d.want == 0 {
				d.st = stateCRC
			} else {
				d.st = statePayload
			}
		case statePayload:
			d.payload = append(d.payload, c)
			if len(d.payload) == d.want {
				d.st = stateCRC
			}
		case stateCRC:
			d.st = stateSync
			if c != checksum(byte(d.want), d.payload) {
				d.Corrupt++
				continue
			}
			fn(d.payload)
		}
	}
}

// Verify checks a single complete frame and returns its payload.
func Verify(f []byte) ([]byte, error) {
	if len(f) < Overhead || f[0] != Sync || int(f[1]) != len(f)-Overhead {
		return nil, errors.New("frame: malformed")
	}
	payload := f[2 : len(f)-1]
	if f[len(f)-1] != checksum(f[1], payload) {
		return nil, ErrChecksum
	}
	return payload, nil
}
