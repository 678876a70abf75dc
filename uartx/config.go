// uartx/config.go

package uartx

import "fmt"

// UARTParity defines the parity setting stored in the control register. The
// simulation records it but never checks data against it.
type UARTParity uint8

const (
	// ParityNone disables parity (the most common setting).
	ParityNone UARTParity = iota
	// ParityEven sets even parity (total number of 1 bits is even).
	ParityEven
	// ParityOdd sets odd parity (total number of 1 bits is odd).
	ParityOdd
)

// String returns "none", "even" or "odd".
func (p UARTParity) String() string {
	switch p {
	case ParityNone:
		return "none"
	case ParityEven:
		return "even"
	case ParityOdd:
		return "odd"
	default:
		return fmt.Sprintf("UARTParity(%d)", uint8(p))
	}
}

// ParseParity maps "none", "even" or "odd" (or "" for none) to a UARTParity.
func ParseParity(s string) (UARTParity, error) {
	switch s {
	case "", "none", "n":
		return ParityNone, nil
	case "even", "e":
		return ParityEven, nil
	case "odd", "o":
		return ParityOdd, nil
	}
	return ParityNone, fmt.Errorf("uartx: unknown parity %q", s)
}

// Config is the line configuration applied by Configure.
type Config struct {
	BaudRate uint32 // stored in the BAUD register as an opaque divisor
	Parity   UARTParity
}

// DefaultBaudRate is used by Configure when Config.BaudRate is zero.
const DefaultBaudRate = 115200

// Configure initializes the UART from cfg. It is Initialize with a zero baud
// rate replaced by DefaultBaudRate.
func (uart *UART) Configure(cfg Config) bool {
	if cfg.BaudRate == 0 {
		cfg.BaudRate = DefaultBaudRate
	}
	return uart.Initialize(cfg.BaudRate, cfg.Parity != ParityNone, cfg.Parity == ParityOdd)
}

// Config reports the line configuration currently held in the registers.
func (uart *UART) Config() Config {
	cfg := Config{BaudRate: uart.Regs.Baud()}
	switch {
	case !uart.Regs.IsParityEnabled():
		cfg.Parity = ParityNone
	case uart.Regs.IsParityOdd():
		cfg.Parity = ParityOdd
	default:
		cfg.Parity = ParityEven
	}
	return cfg
}
