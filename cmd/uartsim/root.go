package main

import (
	"github.com/spf13/cobra"
	"golang.org/x/text/encoding"

	"github.com/jangala-dev/uartsim/internal/charset"
	"github.com/jangala-dev/uartsim/internal/config"
	"github.com/jangala-dev/uartsim/uartx"
)

// rootOptions holds the persistent flags and the configuration they resolve to.
type rootOptions struct {
	configPath string
	baud       uint32
	parity     string
	charset    string
	base       uint32

	cfg config.Config
	enc encoding.Encoding
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "uartsim",
		Short:         "Simulated UART with 16-byte FIFOs",
		Long:          "uartsim exercises a simulated UART peripheral: register file, TX/RX FIFOs, overrun and write-one-to-clear error handling.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
	}

	f := cmd.PersistentFlags()
	f.StringVarP(&opts.configPath, "config", "c", "", "YAML configuration file")
	f.Uint32VarP(&opts.baud, "baud", "b", uartx.DefaultBaudRate, "baud rate")
	f.StringVarP(&opts.parity, "parity", "p", "none", "parity (none, even, odd)")
	f.StringVar(&opts.charset, "charset", "utf-8", "character set for text (utf-8, latin1, cp437, cp850, windows-1252)")
	f.Uint32Var(&opts.base, "base", uartx.DefaultBase, "register block base address")

	cmd.AddCommand(
		newDemoCmd(opts),
		newSelftestCmd(opts),
		newScriptCmd(opts),
		newRegsCmd(opts),
		newIntegrityCmd(opts),
		newTermCmd(opts),
	)
	return cmd
}

// resolve loads the configuration file and lets explicitly set flags
// override it.
func (o *rootOptions) resolve(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	f := cmd.Flags()
	if f.Changed("baud") {
		cfg.Baud = o.baud
	}
	if f.Changed("parity") {
		cfg.Parity = o.parity
	}
	if f.Changed("charset") {
		cfg.Charset = o.charset
	}
	if f.Changed("base") {
		cfg.Base = o.base
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	o.cfg = cfg
	o.enc, _ = charset.Lookup(cfg.Charset)
	return nil
}

// newUART returns a UART configured and enabled from the resolved settings.
func (o *rootOptions) newUART() *uartx.UART {
	u := uartx.NewUART()
	u.Configure(o.cfg.UARTConfig())
	return u
}
