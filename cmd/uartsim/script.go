package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jangala-dev/uartsim/internal/script"
	"github.com/jangala-dev/uartsim/uartx"
)

func newScriptCmd(opts *rootOptions) *cobra.Command {
	var commands bool
	cmd := &cobra.Command{
		Use:   "script FILE",
		Short: "Run a stimulus script (- reads stdin)",
		Long: `Run a line-oriented stimulus script against a fresh UART.

The UART starts uninitialized; scripts normally begin with "init". The first
failing line stops the run.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if commands {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			r := script.NewRunner(uartx.NewUART(), opts.cfg.Base, opts.enc, cmd.OutOrStdout())
			if commands {
				r.Help(cmd.OutOrStdout())
				return nil
			}
			var src io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				src = f
			}
			return r.Run(src)
		},
	}
	cmd.Flags().BoolVar(&commands, "commands", false, "list script commands")
	return cmd
}
