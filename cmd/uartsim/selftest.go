package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/jangala-dev/uartsim/internal/selftest"
)

func newSelftestCmd(opts *rootOptions) *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Use:   "selftest",
		Short: "Run the built-in UART checks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			progress := w
			if quiet {
				progress = nil
			}
			r := selftest.RunAll(progress)
			r.Summary(w)
			if !r.OK() {
				return errors.New("self-test failed")
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "print only the summary")
	return cmd
}
