package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"timetrack/internal/transfer"
)

func newExportCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every timer as JSON lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			var f *os.File
			if output != "" && output != "-" {
				if f, err = os.Create(output); err != nil {
					return err
				}
				w = f
			}

			n, err := transfer.Export(cmd.Context(), svc, w)
			if f != nil {
				if cerr := f.Close(); err == nil && cerr != nil {
					err = fmt.Errorf("close %s: %w", output, cerr)
				}
			}
			if err != nil {
				return err
			}
			a.logger.Info("exported timers", "count", n)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write (default: stdout)")
	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import [FILE]",
		Short: "Replay timers from JSON lines",
		Long: `Read {"task", "start", "elapsed"} lines from FILE, or stdin, and record each
as a stopped timer. Missing tasks are created. Stop any running timer first.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}

			r := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}

			n, err := transfer.Import(cmd.Context(), svc, r)
			if err != nil && n == 0 {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d timers\n", n)
			return err
		},
	}
}
