package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mahdiidarabi/rsabench/internal/selftest"
)

func newSelftestCmd(a *app) *cobra.Command {
	var samples int

	cmd := &cobra.Command{
		Use:   "selftest",
		Short: "Check the arithmetic engine against known primes and independent implementations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := selftest.DefaultOptions()
			opts.Samples = samples
			opts.Logger = a.logger

			report := selftest.Run(cmd.Context(), opts)

			out := cmd.OutOrStdout()
			for _, c := range report.Checks {
				status := "ok"
				if !c.Passed() {
					status = "FAIL"
				}
				fmt.Fprintf(out, "%-4s  %-26s %v\n", status, c.Name, c.Duration.Round(time.Microsecond))
				if c.Err != nil {
					fmt.Fprintf(out, "      %v\n", c.Err)
				}
			}
			fmt.Fprintf(out, "\n%d/%d checks passed\n", len(report.Checks)-report.Failed(), len(report.Checks))

			if err := report.Err(); err != nil {
				return fmt.Errorf("self-check failed: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&samples, "samples", selftest.DefaultOptions().Samples, "Random inputs per differential check")
	return cmd
}
