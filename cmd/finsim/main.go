package main

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/rgehrsitz/finsim/internal/config"
	"github.com/rgehrsitz/finsim/internal/output"
	"github.com/rgehrsitz/finsim/internal/sim"
	"github.com/rgehrsitz/finsim/internal/sim/modules"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	root := &cobra.Command{
		Use:           "finsim",
		Short:         "Household retirement finance simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(simulateCmd(), versionCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func simulateCmd() *cobra.Command {
	var (
		monthlyCSV string
		annualCSV  string
		months     int
		seed       int64
		verbose    bool
	)
	cmd := &cobra.Command{
		Use:   "simulate <scenario.yaml>",
		Short: "Run a scenario month by month and report the outcome",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger(verbose)
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			in, err := config.NewParser(log).LoadFromFile(args[0])
			if err != nil {
				return err
			}
			if months > 0 {
				in.Scenario.Settings.Months = months
			}
			if cmd.Flags().Changed("seed") {
				in.Scenario.Settings.Seed = &seed
			}

			engine := sim.NewEngine(&in.Scenario, in.Policies, modules.Standard(&in.Scenario, in.Policies), log)
			res, err := engine.Run(cmd.Context())
			if err != nil {
				return err
			}

			printSummary(cmd.OutOrStdout(), res)
			if monthlyCSV != "" {
				if err := writeCSV(monthlyCSV, res, output.WriteMonthlyCSV); err != nil {
					return err
				}
			}
			if annualCSV != "" {
				if err := writeCSV(annualCSV, res, output.WriteAnnualCSV); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&months, "months", 0, "override the scenario's simulated month count")
	cmd.Flags().Int64Var(&seed, "seed", 0, "use stochastic market returns with this seed")
	cmd.Flags().StringVar(&monthlyCSV, "monthly-csv", "", "write per-month results to this CSV file")
	cmd.Flags().StringVar(&annualCSV, "annual-csv", "", "write per-year tax results to this CSV file")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	return cmd
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	log, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return log, nil
}

func printSummary(w io.Writer, res *output.RunResult) {
	fmt.Fprintf(w, "Run %s (%s): %d months from %s\n",
		res.RunID, res.ScenarioID, res.Months, res.StartDate.Format("2006-01"))
	fmt.Fprintf(w, "Ending balance: %s\n", res.EndingBalance().StringFixed(2))
	if depleted, when := res.Depleted(); depleted {
		fmt.Fprintf(w, "Portfolio depleted in %s\n", when.Format("2006-01"))
	}
	for _, a := range res.Annual {
		fmt.Fprintf(w, "  %d: MAGI %s, tax due %s\n",
			a.Year, a.MAGI.StringFixed(2), a.Liability.Due().StringFixed(2))
	}
}

func writeCSV(path string, res *output.RunResult, write func(io.Writer, *output.RunResult) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := write(f, res); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(os.Stdout, "finsim %s (commit %s, built %s)\n", version, commit, date)
			if bi, ok := debug.ReadBuildInfo(); ok {
				fmt.Fprintln(os.Stdout, bi.Main.Version)
			}
		},
	}
}
