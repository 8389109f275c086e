package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"pos-reconciliation/internal/domain"
	"pos-reconciliation/internal/gateway"
	"pos-reconciliation/internal/matcher"
	"pos-reconciliation/internal/usecase"
)

type runFlags struct {
	branch    string
	from      string
	to        string
	preset    string
	tolerance string
	writeBack bool
	summary   bool
}

func runCommand(app *reconciler) *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Match POS sales against platform settlements and print the results as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			filters, err := flags.filters()
			if err != nil {
				return err
			}

			opts, err := matchingOptions(app, flags.tolerance)
			if err != nil {
				return err
			}

			writeBack := app.cnf.WriteBack
			if cmd.Flags().Changed("write-back") {
				writeBack = flags.writeBack
			}

			// --- Dependency Injection ---
			repo := gateway.NewSQLiteRepository(app.db, app.cnf.SourceCustomer())
			reconciliationUseCase := usecase.NewReconciliationUseCase(repo, opts)

			// --- Execute the Usecase ---
			report, err := reconciliationUseCase.Reconcile(cmd.Context(), filters, writeBack)
			var wbErr *domain.WriteBackError
			if err != nil && !errors.As(err, &wbErr) {
				return fmt.Errorf("reconciliation failed: %w", err)
			}

			// --- Present the Output ---
			var out interface{} = report
			if flags.summary {
				out = report.Summary
			}
			output, jsonErr := json.MarshalIndent(out, "", "  ")
			if jsonErr != nil {
				return fmt.Errorf("failed to generate JSON report: %w", jsonErr)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(output))

			if wbErr != nil {
				logrus.WithError(wbErr).Error("results were not saved")
				return wbErr
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.branch, "branch", "", "Canonical store name to reconcile")
	cmd.Flags().StringVar(&flags.from, "from", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flags.to, "to", "", "End date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flags.preset, "preset", "", `Date preset ("today")`)
	cmd.Flags().StringVar(&flags.tolerance, "tolerance", "", "Amount tolerance, overrides the configured value")
	cmd.Flags().BoolVar(&flags.writeBack, "write-back", false, "Store the match status on the source rows")
	cmd.Flags().BoolVar(&flags.summary, "summary", false, "Print per branch and date summaries only")

	return cmd
}

func (f *runFlags) filters() (domain.ReconcileFilters, error) {
	filters := domain.ReconcileFilters{Branch: f.branch, Preset: f.preset}

	var err error
	if f.from != "" {
		if filters.FromDate, err = time.Parse(time.DateOnly, f.from); err != nil {
			return filters, fmt.Errorf("error parsing from date: %w", err)
		}
	}
	if f.to != "" {
		if filters.ToDate, err = time.Parse(time.DateOnly, f.to); err != nil {
			return filters, fmt.Errorf("error parsing to date: %w", err)
		}
	}
	return filters, nil
}

func matchingOptions(app *reconciler, toleranceFlag string) (matcher.Options, error) {
	opts := matcher.Options{
		Tolerance:            app.cnf.Tolerance(),
		CustomerPrefix:       app.cnf.CustomerPrefix(),
		ChargebackOrderTypes: app.cnf.Matching.ChargebackOrderTypes,
		Workers:              app.cnf.Matching.Workers,
	}
	if toleranceFlag != "" {
		tolerance, err := decimal.NewFromString(toleranceFlag)
		if err != nil {
			return opts, fmt.Errorf("invalid tolerance %q: %w", toleranceFlag, err)
		}
		if tolerance.IsNegative() {
			return opts, fmt.Errorf("tolerance must not be negative")
		}
		opts.Tolerance = tolerance
	}
	return opts, nil
}
