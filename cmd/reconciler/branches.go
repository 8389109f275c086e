package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pos-reconciliation/internal/gateway"
	"pos-reconciliation/internal/matcher"
	"pos-reconciliation/internal/usecase"
)

// branchesCommand prints the store names accepted by run --branch.
func branchesCommand(app *reconciler) *cobra.Command {
	return &cobra.Command{
		Use:   "branches",
		Short: "List the canonical branch names",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo := gateway.NewSQLiteRepository(app.db, app.cnf.SourceCustomer())
			uc := usecase.NewReconciliationUseCase(repo, matcher.DefaultOptions())

			branches, err := uc.BranchOptions(cmd.Context())
			if err != nil {
				return err
			}
			for _, b := range branches {
				fmt.Fprintln(cmd.OutOrStdout(), b)
			}
			return nil
		},
	}
}
