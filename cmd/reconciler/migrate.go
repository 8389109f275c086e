package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pos-reconciliation/internal/gateway"
)

// migrateCommands creates the root command for schema migrations.
func migrateCommands(app *reconciler) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the reconciliation database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := gateway.MigrateUp(app.db)
			if err != nil {
				return fmt.Errorf("error migrating up: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migrations!\n", n)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back applied migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := gateway.MigrateDown(app.db)
			if err != nil {
				return fmt.Errorf("error migrating down: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rolled back %d migrations!\n", n)
			return nil
		},
	})

	return cmd
}
