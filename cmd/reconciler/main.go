package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"pos-reconciliation/internal/config"
	"pos-reconciliation/internal/gateway"
)

// reconciler holds what every subcommand needs once the config is loaded.
type reconciler struct {
	cnf *config.Configuration
	db  *sql.DB
}

func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun loads the configuration and opens the store before any subcommand.
func preRun(app *reconciler, configFile *string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := config.InitConfig(*configFile); err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}

		db, err := gateway.OpenDB(cnf.DataSource.Path)
		if err != nil {
			return err
		}

		app.cnf = cnf
		app.db = db
		return nil
	}
}

func postRun(app *reconciler) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if app.db != nil {
			return app.db.Close()
		}
		return nil
	}
}

// newCLI wires the root command and its subcommands.
func newCLI() *cobra.Command {
	var configFile string
	app := &reconciler{}

	rootCmd := &cobra.Command{
		Use:           "reconciler",
		Short:         "Reconcile POS sales against delivery platform settlements",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./reconciler.json", "Configuration file")
	rootCmd.PersistentPreRunE = preRun(app, &configFile)
	rootCmd.PersistentPostRunE = postRun(app)

	rootCmd.AddCommand(runCommand(app))
	rootCmd.AddCommand(branchesCommand(app))
	rootCmd.AddCommand(migrateCommands(app))

	return rootCmd
}

func main() {
	defer recoverPanic()

	if err := newCLI().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
