// Command amelie prints the pilot recycling cost breakdowns in the terminal
// and exports them as CSV or chart images.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Simplici0/amelie/internal/bootstrap"
	"github.com/Simplici0/amelie/internal/cli"
	"github.com/Simplici0/amelie/internal/config"
	"github.com/Simplici0/amelie/internal/costmodel"
)

type rootFlags struct {
	scenariosFile string
	dbPath        string
}

func main() {
	cfg := config.Load()
	if err := newRootCmd(cfg).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, cli.RenderError(err))
		os.Exit(1)
	}
}

func newRootCmd(cfg config.Config) *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "amelie",
		Short:         "Pilot battery-material recycling cost calculator",
		Long:          "Estimate CapEx and OpEx of the pilot recycling process under utility cost scenarios.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.scenariosFile, "scenarios", cfg.ScenariosFile, "YAML file with additional scenarios")
	root.PersistentFlags().StringVar(&flags.dbPath, "db", "", "SQLite cost catalog (built-in baseline when empty)")

	root.AddCommand(
		newTotalsCmd(flags),
		newScenariosCmd(flags),
		newShowCmd(flags),
		newApplyCmd(flags),
		newAssumptionsCmd(flags),
		newExportCmd(flags),
		newChartCmd(flags),
	)
	return root
}

// loadModel is the shared model loading path used by all commands.
func (f *rootFlags) loadModel(ctx context.Context) (*costmodel.Model, error) {
	return bootstrap.Model(ctx, bootstrap.Options{
		DBPath:        f.dbPath,
		ScenariosFile: f.scenariosFile,
	})
}
