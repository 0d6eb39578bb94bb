package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Simplici0/amelie/internal/assumptions"
	"github.com/Simplici0/amelie/internal/catalog"
	"github.com/Simplici0/amelie/internal/chart"
	"github.com/Simplici0/amelie/internal/cli"
	"github.com/Simplici0/amelie/internal/costmodel"
	"github.com/Simplici0/amelie/internal/report"
)

func newTotalsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "totals",
		Short: "Baseline CapEx and OpEx totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := flags.loadModel(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.RenderTable(cli.TotalsTable(m.Totals())))
			return nil
		},
	}
}

func newScenariosCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios",
		Short: "List registered scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := flags.loadModel(cmd.Context())
			if err != nil {
				return err
			}

			t := cli.Table{
				Title:   "Scenarios",
				Headers: []string{"Name", "CapEx deltas", "OpEx deltas", "Energy", "Range"},
			}
			for _, sc := range m.Scenarios() {
				energy := "-"
				if sc.EnergyVariation.Valid {
					energy = sc.EnergyVariation.Decimal.String() + "%"
				}
				rng := "-"
				if sc.Range != costmodel.RangeNone {
					rng = string(sc.Range)
				}
				t.Rows = append(t.Rows, []string{
					sc.Name,
					fmt.Sprint(len(sc.CapExDeltas)),
					fmt.Sprint(len(sc.OpExPercentDeltas)),
					energy,
					rng,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderTable(t))
			return nil
		},
	}
}

func newShowCmd(flags *rootFlags) *cobra.Command {
	var scenario string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the breakdowns, optionally with a scenario applied to the baseline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := flags.loadModel(cmd.Context())
			if err != nil {
				return err
			}

			title := "BASELINE"
			snap := m.Baseline()
			if scenario != "" {
				if snap, err = m.Preview(scenario); err != nil {
					return err
				}
				title = strings.ToUpper(scenario)
			}
			printSnapshot(cmd.OutOrStdout(), title, snap)
			return nil
		},
	}
	cmd.Flags().StringVarP(&scenario, "scenario", "s", "", "Scenario to apply")
	return cmd
}

func newApplyCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "apply NAME...",
		Short: "Apply scenarios in order; repeated scenarios compound",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := flags.loadModel(cmd.Context())
			if err != nil {
				return err
			}

			var snap costmodel.Snapshot
			for _, name := range args {
				if snap, err = m.ApplyScenario(name); err != nil {
					return err
				}
			}
			printSnapshot(cmd.OutOrStdout(), strings.ToUpper(strings.Join(args, " + ")), snap)
			return nil
		},
	}
}

func newAssumptionsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "assumptions NAME",
		Short: "Print the assumptions of a scenario as markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := flags.loadModel(cmd.Context())
			if err != nil {
				return err
			}
			sc, err := m.Scenario(args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), assumptions.Markdown(sc))
			return nil
		},
	}
}

func newExportCmd(flags *rootFlags) *cobra.Command {
	var book, scenario, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a breakdown table as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mapping, err := selectMapping(cmd, flags, book, scenario)
			if err != nil {
				return err
			}
			if out == "" {
				return report.WriteCSV(cmd.OutOrStdout(), mapping)
			}
			return writeFile(out, func(w io.Writer) error {
				return report.WriteCSV(w, mapping)
			})
		},
	}
	cmd.Flags().StringVarP(&book, "book", "b", string(catalog.BookCapEx), "Cost book: capex or opex")
	cmd.Flags().StringVarP(&scenario, "scenario", "s", "", "Scenario to apply to the baseline")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (stdout when empty)")
	return cmd
}

func newChartCmd(flags *rootFlags) *cobra.Command {
	var book, scenario, out string

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render a pie chart of a breakdown as PNG or SVG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := chart.ParseFormat(strings.TrimPrefix(filepath.Ext(out), "."))
			if err != nil {
				return err
			}
			b, err := catalog.ParseBook(book)
			if err != nil {
				return err
			}
			mapping, err := selectMapping(cmd, flags, book, scenario)
			if err != nil {
				return err
			}
			if err := writeFile(out, func(w io.Writer) error {
				return chart.Pie(w, b.Title(), mapping, format)
			}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&book, "book", "b", string(catalog.BookCapEx), "Cost book: capex or opex")
	cmd.Flags().StringVarP(&scenario, "scenario", "s", "", "Scenario to apply to the baseline")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file ending in .png or .svg")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func selectMapping(cmd *cobra.Command, flags *rootFlags, book, scenario string) (costmodel.CostMapping, error) {
	b, err := catalog.ParseBook(book)
	if err != nil {
		return costmodel.CostMapping{}, err
	}
	m, err := flags.loadModel(cmd.Context())
	if err != nil {
		return costmodel.CostMapping{}, err
	}

	snap := m.Baseline()
	if scenario != "" {
		if snap, err = m.Preview(scenario); err != nil {
			return costmodel.CostMapping{}, err
		}
	}
	return b.Mapping(snap), nil
}

func printSnapshot(w io.Writer, title string, snap costmodel.Snapshot) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, cli.RenderTitle(title))
	fmt.Fprintln(w)
	fmt.Fprintln(w, cli.RenderTable(cli.TotalsTable(snap.Totals())))
	fmt.Fprintln(w, cli.RenderTable(cli.BreakdownTable("CapEx Breakdown", snap.CapEx)))
	fmt.Fprintln(w, cli.RenderTable(cli.BreakdownTable("OpEx Breakdown", snap.OpEx)))
}

// writeFile creates path, hands it to write, and reports the first error of
// writing or closing.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
