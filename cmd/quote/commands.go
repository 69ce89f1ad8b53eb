package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Simplici0/digiquote/internal/docnum"
	"github.com/Simplici0/digiquote/internal/export"
	"github.com/Simplici0/digiquote/internal/pricing"
	"github.com/Simplici0/digiquote/internal/project"
)

func newCalcCmd(a *app) *cobra.Command {
	var tier string
	cmd := &cobra.Command{
		Use:   "calc <project.json>",
		Short: "Print the ledger and totals of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.readProject(args[0])
			if err != nil {
				return err
			}
			if tier != "" {
				t := project.Tier(tier)
				p = p.WithTier(t, project.CanonicalInspection(t))
			}
			res := a.tables.Calc(p)
			a.logWarnings(res)
			if a.format == "json" {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			return printLedger(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&tier, "tier", "", "evaluate at this tier with its standard inspection depth")
	return cmd
}

func newCompareCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "compare <project.json>",
		Short: "Compare the project across every tier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.readProject(args[0])
			if err != nil {
				return err
			}
			scenarios := a.tables.SimulateTiers(p)
			for _, s := range scenarios {
				a.logWarnings(s.Result)
			}
			if a.format == "json" {
				return writeJSON(cmd.OutOrStdout(), scenarios)
			}
			return printScenarios(cmd.OutOrStdout(), scenarios)
		},
	}
}

func newNumberCmd(a *app) *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "number <project.json>",
		Short: "Allocate quotation and inspection report numbers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.readProject(args[0])
			if err != nil {
				return err
			}
			p = docnum.Fill(p)
			if write {
				b, err := project.Encode(p)
				if err != nil {
					return err
				}
				if err := os.WriteFile(args[0], b, 0o644); err != nil {
					return fmt.Errorf("write project: %w", err)
				}
				a.log.Info("numbers written", zap.String("file", args[0]))
			}
			if a.format == "json" {
				return writeJSON(cmd.OutOrStdout(), map[string]string{
					"quotationNumber":        p.QuotationNumber,
					"inspectionReportNumber": p.InspectionReportNumber,
				})
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "quotation:         %s\ninspection report: %s\n",
				p.QuotationNumber, p.InspectionReportNumber)
			return err
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "store the numbers back into the project file")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export <project.json>",
		Short: "Write the tier comparison as an Excel workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.readProject(args[0])
			if err != nil {
				return err
			}
			b, err := export.Comparison(p, a.tables.SimulateTiers(p))
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, b, 0o644); err != nil {
				return fmt.Errorf("write workbook: %w", err)
			}
			a.log.Info("workbook written", zap.String("file", out), zap.Int("bytes", len(b)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "comparison.xlsx", "workbook path")
	return cmd
}

func newTablesCmd(a *app) *cobra.Command {
	tables := &cobra.Command{
		Use:   "tables",
		Short: "Inspect coefficient tables",
	}
	tables.AddCommand(&cobra.Command{
		Use:   "validate [tables.yaml]",
		Short: "Check that a coefficient file covers every enumerated value",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.tablesPath
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				if err := pricing.DefaultTables().Validate(); err != nil {
					return err
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "built-in tables: ok")
				return err
			}
			if _, err := pricing.LoadTables(path); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", path)
			return err
		},
	})
	return tables
}

func printLedger(w io.Writer, res pricing.CalcResult) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "KIND\tLABEL\tQTY\tUNIT\tUNIT PRICE\tAMOUNT\t\n")
	for _, it := range res.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
			it.Kind, it.Label, it.Quantity, it.Unit, it.UnitPrice.StringFixed(0), it.Amount.StringFixed(0))
	}
	fmt.Fprintf(tw, "\t\t\t\tSubtotal\t%s\t\n", res.Subtotal.StringFixed(0))
	fmt.Fprintf(tw, "\t\t\t\tTax\t%s\t\n", res.Tax.StringFixed(0))
	fmt.Fprintf(tw, "\t\t\t\tTotal\t%s\t\n", res.Total.StringFixed(0))
	return tw.Flush()
}

func printScenarios(w io.Writer, scenarios []pricing.Scenario) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "TIER\tINSPECTION\tFIXED\tBASE\tADDERS\tQUALITY\tMISC\tSUBTOTAL\tTOTAL\t\n")
	for _, s := range scenarios {
		c := s.Costs
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			upper(string(s.Tier)), s.InspectionDepth,
			c.Fixed.StringFixed(0), c.VariableBase.StringFixed(0), c.VariableAdders.StringFixed(0),
			c.QualityCost.StringFixed(0), c.Misc.StringFixed(0),
			s.Result.Subtotal.StringFixed(0), s.Result.Total.StringFixed(0))
	}
	return tw.Flush()
}
