package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Simplici0/digiquote/internal/config"
	"github.com/Simplici0/digiquote/internal/logging"
	"github.com/Simplici0/digiquote/internal/pricing"
	"github.com/Simplici0/digiquote/internal/project"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	tablesPath string
	format     string
	verbose    bool

	log    *zap.Logger
	tables pricing.Tables
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "quote",
		Short: "Price document digitization projects",
		Long: `quote evaluates saved project files with the pricing engine.

Examples:
  quote calc project.json
  quote compare --format json project.json
  quote export -o comparison.xlsx project.json
  quote tables validate tables.yaml`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.tablesPath, "tables", "", "YAML coefficient file (default: TABLES_PATH, else built-in tables)")
	root.PersistentFlags().StringVarP(&a.format, "format", "f", "text", "output format (text, json)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newCalcCmd(a),
		newCompareCmd(a),
		newNumberCmd(a),
		newExportCmd(a),
		newTablesCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	settings, err := config.Read()
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("tables") {
		a.tablesPath = settings.TablesPath
	}

	cfg := logging.DefaultConfig()
	cfg.Level = settings.LogLevel
	if a.verbose {
		cfg.Level = "debug"
	}
	a.log = logging.NewWithSink(cfg, zapcore.AddSync(cmd.ErrOrStderr()))

	switch a.format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown format %q", a.format)
	}

	a.tables = pricing.DefaultTables()
	if a.tablesPath != "" {
		t, err := pricing.LoadTables(a.tablesPath)
		if err != nil {
			return err
		}
		a.tables = t
		a.log.Debug("coefficient tables loaded", zap.String("path", a.tablesPath))
	}
	return nil
}

// readProject loads a project file. Decoding warnings are logged, not fatal.
func (a *app) readProject(path string) (project.ProjectData, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return project.ProjectData{}, fmt.Errorf("read project: %w", err)
	}
	p, warnings, err := project.Decode(b)
	if err != nil {
		return project.ProjectData{}, fmt.Errorf("%s: %w", path, err)
	}
	for _, w := range warnings {
		a.log.Warn("project field ignored", zap.String("file", path), zap.String("detail", w))
	}
	return p, nil
}

func (a *app) logWarnings(res pricing.CalcResult) {
	for _, w := range res.Warnings {
		a.log.Warn("evaluation warning", zap.String("tier", string(res.Tier)), zap.String("detail", w))
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func upper(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
