// Package export renders tier comparisons as Excel workbooks.
package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/Simplici0/digiquote/internal/pricing"
	"github.com/Simplici0/digiquote/internal/project"
)

const (
	summarySheet = "Summary"
	maxSheetName = 31
)

var summaryHeader = []string{
	"Tier", "Inspection", "Subtotal", "Tax", "Total",
	"Fixed", "Variable base", "Variable adders", "Quality cost", "Misc",
}

var ledgerHeader = []string{"Kind", "Label", "Quantity", "Unit", "Unit price", "Amount", "Note"}

// Comparison builds a workbook with a summary sheet of every scenario and
// one ledger sheet per tier.
func Comparison(p project.ProjectData, scenarios []pricing.Scenario) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create bold style: %w", err)
	}
	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 3}) // #,##0
	if err != nil {
		return nil, fmt.Errorf("create money style: %w", err)
	}

	title := strings.TrimSpace(p.ProjectName)
	if title == "" {
		title = "Tier comparison"
	}
	if err := f.SetCellValue(summarySheet, "A1", title); err != nil {
		return nil, fmt.Errorf("write title: %w", err)
	}
	if err := f.SetCellStyle(summarySheet, "A1", "A1", bold); err != nil {
		return nil, fmt.Errorf("style title: %w", err)
	}
	if err := f.SetCellValue(summarySheet, "A2", p.ClientName); err != nil {
		return nil, fmt.Errorf("write client: %w", err)
	}

	if err := writeRow(f, summarySheet, 4, toAny(summaryHeader)); err != nil {
		return nil, err
	}
	if err := styleRow(f, summarySheet, 4, len(summaryHeader), header); err != nil {
		return nil, err
	}
	for i, s := range scenarios {
		row := 5 + i
		c := s.Costs
		values := []any{
			string(s.Tier), string(s.InspectionDepth),
			num(s.Result.Subtotal), num(s.Result.Tax), num(s.Result.Total),
			num(c.Fixed), num(c.VariableBase), num(c.VariableAdders), num(c.QualityCost), num(c.Misc),
		}
		if err := writeRow(f, summarySheet, row, values); err != nil {
			return nil, err
		}
		if err := styleRange(f, summarySheet, 3, row, len(values), row, money); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(summarySheet, "A", "J", 16); err != nil {
		return nil, fmt.Errorf("set summary widths: %w", err)
	}

	for _, s := range scenarios {
		if err := writeLedger(f, s, header, bold, money); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeLedger(f *excelize.File, s pricing.Scenario, header, bold, money int) error {
	sheet := sheetName(string(s.Tier))
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}
	if err := writeRow(f, sheet, 1, toAny(ledgerHeader)); err != nil {
		return err
	}
	if err := styleRow(f, sheet, 1, len(ledgerHeader), header); err != nil {
		return err
	}

	row := 2
	for _, it := range s.Result.Items {
		values := []any{string(it.Kind), it.Label, num(it.Quantity), it.Unit, num(it.UnitPrice), num(it.Amount), it.Note}
		if err := writeRow(f, sheet, row, values); err != nil {
			return err
		}
		if err := styleRange(f, sheet, 5, row, 6, row, money); err != nil {
			return err
		}
		row++
	}

	for _, total := range []struct {
		label string
		value decimal.Decimal
	}{
		{"Subtotal", s.Result.Subtotal},
		{"Tax", s.Result.Tax},
		{"Total", s.Result.Total},
	} {
		if err := writeRow(f, sheet, row, []any{nil, nil, nil, nil, total.label, num(total.value)}); err != nil {
			return err
		}
		if err := styleRange(f, sheet, 5, row, 5, row, bold); err != nil {
			return err
		}
		if err := styleRange(f, sheet, 6, row, 6, row, money); err != nil {
			return err
		}
		row++
	}

	if err := f.SetColWidth(sheet, "B", "B", 36); err != nil {
		return fmt.Errorf("set ledger widths: %w", err)
	}
	return f.SetColWidth(sheet, "C", "G", 14)
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func styleRow(f *excelize.File, sheet string, row, cols, style int) error {
	return styleRange(f, sheet, 1, row, cols, row, style)
}

func styleRange(f *excelize.File, sheet string, col1, row1, col2, row2, style int) error {
	from, err := excelize.CoordinatesToCellName(col1, row1)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	to, err := excelize.CoordinatesToCellName(col2, row2)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetCellStyle(sheet, from, to, style); err != nil {
		return fmt.Errorf("style %s %s:%s: %w", sheet, from, to, err)
	}
	return nil
}

func sheetName(s string) string {
	if len(s) > maxSheetName {
		return s[:maxSheetName]
	}
	if s == "" {
		return "Ledger"
	}
	return s
}

func num(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
