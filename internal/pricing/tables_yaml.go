package pricing

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/Simplici0/digiquote/internal/project"
)

type yamlFees struct {
	Setup      float64 `yaml:"setup"`
	Management float64 `yaml:"management"`
}

// yamlTables is the on-disk shape of a coefficient file.
type yamlTables struct {
	Base       map[string]float64  `yaml:"base"`
	Size       map[string]float64  `yaml:"size"`
	Color      map[string]float64  `yaml:"color"`
	Resolution map[string]float64  `yaml:"resolution"`
	Format     map[string]float64  `yaml:"format"`
	Metadata   map[string]float64  `yaml:"metadata"`
	Handling   map[string]float64  `yaml:"handling"`
	Inspection map[string]float64  `yaml:"inspection"`
	Fees       map[string]yamlFees `yaml:"fees"`
	AddOns     map[string]float64  `yaml:"addons"`

	DerivedSurcharge  *float64 `yaml:"derivedSurcharge"`
	ArchivalIncrement *float64 `yaml:"archivalIncrement"`
	OCR               *float64 `yaml:"ocr"`
	TaxRate           *float64 `yaml:"taxRate"`
	ExpenseMarkup     *float64 `yaml:"expenseMarkup"`
}

// LoadTables reads a YAML coefficient file. Every enumerated value must be
// present; scalar settings left out keep their built-in value.
func LoadTables(path string) (Tables, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, fmt.Errorf("read coefficient file: %w", err)
	}
	return ParseTables(b)
}

// ParseTables is LoadTables for in-memory YAML.
func ParseTables(b []byte) (Tables, error) {
	var dto yamlTables
	if err := yaml.Unmarshal(b, &dto); err != nil {
		return Tables{}, fmt.Errorf("parse coefficient file: %w", err)
	}

	def := DefaultTables()
	t := Tables{
		Base:       convert[project.Tier](dto.Base),
		Size:       convert[project.SizeClass](dto.Size),
		Color:      convert[project.ColorMode](dto.Color),
		Resolution: convert[project.Resolution](dto.Resolution),
		Format:     convert[project.FileFormat](dto.Format),
		Metadata:   convert[project.MetadataLevel](dto.Metadata),
		Handling:   convert[project.HandlingCondition](dto.Handling),
		Inspection: convert[project.InspectionDepth](dto.Inspection),
		Fees:       make(map[project.Tier]FixedFees, len(dto.Fees)),
		AddOns:     convert[project.AddOn](dto.AddOns),

		DerivedSurcharge:  orDefault(dto.DerivedSurcharge, def.DerivedSurcharge),
		ArchivalIncrement: orDefault(dto.ArchivalIncrement, def.ArchivalIncrement),
		OCR:               orDefault(dto.OCR, def.OCR),
		TaxRate:           orDefault(dto.TaxRate, def.TaxRate),
		ExpenseMarkup:     orDefault(dto.ExpenseMarkup, def.ExpenseMarkup),
	}
	for k, f := range dto.Fees {
		t.Fees[project.Tier(k)] = FixedFees{
			Setup:      decimal.NewFromFloat(f.Setup),
			Management: decimal.NewFromFloat(f.Management),
		}
	}

	if err := t.Validate(); err != nil {
		return Tables{}, err
	}
	return t, nil
}

func convert[K ~string](in map[string]float64) map[K]decimal.Decimal {
	out := make(map[K]decimal.Decimal, len(in))
	for k, v := range in {
		out[K(k)] = decimal.NewFromFloat(v)
	}
	return out
}

func orDefault(v *float64, def decimal.Decimal) decimal.Decimal {
	if v == nil {
		return def
	}
	return decimal.NewFromFloat(*v)
}
