package pricing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/digiquote/internal/project"
)

// ErrConfigGap reports an enumerated value with no coefficient table entry.
var ErrConfigGap = errors.New("coefficient table gap")

// FixedFees are the mandatory per-project fees of a tier.
type FixedFees struct {
	Setup      decimal.Decimal
	Management decimal.Decimal
}

// Tables holds every coefficient the engine reads. A Tables value is never
// mutated by the engine and may be shared between goroutines.
type Tables struct {
	Base       map[project.Tier]decimal.Decimal
	Size       map[project.SizeClass]decimal.Decimal
	Color      map[project.ColorMode]decimal.Decimal
	Resolution map[project.Resolution]decimal.Decimal
	Format     map[project.FileFormat]decimal.Decimal
	Metadata   map[project.MetadataLevel]decimal.Decimal
	Handling   map[project.HandlingCondition]decimal.Decimal
	Inspection map[project.InspectionDepth]decimal.Decimal
	Fees       map[project.Tier]FixedFees
	AddOns     map[project.AddOn]decimal.Decimal

	DerivedSurcharge  decimal.Decimal
	ArchivalIncrement decimal.Decimal
	OCR               decimal.Decimal
	TaxRate           decimal.Decimal
	ExpenseMarkup     decimal.Decimal

	// Strict turns a lookup miss into a panic. Production evaluation leaves
	// it off so a miss contributes zero and is reported as a warning.
	Strict bool
}

func whole(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// DefaultTables returns the built-in coefficient set.
func DefaultTables() Tables {
	return Tables{
		Base: map[project.Tier]decimal.Decimal{
			project.TierEconomy:  whole(20),
			project.TierStandard: whole(28),
			project.TierPremium:  whole(40),
		},
		Size: map[project.SizeClass]decimal.Decimal{
			project.SizeA4:       whole(0),
			project.SizeA3:       whole(4),
			project.SizeA2:       whole(10),
			project.SizeA1:       whole(18),
			project.SizeA0:       whole(30),
			project.SizeOversize: whole(45),
		},
		Color: map[project.ColorMode]decimal.Decimal{
			project.ColorMono:      whole(0),
			project.ColorGrayscale: whole(2),
			project.ColorFull:      whole(5),
		},
		Resolution: map[project.Resolution]decimal.Decimal{
			project.Res300:  whole(0),
			project.Res400:  whole(3),
			project.Res600:  whole(8),
			project.Res1200: whole(20),
		},
		Format: map[project.FileFormat]decimal.Decimal{
			project.FormatTIFF:     whole(6),
			project.FormatJPEG:     whole(0),
			project.FormatJPEG2000: whole(5),
			project.FormatPNG:      whole(3),
			project.FormatPDF:      whole(2),
			project.FormatPDFA:     whole(4),
		},
		Metadata: map[project.MetadataLevel]decimal.Decimal{
			project.MetadataNone:     whole(0),
			project.MetadataBasic:    whole(2),
			project.MetadataStandard: whole(4),
			project.MetadataDetailed: whole(8),
		},
		Handling: map[project.HandlingCondition]decimal.Decimal{
			project.HandlingFragile:             whole(8),
			project.HandlingDismantleAllowed:    whole(0),
			project.HandlingRestorationRequired: whole(15),
			project.HandlingNonContact:          whole(12),
		},
		Inspection: map[project.InspectionDepth]decimal.Decimal{
			project.InspectionSampling:   decimal.RequireFromString("1.00"),
			project.InspectionFull:       decimal.RequireFromString("1.12"),
			project.InspectionDoubleFull: decimal.RequireFromString("1.25"),
		},
		Fees: map[project.Tier]FixedFees{
			project.TierEconomy:  {Setup: whole(30000), Management: whole(40000)},
			project.TierStandard: {Setup: whole(50000), Management: whole(60000)},
			project.TierPremium:  {Setup: whole(80000), Management: whole(100000)},
		},
		AddOns: map[project.AddOn]decimal.Decimal{
			project.AddOnFumigation:     whole(30000),
			project.AddOnPacking:        whole(15000),
			project.AddOnPickupDelivery: whole(25000),
			project.AddOnOnSite:         whole(80000),
			project.AddOnEncryption:     whole(10000),
		},
		DerivedSurcharge:  whole(3),
		ArchivalIncrement: whole(2),
		OCR:               whole(10),
		TaxRate:           decimal.RequireFromString("0.10"),
		ExpenseMarkup:     decimal.RequireFromString("1.3"),
	}
}

// Validate checks that every enumerated value has an entry in every table.
func (t Tables) Validate() error {
	var missing []string
	missing = appendMissing(missing, "base", t.Base, project.AllTiers())
	missing = appendMissing(missing, "size", t.Size, project.AllSizeClasses())
	missing = appendMissing(missing, "color", t.Color, project.AllColorModes())
	missing = appendMissing(missing, "resolution", t.Resolution, project.AllResolutions())
	missing = appendMissing(missing, "format", t.Format, project.AllFileFormats())
	missing = appendMissing(missing, "metadata", t.Metadata, project.AllMetadataLevels())
	missing = appendMissing(missing, "handling", t.Handling, project.AllHandlingConditions())
	missing = appendMissing(missing, "inspection", t.Inspection, project.AllInspectionDepths())
	missing = appendMissing(missing, "fees", t.Fees, project.AllTiers())
	missing = appendMissing(missing, "addon", t.AddOns, project.AllAddOns())
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrConfigGap, strings.Join(missing, ", "))
	}
	return nil
}

func appendMissing[K ~string, V any](out []string, table string, m map[K]V, keys []K) []string {
	for _, k := range keys {
		if _, ok := m[k]; !ok {
			out = append(out, table+"["+string(k)+"]")
		}
	}
	return out
}

// lookup returns the table entry for key. An empty key means the attribute
// was not specified and contributes zero; any other miss is a gap.
func lookup[K ~string](t Tables, table string, m map[K]decimal.Decimal, key K, gaps *[]string) decimal.Decimal {
	if key == "" {
		return decimal.Zero
	}
	if v, ok := m[key]; ok {
		return v
	}
	if t.Strict {
		panic(fmt.Sprintf("pricing: %s table has no entry for %q", table, key))
	}
	*gaps = append(*gaps, table+"["+string(key)+"]")
	return decimal.Zero
}

// multiplier resolves an inspection depth. An unknown or empty depth falls
// back to a neutral factor of one.
func (t Tables) multiplier(depth project.InspectionDepth, gaps *[]string) decimal.Decimal {
	if v, ok := t.Inspection[depth]; ok {
		return v
	}
	if t.Strict {
		panic(fmt.Sprintf("pricing: inspection table has no entry for %q", depth))
	}
	*gaps = append(*gaps, "inspection["+string(depth)+"]")
	return decimal.NewFromInt(1)
}

func (t Tables) fees(tier project.Tier, gaps *[]string) FixedFees {
	if f, ok := t.Fees[tier]; ok {
		return f
	}
	if t.Strict {
		panic(fmt.Sprintf("pricing: fees table has no entry for %q", tier))
	}
	*gaps = append(*gaps, "fees["+string(tier)+"]")
	return FixedFees{}
}
