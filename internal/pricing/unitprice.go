package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/Simplici0/digiquote/internal/project"
)

// UnitPriceBreakdown is every intermediate term of a work item's unit price.
type UnitPriceBreakdown struct {
	Base             decimal.Decimal `json:"base"`
	Size             decimal.Decimal `json:"size"`
	Color            decimal.Decimal `json:"color"`
	Resolution       decimal.Decimal `json:"resolution"`
	Formats          decimal.Decimal `json:"formats"`
	DerivedSurcharge decimal.Decimal `json:"derivedSurcharge"`
	OCR              decimal.Decimal `json:"ocr"`
	Metadata         decimal.Decimal `json:"metadata"`
	Handling         decimal.Decimal `json:"handling"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	Multiplier       decimal.Decimal `json:"multiplier"`
	UnitPrice        decimal.Decimal `json:"unitPrice"`
	Gaps             []string        `json:"gaps,omitempty"`
}

// Adders is the subtotal above the tier base price.
func (b UnitPriceBreakdown) Adders() decimal.Decimal {
	return b.Subtotal.Sub(b.Base)
}

// UnitPrice prices one work item for the given tier and inspection depth.
func (t Tables) UnitPrice(tier project.Tier, depth project.InspectionDepth, item project.WorkItem) UnitPriceBreakdown {
	var gaps []string
	b := UnitPriceBreakdown{
		Base:       lookup(t, "base", t.Base, tier, &gaps),
		Size:       lookup(t, "size", t.Size, item.SizeClass, &gaps),
		Color:      lookup(t, "color", t.Color, item.ColorMode, &gaps),
		Resolution: lookup(t, "resolution", t.Resolution, item.Resolution, &gaps),
		Metadata:   lookup(t, "metadata", t.Metadata, item.Metadata, &gaps),
		Multiplier: t.multiplier(depth, &gaps),
	}

	var master, pdf, archival bool
	for _, f := range item.Formats {
		// unknown formats are free rather than a gap
		if v, ok := t.Format[f]; ok {
			b.Formats = b.Formats.Add(v)
		}
		master = master || f.IsMaster()
		pdf = pdf || f.IsPDF()
		archival = archival || f == project.FormatPDFA
	}
	if master && pdf {
		b.DerivedSurcharge = t.DerivedSurcharge
		if archival {
			b.DerivedSurcharge = b.DerivedSurcharge.Add(t.ArchivalIncrement)
		}
	}

	if item.OCR {
		b.OCR = t.OCR
	}
	for _, h := range item.Handling() {
		b.Handling = b.Handling.Add(lookup(t, "handling", t.Handling, h, &gaps))
	}

	b.Subtotal = decimal.Sum(b.Base, b.Size, b.Color, b.Resolution, b.Formats,
		b.DerivedSurcharge, b.OCR, b.Metadata, b.Handling)
	b.UnitPrice = b.Subtotal.Mul(b.Multiplier).Round(0)
	b.Gaps = gaps
	return b
}
