package pricing

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/digiquote/internal/project"
)

// Kind tags a ledger row.
type Kind string

const (
	KindWork  Kind = "work"
	KindMisc  Kind = "misc"
	KindFixed Kind = "fixed"
	KindAddOn Kind = "addon"
)

const (
	defaultWorkUnit = "page"
	maxLoadAdjust   = 20
)

var addOnLabels = map[project.AddOn]string{
	project.AddOnFumigation:     "Fumigation",
	project.AddOnPacking:        "Packing",
	project.AddOnPickupDelivery: "Pickup and delivery",
	project.AddOnOnSite:         "On-site work",
	project.AddOnEncryption:     "Encryption",
}

// LineItem is one priced row of a quotation.
type LineItem struct {
	Kind      Kind            `json:"kind"`
	Ref       string          `json:"ref,omitempty"`
	Label     string          `json:"label"`
	Quantity  decimal.Decimal `json:"quantity"`
	Unit      string          `json:"unit"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Amount    decimal.Decimal `json:"amount"`
	Note      string          `json:"note,omitempty"`
}

// CalcResult is the full evaluation of a project. It is derived entirely
// from the input and is identical for identical inputs.
type CalcResult struct {
	Tier       project.Tier                  `json:"tier"`
	Items      []LineItem                    `json:"items"`
	Subtotal   decimal.Decimal               `json:"subtotal"`
	Tax        decimal.Decimal               `json:"tax"`
	Total      decimal.Decimal               `json:"total"`
	TaxRate    decimal.Decimal               `json:"taxRate"`
	Breakdowns map[string]UnitPriceBreakdown `json:"breakdowns"`

	LoadAdjustmentPct float64  `json:"loadAdjustmentPct"`
	Warnings          []string `json:"warnings,omitempty"`
}

// Calc evaluates a project into its ledger and totals. p is not modified.
func (t Tables) Calc(p project.ProjectData) CalcResult {
	res := CalcResult{
		Tier:       p.Tier,
		Breakdowns: make(map[string]UnitPriceBreakdown, len(p.WorkItems)),
		TaxRate:    t.taxRate(p.TaxRatePct),
	}

	for i, w := range p.WorkItems {
		ref := rowRef(w.ID, i)
		if _, taken := res.Breakdowns[ref]; taken {
			ref = freeRef(res.Breakdowns, i)
			res.Warnings = append(res.Warnings, fmt.Sprintf("work item %d: duplicate id %q, keyed as %s", i+1, w.ID, ref))
		}
		b := t.UnitPrice(p.Tier, p.InspectionDepth, w)
		res.Breakdowns[ref] = b
		for _, g := range b.Gaps {
			res.Warnings = append(res.Warnings, fmt.Sprintf("work item %s: missing coefficient %s", ref, g))
		}

		qty := decimal.NewFromFloat(nonNegative(w.Quantity))
		unit := strings.TrimSpace(w.Unit)
		if unit == "" {
			unit = defaultWorkUnit
		}
		res.Items = append(res.Items, LineItem{
			Kind:      KindWork,
			Ref:       ref,
			Label:     workLabel(w, i),
			Quantity:  qty,
			Unit:      unit,
			UnitPrice: b.UnitPrice,
			Amount:    b.UnitPrice.Mul(qty).Round(0),
			Note:      w.Notes,
		})

		if warn := capWarning(p, ref, b); warn != "" {
			res.Warnings = append(res.Warnings, warn)
		}
	}

	for i, m := range p.MiscExpenses {
		if line, ok := t.miscLine(m, i); ok {
			res.Items = append(res.Items, line)
		}
	}

	var gaps []string
	fees := t.fees(p.Tier, &gaps)
	res.Items = append(res.Items,
		fixedLine("Setup fee", fees.Setup, p.SetupFeeNote),
		fixedLine("Project management fee", fees.Management, p.ManagementFeeNote),
	)

	for _, a := range project.AllAddOns() {
		if !p.AddOnEnabled(a) {
			continue
		}
		fee := lookup(t, "addon", t.AddOns, a, &gaps)
		res.Items = append(res.Items, LineItem{
			Kind:      KindAddOn,
			Ref:       string(a),
			Label:     addOnLabels[a],
			Quantity:  decimal.NewFromInt(1),
			Unit:      "lot",
			UnitPrice: fee,
			Amount:    fee,
		})
	}
	for _, g := range gaps {
		res.Warnings = append(res.Warnings, "missing coefficient "+g)
	}

	totals := Totals(res.Items, res.TaxRate)
	res.Subtotal, res.Tax, res.Total = totals.Subtotal, totals.Tax, totals.Total

	res.LoadAdjustmentPct = clampLoadAdjustment(p.LoadAdjustmentPct)
	if res.LoadAdjustmentPct != p.LoadAdjustmentPct {
		res.Warnings = append(res.Warnings, fmt.Sprintf("load adjustment %v%% clamped to %v%%", p.LoadAdjustmentPct, res.LoadAdjustmentPct))
	}
	return res
}

// taxRate converts a percentage override; zero or invalid input keeps the
// table rate.
func (t Tables) taxRate(pct float64) decimal.Decimal {
	if pct = nonNegative(pct); pct == 0 {
		return t.TaxRate
	}
	return decimal.NewFromFloat(pct).Div(decimal.NewFromInt(100))
}

func fixedLine(label string, amount decimal.Decimal, note string) LineItem {
	return LineItem{
		Kind:      KindFixed,
		Label:     label,
		Quantity:  decimal.NewFromInt(1),
		Unit:      "lot",
		UnitPrice: amount,
		Amount:    amount,
		Note:      note,
	}
}

// rowRef keys a row by its id, or by position when the id is blank.
func rowRef(id string, index int) string {
	if id != "" {
		return id
	}
	return "#" + strconv.Itoa(index)
}

// freeRef returns a positional key for index that is not yet in used.
func freeRef(used map[string]UnitPriceBreakdown, index int) string {
	ref := rowRef("", index)
	for n := 1; ; n++ {
		if _, taken := used[ref]; !taken {
			return ref
		}
		ref = fmt.Sprintf("#%d.%d", index, n)
	}
}

func workLabel(w project.WorkItem, index int) string {
	if s := strings.TrimSpace(w.Title); s != "" {
		return s
	}
	return "Work item " + strconv.Itoa(index+1)
}

func capWarning(p project.ProjectData, ref string, b UnitPriceBreakdown) string {
	limit := nonNegative(p.CoefficientCap)
	if limit == 0 || p.CapException || b.Base.IsZero() {
		return ""
	}
	coef := b.UnitPrice.Div(b.Base)
	if coef.GreaterThan(decimal.NewFromFloat(limit)) {
		return fmt.Sprintf("work item %s: coefficient %s exceeds cap %v", ref, coef.StringFixed(2), limit)
	}
	return ""
}

func clampLoadAdjustment(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Min(math.Max(v, 0), maxLoadAdjust)
}
