package pricing

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/digiquote/internal/project"
)

const defaultMiscUnit = "unit"

// MiscPricing is how a misc expense row is priced. It is either an
// ExplicitPrice or a LegacyAmount.
type MiscPricing interface {
	isMiscPricing()
}

// ExplicitPrice is a row priced as quantity times unit price.
type ExplicitPrice struct {
	Qty       int64
	UnitPrice decimal.Decimal
}

// LegacyAmount is a lump-sum row saved without a unit price.
type LegacyAmount struct {
	Amount decimal.Decimal
}

func (ExplicitPrice) isMiscPricing() {}
func (LegacyAmount) isMiscPricing() {}

// ResolveMisc picks the pricing variant of a row. A present unit price always
// wins over the stored amount.
func ResolveMisc(m project.MiscExpense) MiscPricing {
	if m.UnitPrice == nil {
		return LegacyAmount{Amount: decimal.NewFromFloat(nonNegative(m.Amount))}
	}
	qty := int64(1)
	if m.Quantity != nil {
		qty = truncQuantity(*m.Quantity)
	}
	return ExplicitPrice{Qty: qty, UnitPrice: decimal.NewFromFloat(nonNegative(*m.UnitPrice))}
}

// miscLine renders a row as a ledger line. ok is false for rows with neither
// a label nor a value.
func (t Tables) miscLine(m project.MiscExpense, index int) (LineItem, bool) {
	line := LineItem{
		Kind:  KindMisc,
		Ref:   rowRef(m.ID, index),
		Label: m.Label,
		Unit:  strings.TrimSpace(m.Unit),
	}
	if line.Unit == "" {
		line.Unit = defaultMiscUnit
	}

	switch p := ResolveMisc(m).(type) {
	case ExplicitPrice:
		price := p.UnitPrice
		if m.CalcType == project.CalcExpense {
			price = price.Mul(t.ExpenseMarkup).Round(0)
		}
		line.Quantity = decimal.NewFromInt(p.Qty)
		line.UnitPrice = price
		line.Amount = line.Quantity.Mul(price).Round(0)
	case LegacyAmount:
		line.Quantity = decimal.NewFromInt(1)
		line.UnitPrice = p.Amount
		line.Amount = p.Amount
	}

	if strings.TrimSpace(m.Label) == "" && line.Amount.IsZero() {
		return LineItem{}, false
	}
	return line, true
}

// truncQuantity drops the fraction of v and saturates at math.MaxInt64.
func truncQuantity(v float64) int64 {
	v = nonNegative(v)
	if v >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v)
}

// nonNegative maps NaN, infinities and negatives to zero.
func nonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
