package pricing

import "github.com/shopspring/decimal"

// TotalsResult contains roll-up values of a ledger.
type TotalsResult struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// Totals sums a ledger in order and applies tax to the subtotal.
func Totals(items []LineItem, taxRate decimal.Decimal) TotalsResult {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Amount)
	}
	tax := subtotal.Mul(taxRate).Round(0)
	return TotalsResult{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}
