package pricing

import (
	"context"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/Simplici0/digiquote/internal/project"
)

// CostStructure splits a scenario subtotal into cost buckets. The buckets
// always sum to the subtotal.
type CostStructure struct {
	Fixed          decimal.Decimal `json:"fixed"`
	VariableBase   decimal.Decimal `json:"variableBase"`
	VariableAdders decimal.Decimal `json:"variableAdders"`
	QualityCost    decimal.Decimal `json:"qualityCost"`
	Misc           decimal.Decimal `json:"misc"`
}

// Sum adds the buckets back together.
func (c CostStructure) Sum() decimal.Decimal {
	return decimal.Sum(c.Fixed, c.VariableBase, c.VariableAdders, c.QualityCost, c.Misc)
}

// Scenario is a project evaluated at one tier.
type Scenario struct {
	Tier            project.Tier            `json:"tier"`
	InspectionDepth project.InspectionDepth `json:"inspectionDepth"`
	Result          CalcResult              `json:"result"`
	Costs           CostStructure           `json:"costs"`
}

// SimulateTiers evaluates p at every tier, each with the tier's canonical
// inspection depth. Scenarios are returned cheapest tier first.
func (t Tables) SimulateTiers(p project.ProjectData) []Scenario {
	tiers := project.AllTiers()
	out := make([]Scenario, len(tiers))

	// evaluation cannot fail, so the group only joins the goroutines
	g, _ := errgroup.WithContext(context.Background())
	for i, tier := range tiers {
		depth := project.CanonicalInspection(tier)
		snapshot := p.WithTier(tier, depth)
		g.Go(func() error {
			res := t.Calc(snapshot)
			out[i] = Scenario{
				Tier:            tier,
				InspectionDepth: depth,
				Result:          res,
				Costs:           Decompose(res),
			}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// Decompose buckets every ledger row of res.
func Decompose(res CalcResult) CostStructure {
	var c CostStructure
	for _, it := range res.Items {
		switch it.Kind {
		case KindMisc:
			c.Misc = c.Misc.Add(it.Amount)
		case KindWork:
			b, ok := res.Breakdowns[it.Ref]
			if !ok {
				c.Fixed = c.Fixed.Add(it.Amount)
				continue
			}
			base := b.Base.Mul(it.Quantity)
			adders := b.Adders().Mul(it.Quantity)
			c.VariableBase = c.VariableBase.Add(base)
			c.VariableAdders = c.VariableAdders.Add(adders)
			c.QualityCost = c.QualityCost.Add(it.Amount.Sub(base).Sub(adders))
		default:
			c.Fixed = c.Fixed.Add(it.Amount)
		}
	}
	return c
}
