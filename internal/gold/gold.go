// Package gold converts gross gold weights to their 999-fine equivalent.
package gold

import "github.com/shopspring/decimal"

// fineness models conversion to 24K-equivalent (999 fine gold) per
// accounting convention.
var (
	fineness  = decimal.RequireFromString("0.999")
	hundred   = decimal.NewFromInt(100)
	fullKarat = decimal.NewFromInt(24)
)

// NetWeight returns (gross * purity/100) / 0.999 rounded to 3 decimal
// places: the net grams recorded on a gold transaction.
func NetWeight(grossWeight, purityPercent decimal.Decimal) decimal.Decimal {
	return grossWeight.Mul(purityPercent).Div(hundred).Div(fineness).Round(3)
}

// KaratToPercent converts a karat purity to a percentage: karat/24 * 100.
func KaratToPercent(karat decimal.Decimal) decimal.Decimal {
	return karat.Div(fullKarat).Mul(hundred)
}

type Preset struct {
	Label   string          `json:"label"`
	Karat   int             `json:"karat"`
	Percent decimal.Decimal `json:"percent"`
}

// Presets carries the trade's conventional purity percentages as provided
// constants. 22K in particular is 91.67 by convention, not the 91.666...
// the karat formula yields.
var Presets = []Preset{
	{Label: "24K", Karat: 24, Percent: decimal.RequireFromString("99.9")},
	{Label: "22K", Karat: 22, Percent: decimal.RequireFromString("91.67")},
	{Label: "21K", Karat: 21, Percent: decimal.RequireFromString("87.5")},
	{Label: "18K", Karat: 18, Percent: decimal.RequireFromString("75")},
}
