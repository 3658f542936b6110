package models

import "fmt"

// Provenance marks whether a volatility value was directly quoted (REAL)
// or synthesized via nearest-strike substitution / floor fallback (FAKE).
type Provenance string

const (
	ProvenanceReal Provenance = "REAL"
	ProvenanceFake Provenance = "FAKE"
)

// TimeToExpiry is the trading-calendar view of a contract's remaining life.
type TimeToExpiry struct {
	T           float64 `json:"t"`            // trading-day fraction of a year
	Fraction    string  `json:"fraction"`     // "days/total", e.g. "12/247"
	TradingDays int     `json:"trading_days"` // trading days remaining
}

// ResolvedVol is the outcome of the volatility resolution chain.
type ResolvedVol struct {
	RawPct       float64    `json:"raw_pct"` // percentage as quoted (or substituted)
	Decimal      float64    `json:"decimal"` // fraction used for pricing, floored at 0.01
	Provenance   Provenance `json:"provenance"`
	SourceStrike float64    `json:"source_strike,omitempty"` // strike the IV was borrowed from, when substituted
}

// Annotation renders the IV triple the way the pricing output reports it.
func (v ResolvedVol) Annotation() string {
	return fmt.Sprintf("%.2f / %.4f / %s", v.RawPct, v.Decimal, v.Provenance)
}

// LatticeStep is one trinomial evaluation at a given step count n.
// Each n independently defines a single period of length dt = T/n; the
// reported value is the one-period discounted expectation at the root,
// not a backward induction across n periods.
type LatticeStep struct {
	N                 int     `json:"n"`
	Dt                float64 `json:"dt"`
	U                 float64 `json:"u"`
	D                 float64 `json:"d"`
	M                 float64 `json:"m"`
	PU                float64 `json:"p_u"`
	PM                float64 `json:"p_m"`
	PD                float64 `json:"p_d"`
	DiscountFactor    float64 `json:"discount_factor"`
	PriceUp           float64 `json:"price_up"`
	PriceMid          float64 `json:"price_mid"`
	PriceDown         float64 `json:"price_down"`
	PayoffUp          float64 `json:"payoff_up"`
	PayoffMid         float64 `json:"payoff_mid"`
	PayoffDown        float64 `json:"payoff_down"`
	OptionValueAtRoot float64 `json:"option_value_at_root"`
}

// ConvergenceSummary aggregates the root values across the step schedule.
type ConvergenceSummary struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Spread float64 `json:"spread"` // max - min
	Final  float64 `json:"final"`  // value at the largest step count
}

// PricedContract is the full pricing result for one contract/side pair.
// Field names and JSON keys follow the wire format consumed by the
// presentation layer.
type PricedContract struct {
	Symbol          string              `json:"symbol"`
	OptionType      OptionSide          `json:"option_type"`
	ExpiryDate      string              `json:"expiry_date"` // "26-Jun-2025 / T=0.048583 (fraction=12/247)"
	RawDaysToExpiry int                 `json:"raw_days_to_expiry"`
	DaysToExpiry    int                 `json:"days_to_expiry"` // trading days
	DayFraction     string              `json:"day_fraction_excluding_weekends_holidays"`
	K               float64             `json:"K"`
	S               float64             `json:"S"`
	IV              string              `json:"IV"` // "18.25 / 0.1825 / REAL"
	R               float64             `json:"r"`
	Q               float64             `json:"q"`
	PricingSteps    []LatticeStep       `json:"pricing_steps"`
	Convergence     *ConvergenceSummary `json:"convergence,omitempty"`
}

// PricedChain is the batch result for one symbol.
type PricedChain struct {
	Symbol    string           `json:"symbol"`
	Contracts []PricedContract `json:"contracts"`
}
