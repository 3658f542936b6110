// Package volatility resolves the implied volatility used for pricing.
//
// Quoted IVs from the chain are used when usable; otherwise the resolver
// substitutes the IV of the nearest-strike sibling on the same side, and
// as a last resort falls back to a fixed floor. Resolution always
// succeeds; the provenance label tells consumers whether the value was
// quoted (REAL) or synthesized (FAKE).
package volatility

import (
	"math"
	"sort"

	"github.com/seenimoa/trinopricer/pkg/models"
)

// MinVol is the volatility floor applied when no usable IV can be found,
// expressed as a decimal fraction (1%).
const MinVol = 0.01

// Resolve runs the resolution chain for one contract side.
//
// quotedPct is the IV as quoted by the chain, in percent. When it is
// positive it is used directly with provenance REAL. Otherwise the
// nearest-strike sibling search runs over the full record set; when that
// also fails the result is the MinVol floor. Both fallback paths carry
// provenance FAKE.
func Resolve(quotedPct, strike float64, siblings []models.ChainRecord, side models.OptionSide) models.ResolvedVol {
	if quotedPct > 0 {
		return models.ResolvedVol{
			RawPct:     quotedPct,
			Decimal:    quotedPct / 100.0,
			Provenance: models.ProvenanceReal,
		}
	}

	if iv, sourceStrike, ok := nearestIV(strike, siblings, side); ok {
		return models.ResolvedVol{
			RawPct:       iv * 100.0,
			Decimal:      iv,
			Provenance:   models.ProvenanceFake,
			SourceStrike: sourceStrike,
		}
	}

	return models.ResolvedVol{
		RawPct:     0,
		Decimal:    MinVol,
		Provenance: models.ProvenanceFake,
	}
}

// nearestIV finds the first sibling, in order of absolute strike distance
// to the target, whose leg on the given side quotes a positive IV. Ties
// keep the original chain order (stable sort). Returns the IV as a
// decimal fraction and the strike it came from.
func nearestIV(strike float64, records []models.ChainRecord, side models.OptionSide) (float64, float64, bool) {
	sorted := make([]models.ChainRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return math.Abs(sorted[i].StrikePrice-strike) < math.Abs(sorted[j].StrikePrice-strike)
	})

	for i := range sorted {
		leg := sorted[i].Leg(side)
		if leg == nil {
			continue
		}
		if leg.ImpliedVolatility > 0 {
			return leg.ImpliedVolatility / 100.0, sorted[i].StrikePrice, true
		}
	}
	return 0, 0, false
}
