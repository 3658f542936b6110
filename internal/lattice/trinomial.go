package lattice

import (
	"math"

	"github.com/seenimoa/trinopricer/pkg/models"
)

// degenerateTol is the up/down spread below which the risk-neutral
// probabilities degenerate to equal thirds instead of dividing by a
// near-zero denominator.
const degenerateTol = 1e-14

// Params are the market and contract inputs to a trinomial evaluation.
type Params struct {
	S     float64 // spot
	K     float64 // strike
	R     float64 // annual risk-free rate
	Sigma float64 // volatility, decimal; floored to MinSigma when <= 0
	T     float64 // time to expiry, trading-year fraction
	Q     float64 // dividend / carry yield
	Side  models.OptionSide
}

// MinSigma is the volatility floor applied inside the pricer.
const MinSigma = 0.01

// PriceStep computes one single-period trinomial valuation at step count n.
//
// dt = T/n. The up/down factors span one period of length dt; the root
// value is the discounted expectation of the three terminal payoffs. The
// step count only enters through dt — there is no backward induction
// across intermediate periods; each n stands alone so callers can watch
// the reported value move as n grows.
//
// dt <= 0 (zero maturity or zero steps) yields a fully degenerate record:
// unit factors, zero probabilities, unit discount, terminal prices equal
// to spot, zero payoffs and zero root value. That is a defined terminal
// state, not an error. The function is pure.
func PriceStep(p Params, n int) models.LatticeStep {
	sigma := p.Sigma
	if sigma <= 0 {
		sigma = MinSigma
	}

	var dt float64
	if n != 0 {
		dt = p.T / float64(n)
	}
	if dt <= 0 {
		return models.LatticeStep{
			N:              n,
			Dt:             0,
			U:              1,
			D:              1,
			M:              1,
			DiscountFactor: 1,
			PriceUp:        p.S,
			PriceMid:       p.S,
			PriceDown:      p.S,
		}
	}

	u := math.Exp(sigma * math.Sqrt(2.0*dt))
	d := 1.0 / u
	m := 1.0

	// Standard trinomial risk-neutral construction. The probabilities are
	// not clamped to [0,1]; extreme inputs can push them out of range.
	var pu, pm, pd float64
	if math.Abs(u-d) < degenerateTol {
		pu, pm, pd = 1.0/3.0, 1.0/3.0, 1.0/3.0
	} else {
		frac := (math.Exp((p.R-p.Q)*dt) - d) / (u - d)
		pu = 0.5 * frac * frac
		pm = 1.0 - frac*frac
		pd = 1.0 - pu - pm
	}

	discount := math.Exp(-p.R * dt)

	priceUp := p.S * u
	priceMid := p.S * m
	priceDown := p.S * d

	var payoffUp, payoffMid, payoffDown float64
	if p.Side == models.SideCall {
		payoffUp = math.Max(0, priceUp-p.K)
		payoffMid = math.Max(0, priceMid-p.K)
		payoffDown = math.Max(0, priceDown-p.K)
	} else {
		payoffUp = math.Max(0, p.K-priceUp)
		payoffMid = math.Max(0, p.K-priceMid)
		payoffDown = math.Max(0, p.K-priceDown)
	}

	root := discount * (pu*payoffUp + pm*payoffMid + pd*payoffDown)

	return models.LatticeStep{
		N:                 n,
		Dt:                dt,
		U:                 u,
		D:                 d,
		M:                 m,
		PU:                pu,
		PM:                pm,
		PD:                pd,
		DiscountFactor:    discount,
		PriceUp:           priceUp,
		PriceMid:          priceMid,
		PriceDown:         priceDown,
		PayoffUp:          payoffUp,
		PayoffMid:         payoffMid,
		PayoffDown:        payoffDown,
		OptionValueAtRoot: root,
	}
}

// PriceSchedule evaluates the contract once per requested step count,
// in order.
func PriceSchedule(p Params, steps []int) []models.LatticeStep {
	if p.Sigma <= 0 {
		p.Sigma = MinSigma
	}
	out := make([]models.LatticeStep, 0, len(steps))
	for _, n := range steps {
		out = append(out, PriceStep(p, n))
	}
	return out
}
