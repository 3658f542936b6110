package lattice

import (
	"math"
	"testing"

	"github.com/seenimoa/trinopricer/pkg/models"
)

func baseParams(side models.OptionSide) Params {
	return Params{
		S:     25000,
		K:     25000,
		R:     0.06509,
		Sigma: 0.18,
		T:     0.05,
		Q:     0,
		Side:  side,
	}
}

func TestProbabilitiesSumToOne(t *testing.T) {
	combos := []Params{
		{S: 100, K: 100, R: 0.05, Sigma: 0.2, T: 0.1, Q: 0},
		{S: 100, K: 110, R: 0.01, Sigma: 0.45, T: 0.5, Q: 0.02},
		{S: 25000, K: 24500, R: 0.06509, Sigma: 0.12, T: 0.02, Q: 0},
		{S: 50, K: 55, R: 0.1, Sigma: 0.8, T: 1.0, Q: 0.05},
	}
	for _, p := range combos {
		p.Side = models.SideCall
		for _, n := range []int{4, 10, 100, 400} {
			step := PriceStep(p, n)
			sum := step.PU + step.PM + step.PD
			if math.Abs(sum-1.0) > 1e-9 {
				t.Errorf("probabilities sum to %v for params %+v n=%d", sum, p, n)
			}
		}
	}
}

func TestDegenerateZeroMaturity(t *testing.T) {
	p := baseParams(models.SideCall)
	p.T = 0

	step := PriceStep(p, 10)
	if step.OptionValueAtRoot != 0 {
		t.Errorf("expected zero root value, got %f", step.OptionValueAtRoot)
	}
	if step.PriceUp != p.S || step.PriceMid != p.S || step.PriceDown != p.S {
		t.Errorf("expected all terminal prices equal to spot %f, got %f/%f/%f",
			p.S, step.PriceUp, step.PriceMid, step.PriceDown)
	}
	if step.U != 1 || step.D != 1 || step.M != 1 {
		t.Errorf("expected unit factors, got u=%f d=%f m=%f", step.U, step.D, step.M)
	}
	if step.PU != 0 || step.PM != 0 || step.PD != 0 {
		t.Errorf("expected zero probabilities, got %f/%f/%f", step.PU, step.PM, step.PD)
	}
	if step.DiscountFactor != 1 {
		t.Errorf("expected unit discount factor, got %f", step.DiscountFactor)
	}
}

func TestDegenerateZeroSteps(t *testing.T) {
	step := PriceStep(baseParams(models.SidePut), 0)
	if step.Dt != 0 || step.OptionValueAtRoot != 0 {
		t.Errorf("expected degenerate record for n=0, got %+v", step)
	}
	if step.N != 0 {
		t.Errorf("expected n preserved, got %d", step.N)
	}
}

func TestFactors(t *testing.T) {
	p := baseParams(models.SideCall)
	step := PriceStep(p, 100)

	dt := p.T / 100
	wantU := math.Exp(p.Sigma * math.Sqrt(2*dt))
	if math.Abs(step.U-wantU) > 1e-12 {
		t.Errorf("expected u=%v, got %v", wantU, step.U)
	}
	if math.Abs(step.U*step.D-1.0) > 1e-12 {
		t.Errorf("expected d = 1/u, got u*d = %v", step.U*step.D)
	}
	if step.M != 1 {
		t.Errorf("expected m=1, got %v", step.M)
	}
	wantDF := math.Exp(-p.R * dt)
	if math.Abs(step.DiscountFactor-wantDF) > 1e-12 {
		t.Errorf("expected discount %v, got %v", wantDF, step.DiscountFactor)
	}
}

func TestPayoffs(t *testing.T) {
	p := baseParams(models.SideCall)
	p.K = 24900
	step := PriceStep(p, 50)

	if math.Abs(step.PayoffUp-(step.PriceUp-p.K)) > 1e-9 {
		t.Errorf("call up payoff: expected %v, got %v", step.PriceUp-p.K, step.PayoffUp)
	}
	if math.Abs(step.PayoffMid-(p.S-p.K)) > 1e-9 {
		t.Errorf("call mid payoff: expected %v, got %v", p.S-p.K, step.PayoffMid)
	}

	p.Side = models.SidePut
	put := PriceStep(p, 50)
	if put.PayoffMid != 0 {
		t.Errorf("put mid payoff should be 0 when S > K, got %v", put.PayoffMid)
	}
	if math.Abs(put.PayoffDown-(p.K-put.PriceDown)) > 1e-9 {
		t.Errorf("put down payoff: expected %v, got %v", p.K-put.PriceDown, put.PayoffDown)
	}
}

func TestNodeLevelParity(t *testing.T) {
	p := baseParams(models.SideCall)
	call := PriceStep(p, 100)
	p.Side = models.SidePut
	put := PriceStep(p, 100)

	// max(0, S_i - K) - max(0, K - S_i) == S_i - K at every node.
	nodes := []struct{ price, c, pu float64 }{
		{call.PriceUp, call.PayoffUp, put.PayoffUp},
		{call.PriceMid, call.PayoffMid, put.PayoffMid},
		{call.PriceDown, call.PayoffDown, put.PayoffDown},
	}
	for _, nd := range nodes {
		if math.Abs((nd.c-nd.pu)-(nd.price-p.K)) > 1e-9 {
			t.Errorf("node parity violated at price %v: call=%v put=%v", nd.price, nd.c, nd.pu)
		}
	}
}

func TestRootParityIdentity(t *testing.T) {
	p := baseParams(models.SideCall)
	call := PriceStep(p, 100)
	p.Side = models.SidePut
	put := PriceStep(p, 100)

	// With probabilities summing to one, call - put at the root equals the
	// discounted expected price minus the discounted strike, exactly.
	expPrice := call.PU*call.PriceUp + call.PM*call.PriceMid + call.PD*call.PriceDown
	want := call.DiscountFactor * (expPrice - p.K)
	got := call.OptionValueAtRoot - put.OptionValueAtRoot
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("root parity identity: got %v, want %v", got, want)
	}

	// And approximately matches the forward-parity form over one period.
	dt := call.Dt
	approx := p.S*math.Exp(-p.Q*dt) - p.K*math.Exp(-p.R*dt)
	if math.Abs(got-approx) > 0.01*p.S {
		t.Errorf("root parity too far from forward parity: got %v, approx %v", got, approx)
	}
}

func TestEqualThirdsDegenerateSpread(t *testing.T) {
	// Sigma floored to MinSigma still produces a real spread; force the
	// near-zero spread branch with a vanishing dt instead.
	p := Params{S: 100, K: 100, R: 0.05, Sigma: 1e-9, T: 1e-18, Q: 0, Side: models.SideCall}
	step := PriceStep(p, 1)
	if step.Dt <= 0 {
		t.Skip("dt underflowed to zero; degenerate record path covers this")
	}
	if math.Abs(step.PU-1.0/3.0) > 1e-9 || math.Abs(step.PM-1.0/3.0) > 1e-9 || math.Abs(step.PD-1.0/3.0) > 1e-9 {
		t.Errorf("expected equal thirds, got %v/%v/%v", step.PU, step.PM, step.PD)
	}
}

func TestSigmaFloor(t *testing.T) {
	p := baseParams(models.SideCall)
	p.Sigma = 0
	step := PriceStep(p, 10)

	dt := p.T / 10
	wantU := math.Exp(MinSigma * math.Sqrt(2*dt))
	if math.Abs(step.U-wantU) > 1e-12 {
		t.Errorf("expected sigma floored to %v (u=%v), got u=%v", MinSigma, wantU, step.U)
	}
}

func TestPriceSchedule(t *testing.T) {
	p := baseParams(models.SideCall)
	steps := PriceSchedule(p, []int{10, 20, 50})
	if len(steps) != 3 {
		t.Fatalf("expected 3 results, got %d", len(steps))
	}
	for i, n := range []int{10, 20, 50} {
		if steps[i].N != n {
			t.Errorf("expected step %d at index %d, got %d", n, i, steps[i].N)
		}
		wantDt := p.T / float64(n)
		if math.Abs(steps[i].Dt-wantDt) > 1e-12 {
			t.Errorf("expected dt %v for n=%d, got %v", wantDt, n, steps[i].Dt)
		}
	}
}

func TestPriceStepPure(t *testing.T) {
	p := baseParams(models.SidePut)
	a := PriceStep(p, 100)
	b := PriceStep(p, 100)
	if a != b {
		t.Error("expected identical results for identical inputs")
	}
}
