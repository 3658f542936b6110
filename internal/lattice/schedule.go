// Package lattice implements the discrete-time trinomial valuation: the
// step-schedule selector that picks lattice resolutions for a contract's
// volatility/maturity regime, and the single-period trinomial pricer
// evaluated once per step count.
package lattice

// StepSchedule maps a (volatility, time-to-expiry) pair to the ordered
// set of lattice step counts to evaluate. Rules are checked top to bottom
// and the first match wins; the ordering matters — a high-volatility,
// short-maturity contract must take the high-volatility schedule, not the
// short-maturity one. Higher volatility and very short maturities get
// finer resolutions so the caller can observe convergence.
func StepSchedule(sigma, t float64) []int {
	return StepScheduleFor(sigma, t, true, true)
}

// StepScheduleFor selects the schedule with the index/at-the-money hint.
// Non-index or away-from-the-money contracts fall back to the coarsest
// schedule when no volatility or maturity rule fires.
func StepScheduleFor(sigma, t float64, isIndex, isATM bool) []int {
	switch {
	case sigma > 0.4:
		return []int{10, 20, 50, 100, 200, 400}
	case sigma > 0.2:
		return []int{10, 20, 50, 100, 200}
	case sigma > 0.1:
		return []int{4, 10, 20, 40, 100}
	case t < 0.05:
		return []int{4, 10, 20, 40, 50}
	case isIndex && isATM:
		return []int{10, 20, 50, 100, 200}
	default:
		return []int{4, 10, 20, 40}
	}
}
