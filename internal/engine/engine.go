// Package engine composes the calendar, volatility resolver, and lattice
// pricer into a batch orchestrator over option-chain records.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/trinopricer/internal/calendar"
	"github.com/seenimoa/trinopricer/internal/lattice"
	"github.com/seenimoa/trinopricer/internal/volatility"
	"github.com/seenimoa/trinopricer/pkg/models"
	"github.com/seenimoa/trinopricer/pkg/utils"
)

// Config carries the market constants and wiring for an Engine.
type Config struct {
	Calendar *calendar.Calendar
	Rate     float64 // annual risk-free rate
	Yield    float64 // dividend / carry yield

	// Concurrency bounds the number of records priced in parallel.
	// Values < 1 mean sequential.
	Concurrency int

	// Now overrides the clock; nil means IST wall time.
	Now func() time.Time
}

// Engine prices option-chain batches. Each record/side/step computation
// is independent and deterministic, so records are fanned out across a
// bounded worker group.
type Engine struct {
	cal         *calendar.Calendar
	rate        float64
	yield       float64
	concurrency int
	now         func() time.Time
}

// New creates an Engine from the given configuration.
func New(cfg Config) *Engine {
	now := cfg.Now
	if now == nil {
		now = utils.NowIST
	}
	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &Engine{
		cal:         cfg.Calendar,
		rate:        cfg.Rate,
		yield:       cfg.Yield,
		concurrency: concurrency,
		now:         now,
	}
}

// PriceChain prices every record/side pair in the batch and returns the
// results in chain order (per record: CE then PE when present).
//
// The batch is fail-soft: a record with an unparsable expiry or missing
// volatility degrades to zero/defaulted values in its own results and
// never aborts the rest. The only early exit is context cancellation.
func (e *Engine) PriceChain(ctx context.Context, symbol string, records []models.ChainRecord) (*models.PricedChain, error) {
	symbol = utils.NormalizeSymbol(symbol)
	today := e.now()

	perRecord := make([][]models.PricedContract, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i := range records {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			perRecord[i] = e.priceRecord(symbol, &records[i], records, today)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("price chain %s: %w", symbol, err)
	}

	out := &models.PricedChain{Symbol: symbol}
	for _, contracts := range perRecord {
		out.Contracts = append(out.Contracts, contracts...)
	}
	return out, nil
}

// priceRecord evaluates one chain record for every side it carries.
func (e *Engine) priceRecord(symbol string, rec *models.ChainRecord, chain []models.ChainRecord, today time.Time) []models.PricedContract {
	var out []models.PricedContract
	for _, side := range models.Sides {
		leg := rec.Leg(side)
		if leg == nil {
			continue
		}
		out = append(out, e.priceSide(symbol, rec, leg, side, chain, today))
	}
	return out
}

func (e *Engine) priceSide(symbol string, rec *models.ChainRecord, leg *models.OptionLeg, side models.OptionSide, chain []models.ChainRecord, today time.Time) models.PricedContract {
	tte := e.cal.TimeToExpiry(rec.ExpiryDate, today)
	vol := volatility.Resolve(leg.ImpliedVolatility, rec.StrikePrice, chain, side)
	steps := lattice.StepScheduleFor(vol.Decimal, tte.T, utils.IsIndex(symbol), isATM(rec.StrikePrice, leg.UnderlyingValue))

	results := lattice.PriceSchedule(lattice.Params{
		S:     leg.UnderlyingValue,
		K:     rec.StrikePrice,
		R:     e.rate,
		Sigma: vol.Decimal,
		T:     tte.T,
		Q:     e.yield,
		Side:  side,
	}, steps)

	return models.PricedContract{
		Symbol:          symbol,
		OptionType:      side,
		ExpiryDate:      fmt.Sprintf("%s / T=%.6f (fraction=%s)", rec.ExpiryDate, tte.T, tte.Fraction),
		RawDaysToExpiry: e.cal.RawDaysToExpiry(rec.ExpiryDate, today),
		DaysToExpiry:    tte.TradingDays,
		DayFraction:     tte.Fraction,
		K:               rec.StrikePrice,
		S:               leg.UnderlyingValue,
		IV:              vol.Annotation(),
		R:               e.rate,
		Q:               e.yield,
		PricingSteps:    results,
		Convergence:     summarize(results),
	}
}

// isATM treats a strike within 2% of spot as at-the-money.
func isATM(strike, spot float64) bool {
	if spot <= 0 {
		return false
	}
	diff := strike - spot
	if diff < 0 {
		diff = -diff
	}
	return diff <= 0.02*spot
}

// summarize condenses the per-step root values into a convergence view.
// Nil when the schedule is empty.
func summarize(steps []models.LatticeStep) *models.ConvergenceSummary {
	if len(steps) == 0 {
		return nil
	}
	roots := make([]float64, len(steps))
	for i, s := range steps {
		roots[i] = s.OptionValueAtRoot
	}

	mean, err := stats.Mean(roots)
	if err != nil {
		return nil
	}
	stdDev, err := stats.StdDevP(roots)
	if err != nil {
		return nil
	}
	min, _ := stats.Min(roots)
	max, _ := stats.Max(roots)

	return &models.ConvergenceSummary{
		Mean:   mean,
		StdDev: stdDev,
		Spread: max - min,
		Final:  roots[len(roots)-1],
	}
}
