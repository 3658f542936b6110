package volatility

import (
	"math"
	"testing"

	"github.com/seenimoa/trinopricer/pkg/models"
)

func TestResolveQuoted(t *testing.T) {
	v := Resolve(18.25, 25000, nil, models.SideCall)
	if v.Provenance != models.ProvenanceReal {
		t.Errorf("expected REAL, got %s", v.Provenance)
	}
	if math.Abs(v.Decimal-0.1825) > 1e-12 {
		t.Errorf("expected decimal 0.1825, got %f", v.Decimal)
	}
	if v.RawPct != 18.25 {
		t.Errorf("expected raw 18.25, got %f", v.RawPct)
	}
}

func TestResolveNearestStrike(t *testing.T) {
	siblings := []models.ChainRecord{
		{StrikePrice: 100, CE: &models.OptionLeg{ImpliedVolatility: 0}},
		{StrikePrice: 105, CE: &models.OptionLeg{ImpliedVolatility: 18}},
	}

	// Quoted IV of 0, target 102: strike 100 is nearer but has no usable
	// IV, so the 105-strike value wins.
	v := Resolve(0, 102, siblings, models.SideCall)
	if v.Provenance != models.ProvenanceFake {
		t.Errorf("expected FAKE, got %s", v.Provenance)
	}
	if math.Abs(v.Decimal-0.18) > 1e-12 {
		t.Errorf("expected decimal 0.18, got %f", v.Decimal)
	}
	if v.SourceStrike != 105 {
		t.Errorf("expected source strike 105, got %f", v.SourceStrike)
	}
}

func TestResolveNearestStrikeSkipsWrongSide(t *testing.T) {
	siblings := []models.ChainRecord{
		{StrikePrice: 100, PE: &models.OptionLeg{ImpliedVolatility: 22}},
		{StrikePrice: 110, CE: &models.OptionLeg{ImpliedVolatility: 15}},
	}
	v := Resolve(0, 101, siblings, models.SideCall)
	if v.SourceStrike != 110 {
		t.Errorf("expected CE-side strike 110, got %f", v.SourceStrike)
	}
	if math.Abs(v.Decimal-0.15) > 1e-12 {
		t.Errorf("expected decimal 0.15, got %f", v.Decimal)
	}
}

func TestResolveTieKeepsChainOrder(t *testing.T) {
	// Strikes 95 and 105 are equidistant from 100; the earlier record wins.
	siblings := []models.ChainRecord{
		{StrikePrice: 95, PE: &models.OptionLeg{ImpliedVolatility: 21}},
		{StrikePrice: 105, PE: &models.OptionLeg{ImpliedVolatility: 19}},
	}
	v := Resolve(0, 100, siblings, models.SidePut)
	if v.SourceStrike != 95 {
		t.Errorf("expected tie broken by chain order (95), got %f", v.SourceStrike)
	}
}

func TestResolveFloor(t *testing.T) {
	siblings := []models.ChainRecord{
		{StrikePrice: 100, CE: &models.OptionLeg{ImpliedVolatility: 0}},
		{StrikePrice: 105},
	}
	v := Resolve(0, 100, siblings, models.SideCall)
	if v.Provenance != models.ProvenanceFake {
		t.Errorf("expected FAKE, got %s", v.Provenance)
	}
	if v.Decimal != MinVol {
		t.Errorf("expected floor %f, got %f", MinVol, v.Decimal)
	}
	if v.RawPct != 0 {
		t.Errorf("expected raw 0 for floored result, got %f", v.RawPct)
	}

	// Empty sibling set degrades the same way.
	v = Resolve(-1, 100, nil, models.SidePut)
	if v.Decimal != MinVol || v.Provenance != models.ProvenanceFake {
		t.Errorf("expected floored FAKE result, got %+v", v)
	}
}

func TestResolveAnnotation(t *testing.T) {
	v := Resolve(18.25, 25000, nil, models.SideCall)
	if got := v.Annotation(); got != "18.25 / 0.1825 / REAL" {
		t.Errorf("unexpected annotation %q", got)
	}
}
