// Package models defines the shared data types exchanged between the
// data provider, the pricing engine, and the API layer.
package models

// OptionSide identifies the option leg of a chain record.
type OptionSide string

const (
	SideCall OptionSide = "CE"
	SidePut  OptionSide = "PE"
)

// Sides lists the two option sides in the order they are priced.
var Sides = []OptionSide{SideCall, SidePut}

// ChainRecord is one strike/expiry row of an NSE option chain, with up to
// two legs (CE and PE). The JSON tags mirror the NSE API response so the
// records decode straight from `records.data`. Records are immutable once
// fetched; they live for one pricing pass.
type ChainRecord struct {
	StrikePrice float64    `json:"strikePrice"`
	ExpiryDate  string     `json:"expiryDate"` // DD-Mon-YYYY, e.g. "26-Jun-2025"
	CE          *OptionLeg `json:"CE,omitempty"`
	PE          *OptionLeg `json:"PE,omitempty"`
}

// Leg returns the leg for the given side, or nil if the record has none.
func (r *ChainRecord) Leg(side OptionSide) *OptionLeg {
	switch side {
	case SideCall:
		return r.CE
	case SidePut:
		return r.PE
	}
	return nil
}

// OptionLeg holds the per-side quote fields of a chain record.
type OptionLeg struct {
	StrikePrice       float64 `json:"strikePrice"`
	ExpiryDate        string  `json:"expiryDate"`
	Underlying        string  `json:"underlying"`
	Identifier        string  `json:"identifier"`
	OpenInterest      int64   `json:"openInterest"`
	TotalTradedVolume int64   `json:"totalTradedVolume"`
	ImpliedVolatility float64 `json:"impliedVolatility"` // percentage; may be 0/absent
	LastPrice         float64 `json:"lastPrice"`
	BidPrice          float64 `json:"bidprice"`
	AskPrice          float64 `json:"askPrice"`
	UnderlyingValue   float64 `json:"underlyingValue"`
}
