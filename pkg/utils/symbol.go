package utils

import "strings"

// nseIndices are the index underlyings served from the index option-chain
// endpoint; everything else is treated as an equity symbol.
var nseIndices = map[string]bool{
	"NIFTY":      true,
	"BANKNIFTY":  true,
	"FINNIFTY":   true,
	"MIDCPNIFTY": true,
	"NIFTYNXT50": true,
}

// NormalizeSymbol canonicalizes a user-supplied symbol for NSE lookups.
func NormalizeSymbol(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "NSE:")
	return strings.ReplaceAll(s, " ", "")
}

// IsIndex reports whether the symbol is an NSE index underlying.
func IsIndex(symbol string) bool {
	return nseIndices[NormalizeSymbol(symbol)]
}
