package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/seenimoa/trinopricer/pkg/models"
)

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printChainSummary renders one line per priced contract: the resolved
// inputs and the root value at the finest lattice resolution.
func printChainSummary(chain *models.PricedChain) {
	fmt.Printf("%s — %d priced contracts\n\n", chain.Symbol, len(chain.Contracts))
	fmt.Printf("%-6s %-12s %-10s %-28s %-10s %12s\n",
		"side", "strike", "days", "IV", "steps", "value")

	for _, c := range chain.Contracts {
		finest := 0.0
		if n := len(c.PricingSteps); n > 0 {
			finest = c.PricingSteps[n-1].OptionValueAtRoot
		}
		fmt.Printf("%-6s %-12.2f %-10d %-28s %-10d %12.4f\n",
			c.OptionType, c.K, c.DaysToExpiry, c.IV, len(c.PricingSteps), finest)
	}
}
