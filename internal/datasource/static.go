package datasource

import (
	"context"

	"github.com/seenimoa/trinopricer/pkg/models"
	"github.com/seenimoa/trinopricer/pkg/utils"
)

// StaticProvider serves pre-loaded chain records from memory. Used for
// offline pricing runs and tests.
type StaticProvider struct {
	chains map[string][]models.ChainRecord
}

// NewStaticProvider creates a provider over the given symbol → records map.
func NewStaticProvider(chains map[string][]models.ChainRecord) *StaticProvider {
	return &StaticProvider{chains: chains}
}

// Name returns the data source name.
func (s *StaticProvider) Name() string { return "static" }

// FetchChain returns the stored records for the symbol, or
// ErrSymbolNotFound.
func (s *StaticProvider) FetchChain(_ context.Context, symbol string) ([]models.ChainRecord, error) {
	records, ok := s.chains[utils.NormalizeSymbol(symbol)]
	if !ok {
		return nil, ErrSymbolNotFound
	}
	return records, nil
}
