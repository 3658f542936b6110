// TrinoPricer — trinomial lattice pricing for NSE option chains.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/seenimoa/trinopricer/api"
	"github.com/seenimoa/trinopricer/internal/config"
	"github.com/seenimoa/trinopricer/internal/datasource"
	"github.com/seenimoa/trinopricer/internal/engine"
	"github.com/seenimoa/trinopricer/pkg/utils"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "trinopricer",
	Short: "TrinoPricer — trinomial lattice pricing for NSE option chains",
	Long: `TrinoPricer fetches NSE option chains and values every contract on a
multi-resolution trinomial lattice: time-to-expiry from the exchange
trading calendar, implied volatility with nearest-strike fallback, and
one single-period valuation per lattice resolution so convergence is
visible across step counts.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		setupLogging(cfg)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(priceCmd)
	rootCmd.AddCommand(expiryCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
}

// setupLogging configures logrus from config, honoring the CLI override.
func setupLogging(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logging.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("TrinoPricer %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Price Command ---

var priceCmd = &cobra.Command{
	Use:   "price [symbol]",
	Short: "Fetch an option chain and price it on the trinomial lattice",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		symbol := utils.NormalizeSymbol(args[0])
		asJSON, _ := cmd.Flags().GetBool("json")

		provider := datasource.NewNSE(cfg.NSE)
		eng := engine.New(engine.Config{
			Calendar:    cfg.BuildCalendar(),
			Rate:        cfg.Market.RiskFreeRate,
			Yield:       cfg.Market.DividendYield,
			Concurrency: cfg.Engine.Concurrency,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		records, err := provider.FetchChain(ctx, symbol)
		if err != nil {
			return fmt.Errorf("fetch option chain: %w", err)
		}
		log.WithFields(log.Fields{"symbol": symbol, "records": len(records)}).Info("option chain fetched")

		chain, err := eng.PriceChain(ctx, symbol, records)
		if err != nil {
			return fmt.Errorf("price chain: %w", err)
		}

		if asJSON {
			return printJSON(chain)
		}
		printChainSummary(chain)
		return nil
	},
}

func init() {
	priceCmd.Flags().Bool("json", false, "emit the full result set as JSON")
}

// --- Expiry Command ---

var expiryCmd = &cobra.Command{
	Use:   "expiry [date]",
	Short: "Show the trading-calendar breakdown for a DD-Mon-YYYY expiry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cal := cfg.BuildCalendar()
		now := utils.NowIST()
		tte := cal.TimeToExpiry(args[0], now)

		fmt.Printf("Expiry:        %s\n", args[0])
		fmt.Printf("Today (IST):   %s\n", utils.FormatNSEDate(now))
		fmt.Printf("Trading days:  %d (%s)\n", tte.TradingDays, tte.Fraction)
		fmt.Printf("Calendar days: %d\n", cal.RawDaysToExpiry(args[0], now))
		fmt.Printf("T:             %.6f\n", tte.T)
		return nil
	},
}

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		provider := datasource.NewNSE(cfg.NSE)
		srv := api.NewServer(cfg, provider)

		log.WithField("addr", addr).Info("starting TrinoPricer API server")
		return srv.ListenAndServe(addr)
	},
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and market status",
	Run: func(cmd *cobra.Command, args []string) {
		cal := cfg.BuildCalendar()
		fmt.Printf("Market status:  %s\n", utils.MarketStatus())
		fmt.Printf("Risk-free rate: %.5f\n", cfg.Market.RiskFreeRate)
		fmt.Printf("Dividend yield: %.5f\n", cfg.Market.DividendYield)
		for _, year := range cal.Years() {
			yc, _ := cal.Year(year)
			fmt.Printf("Calendar %d:  %d trading days, %d holidays\n",
				year, yc.TotalTradingDays, len(yc.Holidays))
		}
	},
}
