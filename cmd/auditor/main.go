package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/fystack/cardano-auditor/internal/audit"
	"github.com/fystack/cardano-auditor/internal/config"
	"github.com/fystack/cardano-auditor/internal/events"
	"github.com/fystack/cardano-auditor/internal/rpc"
	"github.com/fystack/cardano-auditor/internal/rpc/blockfrost"
	"github.com/fystack/cardano-auditor/pkg/common/logger"
	"github.com/fystack/cardano-auditor/pkg/ratelimiter"
)

var (
	flagAddress    string
	flagConfigPath string
	flagLimit      int
	flagDetails    bool
	flagOutput     string
	flagDebug      bool
)

func main() {
	root := &cobra.Command{
		Use:          "auditor",
		Short:        "Audit a Cardano address's transaction history via a Blockfrost-compatible API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}

	root.Flags().StringVarP(&flagAddress, "address", "a", "", "Cardano address to audit")
	root.Flags().StringVarP(&flagConfigPath, "config", "c", "", "Path to YAML config file")
	root.Flags().IntVarP(&flagLimit, "limit", "l", 0, "Max transactions to audit (0 = no cap)")
	root.Flags().BoolVar(&flagDetails, "details", false, "Include per-transaction summaries in the report")
	root.Flags().StringVarP(&flagOutput, "output", "o", "", "Write the JSON report to this file instead of stdout")
	root.Flags().BoolVar(&flagDebug, "debug", false, "Enable debug logs")
	root.MarkFlagRequired("address")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// .env is optional; real deployments export the variables directly.
	godotenv.Load()

	level := slog.LevelInfo
	if flagDebug {
		level = slog.LevelDebug
	}
	logger.Init(&logger.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
	})

	cfg, err := config.Load(flagConfigPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if flagLimit > 0 {
		cfg.Audit.MaxTransactions = flagLimit
	}

	rl := ratelimiter.NewPooled(
		time.Second/time.Duration(cfg.API.RateLimit.RequestsPerSecond),
		cfg.API.RateLimit.BurstSize,
	)
	client := blockfrost.NewClient(cfg.API.BaseURL, cfg.API.ProjectID, rpc.ClientConfig{
		RequestTimeout: cfg.API.RequestTimeout,
		MaxRetries:     cfg.API.MaxRetries,
		RetryDelay:     cfg.API.RetryDelay,
	}, rl)
	defer client.Close()

	var emitter audit.Emitter
	if cfg.NATS.URL != "" {
		natsEmitter, err := events.NewNATSEmitter(cfg.NATS.URL, cfg.NATS.SubjectPrefix)
		if err != nil {
			return fmt.Errorf("events: %w", err)
		}
		defer natsEmitter.Close()
		emitter = natsEmitter
	}

	auditor := audit.NewAuditor(client, audit.Options{
		PageSize:        cfg.Audit.PageSize,
		Pause:           cfg.Audit.PauseBetweenCalls,
		MaxTransactions: cfg.Audit.MaxTransactions,
		Emitter:         emitter,
	})

	logger.Info("starting audit", "address", flagAddress, "api", cfg.API.BaseURL)
	report, err := auditor.Run(ctx, flagAddress)
	if err != nil {
		return err
	}

	logger.Info("audit complete",
		"tx_count", report.TxCount,
		"processed", report.PerTxCount,
		"skipped", report.SkippedTxCount,
		"received_ada", report.TotalReceivedADA,
		"spent_ada", report.TotalSpentADA,
		"net_ada", report.NetADAChange,
		"estimated_fees_ada", report.EstimatedFeesPaidADA,
	)

	if !flagDetails {
		report.Transactions = nil
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if flagOutput != "" {
		if err := os.WriteFile(flagOutput, out, 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		logger.Info("report written", "path", flagOutput)
		return nil
	}
	fmt.Println(string(out))
	return nil
}
