package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fystack/cardano-auditor/internal/rpc/blockfrost"
	"github.com/fystack/cardano-auditor/pkg/common/logger"
)

// Options controls one audit run.
type Options struct {
	PageSize int

	// Pause is slept after every network call to stay inside explorer
	// rate limits, on top of the client's own limiter.
	Pause time.Duration

	// MaxTransactions caps the audited transactions; 0 means no cap.
	MaxTransactions int

	// Emitter receives summaries and the final report; nil disables it.
	Emitter Emitter
}

// Auditor runs the locate-fetch-fold pipeline for one address,
// strictly sequentially.
type Auditor struct {
	api  blockfrost.API
	opts Options
}

func NewAuditor(api blockfrost.API, opts Options) *Auditor {
	return &Auditor{api: api, opts: opts}
}

// Run audits the address. A locator failure is fatal and yields no
// report; a per-transaction failure is logged and skipped, so the
// report's per_tx_count may be lower than its tx_count.
func (a *Auditor) Run(ctx context.Context, address string) (*Report, error) {
	runID := uuid.New().String()
	log := logger.With("run_id", runID, "address", address)

	locator := NewLocator(a.api, a.opts.PageSize, a.opts.Pause)
	hashes, err := locator.Locate(ctx, address)
	if err != nil {
		return nil, err
	}
	log.Info("located transactions", "count", len(hashes))

	if a.opts.MaxTransactions > 0 && len(hashes) > a.opts.MaxTransactions {
		log.Warn("capping audited transactions",
			"located", len(hashes), "cap", a.opts.MaxTransactions)
		hashes = hashes[:a.opts.MaxTransactions]
	}

	agg := NewAggregator(address)

	for _, hash := range hashes {
		detail, err := a.fetchDetail(ctx, hash)
		if err != nil {
			log.Warn("skipping transaction", "tx_hash", hash, "error", err)
			continue
		}

		summary := agg.Fold(detail)
		if a.opts.Emitter != nil {
			if err := a.opts.Emitter.EmitSummary(runID, address, summary); err != nil {
				log.Warn("failed to emit summary", "tx_hash", hash, "error", err)
			}
		}
	}

	report := agg.Finalize(runID, len(hashes))
	if a.opts.Emitter != nil {
		if err := a.opts.Emitter.EmitReport(report); err != nil {
			log.Warn("failed to emit report", "error", err)
		}
	}
	return report, nil
}

// fetchDetail performs the two per-transaction calls, pausing after
// each.
func (a *Auditor) fetchDetail(ctx context.Context, hash string) (*Detail, error) {
	utxos, err := a.api.TransactionUTxOs(ctx, hash)
	sleep(ctx, a.opts.Pause)
	if err != nil {
		return nil, err
	}

	info, err := a.api.Transaction(ctx, hash)
	sleep(ctx, a.opts.Pause)
	if err != nil {
		return nil, err
	}

	return NewDetail(hash, utxos, info), nil
}
