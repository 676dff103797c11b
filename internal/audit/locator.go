package audit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fystack/cardano-auditor/internal/rpc/blockfrost"
	"github.com/fystack/cardano-auditor/pkg/common/logger"
)

// RetrievalError is terminal: the address's transaction list could not
// be retrieved at all, so no report can be produced.
type RetrievalError struct {
	Address string
	Err     error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("failed to retrieve transactions for %s: %v", e.Address, e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

// Locator pages through an address's transaction list in ascending
// chronological order.
type Locator struct {
	api      blockfrost.API
	pageSize int
	pause    time.Duration
}

func NewLocator(api blockfrost.API, pageSize int, pause time.Duration) *Locator {
	if pageSize <= 0 {
		pageSize = 100
	}
	return &Locator{api: api, pageSize: pageSize, pause: pause}
}

// Locate returns the ordered, deduplicated transaction hashes
// involving the address. Pagination stops at the first empty or
// malformed page; both mean end-of-data. Any other failure aborts
// with a *RetrievalError.
func (l *Locator) Locate(ctx context.Context, address string) ([]string, error) {
	seen := make(map[string]struct{})
	var hashes []string

	for page := 1; ; page++ {
		txs, err := l.api.AddressTransactions(ctx, address, page, l.pageSize)
		if err != nil {
			if errors.Is(err, blockfrost.ErrMalformed) {
				logger.Warn("stopping pagination on malformed page", "page", page, "error", err)
				break
			}
			return nil, &RetrievalError{Address: address, Err: err}
		}
		if len(txs) == 0 {
			break
		}

		for _, tx := range txs {
			if tx.TxHash == "" {
				continue
			}
			if _, dup := seen[tx.TxHash]; dup {
				continue
			}
			seen[tx.TxHash] = struct{}{}
			hashes = append(hashes, tx.TxHash)
		}

		logger.Debug("located transactions", "page", page, "count", len(txs), "total", len(hashes))
		sleep(ctx, l.pause)
	}

	return hashes, nil
}

// sleep pauses between network calls, waking early on cancellation.
func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
