package blockfrost

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/fystack/cardano-auditor/internal/rpc"
	"github.com/fystack/cardano-auditor/pkg/ratelimiter"
)

// ErrMalformed wraps responses that came back 2xx but did not decode
// into the expected shape. Callers paging through lists treat this as
// end-of-data rather than a failure.
var ErrMalformed = errors.New("malformed blockfrost response")

type Client struct {
	*rpc.Client
}

// NewClient creates a Blockfrost REST client
// (https://blockfrost.io/ or a compatible Cardano explorer API).
// Authentication is the Blockfrost "project_id" header.
func NewClient(
	baseURL, projectID string,
	cfg rpc.ClientConfig,
	rl *ratelimiter.PooledRateLimiter,
) *Client {
	return &Client{
		Client: rpc.NewClient(
			baseURL,
			"cardano",
			&rpc.AuthConfig{Type: rpc.AuthTypeHeader, Key: "project_id", Value: projectID},
			cfg,
			rl,
		),
	}
}

// AddressTransactions fetches one page of the address's transaction
// list in ascending chronological order. An unknown address (404) is
// an empty history, not an error.
func (c *Client) AddressTransactions(
	ctx context.Context,
	address string,
	page, count int,
) ([]AddressTransaction, error) {
	endpoint := fmt.Sprintf("/addresses/%s/transactions", address)
	params := map[string]string{
		"page":  strconv.Itoa(page),
		"count": strconv.Itoa(count),
		"order": "asc",
	}

	data, err := c.Do(ctx, http.MethodGet, endpoint, nil, params)
	if err != nil {
		if rpc.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list transactions for %s: %w", address, err)
	}

	var txs []AddressTransaction
	if err := json.Unmarshal(data, &txs); err != nil {
		return nil, fmt.Errorf("%w: address transactions page %d: %v", ErrMalformed, page, err)
	}
	return txs, nil
}

// TransactionUTxOs fetches the inputs and outputs of a transaction.
// Missing input/output arrays decode as empty slices.
func (c *Client) TransactionUTxOs(ctx context.Context, txHash string) (*TxUTxOs, error) {
	endpoint := fmt.Sprintf("/txs/%s/utxos", txHash)
	data, err := c.Do(ctx, http.MethodGet, endpoint, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get utxos for %s: %w", txHash, err)
	}

	var utxos TxUTxOs
	if err := json.Unmarshal(data, &utxos); err != nil {
		return nil, fmt.Errorf("%w: tx utxos %s: %v", ErrMalformed, txHash, err)
	}
	if utxos.Inputs == nil {
		utxos.Inputs = []UTxO{}
	}
	if utxos.Outputs == nil {
		utxos.Outputs = []UTxO{}
	}
	return &utxos, nil
}

// Transaction fetches transaction metadata, including the fee.
func (c *Client) Transaction(ctx context.Context, txHash string) (*TxInfo, error) {
	endpoint := fmt.Sprintf("/txs/%s", txHash)
	data, err := c.Do(ctx, http.MethodGet, endpoint, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction %s: %w", txHash, err)
	}

	var info TxInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("%w: tx %s: %v", ErrMalformed, txHash, err)
	}
	return &info, nil
}
