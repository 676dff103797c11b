package audit

import (
	"math/big"
	"time"

	"github.com/fystack/cardano-auditor/internal/rpc/blockfrost"
)

// LovelacePerADA is the smallest-denomination scale of the native
// currency: 1 ADA = 1_000_000 lovelace.
const LovelacePerADA = 1_000_000

// Detail is the transient per-transaction record folded into the
// aggregator: the transaction's UTXO set plus its fee in lovelace.
type Detail struct {
	Hash    string
	Inputs  []blockfrost.UTxO
	Outputs []blockfrost.UTxO
	Fee     *big.Int
}

// NewDetail builds a Detail from raw API responses. The explorer
// occasionally omits fields, so everything missing degrades to empty
// slices or zero here rather than inside the aggregation logic.
func NewDetail(hash string, utxos *blockfrost.TxUTxOs, info *blockfrost.TxInfo) *Detail {
	d := &Detail{
		Hash:    hash,
		Inputs:  []blockfrost.UTxO{},
		Outputs: []blockfrost.UTxO{},
		Fee:     new(big.Int),
	}
	if utxos != nil {
		if utxos.Inputs != nil {
			d.Inputs = utxos.Inputs
		}
		if utxos.Outputs != nil {
			d.Outputs = utxos.Outputs
		}
	}
	if info != nil {
		d.Fee = parseQuantity(info.Fees)
	}
	return d
}

// parseQuantity parses a decimal integer string into a non-negative
// big.Int. Malformed or negative values degrade to zero.
func parseQuantity(q string) *big.Int {
	n, ok := new(big.Int).SetString(q, 10)
	if !ok || n.Sign() < 0 {
		return new(big.Int)
	}
	return n
}

// Summary is the immutable per-transaction audit record. Lovelace
// values are decimal integer strings, matching the explorer's own
// quantity encoding.
type Summary struct {
	TxHash                 string   `json:"tx_hash"`
	InputsFromAddrLovelace string   `json:"inputs_from_address_lovelace"`
	OutputsToAddrLovelace  string   `json:"outputs_to_address_lovelace"`
	FeeLovelace            string   `json:"fee_lovelace"`
	FeeAttributedLovelace  string   `json:"fee_attributed_lovelace"`
	AssetsMovedOut         []string `json:"assets_moved_out"`
}

// Report is the terminal aggregate for one audited address.
type Report struct {
	RunID                      string    `json:"run_id"`
	Address                    string    `json:"address"`
	TxCount                    int       `json:"tx_count"`
	TotalReceivedADA           float64   `json:"total_received_ada"`
	TotalSpentADA              float64   `json:"total_spent_ada"`
	NetADAChange               float64   `json:"net_ada_change"`
	EstimatedFeesPaidADA       float64   `json:"estimated_fees_paid_ada"`
	OutgoingTxsWithAssetsCount int       `json:"outgoing_txs_with_assets_count"`
	UniqueAssetUnitsMovedOut   []string  `json:"unique_asset_units_moved_out"`
	PerTxCount                 int       `json:"per_tx_count"`
	SkippedTxCount             int       `json:"skipped_tx_count"`
	GeneratedAt                time.Time `json:"generated_at"`
	Transactions               []Summary `json:"transactions,omitempty"`
}

// Emitter receives audit results as they are produced. Implementations
// live outside this package; a nil emitter disables emission.
type Emitter interface {
	EmitSummary(runID, address string, s *Summary) error
	EmitReport(r *Report) error
	Close()
}
