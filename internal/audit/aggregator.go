package audit

import (
	"math/big"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fystack/cardano-auditor/internal/rpc/blockfrost"
)

// Aggregator folds transaction details for a single address into
// running lovelace totals plus per-transaction summaries. All
// accumulation is exact integer arithmetic; conversion to fractional
// ADA happens once, in Finalize.
type Aggregator struct {
	address string

	totalReceived *big.Int // lovelace out to the address
	totalSpent    *big.Int // lovelace in from the address
	totalFees     *big.Int // attributed fee share

	outgoingWithAssets int
	assetUnits         map[string]struct{}
	summaries          []Summary
}

func NewAggregator(address string) *Aggregator {
	return &Aggregator{
		address:       address,
		totalReceived: new(big.Int),
		totalSpent:    new(big.Int),
		totalFees:     new(big.Int),
		assetUnits:    make(map[string]struct{}),
	}
}

// Fold processes one transaction and returns its summary.
func (a *Aggregator) Fold(d *Detail) *Summary {
	totalInputs := new(big.Int)
	inFromAddr := new(big.Int)
	outToAddr := new(big.Int)
	txAssets := make(map[string]struct{})

	for _, in := range d.Inputs {
		lov := lovelaceOf(in.Amount)
		totalInputs.Add(totalInputs, lov)

		if in.Address != a.address {
			continue
		}
		inFromAddr.Add(inFromAddr, lov)
		for _, amt := range in.Amount {
			if amt.Unit == blockfrost.UnitLovelace {
				continue
			}
			txAssets[amt.Unit] = struct{}{}
			a.assetUnits[amt.Unit] = struct{}{}
		}
	}

	for _, out := range d.Outputs {
		if out.Address == a.address {
			outToAddr.Add(outToAddr, lovelaceOf(out.Amount))
		}
	}

	// Proportional share of the fee: the address is held responsible
	// for fee * (its input lovelace / total input lovelace), floored.
	// Who actually paid is not observable from UTXO data, hence
	// "estimated" in the report.
	feeAttributed := new(big.Int)
	if inFromAddr.Sign() > 0 && totalInputs.Sign() > 0 {
		feeAttributed.Mul(d.Fee, inFromAddr)
		feeAttributed.Quo(feeAttributed, totalInputs)
	}

	a.totalReceived.Add(a.totalReceived, outToAddr)
	a.totalSpent.Add(a.totalSpent, inFromAddr)
	a.totalFees.Add(a.totalFees, feeAttributed)
	if len(txAssets) > 0 {
		a.outgoingWithAssets++
	}

	summary := Summary{
		TxHash:                 d.Hash,
		InputsFromAddrLovelace: inFromAddr.String(),
		OutputsToAddrLovelace:  outToAddr.String(),
		FeeLovelace:            d.Fee.String(),
		FeeAttributedLovelace:  feeAttributed.String(),
		AssetsMovedOut:         sortedUnits(txAssets),
	}
	a.summaries = append(a.summaries, summary)
	return &summary
}

// Finalize materializes the report. txCount is the number of located
// transactions; the number actually folded may be lower when some
// were skipped.
func (a *Aggregator) Finalize(runID string, txCount int) *Report {
	received := lovelaceToADA(a.totalReceived)
	spent := lovelaceToADA(a.totalSpent)

	return &Report{
		RunID:                      runID,
		Address:                    a.address,
		TxCount:                    txCount,
		TotalReceivedADA:           received.InexactFloat64(),
		TotalSpentADA:              spent.InexactFloat64(),
		NetADAChange:               received.Sub(spent).InexactFloat64(),
		EstimatedFeesPaidADA:       lovelaceToADA(a.totalFees).InexactFloat64(),
		OutgoingTxsWithAssetsCount: a.outgoingWithAssets,
		UniqueAssetUnitsMovedOut:   sortedUnits(a.assetUnits),
		PerTxCount:                 len(a.summaries),
		SkippedTxCount:             txCount - len(a.summaries),
		GeneratedAt:                time.Now().UTC(),
		Transactions:               a.summaries,
	}
}

// lovelaceOf sums the lovelace amounts of one UTXO entry.
func lovelaceOf(amounts []blockfrost.Amount) *big.Int {
	sum := new(big.Int)
	for _, amt := range amounts {
		if amt.Unit == blockfrost.UnitLovelace {
			sum.Add(sum, parseQuantity(amt.Quantity))
		}
	}
	return sum
}

// lovelaceToADA shifts a lovelace integer to ADA exactly (10^-6).
func lovelaceToADA(lovelace *big.Int) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).Set(lovelace), -6)
}

func sortedUnits(set map[string]struct{}) []string {
	units := make([]string, 0, len(set))
	for unit := range set {
		units = append(units, unit)
	}
	sort.Strings(units)
	return units
}
