package blockfrost

import (
	"context"
)

// API defines the Blockfrost operations the auditor consumes.
type API interface {
	AddressTransactions(ctx context.Context, address string, page, count int) ([]AddressTransaction, error)
	TransactionUTxOs(ctx context.Context, txHash string) (*TxUTxOs, error)
	Transaction(ctx context.Context, txHash string) (*TxInfo, error)
	GetURL() string
	Close() error
}
