package blockfrost

// UnitLovelace is the unit string Blockfrost uses for the native
// currency. 1 ADA = 1_000_000 lovelace.
const UnitLovelace = "lovelace"

// Amount is a single asset quantity. Quantity is a decimal integer
// string in the asset's smallest denomination.
type Amount struct {
	Unit     string `json:"unit"`
	Quantity string `json:"quantity"`
}

// UTxO is one input or output of a transaction.
type UTxO struct {
	Address     string   `json:"address"`
	Amount      []Amount `json:"amount"`
	TxHash      string   `json:"tx_hash"`
	OutputIndex uint32   `json:"output_index"`
}

// TxUTxOs is the response of GET /txs/{hash}/utxos.
type TxUTxOs struct {
	Hash    string `json:"hash"`
	Inputs  []UTxO `json:"inputs"`
	Outputs []UTxO `json:"outputs"`
}

// TxInfo is the response of GET /txs/{hash}. Fees is a lovelace
// integer string; a missing field decodes as "".
type TxInfo struct {
	Hash        string `json:"hash"`
	Fees        string `json:"fees"`
	BlockHeight uint64 `json:"block_height"`
	BlockTime   uint64 `json:"block_time"`
	Slot        uint64 `json:"slot"`
}

// AddressTransaction is one entry of GET /addresses/{address}/transactions.
type AddressTransaction struct {
	TxHash      string `json:"tx_hash"`
	TxIndex     int    `json:"tx_index"`
	BlockHeight uint64 `json:"block_height"`
	BlockTime   uint64 `json:"block_time"`
}
