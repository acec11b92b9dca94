package engine

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// State names a phase of a submission attempt
type State string

const (
	StateBuilding     State = "building"
	StateSigning      State = "signing"
	StateBroadcasting State = "broadcasting"
	StateConfirming   State = "confirming"
	StateSucceeded    State = "succeeded"
	StateFailed       State = "failed"
)

// Event describes a submission state transition, published to interested
// observers (the websocket feed subscribes to these).
type Event struct {
	State   State          `json:"state"`
	From    common.Address `json:"from"`
	To      common.Address `json:"to"`
	Asset   string         `json:"asset"`
	Amount  *big.Int       `json:"amount"`
	TxHash  string         `json:"tx_hash,omitempty"`
	Attempt int            `json:"attempt"`
	Error   string         `json:"error,omitempty"`
}
