package engine

import "errors"

var (
	// ErrInsufficientBalance signals that the sender cannot cover the
	// transfer amount; raised before any broadcast
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrTransactionReverted signals a transaction that was included but
	// failed execution. Definitive: a retry would spend again.
	ErrTransactionReverted = errors.New("transaction reverted on chain")
)
