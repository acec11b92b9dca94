package eth

import "errors"

var (
	// ErrInvalidAddress signals an address that is not well-formed hex or
	// fails its EIP-55 checksum
	ErrInvalidAddress = errors.New("invalid ledger address")

	// ErrNetwork signals a transient connectivity or timeout failure;
	// callers may retry
	ErrNetwork = errors.New("ledger network error")

	// ErrRejected signals that the network declined the transaction
	// (nonce mismatch, insufficient funds for gas); retrying cannot help
	ErrRejected = errors.New("transaction rejected by network")

	// ErrConfirmTimeout signals that no receipt appeared within the
	// confirmation window. The transaction may still confirm later.
	ErrConfirmTimeout = errors.New("confirmation wait timed out")
)
