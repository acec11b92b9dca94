package eth

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/sirupsen/logrus"

	"github.com/chainvault-network/custodian/tx"
)

// Gateway is a stateless wrapper around the remote ledger RPC endpoint. It
// classifies failures into the package error taxonomy so callers never see
// raw transport errors.
type Gateway struct {
	client          *Client
	defaultGasLimit uint64
	log             *logrus.Logger
}

// NewGateway creates a Gateway on an already-dialed client
func NewGateway(client *Client, defaultGasLimit uint64, log *logrus.Logger) *Gateway {
	return &Gateway{
		client:          client,
		defaultGasLimit: defaultGasLimit,
		log:             log,
	}
}

// Balance returns the owner's balance in the smallest unit. Native assets
// are read directly; tokens through a read-only balanceOf call.
func (g *Gateway) Balance(ctx context.Context, owner common.Address, asset tx.Asset) (*big.Int, error) {
	if asset.Native {
		balance, err := g.client.Eth.BalanceAt(ctx, owner, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: balance of %s: %v", ErrNetwork, owner.Hex(), err)
		}
		return balance, nil
	}

	msg := ethereum.CallMsg{
		To:   &asset.Contract,
		Data: tx.PackBalanceOf(owner),
	}
	ret, err := g.client.Eth.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: balanceOf on %s: %v", ErrNetwork, asset.Contract.Hex(), err)
	}
	return tx.UnpackUint256(ret), nil
}

// PendingNonce returns the sender's next transaction count. The value is
// always read from the network; a cached nonce goes stale the moment any
// other submission for the same sender lands.
func (g *Gateway) PendingNonce(ctx context.Context, addr common.Address) (uint64, error) {
	nonce, err := g.client.Eth.PendingNonceAt(ctx, addr)
	if err != nil {
		return 0, fmt.Errorf("%w: nonce of %s: %v", ErrNetwork, addr.Hex(), err)
	}
	return nonce, nil
}

// SuggestGasPrice asks the node for a gas price
func (g *Gateway) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	price, err := g.client.Eth.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: gas price: %v", ErrNetwork, err)
	}
	return price, nil
}

// EstimateGas asks the node for a gas estimate and applies a 20% margin.
// Estimation is advisory: any failure falls back to the configured default
// limit instead of aborting the submission.
func (g *Gateway) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	gas, err := g.client.Eth.EstimateGas(ctx, msg)
	if err != nil {
		g.log.Warnf("Gas estimation failed, using default %d: %v", g.defaultGasLimit, err)
		return g.defaultGasLimit, nil
	}
	return gas + gas/5, nil
}

// Broadcast submits a signed transaction and returns its hash
func (g *Gateway) Broadcast(ctx context.Context, signed *types.Transaction) (common.Hash, error) {
	if err := g.client.Eth.SendTransaction(ctx, signed); err != nil {
		if isRejection(err) {
			return common.Hash{}, fmt.Errorf("%w: %v", ErrRejected, err)
		}
		return common.Hash{}, fmt.Errorf("%w: broadcast: %v", ErrNetwork, err)
	}
	return signed.Hash(), nil
}

// WaitReceipt polls for the transaction receipt until it is available or
// the timeout elapses. Transient lookup failures keep the poll alive; only
// the deadline ends it.
func (g *Gateway) WaitReceipt(ctx context.Context, hash common.Hash, timeout, interval time.Duration) (*types.Receipt, error) {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		receipt, err := g.client.Eth.TransactionReceipt(waitCtx, hash)
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) && waitCtx.Err() == nil {
			g.log.Warnf("Receipt lookup for %s failed, still polling: %v", hash.Hex(), err)
		}

		select {
		case <-waitCtx.Done():
			return nil, fmt.Errorf("%w: no receipt for %s after %s", ErrConfirmTimeout, hash.Hex(), timeout)
		case <-ticker.C:
		}
	}
}

// Rejection phrases emitted by geth-lineage nodes. Anything else on
// broadcast is treated as transient.
var rejectionMarkers = []string{
	"nonce too low",
	"nonce too high",
	"insufficient funds",
	"already known",
	"replacement transaction underpriced",
	"transaction underpriced",
	"intrinsic gas too low",
	"exceeds block gas limit",
	"invalid sender",
}

func isRejection(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, marker := range rejectionMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// ParseAddress validates a textual address and returns its binary form.
// Mixed-case input must match its EIP-55 checksum form; all-lower and
// all-upper input carries no checksum and is accepted as-is.
func ParseAddress(raw string) (common.Address, error) {
	if !common.IsHexAddress(raw) {
		return common.Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, raw)
	}
	addr := common.HexToAddress(raw)

	hexPart := strings.TrimPrefix(strings.TrimPrefix(raw, "0x"), "0X")
	if hexPart != strings.ToLower(hexPart) && hexPart != strings.ToUpper(hexPart) {
		if "0x"+hexPart != addr.Hex() {
			return common.Address{}, fmt.Errorf("%w: checksum mismatch in %q", ErrInvalidAddress, raw)
		}
	}
	return addr, nil
}
