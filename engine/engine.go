package engine

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/sirupsen/logrus"

	"github.com/chainvault-network/custodian/eth"
	"github.com/chainvault-network/custodian/tx"
	"github.com/chainvault-network/custodian/wallet"
)

// Gateway is the slice of the ledger surface the engine depends on.
// Injected so tests can stand in a double and no process-wide client
// exists.
type Gateway interface {
	Balance(ctx context.Context, owner common.Address, asset tx.Asset) (*big.Int, error)
	PendingNonce(ctx context.Context, addr common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	Broadcast(ctx context.Context, signed *types.Transaction) (common.Hash, error)
	WaitReceipt(ctx context.Context, hash common.Hash, timeout, interval time.Duration) (*types.Receipt, error)
}

// Config holds the engine's network and retry parameters
type Config struct {
	ChainID         *big.Int
	DefaultGasLimit uint64
	GasPriceWei     *big.Int // pinned price; nil or zero asks the node
	MaxAttempts     int
	RetryDelay      time.Duration
	ConfirmTimeout  time.Duration
	PollInterval    time.Duration
}

// Request is a high-level transfer intent
type Request struct {
	From        common.Address
	FromPrivKey string
	To          common.Address
	Asset       tx.Asset
	AmountWei   *big.Int
	AllowZero   bool // faucet funding may be configured to zero
}

// Result reports a finished submission. TxHash is also set when
// confirmation timed out, so the caller can re-check the outcome later.
type Result struct {
	TxHash   common.Hash
	Attempts int
}

// Engine turns a transfer intent into a confirmed or definitively failed
// outcome, masking transient network flakiness behind a bounded retry.
type Engine struct {
	gw     Gateway
	cfg    Config
	policy RetryPolicy
	locks  *addressLocks
	notify func(Event)
	log    *logrus.Logger
}

// Option customizes an Engine
type Option func(*Engine)

// WithEvents installs an observer for submission state transitions
func WithEvents(fn func(Event)) Option {
	return func(e *Engine) { e.notify = fn }
}

// New creates an Engine. Zero retry and poll settings fall back to the
// defaults (3 attempts, 2s apart, 500ms poll, 120s confirmation window).
func New(gw Gateway, cfg Config, log *logrus.Logger, opts ...Option) *Engine {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 2 * time.Second
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 500 * time.Millisecond
	}
	if cfg.ConfirmTimeout <= 0 {
		cfg.ConfirmTimeout = 2 * time.Minute
	}

	e := &Engine{
		gw:  gw,
		cfg: cfg,
		policy: RetryPolicy{
			MaxAttempts: cfg.MaxAttempts,
			Delay:       cfg.RetryDelay,
			Retryable: func(err error) bool {
				return errors.Is(err, eth.ErrNetwork)
			},
		},
		locks: newAddressLocks(),
		log:   log,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Submit runs the full build-sign-broadcast-confirm sequence for a
// transfer. Transient network failures restart the sequence from the nonce
// fetch; rejections, reverts and timeouts end it immediately.
func (e *Engine) Submit(ctx context.Context, req Request) (Result, error) {
	if req.AmountWei == nil || req.AmountWei.Sign() < 0 {
		return Result{}, fmt.Errorf("%w: %v", tx.ErrInvalidAmount, req.AmountWei)
	}
	if req.AmountWei.Sign() == 0 && !req.AllowZero {
		return Result{}, fmt.Errorf("%w: zero transfer", tx.ErrInvalidAmount)
	}

	release := e.locks.acquire(req.From)
	defer release()

	balance, err := e.gw.Balance(ctx, req.From, req.Asset)
	if err != nil {
		return Result{}, err
	}
	if balance.Cmp(req.AmountWei) < 0 {
		return Result{}, fmt.Errorf("%w: have %s, need %s %s",
			ErrInsufficientBalance, balance, req.AmountWei, req.Asset.Symbol)
	}

	var res Result
	attempts, err := e.policy.Run(ctx, func(attempt int) error {
		r, attemptErr := e.attempt(ctx, req, attempt)
		if r.TxHash != (common.Hash{}) {
			res.TxHash = r.TxHash
		}
		return attemptErr
	})
	res.Attempts = attempts

	if err != nil {
		e.emit(Event{State: StateFailed, From: req.From, To: req.To, Asset: req.Asset.Symbol,
			Amount: req.AmountWei, TxHash: hashText(res.TxHash), Attempt: attempts, Error: err.Error()})
		return res, err
	}
	e.emit(Event{State: StateSucceeded, From: req.From, To: req.To, Asset: req.Asset.Symbol,
		Amount: req.AmountWei, TxHash: res.TxHash.Hex(), Attempt: attempts})
	return res, nil
}

// attempt runs one pass of the state machine:
// BUILDING -> SIGNING -> BROADCASTING -> CONFIRMING.
// Network parameters are fetched fresh on every pass; a prior pass may
// already have landed a transaction and moved the sender's nonce.
func (e *Engine) attempt(ctx context.Context, req Request, attempt int) (Result, error) {
	e.emit(Event{State: StateBuilding, From: req.From, To: req.To, Asset: req.Asset.Symbol,
		Amount: req.AmountWei, Attempt: attempt})

	nonce, err := e.gw.PendingNonce(ctx, req.From)
	if err != nil {
		return Result{}, err
	}

	gasPrice := e.cfg.GasPriceWei
	if gasPrice == nil || gasPrice.Sign() == 0 {
		gasPrice, err = e.gw.SuggestGasPrice(ctx)
		if err != nil {
			return Result{}, err
		}
	}

	params := tx.NetworkParams{
		Nonce:       nonce,
		GasLimit:    e.cfg.DefaultGasLimit,
		GasPriceWei: gasPrice,
		ChainID:     e.cfg.ChainID,
	}

	var unsigned *tx.Unsigned
	if req.Asset.Native {
		unsigned, err = tx.BuildNative(req.To, req.AmountWei, params)
	} else {
		unsigned, err = tx.BuildToken(req.Asset.Contract, req.To, req.AmountWei, params)
	}
	if err != nil {
		return Result{}, err
	}

	// Estimation is advisory. The gateway already falls back to the
	// default limit; doubles that error here get the same treatment.
	gas, err := e.gw.EstimateGas(ctx, unsigned.CallMsg(req.From))
	if err != nil {
		e.log.Warnf("Gas estimation failed, using default %d: %v", e.cfg.DefaultGasLimit, err)
		gas = e.cfg.DefaultGasLimit
	}
	unsigned.Params.GasLimit = gas

	e.emit(Event{State: StateSigning, From: req.From, To: req.To, Asset: req.Asset.Symbol,
		Amount: req.AmountWei, Attempt: attempt})
	signed, err := wallet.Sign(unsigned.Tx(), req.FromPrivKey, e.cfg.ChainID)
	if err != nil {
		return Result{}, err
	}

	e.emit(Event{State: StateBroadcasting, From: req.From, To: req.To, Asset: req.Asset.Symbol,
		Amount: req.AmountWei, Attempt: attempt})
	hash, err := e.gw.Broadcast(ctx, signed)
	if err != nil {
		return Result{}, err
	}
	e.log.Infof("Broadcast %s transfer %s -> %s, tx %s (attempt %d)",
		req.Asset.Symbol, req.From.Hex(), req.To.Hex(), hash.Hex(), attempt)

	e.emit(Event{State: StateConfirming, From: req.From, To: req.To, Asset: req.Asset.Symbol,
		Amount: req.AmountWei, TxHash: hash.Hex(), Attempt: attempt})
	receipt, err := e.gw.WaitReceipt(ctx, hash, e.cfg.ConfirmTimeout, e.cfg.PollInterval)
	if err != nil {
		// Outcome unknown: the transaction may still confirm. Hash is
		// attached so the caller can re-check; no retry, a second
		// broadcast could double-spend.
		return Result{TxHash: hash}, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return Result{TxHash: hash}, fmt.Errorf("%w: tx %s", ErrTransactionReverted, hash.Hex())
	}

	return Result{TxHash: hash}, nil
}

func (e *Engine) emit(ev Event) {
	if e.notify != nil {
		e.notify(ev)
	}
}

func hashText(h common.Hash) string {
	if h == (common.Hash{}) {
		return ""
	}
	return h.Hex()
}
