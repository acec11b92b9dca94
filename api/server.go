package api

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/chainvault-network/custodian/config"
	"github.com/chainvault-network/custodian/engine"
	"github.com/chainvault-network/custodian/eth"
	"github.com/chainvault-network/custodian/store"
	"github.com/chainvault-network/custodian/tx"
	"github.com/chainvault-network/custodian/wallet"
)

// Submitter is the engine surface the handlers need; satisfied by
// *engine.Engine and by test doubles.
type Submitter interface {
	Submit(ctx context.Context, req engine.Request) (engine.Result, error)
}

// BalanceReader reads balances; satisfied by *eth.Gateway
type BalanceReader interface {
	Balance(ctx context.Context, owner common.Address, asset tx.Asset) (*big.Int, error)
}

// Server exposes the custodial account operations over HTTP
type Server struct {
	accounts  *store.AccountStore
	balances  BalanceReader
	submitter Submitter
	hub       *Hub
	cfg       config.Config
	log       *logrus.Logger

	faucetAddr common.Address
}

// NewServer wires the HTTP surface. Faucet funding is enabled when the
// config carries a faucet key.
func NewServer(accounts *store.AccountStore, balances BalanceReader, submitter Submitter,
	hub *Hub, cfg config.Config, log *logrus.Logger) (*Server, error) {

	s := &Server{
		accounts:  accounts,
		balances:  balances,
		submitter: submitter,
		hub:       hub,
		cfg:       cfg,
		log:       log,
	}
	if cfg.Faucet.PrivateKey != "" {
		addr, err := wallet.DeriveAddress(cfg.Faucet.PrivateKey)
		if err != nil {
			return nil, fmt.Errorf("faucet key: %v", err)
		}
		s.faucetAddr = addr
	}
	return s, nil
}

// Router builds the gin engine with all routes registered
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode) // No debug noise
	r := gin.New()
	r.Use(gin.Recovery())

	r.POST("/create_account", s.createAccount)
	r.GET("/get_balance", s.getBalance)
	r.POST("/transfer", s.transfer)
	r.GET("/ws", func(c *gin.Context) {
		s.hub.serve(c.Writer, c.Request)
	})
	return r
}

// Start serves the API on the given address, blocking
func (s *Server) Start(addr string) error {
	return s.Router().Run(addr)
}

type createAccountRequest struct {
	Name string `json:"name" binding:"required"`
}

func (s *Server) createAccount(c *gin.Context) {
	var req createAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	acct, err := wallet.Generate()
	if err != nil {
		s.log.Errorf("Account generation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate account"})
		return
	}

	if err := s.accounts.Create(req.Name, acct); err != nil {
		if errors.Is(err, store.ErrAccountExists) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		s.log.Errorf("Account persistence failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to persist account"})
		return
	}

	faucetTx := ""
	if s.faucetAddr != (common.Address{}) {
		res, err := s.submitter.Submit(c.Request.Context(), engine.Request{
			From:        s.faucetAddr,
			FromPrivKey: s.cfg.Faucet.PrivateKey,
			To:          acct.Address,
			Asset:       tx.NativeAsset(s.cfg.Tokens.NativeSymbol),
			AmountWei:   big.NewInt(s.cfg.Faucet.FundWei),
			AllowZero:   true,
		})
		if err != nil {
			s.log.Warnf("Faucet funding for %q failed: %v", req.Name, err)
			c.JSON(http.StatusBadGateway, gin.H{
				"error":   fmt.Sprintf("account created but faucet funding failed: %v", err),
				"name":    req.Name,
				"address": acct.Address.Hex(),
			})
			return
		}
		faucetTx = res.TxHash.Hex()
	}

	c.JSON(http.StatusCreated, gin.H{
		"name":           req.Name,
		"address":        acct.Address.Hex(),
		"faucet_tx_hash": faucetTx,
	})
}

func (s *Server) getBalance(c *gin.Context) {
	name := c.Query("name")
	token := c.Query("token")
	if name == "" || token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and token are required"})
		return
	}

	acct, err := s.accounts.Get(name)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		s.log.Errorf("Account lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "account lookup failed"})
		return
	}

	asset, err := s.resolveAsset(token)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	balance, err := s.balances.Balance(c.Request.Context(), acct.Address, asset)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": fmt.Sprintf("failed to get balance: %v", err)})
		return
	}

	resp := gin.H{
		"name":    name,
		"address": acct.Address.Hex(),
		"token":   asset.Symbol,
		"balance": balance.String(),
	}
	if !asset.Native {
		resp["token_address"] = asset.Contract.Hex()
	}
	c.JSON(http.StatusOK, resp)
}

type transferRequest struct {
	FromName string `json:"from_name" binding:"required"`
	ToName   string `json:"to_name" binding:"required"`
	Amount   string `json:"amount" binding:"required"`
	Token    string `json:"token" binding:"required"`
}

func (s *Server) transfer(c *gin.Context) {
	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from_name, to_name, amount and token are required"})
		return
	}

	amount, ok := new(big.Int).SetString(req.Amount, 10)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid amount %q", req.Amount)})
		return
	}

	fromAcct, err := s.accounts.Get(req.FromName)
	if err != nil {
		s.respondAccountErr(c, err)
		return
	}
	toAcct, err := s.accounts.Get(req.ToName)
	if err != nil {
		s.respondAccountErr(c, err)
		return
	}

	asset, err := s.resolveAsset(req.Token)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := s.submitter.Submit(c.Request.Context(), engine.Request{
		From:        fromAcct.Address,
		FromPrivKey: fromAcct.PrivateKey,
		To:          toAcct.Address,
		Asset:       asset,
		AmountWei:   amount,
	})
	if err != nil {
		s.respondSubmitErr(c, res, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"tx_hash":      res.TxHash.Hex(),
		"from_address": fromAcct.Address.Hex(),
		"to_address":   toAcct.Address.Hex(),
		"amount":       amount.String(),
		"token":        asset.Symbol,
		"message":      "Transfer successful",
	})
}

func (s *Server) respondAccountErr(c *gin.Context, err error) {
	if errors.Is(err, store.ErrAccountNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	s.log.Errorf("Account lookup failed: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "account lookup failed"})
}

// respondSubmitErr maps the engine taxonomy onto HTTP statuses. A confirm
// timeout keeps the transaction hash in the response: the outcome is
// unknown, not failed, and the caller can re-check.
func (s *Server) respondSubmitErr(c *gin.Context, res engine.Result, err error) {
	switch {
	case errors.Is(err, engine.ErrInsufficientBalance), errors.Is(err, tx.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, eth.ErrConfirmTimeout):
		c.JSON(http.StatusGatewayTimeout, gin.H{
			"error":   err.Error(),
			"tx_hash": res.TxHash.Hex(),
		})
	case errors.Is(err, eth.ErrRejected), errors.Is(err, engine.ErrTransactionReverted):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	case errors.Is(err, eth.ErrNetwork):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		s.log.Errorf("Transfer failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (s *Server) resolveAsset(symbol string) (tx.Asset, error) {
	if symbol == s.cfg.Tokens.NativeSymbol {
		return tx.NativeAsset(symbol), nil
	}
	contract, ok := s.cfg.Tokens.Registry[symbol]
	if !ok {
		return tx.Asset{}, fmt.Errorf("unknown token %q", symbol)
	}
	addr, err := eth.ParseAddress(contract)
	if err != nil {
		return tx.Asset{}, fmt.Errorf("token %q has invalid contract address: %v", symbol, err)
	}
	return tx.TokenAsset(symbol, addr), nil
}
