package eth

import (
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// Client wraps both rpc.Client and ethclient.Client for ledger interactions
type Client struct {
	Rpc *rpc.Client
	Eth *ethclient.Client
}

// NewClient dials the ledger RPC endpoint and returns both client flavours
func NewClient(url string) (*Client, error) {
	rpcClient, err := rpc.Dial(url)
	if err != nil {
		return nil, err
	}

	ethClient, err := ethclient.Dial(url)
	if err != nil {
		rpcClient.Close()
		return nil, err
	}

	return &Client{
		Rpc: rpcClient,
		Eth: ethClient,
	}, nil
}

// Close releases both underlying connections
func (c *Client) Close() {
	c.Eth.Close()
	c.Rpc.Close()
}
