// Package node provides the single shared connection to a test node and the
// gateway through which every administrative request is sent.
package node

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	logging "github.com/ipfs/go-log/v2"

	"github.com/storacha/evmfixture/pkg/evmerrors"
)

var log = logging.Logger("node")

// Gateway sends administrative JSON-RPC requests to the node.
type Gateway interface {
	// Send returns the raw result of method. A nil params list sends no params.
	Send(ctx context.Context, method string, params ...any) (json.RawMessage, error)
	// Call decodes the result of method into result. A nil result discards it.
	Call(ctx context.Context, result any, method string, params ...any) error
}

// Client wraps an RPC connection to a Hardhat compatible node. It is the one
// handle every fixture component operates through; none of them own it.
type Client struct {
	rpcClient *rpc.Client
	eth       *ethclient.Client
	telemetry instruments
}

var _ Gateway = (*Client)(nil)

// Dial connects to the node at rawURL (http, ws or ipc).
func Dial(ctx context.Context, rawURL string, opts ...Option) (*Client, error) {
	rpcClient, err := rpc.DialContext(ctx, rawURL)
	if err != nil {
		return nil, &evmerrors.TransportError{Method: "dial", Err: fmt.Errorf("dialing %s: %w", rawURL, err)}
	}
	return NewClient(rpcClient, opts...), nil
}

// NewClient wraps an existing rpc connection. Closing the Client closes it.
func NewClient(rpcClient *rpc.Client, opts ...Option) *Client {
	return &Client{
		rpcClient: rpcClient,
		eth:       ethclient.NewClient(rpcClient),
		telemetry: newInstruments(opts...),
	}
}

// Close closes the underlying RPC connection.
func (c *Client) Close() {
	c.rpcClient.Close()
}

// Eth returns a typed client sharing the same connection.
func (c *Client) Eth() *ethclient.Client {
	return c.eth
}

// Send sends method and returns its result undecoded.
func (c *Client) Send(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.Call(ctx, &raw, method, params...); err != nil {
		return nil, err
	}
	return raw, nil
}

// Call sends method and decodes its result. Each call is traced and counted
// by outcome.
func (c *Client) Call(ctx context.Context, result any, method string, params ...any) error {
	ctx, span := c.telemetry.start(ctx, method)
	start := time.Now()
	err := c.rpcClient.CallContext(ctx, result, method, params...)
	elapsed := time.Since(start)
	if err != nil {
		err = evmerrors.Classify(method, err)
	}
	c.telemetry.end(ctx, span, method, elapsed, err)

	if err != nil {
		log.Debugw("rpc call failed", "method", method, "duration", elapsed, "error", err)
		return err
	}
	log.Debugw("rpc call", "method", method, "duration", elapsed)
	return nil
}

// ChainID returns the chain id reported by the node.
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	id, err := c.eth.ChainID(ctx)
	if err != nil {
		return nil, evmerrors.Classify("eth_chainId", err)
	}
	return id, nil
}

// BlockNumber returns the number of the most recent block.
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	n, err := c.eth.BlockNumber(ctx)
	if err != nil {
		return 0, evmerrors.Classify("eth_blockNumber", err)
	}
	return n, nil
}

// LatestHeader returns the header of the most recent block.
func (c *Client) LatestHeader(ctx context.Context) (*ethtypes.Header, error) {
	header, err := c.eth.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, evmerrors.Classify("eth_getBlockByNumber", err)
	}
	return header, nil
}

// Balance returns the native currency balance of addr at the latest block.
func (c *Client) Balance(ctx context.Context, addr common.Address) (*big.Int, error) {
	balance, err := c.eth.BalanceAt(ctx, addr, nil)
	if err != nil {
		return nil, evmerrors.Classify("eth_getBalance", err)
	}
	return balance, nil
}
