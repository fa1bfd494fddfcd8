// Package fork resets the node to a fresh fork of a remote chain.
package fork

import (
	"context"
	"errors"
	"fmt"

	logging "github.com/ipfs/go-log/v2"

	"github.com/storacha/evmfixture/pkg/node"
)

var log = logging.Logger("fixture/fork")

// ErrNoRemoteURL is returned when a fork is requested without a remote url.
var ErrNoRemoteURL = errors.New("fork remote url is not configured")

// Config is the fork applied by a reset. Once applied, all prior node state is gone.
type Config struct {
	RemoteURL   string
	BlockNumber uint64
}

type forkingParams struct {
	JSONRPCURL  string `json:"jsonRpcUrl"`
	BlockNumber uint64 `json:"blockNumber"`
}

type resetParams struct {
	Forking forkingParams `json:"forking"`
}

// Controller resets the node. Every reset invalidates all outstanding
// snapshots and impersonations, so it belongs at suite boundaries, not in
// individual test cases.
type Controller struct {
	gw        node.Gateway
	remoteURL string
}

// New returns a controller forking from remoteURL.
func New(gw node.Gateway, remoteURL string) *Controller {
	return &Controller{gw: gw, remoteURL: remoteURL}
}

// RemoteURL returns the url forks are taken from.
func (c *Controller) RemoteURL() string {
	return c.remoteURL
}

// SetNetworkFork discards all node state and reinitialises the node as a
// fork of the remote chain at blockNumber.
func (c *Controller) SetNetworkFork(ctx context.Context, blockNumber uint64) error {
	return c.Apply(ctx, Config{RemoteURL: c.remoteURL, BlockNumber: blockNumber})
}

// Apply resets the node to the given fork.
func (c *Controller) Apply(ctx context.Context, cfg Config) error {
	if cfg.RemoteURL == "" {
		return ErrNoRemoteURL
	}
	params := resetParams{Forking: forkingParams{JSONRPCURL: cfg.RemoteURL, BlockNumber: cfg.BlockNumber}}
	if err := c.gw.Call(ctx, nil, node.MethodReset, params); err != nil {
		return fmt.Errorf("forking at block %d: %w", cfg.BlockNumber, err)
	}
	log.Infow("node reset to fork", "block", cfg.BlockNumber)
	return nil
}

// Reset discards all node state and starts a fresh local chain with no fork.
func (c *Controller) Reset(ctx context.Context) error {
	if err := c.gw.Call(ctx, nil, node.MethodReset); err != nil {
		return fmt.Errorf("resetting node: %w", err)
	}
	log.Infow("node reset without fork")
	return nil
}
