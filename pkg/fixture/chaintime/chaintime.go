// Package chaintime advances the chain by blocks or to a pinned timestamp.
package chaintime

import (
	"context"
	"fmt"

	logging "github.com/ipfs/go-log/v2"

	"github.com/storacha/evmfixture/pkg/node"
)

var log = logging.Logger("fixture/chaintime")

// PartialAdvanceError reports a block advance that stopped early. The blocks
// already mined stay mined.
type PartialAdvanceError struct {
	Requested uint64
	Mined     uint64
	Err       error
}

func (e *PartialAdvanceError) Error() string {
	return fmt.Sprintf("advanced %d of %d blocks: %s", e.Mined, e.Requested, e.Err)
}

func (e *PartialAdvanceError) Unwrap() error { return e.Err }

type Controller struct {
	gw node.Gateway
}

func New(gw node.Gateway) *Controller {
	return &Controller{gw: gw}
}

// Mine mines a single block.
func (c *Controller) Mine(ctx context.Context) error {
	if err := c.gw.Call(ctx, nil, node.MethodMine); err != nil {
		return fmt.Errorf("mining block: %w", err)
	}
	return nil
}

type AdvanceOption func(*advanceConfig)

type advanceConfig struct {
	progress func(mined uint64)
}

// WithProgress calls fn after every mined block with the count so far.
func WithProgress(fn func(mined uint64)) AdvanceOption {
	return func(cfg *advanceConfig) {
		cfg.progress = fn
	}
}

// AdvanceBlocks mines n empty blocks, one request per block. If block k
// fails, k-1 blocks remain mined and a *PartialAdvanceError is returned.
func (c *Controller) AdvanceBlocks(ctx context.Context, n uint64, opts ...AdvanceOption) error {
	var cfg advanceConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	for i := uint64(0); i < n; i++ {
		if err := c.gw.Call(ctx, nil, node.MethodMine); err != nil {
			return &PartialAdvanceError{Requested: n, Mined: i, Err: err}
		}
		if cfg.progress != nil {
			cfg.progress(i + 1)
		}
	}
	if n > 0 {
		log.Debugw("advanced blocks", "count", n)
	}
	return nil
}

// SetTimestamp pins the timestamp of the next block and mines it. The
// timestamp must be later than the current block's; the node enforces that.
func (c *Controller) SetTimestamp(ctx context.Context, timestamp uint64) error {
	if err := c.gw.Call(ctx, nil, node.MethodSetNextBlockTimestamp, timestamp); err != nil {
		return fmt.Errorf("setting next block timestamp to %d: %w", timestamp, err)
	}
	if err := c.gw.Call(ctx, nil, node.MethodMine); err != nil {
		return fmt.Errorf("mining block at timestamp %d: %w", timestamp, err)
	}
	log.Debugw("mined block at timestamp", "timestamp", timestamp)
	return nil
}
