package fixture

import (
	"context"
	"fmt"

	logging "github.com/ipfs/go-log/v2"
	"go.uber.org/fx"

	"github.com/storacha/evmfixture/pkg/config"
	evmfixture "github.com/storacha/evmfixture/pkg/fixture"
	"github.com/storacha/evmfixture/pkg/node"
)

var log = logging.Logger("fx/fixture")

// Module provides a node connection and a fixture built over it from a
// config.FixtureConfig supplied by the caller.
var Module = fx.Module("fixture",
	fx.Provide(
		fx.Annotate(
			ProvideNode,
			fx.As(fx.Self()),
			fx.As(new(node.Gateway)),
		),
		ProvideFixture,
	),
)

// PinForkOnStart resets the node to the configured fork block when the app
// starts. Use it alongside Module for long running processes; one-shot
// commands leave the node as they found it.
var PinForkOnStart = fx.Invoke(PinFork)

func ProvideNode(lc fx.Lifecycle, cfg config.FixtureConfig) (*node.Client, error) {
	client, err := node.Dial(context.Background(), cfg.NodeURL)
	if err != nil {
		return nil, fmt.Errorf("providing node client: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			client.Close()
			return nil
		},
	})
	return client, nil
}

func ProvideFixture(client *node.Client, cfg config.FixtureConfig) (*evmfixture.Fixture, error) {
	opts, err := cfg.ToFixtureOptions()
	if err != nil {
		return nil, fmt.Errorf("providing fixture: %w", err)
	}
	return evmfixture.New(client, opts), nil
}

// PinFork resets the node to the configured fork block on start. It does
// nothing unless both a fork url and block number are set.
func PinFork(lc fx.Lifecycle, f *evmfixture.Fixture, cfg config.FixtureConfig) {
	if cfg.Fork.URL == "" || cfg.Fork.BlockNumber == 0 {
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("pinning fork", "block", cfg.Fork.BlockNumber)
			return f.SetNetworkFork(ctx, cfg.Fork.BlockNumber)
		},
	})
}
