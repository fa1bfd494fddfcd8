package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/storacha/evmfixture/cmd/cliutil"
	"github.com/storacha/evmfixture/pkg/config"
	"github.com/storacha/evmfixture/pkg/fixture"
)

func newForkCmd(s *state) *cobra.Command {
	var reset bool
	cmd := &cobra.Command{
		Use:   "fork [block]",
		Short: "Reset the node to a fork of the remote chain at a block",
		Long: `Reset the node to a fork of the remote chain at a block.

All local state is discarded, including snapshots and impersonations. The
block defaults to fork.block_number from the configuration. With --reset the
node returns to its startup state instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.withFixture(cmd, func(ctx context.Context, f *fixture.Fixture, cfg config.FixtureConfig) error {
				if reset {
					if len(args) > 0 {
						return errors.New("a block cannot be given with --reset")
					}
					if err := f.Fork.Reset(ctx); err != nil {
						return err
					}
					return printHead(ctx, s, cmd, f, false)
				}

				block := cfg.Fork.BlockNumber
				if len(args) == 1 {
					var err error
					if block, err = cliutil.ParseUint(args[0]); err != nil {
						return err
					}
				}
				if block == 0 {
					return errors.New("no block given and fork.block_number is not configured")
				}
				if err := f.SetNetworkFork(ctx, block); err != nil {
					return err
				}
				return printHead(ctx, s, cmd, f, true)
			})
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "reset the node without forking")
	return cmd
}

func printHead(ctx context.Context, s *state, cmd *cobra.Command, f *fixture.Fixture, forked bool) error {
	header, err := f.Client().LatestHeader(ctx)
	if err != nil {
		return err
	}
	return s.print(cmd, forkResult{
		Block:     header.Number.Uint64(),
		Timestamp: header.Time,
		Forked:    forked,
	})
}
