package cli

import (
	"context"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/storacha/evmfixture/cmd/cliutil"
	"github.com/storacha/evmfixture/pkg/config"
	"github.com/storacha/evmfixture/pkg/fixture"
	"github.com/storacha/evmfixture/pkg/fixture/chaintime"
)

func newMineCmd(s *state) *cobra.Command {
	var progress bool
	cmd := &cobra.Command{
		Use:   "mine [count]",
		Short: "Mine empty blocks, one by default",
		Long: `Mine empty blocks, one by default.

Blocks are mined one request at a time. If mining stops early the blocks
already mined stay mined.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			count := uint64(1)
			if len(args) == 1 {
				var err error
				if count, err = cliutil.ParseUint(args[0]); err != nil {
					return err
				}
			}
			return s.withFixture(cmd, func(ctx context.Context, f *fixture.Fixture, _ config.FixtureConfig) error {
				var opts []chaintime.AdvanceOption
				if progress {
					bar := progressbar.NewOptions64(int64(count),
						progressbar.OptionSetWriter(cmd.ErrOrStderr()),
						progressbar.OptionSetDescription("mining"),
						progressbar.OptionShowCount(),
						progressbar.OptionClearOnFinish(),
					)
					defer bar.Close()
					opts = append(opts, chaintime.WithProgress(func(mined uint64) {
						_ = bar.Set64(int64(mined))
					}))
				}
				if err := f.AdvanceBlocks(ctx, count, opts...); err != nil {
					return err
				}
				return printBlock(ctx, s, cmd, f)
			})
		},
	}
	cmd.Flags().BoolVar(&progress, "progress", false, "show a progress bar on stderr")
	return cmd
}

func newSetTimestampCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "set-timestamp <unix-seconds>",
		Short: "Mine one block with the given timestamp",
		Long: `Mine one block with the given timestamp.

The timestamp must be later than that of the latest block.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, err := cliutil.ParseUint(args[0])
			if err != nil {
				return err
			}
			return s.withFixture(cmd, func(ctx context.Context, f *fixture.Fixture, _ config.FixtureConfig) error {
				if err := f.SetTimestamp(ctx, ts); err != nil {
					return err
				}
				return printBlock(ctx, s, cmd, f)
			})
		},
	}
}

func printBlock(ctx context.Context, s *state, cmd *cobra.Command, f *fixture.Fixture) error {
	header, err := f.Client().LatestHeader(ctx)
	if err != nil {
		return err
	}
	return s.print(cmd, blockResult{Block: header.Number.Uint64(), Timestamp: header.Time})
}
