package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/storacha/evmfixture/pkg/config"
	"github.com/storacha/evmfixture/pkg/fixture"
	"github.com/storacha/evmfixture/pkg/fixture/snapshot"
)

func newSnapshotCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Record the node state and print the snapshot id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return s.withFixture(cmd, func(ctx context.Context, f *fixture.Fixture, _ config.FixtureConfig) error {
				id, err := f.TakeSnapshot(ctx)
				if err != nil {
					return err
				}
				return s.print(cmd, snapshotResult{ID: string(id)})
			})
		},
	}
}

func newRevertCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "revert <id>",
		Short: "Restore the node state recorded by a snapshot",
		Long: `Restore the node state recorded by a snapshot.

The snapshot is consumed, as is every snapshot taken after it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.withFixture(cmd, func(ctx context.Context, f *fixture.Fixture, _ config.FixtureConfig) error {
				id := snapshot.ID(args[0])
				if err := f.RevertToSnapshot(ctx, id); err != nil {
					return err
				}
				return s.print(cmd, revertResult{ID: string(id), Reverted: true})
			})
		},
	}
}
