package chaintime_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/storacha/evmfixture/pkg/evmerrors"
	"github.com/storacha/evmfixture/pkg/fixture/chaintime"
	"github.com/storacha/evmfixture/pkg/testutil"
)

func TestAdvanceBlocks(t *testing.T) {
	for _, n := range []uint64{0, 1, 5, 32} {
		t.Run(fmt.Sprintf("%d blocks", n), func(t *testing.T) {
			ctx := t.Context()
			sim, client := testutil.NewSimNode(t)
			controller := chaintime.New(client)

			before, err := client.BlockNumber(ctx)
			require.NoError(t, err)

			require.NoError(t, controller.AdvanceBlocks(ctx, n))

			after, err := client.BlockNumber(ctx)
			require.NoError(t, err)
			require.Equal(t, before+n, after)
			require.Len(t, sim.Calls(), int(n), "one evm_mine per block")
		})
	}
}

func TestAdvanceBlocksStopsAtFailure(t *testing.T) {
	ctx := t.Context()
	sim, client := testutil.NewSimNode(t)
	controller := chaintime.New(client)

	sim.FailMineAfter(2)
	err := controller.AdvanceBlocks(ctx, 5)

	var partial *chaintime.PartialAdvanceError
	require.ErrorAs(t, err, &partial)
	require.EqualValues(t, 5, partial.Requested)
	require.EqualValues(t, 2, partial.Mined)
	require.True(t, evmerrors.IsRPCError(err))

	number, err := client.BlockNumber(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, number, "mined blocks are not rolled back")
	require.Len(t, sim.Calls(), 3, "no further blocks are attempted after a failure")
}

func TestSetTimestamp(t *testing.T) {
	ctx := t.Context()
	_, client := testutil.NewSimNode(t)
	controller := chaintime.New(client)

	before, err := client.LatestHeader(ctx)
	require.NoError(t, err)

	target := before.Time + 3600
	require.NoError(t, controller.SetTimestamp(ctx, target))

	after, err := client.LatestHeader(ctx)
	require.NoError(t, err)
	require.Equal(t, target, after.Time)
	require.Equal(t, before.Number.Uint64()+1, after.Number.Uint64())
}

func TestSetTimestampInThePast(t *testing.T) {
	ctx := t.Context()
	_, client := testutil.NewSimNode(t)
	controller := chaintime.New(client)

	before, err := client.LatestHeader(ctx)
	require.NoError(t, err)

	err = controller.SetTimestamp(ctx, before.Time)
	require.True(t, evmerrors.IsRPCError(err))

	after, err := client.LatestHeader(ctx)
	require.NoError(t, err)
	require.Equal(t, before.Number.Uint64(), after.Number.Uint64())
}

func TestMine(t *testing.T) {
	ctx := t.Context()
	_, client := testutil.NewSimNode(t)
	controller := chaintime.New(client)

	require.NoError(t, controller.Mine(ctx))
	number, err := client.BlockNumber(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, number)
}

func TestAdvanceBlocksProgress(t *testing.T) {
	ctx := t.Context()
	sim, client := testutil.NewSimNode(t)
	controller := chaintime.New(client)

	var seen []uint64
	require.NoError(t, controller.AdvanceBlocks(ctx, 3, chaintime.WithProgress(func(mined uint64) {
		seen = append(seen, mined)
	})))
	require.Equal(t, []uint64{1, 2, 3}, seen)

	seen = nil
	sim.FailMineAfter(1)
	err := controller.AdvanceBlocks(ctx, 3, chaintime.WithProgress(func(mined uint64) {
		seen = append(seen, mined)
	}))
	require.Error(t, err)
	require.Equal(t, []uint64{1}, seen)
}
