package fork_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/storacha/evmfixture/pkg/evmerrors"
	"github.com/storacha/evmfixture/pkg/fixture/fork"
	"github.com/storacha/evmfixture/pkg/testutil"
	"github.com/storacha/evmfixture/pkg/testutil/hardhatsim"
)

var whale = common.HexToAddress("0xbEbc44782C7dB0a1A60Cb6fe97d0b483032FF1C7")

// remoteChain models a remote chain where whale's balance depends on the block.
func remoteChain(_ string, blockNumber uint64) (*hardhatsim.State, error) {
	s := hardhatsim.NewState()
	s.Number = blockNumber
	s.Timestamp = 1_600_000_000 + blockNumber*12
	s.Balances[whale] = new(big.Int).SetUint64(blockNumber * 1000)
	return s, nil
}

func TestSetNetworkFork(t *testing.T) {
	ctx := t.Context()
	sim, client := testutil.NewSimNode(t, hardhatsim.WithRemote(remoteChain))
	controller := fork.New(client, testutil.SimForkURL)

	require.NoError(t, controller.SetNetworkFork(ctx, 14_000_000))

	url, block := sim.Fork()
	require.Equal(t, testutil.SimForkURL, url)
	require.EqualValues(t, 14_000_000, block)

	number, err := client.BlockNumber(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 14_000_000, number)

	balance, err := client.Balance(ctx, whale)
	require.NoError(t, err)
	require.EqualValues(t, 14_000_000*1000, balance.Uint64())
}

func TestSetNetworkForkIsRepeatable(t *testing.T) {
	ctx := t.Context()
	_, client := testutil.NewSimNode(t, hardhatsim.WithRemote(remoteChain))
	controller := fork.New(client, testutil.SimForkURL)
	acct := testutil.RandomAddress(t)

	require.NoError(t, controller.SetNetworkFork(ctx, 500))
	require.NoError(t, client.Call(ctx, nil, "hardhat_setBalance", whale, "0x1"))
	require.NoError(t, client.Call(ctx, nil, "hardhat_setBalance", acct, "0x64"))
	require.NoError(t, client.Call(ctx, nil, "evm_mine"))

	require.NoError(t, controller.SetNetworkFork(ctx, 500))

	balance, err := client.Balance(ctx, whale)
	require.NoError(t, err)
	require.EqualValues(t, 500_000, balance.Uint64())

	balance, err = client.Balance(ctx, acct)
	require.NoError(t, err)
	require.Zero(t, balance.Sign())

	number, err := client.BlockNumber(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 500, number)
}

func TestSetNetworkForkDropsImpersonation(t *testing.T) {
	ctx := t.Context()
	sim, client := testutil.NewSimNode(t)
	controller := fork.New(client, testutil.SimForkURL)

	require.NoError(t, client.Call(ctx, nil, "hardhat_impersonateAccount", whale))
	require.True(t, sim.IsImpersonated(whale))

	require.NoError(t, controller.SetNetworkFork(ctx, 1))
	require.False(t, sim.IsImpersonated(whale))
}

func TestSetNetworkForkWithoutRemote(t *testing.T) {
	ctx := t.Context()
	sim, client := testutil.NewSimNode(t)
	controller := fork.New(client, "")

	require.ErrorIs(t, controller.SetNetworkFork(ctx, 1), fork.ErrNoRemoteURL)
	require.Empty(t, sim.Calls())
}

func TestSetNetworkForkRemoteFailure(t *testing.T) {
	ctx := t.Context()
	_, client := testutil.NewSimNode(t, hardhatsim.WithRemote(func(string, uint64) (*hardhatsim.State, error) {
		return nil, errors.New("missing trie node")
	}))
	controller := fork.New(client, testutil.SimForkURL)

	err := controller.SetNetworkFork(ctx, 1)
	require.True(t, evmerrors.IsRPCError(err))
}

func TestReset(t *testing.T) {
	ctx := t.Context()
	sim, client := testutil.NewSimNode(t)
	controller := fork.New(client, testutil.SimForkURL)

	require.NoError(t, controller.SetNetworkFork(ctx, 77))
	require.NoError(t, controller.Reset(ctx))

	url, _ := sim.Fork()
	require.Empty(t, url)
	number, err := client.BlockNumber(ctx)
	require.NoError(t, err)
	require.Zero(t, number)
}
