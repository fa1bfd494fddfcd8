package account_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/require"

	"github.com/storacha/evmfixture/pkg/evmerrors"
	"github.com/storacha/evmfixture/pkg/fixture/account"
	"github.com/storacha/evmfixture/pkg/testutil"
)

func TestEncodeAmount(t *testing.T) {
	maxUint256 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

	tests := []struct {
		name    string
		amount  *big.Int
		want    string
		wantErr bool
	}{
		{name: "zero", amount: big.NewInt(0), want: "0x0"},
		{name: "one", amount: big.NewInt(1), want: "0x1"},
		{name: "no padding", amount: big.NewInt(16), want: "0x10"},
		{name: "ten ether", amount: testutil.Ether(10), want: "0x8ac7230489e80000"},
		{name: "max uint256", amount: maxUint256, want: "0xffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"},
		{name: "overflow", amount: new(big.Int).Add(maxUint256, big.NewInt(1)), wantErr: true},
		{name: "negative", amount: big.NewInt(-1), wantErr: true},
		{name: "nil", amount: nil, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := account.EncodeAmount(tc.amount)
			if tc.wantErr {
				require.ErrorIs(t, err, account.ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestSetBalanceOverwrites(t *testing.T) {
	ctx := t.Context()
	_, client := testutil.NewSimNode(t)
	accounts := account.New(client)
	addr := testutil.RandomAddress(t)

	require.NoError(t, accounts.SetBalance(ctx, addr, testutil.Ether(7)))
	require.NoError(t, accounts.SetBalance(ctx, addr, testutil.Ether(2)))

	balance, err := client.Balance(ctx, addr)
	require.NoError(t, err)
	require.Equal(t, testutil.Ether(2), balance)

	require.NoError(t, accounts.Fund(ctx, addr, testutil.Ether(2)))
	balance, err = client.Balance(ctx, addr)
	require.NoError(t, err)
	require.Equal(t, testutil.Ether(2), balance, "funding twice must not double the balance")

	require.NoError(t, accounts.SetBalance(ctx, addr, big.NewInt(0)))
	balance, err = client.Balance(ctx, addr)
	require.NoError(t, err)
	require.Zero(t, balance.Sign())
}

func TestSetBalanceFullRange(t *testing.T) {
	ctx := t.Context()
	sim, client := testutil.NewSimNode(t)
	accounts := account.New(client)
	addr := testutil.RandomAddress(t)

	maxUint256 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	require.NoError(t, accounts.SetBalance(ctx, addr, maxUint256))

	balance, err := client.Balance(ctx, addr)
	require.NoError(t, err)
	require.Equal(t, maxUint256, balance)

	calls := len(sim.Calls())
	require.ErrorIs(t, accounts.SetBalance(ctx, addr, big.NewInt(-5)), account.ErrInvalidAmount)
	require.Len(t, sim.Calls(), calls, "invalid amounts are rejected before reaching the node")
}

func TestImpersonate(t *testing.T) {
	ctx := t.Context()
	sim, client := testutil.NewSimNode(t)
	accounts := account.New(client)
	holder := testutil.RandomAddress(t)
	dest := testutil.RandomAddress(t)

	// not impersonated yet
	_, err := account.NewImpersonatedSigner(holder, client).SendTransaction(ctx, account.TxArgs{To: &dest})
	require.True(t, evmerrors.IsRPCError(err))

	signer, err := accounts.Impersonate(ctx, holder)
	require.NoError(t, err)
	require.Equal(t, holder, signer.Address)
	require.True(t, sim.IsImpersonated(holder))

	require.NoError(t, accounts.SetBalance(ctx, holder, testutil.Ether(2)))
	hash, err := signer.SendTransaction(ctx, account.TxArgs{
		To:    &dest,
		Value: (*hexutil.Big)(testutil.Ether(1)),
	})
	require.NoError(t, err)
	require.NotEqual(t, common.Hash{}, hash)

	balance, err := client.Balance(ctx, dest)
	require.NoError(t, err)
	require.Equal(t, testutil.Ether(1), balance)

	// impersonating again keeps the grant
	_, err = accounts.Impersonate(ctx, holder)
	require.NoError(t, err)
	require.True(t, sim.IsImpersonated(holder))

	require.NoError(t, accounts.StopImpersonating(ctx, holder))
	require.False(t, sim.IsImpersonated(holder))

	_, err = signer.SendTransaction(ctx, account.TxArgs{To: &dest})
	require.True(t, evmerrors.IsRPCError(err))
}

func TestSendTransactionWithoutFunds(t *testing.T) {
	ctx := t.Context()
	_, client := testutil.NewSimNode(t)
	accounts := account.New(client)
	holder := testutil.RandomAddress(t)
	dest := testutil.RandomAddress(t)

	signer, err := accounts.Impersonate(ctx, holder)
	require.NoError(t, err)

	_, err = signer.SendTransaction(ctx, account.TxArgs{To: &dest})
	require.True(t, evmerrors.IsRPCError(err))
	require.False(t, evmerrors.IsContractRevert(err))
}
