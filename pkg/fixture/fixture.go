// Package fixture puts a shared Hardhat compatible test node into a known
// state: a pinned fork, snapshots, impersonated and funded accounts, and
// advanced blocks or time.
//
// Every operation is a blocking round trip over one node connection and
// observes the cumulative effect of all earlier calls. Callers serialize
// their own calls; the package does no locking.
package fixture

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/storacha/evmfixture/pkg/fixture/account"
	"github.com/storacha/evmfixture/pkg/fixture/chaintime"
	"github.com/storacha/evmfixture/pkg/fixture/fork"
	"github.com/storacha/evmfixture/pkg/fixture/snapshot"
	"github.com/storacha/evmfixture/pkg/fixture/token"
	"github.com/storacha/evmfixture/pkg/node"
)

type Options struct {
	// ForkURL is the remote chain forks are taken from.
	ForkURL string
	// GasAllowance is the native balance given to token holders before a
	// transfer. Defaults to token.DefaultGasAllowance.
	GasAllowance *big.Int
	// ReceiptTimeout defaults to token.DefaultReceiptTimeout.
	ReceiptTimeout time.Duration
}

type Fixture struct {
	client *node.Client

	Snapshots *snapshot.Manager
	Fork      *fork.Controller
	Accounts  *account.Controller
	Time      *chaintime.Controller
	Tokens    *token.Acquirer
}

// New builds the fixture controllers over client. The client stays owned by
// the caller.
func New(client *node.Client, opts Options) *Fixture {
	accounts := account.New(client)

	var acquirerOpts []token.Option
	if opts.GasAllowance != nil {
		acquirerOpts = append(acquirerOpts, token.WithGasAllowance(opts.GasAllowance))
	}
	if opts.ReceiptTimeout > 0 {
		acquirerOpts = append(acquirerOpts, token.WithReceiptTimeout(opts.ReceiptTimeout))
	}

	return &Fixture{
		client:    client,
		Snapshots: snapshot.New(client),
		Fork:      fork.New(client, opts.ForkURL),
		Accounts:  accounts,
		Time:      chaintime.New(client),
		Tokens:    token.NewAcquirer(accounts, client.Eth(), acquirerOpts...),
	}
}

// Client returns the node connection the fixture operates through.
func (f *Fixture) Client() *node.Client {
	return f.client
}

func (f *Fixture) TakeSnapshot(ctx context.Context) (snapshot.ID, error) {
	return f.Snapshots.Take(ctx)
}

func (f *Fixture) RevertToSnapshot(ctx context.Context, id snapshot.ID) error {
	return f.Snapshots.Revert(ctx, id)
}

func (f *Fixture) SetNetworkFork(ctx context.Context, blockNumber uint64) error {
	return f.Fork.SetNetworkFork(ctx, blockNumber)
}

func (f *Fixture) ImpersonateAccount(ctx context.Context, addr common.Address) (*account.ImpersonatedSigner, error) {
	return f.Accounts.Impersonate(ctx, addr)
}

// SetBalance overwrites the native balance of addr.
func (f *Fixture) SetBalance(ctx context.Context, addr common.Address, amountWei *big.Int) error {
	return f.Accounts.SetBalance(ctx, addr, amountWei)
}

func (f *Fixture) AdvanceBlocks(ctx context.Context, n uint64, opts ...chaintime.AdvanceOption) error {
	return f.Time.AdvanceBlocks(ctx, n, opts...)
}

func (f *Fixture) SetTimestamp(ctx context.Context, timestamp uint64) error {
	return f.Time.SetTimestamp(ctx, timestamp)
}

func (f *Fixture) AcquireTokens(ctx context.Context, source, tokenAddr, dest common.Address, amount *big.Int) (*ethtypes.Receipt, error) {
	return f.Tokens.AcquireTokens(ctx, token.AcquisitionRequest{
		Source: source,
		Token:  tokenAddr,
		Dest:   dest,
		Amount: amount,
	})
}

// TokenBalance returns the balance of holder in the token at tokenAddr.
func (f *Fixture) TokenBalance(ctx context.Context, tokenAddr, holder common.Address) (*big.Int, error) {
	return token.NewERC20(tokenAddr, f.client.Eth()).BalanceOf(ctx, holder)
}
