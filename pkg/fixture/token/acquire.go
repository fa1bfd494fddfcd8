package token

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/params"
	logging "github.com/ipfs/go-log/v2"

	"github.com/storacha/evmfixture/pkg/evmerrors"
	"github.com/storacha/evmfixture/pkg/fixture/account"
	"github.com/storacha/evmfixture/pkg/node"
)

var log = logging.Logger("fixture/token")

const DefaultReceiptTimeout = 30 * time.Second

// DefaultGasAllowance is the native balance given to the impersonated holder
// so it can pay for the transfer: 10 ether.
var DefaultGasAllowance = new(big.Int).Mul(big.NewInt(10), big.NewInt(params.Ether))

//go:generate mockgen -destination=../../../internal/mocks/account_controller.go -package=mocks . AccountController

// AccountController is the part of account.Controller the acquirer needs.
type AccountController interface {
	Impersonate(ctx context.Context, addr common.Address) (*account.ImpersonatedSigner, error)
	SetBalance(ctx context.Context, addr common.Address, amountWei *big.Int) error
}

// ReceiptFetcher reads transaction receipts.
type ReceiptFetcher interface {
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*ethtypes.Receipt, error)
}

// Backend is the read side of the node connection used by the acquirer.
// *ethclient.Client satisfies it.
type Backend interface {
	ethereum.ContractCaller
	ReceiptFetcher
}

// AcquisitionRequest moves Amount of the token at Token from Source, which is
// assumed to hold enough, to Dest.
type AcquisitionRequest struct {
	Source common.Address
	Token  common.Address
	Dest   common.Address
	Amount *big.Int
}

// Acquirer funds test accounts with tokens taken from a known holder.
type Acquirer struct {
	accounts       AccountController
	backend        Backend
	gasAllowance   *big.Int
	receiptTimeout time.Duration
}

type Option func(*Acquirer)

// WithGasAllowance sets the native balance written to the holder before the
// transfer. It replaces the holder's balance.
func WithGasAllowance(wei *big.Int) Option {
	return func(a *Acquirer) {
		a.gasAllowance = wei
	}
}

// WithReceiptTimeout bounds how long to wait for the transfer to be mined.
func WithReceiptTimeout(d time.Duration) Option {
	return func(a *Acquirer) {
		a.receiptTimeout = d
	}
}

func NewAcquirer(accounts AccountController, backend Backend, opts ...Option) *Acquirer {
	a := &Acquirer{
		accounts:       accounts,
		backend:        backend,
		gasAllowance:   DefaultGasAllowance,
		receiptTimeout: DefaultReceiptTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AcquireTokens impersonates req.Source, overwrites its native balance with
// the gas allowance, and transfers req.Amount of the token to req.Dest.
//
// Nothing is undone on failure: if the transfer reverts, the balance written
// in the second step stays in place.
func (a *Acquirer) AcquireTokens(ctx context.Context, req AcquisitionRequest) (*ethtypes.Receipt, error) {
	// abi packing reduces a uint256 modulo 2^256, so the bound is checked here
	if _, err := account.EncodeAmount(req.Amount); err != nil {
		return nil, fmt.Errorf("acquiring tokens: %w", err)
	}

	signer, err := a.accounts.Impersonate(ctx, req.Source)
	if err != nil {
		return nil, fmt.Errorf("acquiring tokens: %w", err)
	}

	if err := a.accounts.SetBalance(ctx, req.Source, a.gasAllowance); err != nil {
		return nil, fmt.Errorf("acquiring tokens: %w", err)
	}

	erc20 := NewERC20(req.Token, a.backend)
	txHash, err := erc20.Transfer(ctx, signer, req.Dest, req.Amount)
	if err != nil {
		return nil, fmt.Errorf("acquiring tokens: transferring %s of %s: %w", req.Amount, erc20.Address(), err)
	}

	receipt, err := WaitForReceipt(ctx, a.backend, txHash, a.receiptTimeout)
	if err != nil {
		return nil, fmt.Errorf("acquiring tokens: %w", err)
	}

	log.Infow("acquired tokens",
		"token", req.Token,
		"source", req.Source,
		"dest", req.Dest,
		"amount", req.Amount,
		"tx", txHash,
		"block", receipt.BlockNumber,
	)
	return receipt, nil
}

// WaitForReceipt waits for txHash to be mined. It polls while the receipt is
// not found; any other failure, and a failed receipt, end the wait at once.
func WaitForReceipt(ctx context.Context, fetcher ReceiptFetcher, txHash common.Hash, timeout time.Duration) (*ethtypes.Receipt, error) {
	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = 50 * time.Millisecond
	expBackoff.MaxInterval = 2 * time.Second
	expBackoff.Multiplier = 2.0

	operation := func() (*ethtypes.Receipt, error) {
		receipt, err := fetcher.TransactionReceipt(ctx, txHash)
		if err != nil {
			if errors.Is(err, ethereum.NotFound) {
				return nil, err
			}
			return nil, backoff.Permanent(evmerrors.Classify(node.MethodGetTransactionReceipt, err))
		}
		if receipt.Status != ethtypes.ReceiptStatusSuccessful {
			return nil, backoff.Permanent(&evmerrors.ContractRevertError{})
		}
		return receipt, nil
	}

	receipt, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(expBackoff),
		backoff.WithMaxElapsedTime(timeout),
		backoff.WithNotify(func(err error, d time.Duration) {
			log.Debugw("transaction not yet mined", "tx", txHash, "retry_in", d)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("waiting for transaction %s: %w", txHash, err)
	}
	return receipt, nil
}
