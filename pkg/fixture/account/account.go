// Package account impersonates addresses and overwrites native balances.
package account

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	logging "github.com/ipfs/go-log/v2"

	"github.com/storacha/evmfixture/pkg/node"
)

var log = logging.Logger("fixture/account")

// ErrInvalidAmount is returned for balances that are negative or do not fit
// in 256 bits.
var ErrInvalidAmount = errors.New("amount must be a non-negative 256-bit integer")

type Controller struct {
	gw node.Gateway
}

func New(gw node.Gateway) *Controller {
	return &Controller{gw: gw}
}

// Impersonate lets the caller send transactions as addr without its key.
// The grant lasts until StopImpersonating, a fork reset, or the end of the
// node process.
func (c *Controller) Impersonate(ctx context.Context, addr common.Address) (*ImpersonatedSigner, error) {
	if err := c.gw.Call(ctx, nil, node.MethodImpersonateAccount, addr); err != nil {
		return nil, fmt.Errorf("impersonating %s: %w", addr, err)
	}
	log.Debugw("impersonating account", "address", addr)
	return &ImpersonatedSigner{Address: addr, gw: c.gw}, nil
}

// StopImpersonating revokes a grant made by Impersonate. Nothing in this
// module calls it implicitly.
func (c *Controller) StopImpersonating(ctx context.Context, addr common.Address) error {
	if err := c.gw.Call(ctx, nil, node.MethodStopImpersonatingAccount, addr); err != nil {
		return fmt.Errorf("stopping impersonation of %s: %w", addr, err)
	}
	log.Debugw("stopped impersonating account", "address", addr)
	return nil
}

// SetBalance overwrites the native balance of addr with amountWei. The
// previous balance is discarded, not added to.
func (c *Controller) SetBalance(ctx context.Context, addr common.Address, amountWei *big.Int) error {
	hexAmount, err := EncodeAmount(amountWei)
	if err != nil {
		return err
	}
	if err := c.gw.Call(ctx, nil, node.MethodSetBalance, addr, hexAmount); err != nil {
		return fmt.Errorf("setting balance of %s: %w", addr, err)
	}
	log.Debugw("set balance", "address", addr, "wei", amountWei)
	return nil
}

// Fund sets the native balance of addr to exactly amountWei. Calling it twice
// does not double fund the account.
func (c *Controller) Fund(ctx context.Context, addr common.Address, amountWei *big.Int) error {
	return c.SetBalance(ctx, addr, amountWei)
}

// EncodeAmount renders amount as a minimal 0x-prefixed hex quantity, the form
// hardhat_setBalance expects: 0 is "0x0" and there are no leading zeros.
func EncodeAmount(amount *big.Int) (string, error) {
	if amount == nil || amount.Sign() < 0 {
		return "", fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}
	u, overflow := uint256.FromBig(amount)
	if overflow {
		return "", fmt.Errorf("%w: %s overflows uint256", ErrInvalidAmount, amount)
	}
	return u.Hex(), nil
}
