// Package token moves ERC-20 balances to test accounts by impersonating
// known holders.
package token

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/storacha/evmfixture/pkg/evmerrors"
	"github.com/storacha/evmfixture/pkg/fixture/account"
)

// ERC20 ABI subset used by the fixtures
const erc20ABIJSON = `[
	{"constant":true,"inputs":[{"name":"account","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"payable":false,"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"payable":false,"stateMutability":"view","type":"function"},
	{"constant":false,"inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"name":"transfer","outputs":[{"name":"","type":"bool"}],"payable":false,"stateMutability":"nonpayable","type":"function"}
]`

var erc20ABI = func() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(erc20ABIJSON))
	if err != nil {
		panic(fmt.Sprintf("parsing ERC20 ABI: %s", err))
	}
	return parsed
}()

// ERC20 is a handle to a fungible token contract.
type ERC20 struct {
	address common.Address
	caller  ethereum.ContractCaller
}

func NewERC20(address common.Address, caller ethereum.ContractCaller) *ERC20 {
	return &ERC20{address: address, caller: caller}
}

func (t *ERC20) Address() common.Address {
	return t.address
}

// BalanceOf returns the token balance of account at the latest block.
func (t *ERC20) BalanceOf(ctx context.Context, account common.Address) (*big.Int, error) {
	out, err := t.call(ctx, "balanceOf", account)
	if err != nil {
		return nil, err
	}
	balance, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected balanceOf result type %T", out[0])
	}
	return balance, nil
}

// Decimals returns the number of decimals the token uses.
func (t *ERC20) Decimals(ctx context.Context) (uint8, error) {
	out, err := t.call(ctx, "decimals")
	if err != nil {
		return 0, err
	}
	decimals, ok := out[0].(uint8)
	if !ok {
		return 0, fmt.Errorf("unexpected decimals result type %T", out[0])
	}
	return decimals, nil
}

// PackTransfer returns the calldata of transfer(to, amount).
func PackTransfer(to common.Address, amount *big.Int) ([]byte, error) {
	data, err := erc20ABI.Pack("transfer", to, amount)
	if err != nil {
		return nil, fmt.Errorf("packing transfer call: %w", err)
	}
	return data, nil
}

// Transfer submits transfer(to, amount) on behalf of signer.
func (t *ERC20) Transfer(ctx context.Context, signer *account.ImpersonatedSigner, to common.Address, amount *big.Int) (common.Hash, error) {
	data, err := PackTransfer(to, amount)
	if err != nil {
		return common.Hash{}, err
	}
	return signer.SendTransaction(ctx, account.TxArgs{To: &t.address, Data: data})
}

func (t *ERC20) call(ctx context.Context, method string, args ...any) ([]any, error) {
	data, err := erc20ABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("packing %s call: %w", method, err)
	}
	res, err := t.caller.CallContract(ctx, ethereum.CallMsg{To: &t.address, Data: data}, nil)
	if err != nil {
		err = evmerrors.Classify("eth_call", err)
		if revertErr, ok := evmerrors.AsRevert(err); ok {
			err = revertErr
		}
		return nil, fmt.Errorf("calling %s() on %s: %w", method, t.address, err)
	}
	out, err := erc20ABI.Unpack(method, res)
	if err != nil {
		return nil, fmt.Errorf("unpacking %s result: %w", method, err)
	}
	return out, nil
}
