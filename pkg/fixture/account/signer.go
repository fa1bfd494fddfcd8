package account

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/storacha/evmfixture/pkg/evmerrors"
	"github.com/storacha/evmfixture/pkg/node"
)

// TxArgs describes a transaction submitted through eth_sendTransaction.
// Unset fields are filled in by the node.
type TxArgs struct {
	To    *common.Address `json:"to,omitempty"`
	Data  hexutil.Bytes   `json:"data,omitempty"`
	Value *hexutil.Big    `json:"value,omitempty"`
	Gas   *hexutil.Uint64 `json:"gas,omitempty"`
}

type sendArgs struct {
	From common.Address `json:"from"`
	TxArgs
}

// ImpersonatedSigner submits transactions as an impersonated address. It
// holds no key and no funds of its own.
type ImpersonatedSigner struct {
	Address common.Address
	gw      node.Gateway
}

// NewImpersonatedSigner returns a signer for an address the node already
// impersonates.
func NewImpersonatedSigner(addr common.Address, gw node.Gateway) *ImpersonatedSigner {
	return &ImpersonatedSigner{Address: addr, gw: gw}
}

// SendTransaction submits args with the signer as sender and returns the
// transaction hash. A reverted execution is reported as an
// *evmerrors.ContractRevertError.
func (s *ImpersonatedSigner) SendTransaction(ctx context.Context, args TxArgs) (common.Hash, error) {
	var hash common.Hash
	err := s.gw.Call(ctx, &hash, node.MethodSendTransaction, sendArgs{From: s.Address, TxArgs: args})
	if err != nil {
		if revertErr, ok := evmerrors.AsRevert(err); ok {
			return common.Hash{}, fmt.Errorf("sending transaction from %s: %w", s.Address, revertErr)
		}
		return common.Hash{}, fmt.Errorf("sending transaction from %s: %w", s.Address, err)
	}
	return hash, nil
}
