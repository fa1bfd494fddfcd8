package hardhatsim

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/params"
	"github.com/ethereum/go-ethereum/rpc"
)

const (
	gasPrice     = params.GWei
	transferGas  = 21_000
	tokenGas     = 52_000
	erc20ABIJSON = `[
	{"inputs":[{"name":"account","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"stateMutability":"view","type":"function"},
	{"inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"name":"transfer","outputs":[{"name":"","type":"bool"}],"stateMutability":"nonpayable","type":"function"}
]`
)

var erc20ABI = func() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(erc20ABIJSON))
	if err != nil {
		panic(err)
	}
	return parsed
}()

type evmAPI struct{ n *Node }

func (api *evmAPI) Snapshot() hexutil.Uint64 {
	n := api.n
	n.mu.Lock()
	defer n.mu.Unlock()
	n.record("evm_snapshot")

	id := n.nextSnapshot
	n.nextSnapshot++
	n.snapshots[id] = n.state.clone()
	return hexutil.Uint64(id)
}

// Revert restores the snapshot and discards it together with every snapshot
// taken after it. Unknown ids yield false.
func (api *evmAPI) Revert(id hexutil.Uint64) bool {
	n := api.n
	n.mu.Lock()
	defer n.mu.Unlock()
	n.record("evm_revert")

	snap, ok := n.snapshots[uint64(id)]
	if !ok {
		return false
	}
	n.state = snap.clone()
	for other := range n.snapshots {
		if other >= uint64(id) {
			delete(n.snapshots, other)
		}
	}
	return true
}

func (api *evmAPI) Mine() (string, error) {
	n := api.n
	n.mu.Lock()
	defer n.mu.Unlock()
	n.record("evm_mine")

	if n.mineBudget == 0 {
		return "", serverError("mining disabled at block %d", n.state.Number)
	}
	if n.mineBudget > 0 {
		n.mineBudget--
	}
	n.state.mine()
	return "0x0", nil
}

func (api *evmAPI) SetNextBlockTimestamp(ts uint64) (string, error) {
	n := api.n
	n.mu.Lock()
	defer n.mu.Unlock()
	n.record("evm_setNextBlockTimestamp")

	if ts <= n.state.Timestamp {
		return "", serverError("Timestamp %d is lower than or equal to previous block's timestamp %d", ts, n.state.Timestamp)
	}
	n.state.NextTimestamp = &ts
	return fmt.Sprintf("%d", ts), nil
}

type hardhatAPI struct{ n *Node }

type forkingParams struct {
	JSONRPCURL  string  `json:"jsonRpcUrl"`
	BlockNumber *uint64 `json:"blockNumber"`
}

type resetParams struct {
	Forking *forkingParams `json:"forking"`
}

func (api *hardhatAPI) Reset(opts *resetParams) (bool, error) {
	n := api.n
	n.mu.Lock()
	defer n.mu.Unlock()
	n.record("hardhat_reset")

	var (
		state *State
		url   string
		block uint64
	)
	if opts == nil || opts.Forking == nil {
		state = NewState()
	} else {
		if opts.Forking.JSONRPCURL == "" {
			return false, invalidParams("forking.jsonRpcUrl is required")
		}
		if opts.Forking.BlockNumber == nil {
			return false, invalidParams("forking.blockNumber is required")
		}
		url, block = opts.Forking.JSONRPCURL, *opts.Forking.BlockNumber
		remoteState, err := n.remote(url, block)
		if err != nil {
			return false, serverError("fetching fork state from %s: %s", url, err)
		}
		state = remoteState
	}

	n.state = state
	n.forkURL, n.forkBlock = url, block
	clear(n.snapshots)
	n.impersonated.Clear()
	return true, nil
}

func (api *hardhatAPI) ImpersonateAccount(addr common.Address) bool {
	n := api.n
	n.mu.Lock()
	defer n.mu.Unlock()
	n.record("hardhat_impersonateAccount")

	n.impersonated.Add(addr)
	return true
}

func (api *hardhatAPI) StopImpersonatingAccount(addr common.Address) bool {
	n := api.n
	n.mu.Lock()
	defer n.mu.Unlock()
	n.record("hardhat_stopImpersonatingAccount")

	was := n.impersonated.Contains(addr)
	n.impersonated.Remove(addr)
	return was
}

func (api *hardhatAPI) SetBalance(addr common.Address, amount hexutil.Big) bool {
	n := api.n
	n.mu.Lock()
	defer n.mu.Unlock()
	n.record("hardhat_setBalance")

	n.state.Balances[addr] = new(big.Int).Set(amount.ToInt())
	return true
}

type ethAPI struct{ n *Node }

type txArgs struct {
	From  *common.Address `json:"from"`
	To    *common.Address `json:"to"`
	Gas   *hexutil.Uint64 `json:"gas"`
	Value *hexutil.Big    `json:"value"`
	Data  *hexutil.Bytes  `json:"data"`
	Input *hexutil.Bytes  `json:"input"`
}

func (a txArgs) data() []byte {
	if a.Input != nil {
		return *a.Input
	}
	if a.Data != nil {
		return *a.Data
	}
	return nil
}

func (a txArgs) value() *big.Int {
	if a.Value == nil {
		return new(big.Int)
	}
	return a.Value.ToInt()
}

func (api *ethAPI) ChainId() *hexutil.Big {
	return (*hexutil.Big)(big.NewInt(DefaultChainID))
}

func (api *ethAPI) BlockNumber() hexutil.Uint64 {
	n := api.n
	n.mu.Lock()
	defer n.mu.Unlock()
	return hexutil.Uint64(n.state.Number)
}

func (api *ethAPI) GetBalance(addr common.Address, _ rpc.BlockNumberOrHash) *hexutil.Big {
	n := api.n
	n.mu.Lock()
	defer n.mu.Unlock()
	return (*hexutil.Big)(n.state.balanceOf(addr))
}

func (api *ethAPI) GetBlockByNumber(number rpc.BlockNumber, _ bool) *ethtypes.Header {
	n := api.n
	n.mu.Lock()
	defer n.mu.Unlock()
	if number < 0 || uint64(number) == n.state.Number {
		return n.state.header()
	}
	return nil
}

func (api *ethAPI) GetTransactionReceipt(hash common.Hash) *ethtypes.Receipt {
	n := api.n
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state.Receipts[hash]
}

func (api *ethAPI) Call(_ context.Context, args txArgs, _ rpc.BlockNumberOrHash) (hexutil.Bytes, error) {
	n := api.n
	n.mu.Lock()
	defer n.mu.Unlock()

	if args.To == nil {
		return nil, invalidParams("missing call target")
	}
	token, ok := n.state.Tokens[*args.To]
	if !ok {
		return hexutil.Bytes{}, nil
	}
	method, inputs, err := decodeCall(args.data())
	if err != nil {
		return nil, revert(err.Error())
	}
	switch method.Name {
	case "balanceOf":
		return method.Outputs.Pack(token.balanceOf(inputs[0].(common.Address)))
	case "decimals":
		return method.Outputs.Pack(token.Decimals)
	case "transfer":
		// static call of a transfer only reports whether it would succeed
		if err := token.transferCheck(callerOf(args), inputs[1].(*big.Int)); err != nil {
			return nil, err
		}
		return method.Outputs.Pack(true)
	}
	return nil, revert("function selector was not recognized")
}

func (api *ethAPI) SendTransaction(args txArgs) (common.Hash, error) {
	n := api.n
	n.mu.Lock()
	defer n.mu.Unlock()
	n.record("eth_sendTransaction")

	if args.From == nil {
		return common.Hash{}, invalidParams("missing from address")
	}
	from := *args.From
	if !n.impersonated.Contains(from) {
		return common.Hash{}, serverError("unknown account %s", from.Hex())
	}

	gas := uint64(transferGas)
	var token *Token
	if args.To != nil {
		if t, ok := n.state.Tokens[*args.To]; ok {
			token, gas = t, tokenGas
		}
	}
	fee := new(big.Int).Mul(new(big.Int).SetUint64(gas), big.NewInt(gasPrice))
	cost := new(big.Int).Add(fee, args.value())
	balance := n.state.balanceOf(from)
	if balance.Cmp(cost) < 0 {
		return common.Hash{}, serverError("sender doesn't have enough funds to send tx. The max upfront cost is: %s and the sender's account only has: %s", cost, balance)
	}

	if token != nil {
		method, inputs, err := decodeCall(args.data())
		if err != nil {
			return common.Hash{}, revert(err.Error())
		}
		if method.Name != "transfer" {
			return common.Hash{}, revert("function selector was not recognized")
		}
		to, amount := inputs[0].(common.Address), inputs[1].(*big.Int)
		if err := token.transferCheck(from, amount); err != nil {
			return common.Hash{}, err
		}
		token.Balances[from] = new(big.Int).Sub(token.balanceOf(from), amount)
		token.Balances[to] = new(big.Int).Add(token.balanceOf(to), amount)
	} else if args.To != nil && args.value().Sign() > 0 {
		n.state.Balances[*args.To] = new(big.Int).Add(n.state.balanceOf(*args.To), args.value())
	}

	n.state.Balances[from] = balance.Sub(balance, cost)
	nonce := n.state.Nonces[from]
	n.state.Nonces[from] = nonce + 1
	n.state.mine()

	hash := txHash(from, nonce, n.state.Number)
	n.state.Receipts[hash] = &ethtypes.Receipt{
		Type:              ethtypes.LegacyTxType,
		Status:            ethtypes.ReceiptStatusSuccessful,
		CumulativeGasUsed: gas,
		GasUsed:           gas,
		EffectiveGasPrice: big.NewInt(gasPrice),
		Logs:              []*ethtypes.Log{},
		TxHash:            hash,
		BlockNumber:       new(big.Int).SetUint64(n.state.Number),
		BlockHash:         n.state.header().Hash(),
	}
	return hash, nil
}

func (t *Token) transferCheck(from common.Address, amount *big.Int) error {
	if t.Paused {
		return revert("Pausable: paused")
	}
	if t.balanceOf(from).Cmp(amount) < 0 {
		return revert("ERC20: transfer amount exceeds balance")
	}
	return nil
}

func callerOf(args txArgs) common.Address {
	if args.From == nil {
		return common.Address{}
	}
	return *args.From
}

func decodeCall(data []byte) (*abi.Method, []any, error) {
	if len(data) < 4 {
		return nil, nil, errors.New("function selector was not recognized")
	}
	method, err := erc20ABI.MethodById(data[:4])
	if err != nil {
		return nil, nil, errors.New("function selector was not recognized")
	}
	inputs, err := method.Inputs.Unpack(data[4:])
	if err != nil {
		return nil, nil, fmt.Errorf("invalid calldata: %w", err)
	}
	return method, inputs, nil
}

func txHash(from common.Address, nonce, block uint64) common.Hash {
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[:8], nonce)
	binary.BigEndian.PutUint64(buf[8:], block)
	return crypto.Keccak256Hash(from.Bytes(), buf[:])
}
