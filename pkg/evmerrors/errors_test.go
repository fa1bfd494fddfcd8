package evmerrors

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

type jsonErr struct {
	code int
	msg  string
	data any
}

func (e *jsonErr) Error() string  { return e.msg }
func (e *jsonErr) ErrorCode() int { return e.code }
func (e *jsonErr) ErrorData() any { return e.data }

func encodeErrorString(t *testing.T, reason string) []byte {
	t.Helper()
	strType, err := abi.NewType("string", "", nil)
	require.NoError(t, err)
	packed, err := abi.Arguments{{Type: strType}}.Pack(reason)
	require.NoError(t, err)
	return append(crypto.Keccak256([]byte("Error(string)"))[:4], packed...)
}

func encodePanic(t *testing.T, code int64) []byte {
	t.Helper()
	uintType, err := abi.NewType("uint256", "", nil)
	require.NoError(t, err)
	packed, err := abi.Arguments{{Type: uintType}}.Pack(big.NewInt(code))
	require.NoError(t, err)
	return append(crypto.Keccak256([]byte("Panic(uint256)"))[:4], packed...)
}

func TestClassify(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		require.NoError(t, Classify("evm_mine", nil))
	})

	t.Run("json-rpc error object", func(t *testing.T) {
		err := Classify("evm_revert", &jsonErr{code: -32602, msg: "invalid params", data: "0x01"})
		var rpcErr *RPCError
		require.ErrorAs(t, err, &rpcErr)
		require.Equal(t, "evm_revert", rpcErr.Method)
		require.Equal(t, -32602, rpcErr.Code)
		require.Equal(t, "invalid params", rpcErr.Message)
		require.Equal(t, "0x01", rpcErr.Data)
		require.False(t, IsTransportError(err))
	})

	t.Run("transport failure", func(t *testing.T) {
		cause := fmt.Errorf("dial tcp 127.0.0.1:8545: connection refused")
		err := Classify("evm_snapshot", cause)
		require.True(t, IsTransportError(err))
		require.False(t, IsRPCError(err))
		require.ErrorIs(t, err, cause)
	})

	t.Run("context cancellation is a transport failure", func(t *testing.T) {
		err := Classify("evm_mine", context.Canceled)
		require.True(t, IsTransportError(err))
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("already classified", func(t *testing.T) {
		orig := &RPCError{Method: "evm_revert", Code: CodeInvalidSnapshot, Message: "x"}
		wrapped := fmt.Errorf("reverting: %w", orig)
		require.Same(t, wrapped, Classify("other", wrapped))
	})
}

func TestAsRevert(t *testing.T) {
	t.Run("anvil style hex data", func(t *testing.T) {
		payload := encodeErrorString(t, "ERC20: transfer amount exceeds balance")
		err := Classify("eth_sendTransaction", &jsonErr{
			code: 3,
			msg:  "execution reverted: ERC20: transfer amount exceeds balance",
			data: "0x" + hex.EncodeToString(payload),
		})
		revertErr, ok := AsRevert(err)
		require.True(t, ok)
		require.Equal(t, "ERC20: transfer amount exceeds balance", revertErr.Reason)
		require.Equal(t, payload, revertErr.Data)
		require.True(t, IsRPCError(revertErr), "revert keeps the node error in its chain")
	})

	t.Run("hardhat style object data", func(t *testing.T) {
		payload := encodeErrorString(t, "Pausable: paused")
		err := Classify("eth_sendTransaction", &jsonErr{
			code: -32603,
			msg:  "Error: VM Exception while processing transaction: reverted with reason string 'Pausable: paused'",
			data: map[string]any{
				"message": "Error: VM Exception while processing transaction: reverted with reason string 'Pausable: paused'",
				"data":    "0x" + hex.EncodeToString(payload),
			},
		})
		revertErr, ok := AsRevert(err)
		require.True(t, ok)
		require.Equal(t, "Pausable: paused", revertErr.Reason)
		require.EqualError(t, revertErr, "execution reverted: Pausable: paused")
	})

	t.Run("reason from message only", func(t *testing.T) {
		err := Classify("eth_sendTransaction", &jsonErr{
			code: -32603,
			msg:  "Error: VM Exception while processing transaction: reverted with reason string 'Blacklistable: account is blacklisted'",
		})
		revertErr, ok := AsRevert(err)
		require.True(t, ok)
		require.Equal(t, "Blacklistable: account is blacklisted", revertErr.Reason)
		require.Nil(t, revertErr.Data)
	})

	t.Run("revert without reason", func(t *testing.T) {
		err := Classify("eth_sendTransaction", &jsonErr{code: 3, msg: "execution reverted"})
		revertErr, ok := AsRevert(err)
		require.True(t, ok)
		require.Empty(t, revertErr.Reason)
		require.EqualError(t, revertErr, "execution reverted")
	})

	t.Run("not a revert", func(t *testing.T) {
		_, ok := AsRevert(Classify("hardhat_impersonateAccount", &jsonErr{code: -32602, msg: "invalid address"}))
		require.False(t, ok)

		_, ok = AsRevert(Classify("eth_sendTransaction", errors.New("EOF")))
		require.False(t, ok)
	})
}

func TestParseRevertReason(t *testing.T) {
	reason, err := ParseRevertReason(encodeErrorString(t, "Invalid buyToken"))
	require.NoError(t, err)
	require.Equal(t, "Invalid buyToken", reason)

	// Panic(0x11): arithmetic overflow
	reason, err = ParseRevertReason(encodePanic(t, 0x11))
	require.NoError(t, err)
	require.Contains(t, reason, "overflow")

	_, err = ParseRevertReason([]byte{0x01, 0x02})
	require.Error(t, err)

	_, err = ParseRevertReason([]byte{0xde, 0xad, 0xbe, 0xef})
	require.Error(t, err)
}

func TestExtractRevertData(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		want string
	}{
		{"raw hex odd length", "0x08c379a0a", ""},
		{"raw hex even", "0x08c379a0aabb", "0x08c379a0aabb"},
		{"geth", "execution reverted: 0x08c379a0aabb", "0x08c379a0aabb"},
		{"fvm", "message execution failed: vm error=[0x08c379a0aabb]", "0x08c379a0aabb"},
		{"revert prefix", "transaction revert 0x08c379a0aabb and more", "0x08c379a0aabb"},
		{"too short", "execution reverted: 0x08c3", ""},
		{"text reason", "execution reverted: ERC20: insufficient allowance", ""},
		{"nothing", "connection reset by peer", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ExtractRevertData(tc.msg))
		})
	}
}
