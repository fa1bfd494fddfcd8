// Package evmerrors defines the failure taxonomy of the fixture layer: errors
// returned by the node, transport failures, and contract reverts.
package evmerrors

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/rpc"
)

// CodeInvalidSnapshot is reported when the node answers evm_revert with false.
// It matches the generic server error code used by geth-style nodes.
const CodeInvalidSnapshot = -32000

// RPCError is returned when the node rejected a request with a JSON-RPC error
// object, or answered in a way that signals rejection.
type RPCError struct {
	Method  string
	Code    int
	Message string
	// Data is the optional error data attached by the node. Hardhat sends an
	// object, Anvil and geth send a hex string.
	Data any
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc %s failed (code %d): %s", e.Method, e.Code, e.Message)
}

// ErrorCode implements rpc.Error.
func (e *RPCError) ErrorCode() int { return e.Code }

// ErrorData implements rpc.DataError.
func (e *RPCError) ErrorData() any { return e.Data }

// TransportError is returned when the connection to the node failed before a
// JSON-RPC response could be read.
type TransportError struct {
	Method string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("rpc %s transport failure: %s", e.Method, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ContractRevertError is returned when a contract call reverted on chain.
type ContractRevertError struct {
	// Reason is the decoded revert string, empty when the node supplied none.
	Reason string
	// Data is the raw revert payload if the node returned one.
	Data  []byte
	Cause error
}

func (e *ContractRevertError) Error() string {
	if e.Reason == "" {
		return "execution reverted"
	}
	return "execution reverted: " + e.Reason
}

func (e *ContractRevertError) Unwrap() error { return e.Cause }

// Classify converts an error returned by a go-ethereum rpc client into an
// *RPCError or a *TransportError. Errors that are already classified are
// returned unchanged.
func Classify(method string, err error) error {
	if err == nil {
		return nil
	}
	var (
		rpcErr       *RPCError
		transportErr *TransportError
		revertErr    *ContractRevertError
	)
	if errors.As(err, &rpcErr) || errors.As(err, &transportErr) || errors.As(err, &revertErr) {
		return err
	}

	var codeErr rpc.Error
	if errors.As(err, &codeErr) {
		out := &RPCError{
			Method:  method,
			Code:    codeErr.ErrorCode(),
			Message: codeErr.Error(),
		}
		var dataErr rpc.DataError
		if errors.As(err, &dataErr) {
			out.Data = dataErr.ErrorData()
		}
		return out
	}
	return &TransportError{Method: method, Err: err}
}

// AsRevert reports whether err is a node rejection caused by a reverted
// execution, and if so returns it as a *ContractRevertError that wraps err.
func AsRevert(err error) (*ContractRevertError, bool) {
	var revertErr *ContractRevertError
	if errors.As(err, &revertErr) {
		return revertErr, true
	}
	var rpcErr *RPCError
	if !errors.As(err, &rpcErr) {
		return nil, false
	}

	data := revertData(rpcErr.Data)
	if data == "" {
		data = ExtractRevertData(rpcErr.Message)
	}
	if data == "" && !looksReverted(rpcErr.Message) {
		return nil, false
	}

	out := &ContractRevertError{Cause: err}
	if data != "" {
		raw, decodeErr := hex.DecodeString(strings.TrimPrefix(data, "0x"))
		if decodeErr == nil {
			out.Data = raw
			if reason, parseErr := ParseRevertReason(raw); parseErr == nil {
				out.Reason = reason
			}
		}
	}
	if out.Reason == "" {
		out.Reason = reasonFromMessage(rpcErr.Message)
	}
	return out, true
}

// IsRPCError reports whether err carries an *RPCError.
func IsRPCError(err error) bool {
	var rpcErr *RPCError
	return errors.As(err, &rpcErr)
}

// IsTransportError reports whether err carries a *TransportError.
func IsTransportError(err error) bool {
	var transportErr *TransportError
	return errors.As(err, &transportErr)
}

// IsContractRevert reports whether err carries a *ContractRevertError.
func IsContractRevert(err error) bool {
	var revertErr *ContractRevertError
	return errors.As(err, &revertErr)
}

// revertData digs the hex payload out of the error data attached by the node.
func revertData(data any) string {
	switch v := data.(type) {
	case string:
		if strings.HasPrefix(v, "0x") {
			return v
		}
	case map[string]any:
		// hardhat: {"message": "...", "data": "0x..."}
		if inner, ok := v["data"]; ok {
			return revertData(inner)
		}
	}
	return ""
}

func looksReverted(msg string) bool {
	msg = strings.ToLower(msg)
	return strings.Contains(msg, "revert") || strings.Contains(msg, "vm exception")
}

// reasonFromMessage recovers the reason from messages such as
// "VM Exception while processing transaction: reverted with reason string 'X'"
// or "execution reverted: X".
func reasonFromMessage(msg string) string {
	const hardhatMarker = "reverted with reason string '"
	if idx := strings.Index(msg, hardhatMarker); idx != -1 {
		rest := msg[idx+len(hardhatMarker):]
		if end := strings.LastIndex(rest, "'"); end != -1 {
			return rest[:end]
		}
		return rest
	}
	const gethMarker = "execution reverted:"
	if idx := strings.Index(msg, gethMarker); idx != -1 {
		rest := strings.TrimSpace(msg[idx+len(gethMarker):])
		if !strings.HasPrefix(rest, "0x") {
			return rest
		}
	}
	return ""
}
