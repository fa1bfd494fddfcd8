package hardhatsim

import (
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	codeInvalidParams = -32602
	codeInternal      = -32603
	codeServer        = -32000
)

type simError struct {
	code int
	msg  string
	data any
}

func (e *simError) Error() string  { return e.msg }
func (e *simError) ErrorCode() int { return e.code }
func (e *simError) ErrorData() any { return e.data }

func invalidParams(format string, args ...any) error {
	return &simError{code: codeInvalidParams, msg: fmt.Sprintf(format, args...)}
}

func serverError(format string, args ...any) error {
	return &simError{code: codeServer, msg: fmt.Sprintf(format, args...)}
}

var errorStringSelector = crypto.Keccak256([]byte("Error(string)"))[:4]

// revert mimics Hardhat's reply for a reverted eth_sendTransaction.
func revert(reason string) error {
	strType, _ := abi.NewType("string", "", nil)
	packed, _ := abi.Arguments{{Type: strType}}.Pack(reason)
	payload := append(append([]byte{}, errorStringSelector...), packed...)
	msg := fmt.Sprintf("Error: VM Exception while processing transaction: reverted with reason string '%s'", reason)
	return &simError{
		code: codeInternal,
		msg:  msg,
		data: map[string]any{
			"message": msg,
			"data":    "0x" + hex.EncodeToString(payload),
		},
	}
}
