package cliutil

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/params"
	"github.com/holiman/uint256"
)

var units = []struct {
	suffix string
	wei    *big.Int
}{
	{"ether", big.NewInt(params.Ether)},
	{"gwei", big.NewInt(params.GWei)},
	{"wei", big.NewInt(params.Wei)},
}

// ParseAddress parses a 0x-prefixed hex address. Unlike
// common.HexToAddress it rejects malformed input instead of padding it.
func ParseAddress(s string) (common.Address, error) {
	if !strings.HasPrefix(s, "0x") || !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid address %q: expected 0x followed by 40 hex digits", s)
	}
	return common.HexToAddress(s), nil
}

// ParseAmount parses a native amount. Plain integers are wei, 0x-prefixed
// values are hex wei, and a unit suffix scales the number, so "1.5ether",
// "20gwei" and "1500000000000000000" are the same amount.
func ParseAmount(s string) (*big.Int, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if strings.HasPrefix(s, "0x") {
		v, err := hexutil.DecodeBig(s)
		if err != nil {
			return nil, fmt.Errorf("invalid amount %q: %w", s, err)
		}
		return v, nil
	}

	multiplier := big.NewInt(1)
	for _, u := range units {
		if strings.HasSuffix(s, u.suffix) {
			s = strings.TrimSpace(strings.TrimSuffix(s, u.suffix))
			multiplier = u.wei
			break
		}
	}

	r, ok := new(big.Rat).SetString(s)
	if !ok || s == "" {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	r.Mul(r, new(big.Rat).SetInt(multiplier))
	if !r.IsInt() {
		return nil, fmt.Errorf("invalid amount %q: not a whole number of wei", s)
	}
	if r.Sign() < 0 {
		return nil, fmt.Errorf("invalid amount %q: must not be negative", s)
	}
	if _, overflow := uint256.FromBig(r.Num()); overflow {
		return nil, fmt.Errorf("invalid amount %q: exceeds 2^256-1", s)
	}
	return r.Num(), nil
}

// ParseBaseUnits parses an amount in a token's smallest unit. It accepts the
// same decimal and hex forms as ParseAmount but no unit suffix, since the
// suffixes scale by 18 decimals regardless of the token.
func ParseBaseUnits(s string) (*big.Int, error) {
	for _, u := range units {
		if strings.HasSuffix(strings.ToLower(strings.TrimSpace(s)), u.suffix) {
			return nil, fmt.Errorf("invalid amount %q: token amounts are plain base units, unit suffixes are not accepted", s)
		}
	}
	return ParseAmount(s)
}

// ParseUint parses a decimal or 0x-prefixed hex block number or timestamp.
func ParseUint(s string) (uint64, error) {
	if strings.HasPrefix(s, "0x") {
		return hexutil.DecodeUint64(s)
	}
	return strconv.ParseUint(s, 10, 64)
}

// FormatEther renders wei as ether with up to 18 decimals, trimming trailing
// zeros.
func FormatEther(wei *big.Int) string {
	r := new(big.Rat).SetFrac(wei, big.NewInt(params.Ether))
	out := r.FloatString(18)
	out = strings.TrimRight(out, "0")
	return strings.TrimSuffix(out, ".")
}
