package hardhatsim

import (
	"maps"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

// Token is an ERC-20 ledger hosted at a fixed address.
type Token struct {
	Decimals uint8
	Paused   bool
	Balances map[common.Address]*big.Int
}

func (t *Token) balanceOf(addr common.Address) *big.Int {
	if b, ok := t.Balances[addr]; ok {
		return new(big.Int).Set(b)
	}
	return new(big.Int)
}

func (t *Token) clone() *Token {
	out := &Token{Decimals: t.Decimals, Paused: t.Paused, Balances: make(map[common.Address]*big.Int, len(t.Balances))}
	for k, v := range t.Balances {
		out.Balances[k] = new(big.Int).Set(v)
	}
	return out
}

// State is the full chain state of the simulated node. Every field is copied
// when a snapshot is taken.
type State struct {
	Number        uint64
	Timestamp     uint64
	NextTimestamp *uint64
	Balances      map[common.Address]*big.Int
	Tokens        map[common.Address]*Token
	Nonces        map[common.Address]uint64
	Receipts      map[common.Hash]*ethtypes.Receipt
}

// NewState returns an empty chain at block 0.
func NewState() *State {
	return &State{
		Timestamp: 1_600_000_000,
		Balances:  map[common.Address]*big.Int{},
		Tokens:    map[common.Address]*Token{},
		Nonces:    map[common.Address]uint64{},
		Receipts:  map[common.Hash]*ethtypes.Receipt{},
	}
}

func (s *State) balanceOf(addr common.Address) *big.Int {
	if b, ok := s.Balances[addr]; ok {
		return new(big.Int).Set(b)
	}
	return new(big.Int)
}

func (s *State) clone() *State {
	out := &State{
		Number:    s.Number,
		Timestamp: s.Timestamp,
		Balances:  make(map[common.Address]*big.Int, len(s.Balances)),
		Tokens:    make(map[common.Address]*Token, len(s.Tokens)),
		Nonces:    maps.Clone(s.Nonces),
		Receipts:  maps.Clone(s.Receipts),
	}
	if s.NextTimestamp != nil {
		ts := *s.NextTimestamp
		out.NextTimestamp = &ts
	}
	for k, v := range s.Balances {
		out.Balances[k] = new(big.Int).Set(v)
	}
	for k, v := range s.Tokens {
		out.Tokens[k] = v.clone()
	}
	return out
}

// mine seals one block, honouring a pinned timestamp.
func (s *State) mine() {
	s.Number++
	if s.NextTimestamp != nil {
		s.Timestamp = *s.NextTimestamp
		s.NextTimestamp = nil
	} else {
		s.Timestamp++
	}
}

func (s *State) header() *ethtypes.Header {
	return &ethtypes.Header{
		ParentHash:  common.BigToHash(new(big.Int).SetUint64(s.Number)),
		UncleHash:   ethtypes.EmptyUncleHash,
		Root:        ethtypes.EmptyRootHash,
		TxHash:      ethtypes.EmptyTxsHash,
		ReceiptHash: ethtypes.EmptyReceiptsHash,
		Difficulty:  new(big.Int),
		Number:      new(big.Int).SetUint64(s.Number),
		GasLimit:    30_000_000,
		Time:        s.Timestamp,
		Extra:       []byte{},
	}
}
