// Package hardhatsim provides an in-process simulation of a Hardhat Network
// node. It speaks the administrative evm_*/hardhat_* vocabulary plus the
// handful of eth_* methods the fixture layer relies on, and hosts simple ERC-20
// ledgers so token acquisition can be exercised without a real chain.
package hardhatsim

import (
	"math/big"
	"net/http/httptest"
	"sync"
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rpc"
)

// DefaultChainID matches the chain id of Hardhat Network.
const DefaultChainID = 31337

// Remote describes the state of the remote chain a fork is taken from.
// It is called with the fork url and block number and must return a fresh
// state every time.
type Remote func(url string, blockNumber uint64) (*State, error)

// Node is a simulated Hardhat node.
type Node struct {
	mu sync.Mutex

	state        *State
	snapshots    map[uint64]*State
	nextSnapshot uint64
	impersonated mapset.Set[common.Address]
	remote       Remote

	forkURL   string
	forkBlock uint64

	// mineBudget, when non-negative, is the number of evm_mine calls that
	// succeed before every further call fails.
	mineBudget int
	calls      []string

	server *rpc.Server
}

// Option configures a Node.
type Option func(*Node)

// WithRemote sets the remote chain used by hardhat_reset with forking.
func WithRemote(remote Remote) Option {
	return func(n *Node) {
		n.remote = remote
	}
}

// WithState sets the initial chain state.
func WithState(state *State) Option {
	return func(n *Node) {
		n.state = state
	}
}

// New creates a simulated node and its rpc server.
func New(opts ...Option) *Node {
	n := &Node{
		state:        NewState(),
		snapshots:    map[uint64]*State{},
		nextSnapshot: 1,
		impersonated: mapset.NewThreadUnsafeSet[common.Address](),
		mineBudget:   -1,
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.remote == nil {
		n.remote = func(_ string, blockNumber uint64) (*State, error) {
			s := NewState()
			s.Number = blockNumber
			s.Timestamp += blockNumber * 12
			return s, nil
		}
	}

	n.server = rpc.NewServer()
	mustRegister(n.server, "evm", &evmAPI{n})
	mustRegister(n.server, "hardhat", &hardhatAPI{n})
	mustRegister(n.server, "eth", &ethAPI{n})
	return n
}

func mustRegister(server *rpc.Server, namespace string, receiver any) {
	if err := server.RegisterName(namespace, receiver); err != nil {
		panic(err)
	}
}

// Server returns the rpc server backing the node.
func (n *Node) Server() *rpc.Server {
	return n.server
}

// Dial returns an in-process connection to the node, closed on test cleanup.
func (n *Node) Dial(t testing.TB) *rpc.Client {
	client := rpc.DialInProc(n.server)
	t.Cleanup(client.Close)
	return client
}

// Serve exposes the node over HTTP and returns its URL.
func (n *Node) Serve(t testing.TB) string {
	srv := httptest.NewServer(n.server)
	t.Cleanup(srv.Close)
	return srv.URL
}

// Stop shuts the rpc server down.
func (n *Node) Stop() {
	n.server.Stop()
}

// FailMineAfter lets the next k evm_mine calls succeed and fails every call
// after that. A negative k removes the limit.
func (n *Node) FailMineAfter(k int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.mineBudget = k
}

// Calls returns the administrative and transaction methods received so far,
// in order.
func (n *Node) Calls() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.calls...)
}

// IsImpersonated reports whether addr is currently impersonated.
func (n *Node) IsImpersonated(addr common.Address) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.impersonated.Contains(addr)
}

// Fork returns the url and block of the current fork, if any.
func (n *Node) Fork() (string, uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.forkURL, n.forkBlock
}

// SnapshotCount returns the number of snapshots that can still be reverted to.
func (n *Node) SnapshotCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.snapshots)
}

// DeployToken installs an ERC-20 ledger at addr in the current state.
func (n *Node) DeployToken(addr common.Address, token *Token) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if token.Balances == nil {
		token.Balances = map[common.Address]*big.Int{}
	}
	n.state.Tokens[addr] = token
}

func (n *Node) record(method string) {
	n.calls = append(n.calls, method)
}
