package testutil

import (
	"testing"

	"github.com/storacha/evmfixture/pkg/fixture"
	"github.com/storacha/evmfixture/pkg/node"
	"github.com/storacha/evmfixture/pkg/testutil/hardhatsim"
)

// SimForkURL is the remote url used for forks of a simulated node.
const SimForkURL = "http://remote.invalid/rpc"

// NewSimNode starts an in-process simulated node and connects to it.
func NewSimNode(t testing.TB, opts ...hardhatsim.Option) (*hardhatsim.Node, *node.Client) {
	t.Helper()
	sim := hardhatsim.New(opts...)
	t.Cleanup(sim.Stop)
	return sim, node.NewClient(sim.Dial(t))
}

// NewSimFixture returns a fixture over a simulated node forking from SimForkURL.
func NewSimFixture(t testing.TB, opts ...hardhatsim.Option) (*hardhatsim.Node, *fixture.Fixture) {
	t.Helper()
	sim, client := NewSimNode(t, opts...)
	return sim, fixture.New(client, fixture.Options{ForkURL: SimForkURL})
}
