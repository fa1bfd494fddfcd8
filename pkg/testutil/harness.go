package testutil

import (
	"context"
	"os"
	"runtime"
	"testing"
	"time"

	"github.com/storacha/evmfixture/pkg/fixture"
	"github.com/storacha/evmfixture/pkg/node"
	"github.com/storacha/evmfixture/pkg/testutil/localnode"
)

const (
	// IntegrationEnv enables tests against a containerised node.
	IntegrationEnv = "EVMFIXTURE_INTEGRATION"
	// ForkURLEnv names the archive endpoint fork tests pull state from.
	ForkURLEnv = "EVMFIXTURE_FORK_URL"
)

type Harness struct {
	Container *localnode.Container
	Client    *node.Client
	Fixture   *fixture.Fixture
}

// NewHarness starts an Anvil container and returns a fixture connected to it.
// The fixture forks from $EVMFIXTURE_FORK_URL when set.
func NewHarness(t testing.TB) *Harness {
	if runtime.GOOS == "darwin" {
		t.Skip("Skipping: container tests not supported on macOS")
	}
	if os.Getenv(IntegrationEnv) == "" {
		t.Skipf("Skipping: set %s to run tests against a node container", IntegrationEnv)
	}
	ctx := t.Context()
	container, err := localnode.Run(ctx, localnode.WithStartupTimeout(3*time.Minute))
	if err != nil {
		t.Fatal(err)
	}

	// Register container cleanup FIRST (runs last due to LIFO order)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	client, err := node.Dial(ctx, container.RPCEndpoint)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(client.Close)

	return &Harness{
		Container: container,
		Client:    client,
		Fixture:   fixture.New(client, fixture.Options{ForkURL: os.Getenv(ForkURLEnv)}),
	}
}

// RequireForkURL skips the test unless a fork endpoint is configured.
func RequireForkURL(t testing.TB) string {
	url := os.Getenv(ForkURLEnv)
	if url == "" {
		t.Skipf("Skipping: set %s to an archive node url to run fork tests", ForkURLEnv)
	}
	return url
}
