// Package localnode provides a testcontainers module running an Anvil node,
// which understands the hardhat_* and evm_* administrative methods.
//
// Usage:
//
//	container, err := localnode.Run(ctx, localnode.WithForkURL(url))
//	if err != nil {
//	    return err
//	}
//	defer container.Terminate(ctx)
//
//	client, _ := node.Dial(ctx, container.RPCEndpoint)
package localnode

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// DefaultImage is the published Foundry image, which ships anvil
	DefaultImage = "ghcr.io/foundry-rs/foundry:stable"

	// DefaultRPCPort is the port exposed by the container
	DefaultRPCPort = "8545/tcp"

	// ChainID is the chain id anvil uses without a fork
	ChainID = 31337
)

// Container represents a running node container
type Container struct {
	testcontainers.Container
	// RPCEndpoint is the URL to connect to (e.g., "http://localhost:32768")
	RPCEndpoint string
}

// WaitForReady checks that the RPC endpoint answers eth_chainId.
func (c *Container) WaitForReady(ctx context.Context) error {
	client, err := rpc.DialContext(ctx, c.RPCEndpoint)
	if err != nil {
		return fmt.Errorf("connecting to RPC: %w", err)
	}
	defer client.Close()

	var chainID string
	if err := client.CallContext(ctx, &chainID, "eth_chainId"); err != nil {
		return fmt.Errorf("eth_chainId failed: %w", err)
	}
	return nil
}

// Options configures the node container
type Options struct {
	// Image is the Docker image to use
	Image string
	// ForkURL starts the node as a fork of a remote chain when set
	ForkURL string
	// ForkBlock pins the fork to a block; zero means the remote head
	ForkBlock uint64
	// StartupTimeout is the maximum time to wait for the container to be ready
	StartupTimeout time.Duration
}

func DefaultOptions() Options {
	return Options{
		Image:          DefaultImage,
		StartupTimeout: 2 * time.Minute,
	}
}

// Run starts an Anvil container listening on DefaultRPCPort and waits until
// it answers RPC requests.
func Run(ctx context.Context, opts ...func(*Options)) (*Container, error) {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	cmd := []string{"--host", "0.0.0.0", "--port", "8545", "--chain-id", fmt.Sprintf("%d", ChainID)}
	if options.ForkURL != "" {
		cmd = append(cmd, "--fork-url", options.ForkURL)
		if options.ForkBlock > 0 {
			cmd = append(cmd, "--fork-block-number", fmt.Sprintf("%d", options.ForkBlock))
		}
	}

	req := testcontainers.ContainerRequest{
		Image:        options.Image,
		ExposedPorts: []string{DefaultRPCPort},
		Entrypoint:   []string{"anvil"},
		Cmd:          cmd,
		WaitingFor: wait.ForAll(
			wait.ForLog("Listening on").WithStartupTimeout(options.StartupTimeout),
			wait.ForListeningPort(DefaultRPCPort).WithStartupTimeout(options.StartupTimeout),
		).WithDeadline(options.StartupTimeout),
	}

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start node container: %w", err)
	}

	host, err := c.Host(ctx)
	if err != nil {
		_ = c.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}

	port, err := c.MappedPort(ctx, DefaultRPCPort)
	if err != nil {
		_ = c.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}

	container := &Container{
		Container:   c,
		RPCEndpoint: fmt.Sprintf("http://%s:%s", host, port.Port()),
	}

	if err := container.WaitForReady(ctx); err != nil {
		_ = c.Terminate(ctx)
		return nil, fmt.Errorf("container not ready: %w", err)
	}
	return container, nil
}

// WithImage sets a custom Docker image
func WithImage(image string) func(*Options) {
	return func(o *Options) {
		o.Image = image
	}
}

// WithForkURL starts the node as a fork of the chain at url.
func WithForkURL(url string) func(*Options) {
	return func(o *Options) {
		o.ForkURL = url
	}
}

// WithForkBlock pins the initial fork to block. Only used with WithForkURL.
func WithForkBlock(block uint64) func(*Options) {
	return func(o *Options) {
		o.ForkBlock = block
	}
}

// WithStartupTimeout sets the maximum time to wait for container startup.
// Pulling the image on a cold machine can take a while.
func WithStartupTimeout(d time.Duration) func(*Options) {
	return func(o *Options) {
		o.StartupTimeout = d
	}
}
