// Package snapshot captures and restores the complete state of the node.
package snapshot

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
	logging "github.com/ipfs/go-log/v2"

	"github.com/storacha/evmfixture/pkg/evmerrors"
	"github.com/storacha/evmfixture/pkg/node"
)

var log = logging.Logger("fixture/snapshot")

// ID is the opaque snapshot identifier issued by the node. It is valid until
// it is reverted to, or until a fork reset replaces the node state.
type ID string

type Manager struct {
	gw node.Gateway
}

func New(gw node.Gateway) *Manager {
	return &Manager{gw: gw}
}

// Take captures the current node state. Chain state is not modified.
func (m *Manager) Take(ctx context.Context) (ID, error) {
	var id string
	if err := m.gw.Call(ctx, &id, node.MethodSnapshot); err != nil {
		return "", fmt.Errorf("taking snapshot: %w", err)
	}
	log.Debugw("took snapshot", "id", id)
	return ID(id), nil
}

// Revert restores the node to the state captured under id and consumes id.
// Reverting to an id that is no longer valid fails with an *evmerrors.RPCError.
func (m *Manager) Revert(ctx context.Context, id ID) error {
	var reverted bool
	if err := m.gw.Call(ctx, &reverted, node.MethodRevert, string(id)); err != nil {
		return fmt.Errorf("reverting to snapshot %s: %w", id, err)
	}
	if !reverted {
		return &evmerrors.RPCError{
			Method:  node.MethodRevert,
			Code:    evmerrors.CodeInvalidSnapshot,
			Message: fmt.Sprintf("snapshot %s is not valid: already reverted or invalidated by a fork reset", id),
		}
	}
	log.Debugw("reverted to snapshot", "id", id)
	return nil
}

// Scope runs fn between a snapshot and a revert, so whatever fn does to the
// node is undone when Scope returns. The revert runs even if fn fails.
func (m *Manager) Scope(ctx context.Context, fn func(ctx context.Context) error) error {
	id, err := m.Take(ctx)
	if err != nil {
		return err
	}

	var errs *multierror.Error
	if err := fn(ctx); err != nil {
		errs = multierror.Append(errs, err)
	}
	if err := m.Revert(ctx, id); err != nil {
		errs = multierror.Append(errs, err)
	}
	return errs.ErrorOrNil()
}
