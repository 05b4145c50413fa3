package delegates

import (
	"context"
	"fmt"
	"log/slog"

	"domin/contexts/delegation/redemption-engine/domain/entities"
	domainerrors "domin/contexts/delegation/redemption-engine/domain/errors"
	"domin/contexts/delegation/redemption-engine/ports"
)

// Registry resolves delegate references to implementations.
type Registry struct {
	delegates map[string]ports.Delegate
}

func NewRegistry() *Registry {
	return &Registry{delegates: map[string]ports.Delegate{}}
}

func (r *Registry) Register(delegateRef string, delegate ports.Delegate) {
	r.delegates[delegateRef] = delegate
}

func (r *Registry) Resolve(delegateRef string) (ports.Delegate, error) {
	delegate, ok := r.delegates[delegateRef]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domainerrors.ErrUnknownDelegate, delegateRef)
	}
	return delegate, nil
}

// NewDefaultRegistry registers the two built-in delegates.
func NewDefaultRegistry(assets ports.AssetRegistry, logger *slog.Logger) *Registry {
	registry := NewRegistry()
	registry.Register(entities.DelegateStandard, Standard{Logger: logger})
	registry.Register(entities.DelegateBurn, Burn{Assets: assets})
	return registry
}

// Standard is the event-only delegate. It moves no assets, so nothing can
// fail at precheck and execution just logs.
type Standard struct {
	Logger *slog.Logger
}

func (Standard) Precheck(context.Context, ports.DelegateRequest) error {
	return nil
}

func (d Standard) Execute(_ context.Context, request ports.DelegateRequest) error {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("standard delegate redeemed",
		"event", "delegate_standard_redeemed",
		"module", "delegation/redemption-engine",
		"layer", "adapter",
		"asset_ref", request.AssetRef,
		"asset_id", request.AssetID,
		"asset_owner", request.AssetOwner,
	)
	return nil
}

// Burn retires the asset. The asset owner must have approved the burn
// delegate beforehand; without approval the whole batch aborts at precheck.
type Burn struct {
	Assets ports.AssetRegistry
}

func (d Burn) Precheck(ctx context.Context, request ports.DelegateRequest) error {
	approved, err := d.Assets.IsApproved(ctx, request.AssetRef, request.AssetID, entities.DelegateBurn)
	if err != nil {
		return err
	}
	if !approved {
		return fmt.Errorf("%w: %s/%d", domainerrors.ErrInsufficientApproval, request.AssetRef, request.AssetID)
	}
	return nil
}

func (d Burn) Execute(ctx context.Context, request ports.DelegateRequest) error {
	return d.Assets.Burn(ctx, request.AssetRef, request.AssetID)
}

var (
	_ ports.Delegate         = Standard{}
	_ ports.Delegate         = Burn{}
	_ ports.DelegateResolver = (*Registry)(nil)
)
