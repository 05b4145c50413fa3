package memory

import (
	"context"
	"fmt"
	"sync"

	domainerrors "domin/contexts/delegation/redemption-engine/domain/errors"
	"domin/contexts/delegation/redemption-engine/ports"
)

type asset struct {
	owner    string
	approved string
}

// AssetRegistry is an in-memory stand-in for the external asset collection.
// Ids are allocated per asset reference starting at 1.
type AssetRegistry struct {
	mu     sync.Mutex
	nextID map[string]uint64
	assets map[string]map[uint64]asset
}

func NewAssetRegistry() *AssetRegistry {
	return &AssetRegistry{
		nextID: map[string]uint64{},
		assets: map[string]map[uint64]asset{},
	}
}

// BatchMint creates count assets owned by owner and returns their ids.
func (r *AssetRegistry) BatchMint(_ context.Context, assetRef string, owner string, count int) ([]uint64, error) {
	if assetRef == "" || count <= 0 {
		return nil, domainerrors.ErrInvalidAsset
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.assets[assetRef] == nil {
		r.assets[assetRef] = map[uint64]asset{}
		r.nextID[assetRef] = 1
	}
	ids := make([]uint64, 0, count)
	for i := 0; i < count; i++ {
		id := r.nextID[assetRef]
		r.nextID[assetRef]++
		r.assets[assetRef][id] = asset{owner: owner}
		ids = append(ids, id)
	}
	return ids, nil
}

// Approve lets delegateRef act on one asset. Only the current owner may
// approve.
func (r *AssetRegistry) Approve(_ context.Context, assetRef string, assetID uint64, owner string, delegateRef string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.assets[assetRef][assetID]
	if !ok {
		return fmt.Errorf("%w: %s/%d", domainerrors.ErrUnknownAsset, assetRef, assetID)
	}
	if entry.owner != owner {
		return fmt.Errorf("%w: %s", domainerrors.ErrNotAssetOwner, owner)
	}
	entry.approved = delegateRef
	r.assets[assetRef][assetID] = entry
	return nil
}

func (r *AssetRegistry) OwnerOf(_ context.Context, assetRef string, assetID uint64) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.assets[assetRef][assetID]
	if !ok {
		return "", fmt.Errorf("%w: %s/%d", domainerrors.ErrUnknownAsset, assetRef, assetID)
	}
	return entry.owner, nil
}

func (r *AssetRegistry) IsApproved(_ context.Context, assetRef string, assetID uint64, delegateRef string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.assets[assetRef][assetID]
	if !ok {
		return false, fmt.Errorf("%w: %s/%d", domainerrors.ErrUnknownAsset, assetRef, assetID)
	}
	return entry.approved == delegateRef, nil
}

func (r *AssetRegistry) Burn(_ context.Context, assetRef string, assetID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.assets[assetRef][assetID]; !ok {
		return fmt.Errorf("%w: %s/%d", domainerrors.ErrUnknownAsset, assetRef, assetID)
	}
	delete(r.assets[assetRef], assetID)
	return nil
}

var _ ports.AssetRegistry = (*AssetRegistry)(nil)
