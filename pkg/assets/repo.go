package assets

import (
	"context"

	"assetdeck/pkg/kv"
)

// AssetRepository persists the flat collection of every account's assets.
// Reads and writes replace the whole value.
type AssetRepository interface {
	LoadAssets(ctx context.Context) ([]Asset, error)
	SaveAssets(ctx context.Context, assets []Asset) error
}

type kvAssetRepository struct {
	store kv.Store
}

func NewAssetRepository(store kv.Store) AssetRepository {
	return &kvAssetRepository{store: store}
}

func (r *kvAssetRepository) LoadAssets(ctx context.Context) ([]Asset, error) {
	var list []Asset
	if _, err := kv.GetJSON(ctx, r.store, kv.SlotAssets, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []Asset{}
	}
	return list, nil
}

func (r *kvAssetRepository) SaveAssets(ctx context.Context, assets []Asset) error {
	if assets == nil {
		assets = []Asset{}
	}
	return kv.PutJSON(ctx, r.store, kv.SlotAssets, assets)
}
