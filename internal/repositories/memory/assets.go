package memory

import (
	"context"

	"inventory-system/internal/entities"
	apperrors "inventory-system/pkg/errors"
)

type assetRepository struct {
	s *Storage
}

func (r *assetRepository) GetAssets(_ context.Context) ([]entities.Asset, error) {
	r.s.rlock()
	defer r.s.runlock()

	assets := make([]entities.Asset, 0, len(r.s.st.assets))
	for _, a := range r.s.st.assets {
		assets = append(assets, a)
	}
	sortAssets(assets)
	return assets, nil
}

func (r *assetRepository) FindAsset(_ context.Context, id uint64) (*entities.Asset, error) {
	r.s.rlock()
	defer r.s.runlock()

	a, ok := r.s.st.assets[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &a, nil
}

func (r *assetRepository) FindAssetByVoucher(_ context.Context, voucherNumber string) (*entities.Asset, error) {
	r.s.rlock()
	defer r.s.runlock()

	for _, a := range r.s.st.assets {
		if a.VoucherNumber == voucherNumber {
			return &a, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *assetRepository) voucherTaken(exceptID uint64, voucher string) bool {
	for id, a := range r.s.st.assets {
		if id != exceptID && a.VoucherNumber == voucher {
			return true
		}
	}
	return false
}

func (r *assetRepository) CreateAsset(_ context.Context, asset *entities.Asset) (*entities.Asset, error) {
	r.s.lock()
	defer r.s.unlock()

	if r.voucherTaken(0, asset.VoucherNumber) {
		return nil, apperrors.ErrConflict
	}

	created := *asset
	r.s.st.nextAssetID++
	created.ID = r.s.st.nextAssetID
	if created.Status == "" {
		created.Status = entities.AssetStatusActive
	}
	ts := r.s.st.stamp(r.s.now())
	created.CreatedAt, created.UpdatedAt = ts, ts

	r.s.st.assets[created.ID] = created
	return &created, nil
}

func (r *assetRepository) UpdateAsset(_ context.Context, id uint64, patch entities.AssetPatch) (*entities.Asset, error) {
	r.s.lock()
	defer r.s.unlock()

	a, ok := r.s.st.assets[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if patch.VoucherNumber != nil && r.voucherTaken(id, *patch.VoucherNumber) {
		return nil, apperrors.ErrConflict
	}

	patch.Apply(&a)
	a.UpdatedAt = r.s.st.stamp(r.s.now())
	r.s.st.assets[id] = a
	return &a, nil
}

// DeleteAsset не трогает связанные перемещения и ремонты.
func (r *assetRepository) DeleteAsset(_ context.Context, id uint64) (bool, error) {
	r.s.lock()
	defer r.s.unlock()

	if _, ok := r.s.st.assets[id]; !ok {
		return false, nil
	}
	delete(r.s.st.assets, id)
	return true, nil
}
