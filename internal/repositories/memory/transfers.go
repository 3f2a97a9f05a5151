package memory

import (
	"context"

	"inventory-system/internal/entities"
	apperrors "inventory-system/pkg/errors"
)

type transferRepository struct {
	s *Storage
}

func (r *transferRepository) collect(match func(entities.Transfer) bool) []entities.Transfer {
	list := make([]entities.Transfer, 0)
	for _, t := range r.s.st.transfers {
		if match(t) {
			list = append(list, t)
		}
	}
	sortTransfers(list)
	return list
}

func (r *transferRepository) GetTransfers(_ context.Context) ([]entities.Transfer, error) {
	r.s.rlock()
	defer r.s.runlock()
	return r.collect(func(entities.Transfer) bool { return true }), nil
}

func (r *transferRepository) GetTransfersByAsset(_ context.Context, assetID uint64) ([]entities.Transfer, error) {
	r.s.rlock()
	defer r.s.runlock()
	return r.collect(func(t entities.Transfer) bool { return t.AssetID == assetID }), nil
}

func (r *transferRepository) FindTransfer(_ context.Context, id uint64) (*entities.Transfer, error) {
	r.s.rlock()
	defer r.s.runlock()

	t, ok := r.s.st.transfers[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &t, nil
}

func (r *transferRepository) CreateTransfer(_ context.Context, transfer *entities.Transfer) (*entities.Transfer, error) {
	r.s.lock()
	defer r.s.unlock()

	created := *transfer
	r.s.st.nextTransferID++
	created.ID = r.s.st.nextTransferID
	created.CreatedAt = r.s.st.stamp(r.s.now())

	r.s.st.transfers[created.ID] = created
	return &created, nil
}
