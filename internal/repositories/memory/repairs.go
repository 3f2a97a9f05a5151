package memory

import (
	"context"

	"inventory-system/internal/entities"
	apperrors "inventory-system/pkg/errors"
)

type repairRepository struct {
	s *Storage
}

func (r *repairRepository) collect(match func(entities.Repair) bool) []entities.Repair {
	list := make([]entities.Repair, 0)
	for _, rp := range r.s.st.repairs {
		if match(rp) {
			list = append(list, rp)
		}
	}
	sortRepairs(list)
	return list
}

func (r *repairRepository) GetRepairs(_ context.Context) ([]entities.Repair, error) {
	r.s.rlock()
	defer r.s.runlock()
	return r.collect(func(entities.Repair) bool { return true }), nil
}

func (r *repairRepository) GetActiveRepairs(_ context.Context) ([]entities.Repair, error) {
	r.s.rlock()
	defer r.s.runlock()
	return r.collect(func(rp entities.Repair) bool { return rp.Status != entities.RepairStatusCompleted }), nil
}

func (r *repairRepository) GetRepairsByAsset(_ context.Context, assetID uint64) ([]entities.Repair, error) {
	r.s.rlock()
	defer r.s.runlock()
	return r.collect(func(rp entities.Repair) bool { return rp.AssetID == assetID }), nil
}

func (r *repairRepository) FindRepair(_ context.Context, id uint64) (*entities.Repair, error) {
	r.s.rlock()
	defer r.s.runlock()

	rp, ok := r.s.st.repairs[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &rp, nil
}

func (r *repairRepository) CreateRepair(_ context.Context, repair *entities.Repair) (*entities.Repair, error) {
	r.s.lock()
	defer r.s.unlock()

	created := *repair
	r.s.st.nextRepairID++
	created.ID = r.s.st.nextRepairID
	if created.Status == "" {
		created.Status = entities.RepairStatusInRepair
	}
	ts := r.s.st.stamp(r.s.now())
	created.CreatedAt, created.UpdatedAt = ts, ts

	r.s.st.repairs[created.ID] = created
	return &created, nil
}

func (r *repairRepository) UpdateRepair(_ context.Context, id uint64, patch entities.RepairPatch) (*entities.Repair, error) {
	r.s.lock()
	defer r.s.unlock()

	rp, ok := r.s.st.repairs[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	patch.Apply(&rp)
	rp.UpdatedAt = r.s.st.stamp(r.s.now())
	r.s.st.repairs[id] = rp
	return &rp, nil
}

func (r *repairRepository) DeleteRepair(_ context.Context, id uint64) (bool, error) {
	r.s.lock()
	defer r.s.unlock()

	if _, ok := r.s.st.repairs[id]; !ok {
		return false, nil
	}
	delete(r.s.st.repairs, id)
	return true, nil
}
