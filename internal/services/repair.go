package services

import (
	"context"
	"time"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/utils"
)

type RepairServiceInterface interface {
	GetRepairs(ctx context.Context) ([]entities.Repair, error)
	GetActiveRepairs(ctx context.Context) ([]entities.Repair, error)
	FindRepair(ctx context.Context, id uint64) (*entities.Repair, error)
	CreateRepair(ctx context.Context, payload dto.CreateRepairDTO) (*entities.Repair, error)
	UpdateRepair(ctx context.Context, id uint64, payload dto.UpdateRepairDTO) (*entities.Repair, error)
	CompleteRepair(ctx context.Context, id uint64, payload dto.CompleteRepairDTO) (*entities.Repair, error)
	DeleteRepair(ctx context.Context, id uint64) error
}

type RepairService struct {
	storage repositories.Storage
	sync    statusSync
	logger  *zap.Logger
	now     func() time.Time
}

func NewRepairService(storage repositories.Storage, assetStatusSync bool, logger *zap.Logger) RepairServiceInterface {
	return &RepairService{
		storage: storage,
		sync:    statusSync{enabled: assetStatusSync, logger: logger},
		logger:  logger,
		now:     time.Now,
	}
}

func (s *RepairService) GetRepairs(ctx context.Context) ([]entities.Repair, error) {
	return s.storage.Repairs().GetRepairs(ctx)
}

func (s *RepairService) GetActiveRepairs(ctx context.Context) ([]entities.Repair, error) {
	return s.storage.Repairs().GetActiveRepairs(ctx)
}

func (s *RepairService) FindRepair(ctx context.Context, id uint64) (*entities.Repair, error) {
	return s.storage.Repairs().FindRepair(ctx, id)
}

func (s *RepairService) CreateRepair(ctx context.Context, payload dto.CreateRepairDTO) (*entities.Repair, error) {
	sent, err := utils.ParseDate("sent_date", payload.SentDate)
	if err != nil {
		return nil, err
	}
	expected, err := utils.ParseOptionalDate("expected_return_date", payload.ExpectedReturnDate)
	if err != nil {
		return nil, err
	}

	repair := &entities.Repair{
		AssetID:            payload.AssetID,
		IssueDescription:   utils.SanitizeText(payload.IssueDescription),
		RepairCenter:       null.StringFromPtr(utils.SanitizePtr(payload.RepairCenter)),
		ExpectedReturnDate: null.TimeFromPtr(expected),
		Cost:               null.Float64FromPtr(payload.Cost),
		SentDate:           sent,
	}
	if payload.Status != nil {
		repair.Status = entities.RepairStatus(*payload.Status)
	}

	var created *entities.Repair
	err = s.storage.RunInTransaction(ctx, func(tx repositories.Storage) error {
		if err := requireAsset(ctx, tx, repair.AssetID); err != nil {
			return err
		}
		var err error
		created, err = tx.Repairs().CreateRepair(ctx, repair)
		if err != nil {
			return err
		}
		return s.sync.afterRepairOpened(ctx, tx, created)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Актив отправлен в ремонт", zap.Uint64("repairID", created.ID), zap.Uint64("assetID", created.AssetID))
	return created, nil
}

func (s *RepairService) UpdateRepair(ctx context.Context, id uint64, payload dto.UpdateRepairDTO) (*entities.Repair, error) {
	patch := entities.RepairPatch{
		IssueDescription: utils.SanitizePtr(payload.IssueDescription),
		RepairCenter:     utils.SanitizePtr(payload.RepairCenter),
		Cost:             payload.Cost,
	}
	var err error
	if patch.ExpectedReturnDate, err = utils.ParseOptionalDate("expected_return_date", payload.ExpectedReturnDate); err != nil {
		return nil, err
	}
	if patch.ActualReturnDate, err = utils.ParseOptionalDate("actual_return_date", payload.ActualReturnDate); err != nil {
		return nil, err
	}
	if patch.SentDate, err = utils.ParseOptionalDate("sent_date", payload.SentDate); err != nil {
		return nil, err
	}
	if payload.Status != nil {
		status := entities.RepairStatus(*payload.Status)
		patch.Status = &status
	}

	return s.applyPatch(ctx, id, patch)
}

// CompleteRepair закрывает ремонт; без даты возврата ставится сегодняшняя.
func (s *RepairService) CompleteRepair(ctx context.Context, id uint64, payload dto.CompleteRepairDTO) (*entities.Repair, error) {
	returned, err := utils.ParseOptionalDate("actual_return_date", payload.ActualReturnDate)
	if err != nil {
		return nil, err
	}
	if returned == nil {
		today := s.now().UTC().Truncate(24 * time.Hour)
		returned = &today
	}

	status := entities.RepairStatusCompleted
	repair, err := s.applyPatch(ctx, id, entities.RepairPatch{
		Status:           &status,
		ActualReturnDate: returned,
		Cost:             payload.Cost,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Ремонт завершён", zap.Uint64("repairID", id), zap.Uint64("assetID", repair.AssetID))
	return repair, nil
}

func (s *RepairService) applyPatch(ctx context.Context, id uint64, patch entities.RepairPatch) (*entities.Repair, error) {
	var updated *entities.Repair
	err := s.storage.RunInTransaction(ctx, func(tx repositories.Storage) error {
		var err error
		updated, err = tx.Repairs().UpdateRepair(ctx, id, patch)
		if err != nil {
			return err
		}
		if patch.Status == nil {
			return nil
		}
		if *patch.Status == entities.RepairStatusCompleted {
			return s.sync.afterRepairCompleted(ctx, tx, updated.AssetID)
		}
		return s.sync.afterRepairOpened(ctx, tx, updated)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *RepairService) DeleteRepair(ctx context.Context, id uint64) error {
	existed, err := s.storage.Repairs().DeleteRepair(ctx, id)
	if err != nil {
		return err
	}
	if !existed {
		return apperrors.ErrNotFound
	}
	return nil
}
