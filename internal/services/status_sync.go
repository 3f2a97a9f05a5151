package services

import (
	"context"

	"go.uber.org/zap"

	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
)

// statusSync переводит Asset.status вслед за журналами перемещений и
// ремонтов. Выключен по умолчанию (ASSET_STATUS_SYNC): тогда статус
// актива меняется только явным обновлением.
type statusSync struct {
	enabled bool
	logger  *zap.Logger
}

func (s statusSync) afterTransfer(ctx context.Context, tx repositories.Storage, t *entities.Transfer) error {
	if !s.enabled {
		return nil
	}
	status := entities.AssetStatusTransferred
	location := t.ToLocation
	_, err := tx.Assets().UpdateAsset(ctx, t.AssetID, entities.AssetPatch{Status: &status, Location: &location})
	if err == nil {
		s.logger.Debug("Статус актива обновлён после перемещения", zap.Uint64("assetID", t.AssetID))
	}
	return err
}

func (s statusSync) afterRepairOpened(ctx context.Context, tx repositories.Storage, r *entities.Repair) error {
	if !s.enabled || r.Status == entities.RepairStatusCompleted {
		return nil
	}
	status := entities.AssetStatusInRepair
	_, err := tx.Assets().UpdateAsset(ctx, r.AssetID, entities.AssetPatch{Status: &status})
	return err
}

// afterRepairCompleted возвращает актив в active, когда у него не осталось
// открытых ремонтов.
func (s statusSync) afterRepairCompleted(ctx context.Context, tx repositories.Storage, assetID uint64) error {
	if !s.enabled {
		return nil
	}
	asset, err := tx.Assets().FindAsset(ctx, assetID)
	if err != nil {
		// Актив мог быть удалён: ремонт при этом остаётся в журнале.
		s.logger.Warn("Актив завершённого ремонта не найден", zap.Uint64("assetID", assetID), zap.Error(err))
		return nil
	}
	if asset.Status != entities.AssetStatusInRepair {
		return nil
	}
	open, err := tx.Repairs().GetRepairsByAsset(ctx, assetID)
	if err != nil {
		return err
	}
	for _, r := range open {
		if r.Status != entities.RepairStatusCompleted {
			return nil
		}
	}
	status := entities.AssetStatusActive
	_, err = tx.Assets().UpdateAsset(ctx, assetID, entities.AssetPatch{Status: &status})
	return err
}
