package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/utils"
)

type AssetServiceInterface interface {
	GetAssets(ctx context.Context) ([]entities.Asset, error)
	FindAsset(ctx context.Context, id uint64) (*entities.Asset, error)
	CreateAsset(ctx context.Context, payload dto.CreateAssetDTO) (*entities.Asset, error)
	UpdateAsset(ctx context.Context, id uint64, payload dto.UpdateAssetDTO) (*entities.Asset, error)
	DeleteAsset(ctx context.Context, id uint64) error
	GetAssetTransfers(ctx context.Context, id uint64) ([]entities.Transfer, error)
	GetAssetRepairs(ctx context.Context, id uint64) ([]entities.Repair, error)
}

type AssetService struct {
	storage repositories.Storage
	logger  *zap.Logger
}

func NewAssetService(storage repositories.Storage, logger *zap.Logger) AssetServiceInterface {
	return &AssetService{storage: storage, logger: logger}
}

func (s *AssetService) GetAssets(ctx context.Context) ([]entities.Asset, error) {
	return s.storage.Assets().GetAssets(ctx)
}

func (s *AssetService) FindAsset(ctx context.Context, id uint64) (*entities.Asset, error) {
	return s.storage.Assets().FindAsset(ctx, id)
}

func (s *AssetService) CreateAsset(ctx context.Context, payload dto.CreateAssetDTO) (*entities.Asset, error) {
	date, err := utils.ParseDate("date", payload.Date)
	if err != nil {
		return nil, err
	}

	asset := &entities.Asset{
		VoucherNumber:        strings.TrimSpace(payload.VoucherNumber),
		Date:                 date,
		Donor:                utils.SanitizeText(payload.Donor),
		Location:             utils.SanitizeText(payload.Location),
		LossQuantity:         null.Int64FromPtr(payload.LossQuantity),
		LossAmount:           null.Float64FromPtr(payload.LossAmount),
		HandoverPerson:       null.StringFromPtr(utils.SanitizePtr(payload.HandoverPerson)),
		HandoverOrganization: null.StringFromPtr(utils.SanitizePtr(payload.HandoverOrganization)),
		TransferTo:           null.StringFromPtr(utils.SanitizePtr(payload.TransferTo)),
		TransferReason:       null.StringFromPtr(utils.SanitizePtr(payload.TransferReason)),
		IsDonation:           payload.IsDonation,
		ProjectName:          utils.SanitizeText(payload.ProjectName),
		IsInsured:            payload.IsInsured,
		PolicyNumber:         null.StringFromPtr(utils.SanitizePtr(payload.PolicyNumber)),
		Warranty:             null.StringFromPtr(utils.SanitizePtr(payload.Warranty)),
	}
	if payload.Status != nil {
		asset.Status = entities.AssetStatus(*payload.Status)
	}

	created, err := s.storage.Assets().CreateAsset(ctx, asset)
	if err != nil {
		return nil, voucherConflict(err, asset.VoucherNumber)
	}
	s.logger.Info("Создан актив", zap.Uint64("assetID", created.ID), zap.String("voucher", created.VoucherNumber))
	return created, nil
}

func (s *AssetService) UpdateAsset(ctx context.Context, id uint64, payload dto.UpdateAssetDTO) (*entities.Asset, error) {
	date, err := utils.ParseOptionalDate("date", payload.Date)
	if err != nil {
		return nil, err
	}

	patch := entities.AssetPatch{
		Date:                 date,
		Donor:                utils.SanitizePtr(payload.Donor),
		Location:             utils.SanitizePtr(payload.Location),
		LossQuantity:         payload.LossQuantity,
		LossAmount:           payload.LossAmount,
		HandoverPerson:       utils.SanitizePtr(payload.HandoverPerson),
		HandoverOrganization: utils.SanitizePtr(payload.HandoverOrganization),
		TransferTo:           utils.SanitizePtr(payload.TransferTo),
		TransferReason:       utils.SanitizePtr(payload.TransferReason),
		IsDonation:           payload.IsDonation,
		ProjectName:          utils.SanitizePtr(payload.ProjectName),
		IsInsured:            payload.IsInsured,
		PolicyNumber:         utils.SanitizePtr(payload.PolicyNumber),
		Warranty:             utils.SanitizePtr(payload.Warranty),
	}
	if payload.VoucherNumber != nil {
		voucher := strings.TrimSpace(*payload.VoucherNumber)
		patch.VoucherNumber = &voucher
	}
	if payload.Status != nil {
		status := entities.AssetStatus(*payload.Status)
		patch.Status = &status
	}

	updated, err := s.storage.Assets().UpdateAsset(ctx, id, patch)
	if err != nil {
		return nil, voucherConflict(err, utils.SafeDeref(patch.VoucherNumber))
	}
	return updated, nil
}

func (s *AssetService) DeleteAsset(ctx context.Context, id uint64) error {
	existed, err := s.storage.Assets().DeleteAsset(ctx, id)
	if err != nil {
		return err
	}
	if !existed {
		return apperrors.ErrNotFound
	}
	s.logger.Info("Актив удалён", zap.Uint64("assetID", id))
	return nil
}

func (s *AssetService) GetAssetTransfers(ctx context.Context, id uint64) ([]entities.Transfer, error) {
	if _, err := s.storage.Assets().FindAsset(ctx, id); err != nil {
		return nil, err
	}
	return s.storage.Transfers().GetTransfersByAsset(ctx, id)
}

func (s *AssetService) GetAssetRepairs(ctx context.Context, id uint64) ([]entities.Repair, error) {
	if _, err := s.storage.Assets().FindAsset(ctx, id); err != nil {
		return nil, err
	}
	return s.storage.Repairs().GetRepairsByAsset(ctx, id)
}

func voucherConflict(err error, voucher string) error {
	if errors.Is(err, apperrors.ErrConflict) {
		return apperrors.NewHttpError(
			http.StatusConflict,
			fmt.Sprintf("Актив с номером ваучера %q уже существует", voucher),
			err,
			map[string]interface{}{"voucher_number": voucher},
		)
	}
	return err
}

// requireAsset проверяет ссылку на актив из тела запроса.
func requireAsset(ctx context.Context, tx repositories.Storage, assetID uint64) error {
	if _, err := tx.Assets().FindAsset(ctx, assetID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewHttpError(
				http.StatusBadRequest,
				fmt.Sprintf("Актив с ID %d не найден", assetID),
				nil,
				map[string]interface{}{"asset_id": assetID},
			)
		}
		return err
	}
	return nil
}
