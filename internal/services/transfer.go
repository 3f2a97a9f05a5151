package services

import (
	"context"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
	"inventory-system/pkg/utils"
)

type TransferServiceInterface interface {
	GetTransfers(ctx context.Context) ([]entities.Transfer, error)
	FindTransfer(ctx context.Context, id uint64) (*entities.Transfer, error)
	CreateTransfer(ctx context.Context, payload dto.CreateTransferDTO) (*entities.Transfer, error)
}

type TransferService struct {
	storage repositories.Storage
	sync    statusSync
	logger  *zap.Logger
}

func NewTransferService(storage repositories.Storage, assetStatusSync bool, logger *zap.Logger) TransferServiceInterface {
	return &TransferService{
		storage: storage,
		sync:    statusSync{enabled: assetStatusSync, logger: logger},
		logger:  logger,
	}
}

func (s *TransferService) GetTransfers(ctx context.Context) ([]entities.Transfer, error) {
	return s.storage.Transfers().GetTransfers(ctx)
}

func (s *TransferService) FindTransfer(ctx context.Context, id uint64) (*entities.Transfer, error) {
	return s.storage.Transfers().FindTransfer(ctx, id)
}

func (s *TransferService) CreateTransfer(ctx context.Context, payload dto.CreateTransferDTO) (*entities.Transfer, error) {
	date, err := utils.ParseDate("transfer_date", payload.TransferDate)
	if err != nil {
		return nil, err
	}

	transfer := &entities.Transfer{
		AssetID:       payload.AssetID,
		FromLocation:  utils.SanitizeText(payload.FromLocation),
		ToLocation:    utils.SanitizeText(payload.ToLocation),
		FromCustodian: utils.SanitizeText(payload.FromCustodian),
		ToCustodian:   utils.SanitizeText(payload.ToCustodian),
		Organization:  null.StringFromPtr(utils.SanitizePtr(payload.Organization)),
		Reason:        null.StringFromPtr(utils.SanitizePtr(payload.Reason)),
		TransferDate:  date,
	}

	var created *entities.Transfer
	err = s.storage.RunInTransaction(ctx, func(tx repositories.Storage) error {
		if err := requireAsset(ctx, tx, transfer.AssetID); err != nil {
			return err
		}
		var err error
		created, err = tx.Transfers().CreateTransfer(ctx, transfer)
		if err != nil {
			return err
		}
		return s.sync.afterTransfer(ctx, tx, created)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Зарегистрировано перемещение",
		zap.Uint64("transferID", created.ID),
		zap.Uint64("assetID", created.AssetID),
		zap.String("to", created.ToLocation),
	)
	return created, nil
}
