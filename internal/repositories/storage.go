package repositories

import (
	"context"

	"inventory-system/internal/entities"
)

// Storage - единый контракт доступа к данным. Реализации: memory и postgres.
// Вариант выбирается один раз при старте приложения.
type Storage interface {
	Users() UserRepositoryInterface
	Assets() AssetRepositoryInterface
	Transfers() TransferRepositoryInterface
	Repairs() RepairRepositoryInterface

	// RunInTransaction выполняет fn атомарно: при ошибке изменения отменяются.
	RunInTransaction(ctx context.Context, fn func(tx Storage) error) error

	Ping(ctx context.Context) error
	Close()
}

type UserRepositoryInterface interface {
	GetUsers(ctx context.Context) ([]entities.User, error)
	FindUser(ctx context.Context, id uint64) (*entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	FindByUsername(ctx context.Context, username string) (*entities.User, error)
	CreateUser(ctx context.Context, user *entities.User) (*entities.User, error)
	UpdateUser(ctx context.Context, id uint64, patch entities.UserPatch) (*entities.User, error)
	DeleteUser(ctx context.Context, id uint64) (bool, error)

	IsValidInvitationCode(code string) bool
	RoleForInvitationCode(code string) (entities.Role, bool)
	IsRegistrationEnabled() bool
}

type AssetRepositoryInterface interface {
	GetAssets(ctx context.Context) ([]entities.Asset, error)
	FindAsset(ctx context.Context, id uint64) (*entities.Asset, error)
	FindAssetByVoucher(ctx context.Context, voucherNumber string) (*entities.Asset, error)
	CreateAsset(ctx context.Context, asset *entities.Asset) (*entities.Asset, error)
	UpdateAsset(ctx context.Context, id uint64, patch entities.AssetPatch) (*entities.Asset, error)
	DeleteAsset(ctx context.Context, id uint64) (bool, error)
}

type TransferRepositoryInterface interface {
	GetTransfers(ctx context.Context) ([]entities.Transfer, error)
	FindTransfer(ctx context.Context, id uint64) (*entities.Transfer, error)
	CreateTransfer(ctx context.Context, transfer *entities.Transfer) (*entities.Transfer, error)
	GetTransfersByAsset(ctx context.Context, assetID uint64) ([]entities.Transfer, error)
}

type RepairRepositoryInterface interface {
	GetRepairs(ctx context.Context) ([]entities.Repair, error)
	FindRepair(ctx context.Context, id uint64) (*entities.Repair, error)
	CreateRepair(ctx context.Context, repair *entities.Repair) (*entities.Repair, error)
	UpdateRepair(ctx context.Context, id uint64, patch entities.RepairPatch) (*entities.Repair, error)
	DeleteRepair(ctx context.Context, id uint64) (bool, error)
	GetActiveRepairs(ctx context.Context) ([]entities.Repair, error)
	GetRepairsByAsset(ctx context.Context, assetID uint64) ([]entities.Repair, error)
}
