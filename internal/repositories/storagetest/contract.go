// Package storagetest - общий набор тестов контракта Storage,
// который запускается для каждой реализации.
package storagetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
	apperrors "inventory-system/pkg/errors"
)

// Factory создаёт пустое хранилище для одного подтеста.
type Factory func(t *testing.T) repositories.Storage

var errRollback = errors.New("rollback")

func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func NewAsset(voucher string) *entities.Asset {
	return &entities.Asset{
		VoucherNumber: voucher,
		Date:          Date(2024, 1, 15),
		Donor:         "UNICEF",
		Location:      "Warehouse A",
		ProjectName:   "Health",
	}
}

func NewUser(username, email string) *entities.User {
	return &entities.User{
		Username: username,
		Email:    email,
		Password: "$2a$10$hash",
		Role:     entities.RoleOperator,
		IsActive: true,
	}
}

func RunContractTests(t *testing.T, factory Factory) {
	tests := map[string]func(t *testing.T, s repositories.Storage){
		"AssetRoundTrip":        testAssetRoundTrip,
		"AssetUpdateMerges":     testAssetUpdateMerges,
		"AssetDelete":           testAssetDelete,
		"AssetVoucherUnique":    testAssetVoucherUnique,
		"AssetOrdering":         testAssetOrdering,
		"UserRoundTrip":         testUserRoundTrip,
		"UserUniqueness":        testUserUniqueness,
		"UserUpdateAndDelete":   testUserUpdateAndDelete,
		"TransferAppendOnly":    testTransfers,
		"RepairLifecycle":       testRepairs,
		"DeleteAssetKeepsLinks": testDeleteAssetKeepsLinks,
		"TransactionRollback":   testTransactionRollback,
		"TransactionCommit":     testTransactionCommit,
		"NotFound":              testNotFound,
	}
	for name, fn := range tests {
		fn := fn
		t.Run(name, func(t *testing.T) {
			fn(t, factory(t))
		})
	}
}

func testAssetRoundTrip(t *testing.T, s repositories.Storage) {
	ctx := context.Background()
	in := NewAsset("VCH-001")
	in.LossQuantity = null.Int64From(3)
	in.LossAmount = null.Float64From(125.5)
	in.PolicyNumber = null.StringFrom("POL-9")

	created, err := s.Assets().CreateAsset(ctx, in)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, entities.AssetStatusActive, created.Status)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	got, err := s.Assets().FindAsset(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "VCH-001", got.VoucherNumber)
	assert.True(t, got.Date.Equal(Date(2024, 1, 15)))
	assert.Equal(t, int64(3), got.LossQuantity.Int64)
	assert.InDelta(t, 125.5, got.LossAmount.Float64, 0.001)
	assert.Equal(t, "POL-9", got.PolicyNumber.String)
	assert.False(t, got.Warranty.Valid)

	byVoucher, err := s.Assets().FindAssetByVoucher(ctx, "VCH-001")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byVoucher.ID)

	second, err := s.Assets().CreateAsset(ctx, NewAsset("VCH-002"))
	require.NoError(t, err)
	assert.Greater(t, second.ID, created.ID)
}

func testAssetUpdateMerges(t *testing.T, s repositories.Storage) {
	ctx := context.Background()
	created, err := s.Assets().CreateAsset(ctx, NewAsset("VCH-010"))
	require.NoError(t, err)

	location := "Warehouse B"
	updated, err := s.Assets().UpdateAsset(ctx, created.ID, entities.AssetPatch{Location: &location})
	require.NoError(t, err)
	assert.Equal(t, "Warehouse B", updated.Location)
	assert.Equal(t, "UNICEF", updated.Donor)
	assert.Equal(t, "VCH-010", updated.VoucherNumber)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))

	again, err := s.Assets().UpdateAsset(ctx, created.ID, entities.AssetPatch{Location: &location})
	require.NoError(t, err)
	assert.True(t, again.UpdatedAt.After(updated.UpdatedAt))

	_, err = s.Assets().UpdateAsset(ctx, 999999, entities.AssetPatch{Location: &location})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func testAssetDelete(t *testing.T, s repositories.Storage) {
	ctx := context.Background()
	created, err := s.Assets().CreateAsset(ctx, NewAsset("VCH-020"))
	require.NoError(t, err)

	existed, err := s.Assets().DeleteAsset(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, existed)

	_, err = s.Assets().FindAsset(ctx, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	existed, err = s.Assets().DeleteAsset(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, existed)
}

func testAssetVoucherUnique(t *testing.T, s repositories.Storage) {
	ctx := context.Background()
	_, err := s.Assets().CreateAsset(ctx, NewAsset("VCH-030"))
	require.NoError(t, err)
	other, err := s.Assets().CreateAsset(ctx, NewAsset("VCH-031"))
	require.NoError(t, err)

	_, err = s.Assets().CreateAsset(ctx, NewAsset("VCH-030"))
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	taken := "VCH-030"
	_, err = s.Assets().UpdateAsset(ctx, other.ID, entities.AssetPatch{VoucherNumber: &taken})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	all, err := s.Assets().GetAssets(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	unchanged, err := s.Assets().FindAsset(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, "VCH-031", unchanged.VoucherNumber)
}

func testAssetOrdering(t *testing.T, s repositories.Storage) {
	ctx := context.Background()
	var ids []uint64
	for _, v := range []string{"ORD-1", "ORD-2", "ORD-3"} {
		a, err := s.Assets().CreateAsset(ctx, NewAsset(v))
		require.NoError(t, err)
		ids = append(ids, a.ID)
	}

	list, err := s.Assets().GetAssets(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []uint64{ids[2], ids[1], ids[0]}, []uint64{list[0].ID, list[1].ID, list[2].ID})
}

func testUserRoundTrip(t *testing.T, s repositories.Storage) {
	ctx := context.Background()
	in := NewUser("jdoe", "jdoe@example.com")
	in.Department = null.StringFrom("Logistics")

	created, err := s.Users().CreateUser(ctx, in)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.True(t, created.IsActive)
	assert.False(t, created.LastLogin.Valid)

	byEmail, err := s.Users().FindByEmail(ctx, "jdoe@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)
	assert.Equal(t, "Logistics", byEmail.Department.String)

	byName, err := s.Users().FindByUsername(ctx, "jdoe")
	require.NoError(t, err)
	assert.Equal(t, entities.RoleOperator, byName.Role)

	noRole := NewUser("plain", "plain@example.com")
	noRole.Role = ""
	plain, err := s.Users().CreateUser(ctx, noRole)
	require.NoError(t, err)
	assert.Equal(t, entities.RoleViewer, plain.Role)

	users, err := s.Users().GetUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, created.ID, users[0].ID)
}

func testUserUniqueness(t *testing.T, s repositories.Storage) {
	ctx := context.Background()
	_, err := s.Users().CreateUser(ctx, NewUser("alpha", "alpha@example.com"))
	require.NoError(t, err)

	_, err = s.Users().CreateUser(ctx, NewUser("alpha", "other@example.com"))
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	_, err = s.Users().CreateUser(ctx, NewUser("beta", "alpha@example.com"))
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	users, err := s.Users().GetUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func testUserUpdateAndDelete(t *testing.T, s repositories.Storage) {
	ctx := context.Background()
	created, err := s.Users().CreateUser(ctx, NewUser("gamma", "gamma@example.com"))
	require.NoError(t, err)
	_, err = s.Users().CreateUser(ctx, NewUser("delta", "delta@example.com"))
	require.NoError(t, err)

	role := entities.RoleManager
	login := time.Now().UTC().Truncate(time.Second)
	updated, err := s.Users().UpdateUser(ctx, created.ID, entities.UserPatch{Role: &role, LastLogin: &login})
	require.NoError(t, err)
	assert.Equal(t, entities.RoleManager, updated.Role)
	assert.Equal(t, "gamma", updated.Username)
	assert.True(t, updated.LastLogin.Valid)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	taken := "delta@example.com"
	_, err = s.Users().UpdateUser(ctx, created.ID, entities.UserPatch{Email: &taken})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	existed, err := s.Users().DeleteUser(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, existed)
	existed, err = s.Users().DeleteUser(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, existed)
}

func testTransfers(t *testing.T, s repositories.Storage) {
	ctx := context.Background()
	asset, err := s.Assets().CreateAsset(ctx, NewAsset("VCH-040"))
	require.NoError(t, err)
	other, err := s.Assets().CreateAsset(ctx, NewAsset("VCH-041"))
	require.NoError(t, err)

	first, err := s.Transfers().CreateTransfer(ctx, &entities.Transfer{
		AssetID: asset.ID, FromLocation: "Warehouse A", ToLocation: "Warehouse B",
		FromCustodian: "Ann", ToCustodian: "Bob", Reason: null.StringFrom("relocation"),
		TransferDate: Date(2024, 2, 1),
	})
	require.NoError(t, err)
	assert.NotZero(t, first.ID)
	assert.False(t, first.CreatedAt.IsZero())

	second, err := s.Transfers().CreateTransfer(ctx, &entities.Transfer{
		AssetID: asset.ID, FromLocation: "Warehouse B", ToLocation: "Office",
		FromCustodian: "Bob", ToCustodian: "Cid", TransferDate: Date(2024, 3, 1),
	})
	require.NoError(t, err)
	_, err = s.Transfers().CreateTransfer(ctx, &entities.Transfer{
		AssetID: other.ID, FromLocation: "A", ToLocation: "B",
		FromCustodian: "X", ToCustodian: "Y", TransferDate: Date(2024, 3, 2),
	})
	require.NoError(t, err)

	byAsset, err := s.Transfers().GetTransfersByAsset(ctx, asset.ID)
	require.NoError(t, err)
	require.Len(t, byAsset, 2)
	assert.Equal(t, second.ID, byAsset[0].ID)
	assert.Equal(t, first.ID, byAsset[1].ID)

	all, err := s.Transfers().GetTransfers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	got, err := s.Transfers().FindTransfer(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "relocation", got.Reason.String)
	assert.True(t, got.TransferDate.Equal(Date(2024, 2, 1)))
}

func testRepairs(t *testing.T, s repositories.Storage) {
	ctx := context.Background()
	asset, err := s.Assets().CreateAsset(ctx, NewAsset("VCH-050"))
	require.NoError(t, err)

	open, err := s.Repairs().CreateRepair(ctx, &entities.Repair{
		AssetID: asset.ID, IssueDescription: "Screen broken", SentDate: Date(2024, 4, 1),
		RepairCenter: null.StringFrom("Service Center"),
	})
	require.NoError(t, err)
	assert.Equal(t, entities.RepairStatusInRepair, open.Status)

	diagnosed, err := s.Repairs().CreateRepair(ctx, &entities.Repair{
		AssetID: asset.ID, IssueDescription: "Battery", SentDate: Date(2024, 4, 2),
		Status: entities.RepairStatusDiagnosed,
	})
	require.NoError(t, err)

	active, err := s.Repairs().GetActiveRepairs(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	completed := entities.RepairStatusCompleted
	returned := Date(2024, 4, 20)
	cost := 49.99
	updated, err := s.Repairs().UpdateRepair(ctx, open.ID, entities.RepairPatch{
		Status: &completed, ActualReturnDate: &returned, Cost: &cost,
	})
	require.NoError(t, err)
	assert.Equal(t, entities.RepairStatusCompleted, updated.Status)
	assert.Equal(t, "Screen broken", updated.IssueDescription)
	assert.True(t, updated.ActualReturnDate.Time.Equal(returned))
	assert.True(t, updated.UpdatedAt.After(open.UpdatedAt))

	active, err = s.Repairs().GetActiveRepairs(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, diagnosed.ID, active[0].ID)

	byAsset, err := s.Repairs().GetRepairsByAsset(ctx, asset.ID)
	require.NoError(t, err)
	assert.Len(t, byAsset, 2)

	existed, err := s.Repairs().DeleteRepair(ctx, diagnosed.ID)
	require.NoError(t, err)
	assert.True(t, existed)
	existed, err = s.Repairs().DeleteRepair(ctx, diagnosed.ID)
	require.NoError(t, err)
	assert.False(t, existed)
}

func testDeleteAssetKeepsLinks(t *testing.T, s repositories.Storage) {
	ctx := context.Background()
	asset, err := s.Assets().CreateAsset(ctx, NewAsset("VCH-060"))
	require.NoError(t, err)
	_, err = s.Transfers().CreateTransfer(ctx, &entities.Transfer{
		AssetID: asset.ID, FromLocation: "A", ToLocation: "B",
		FromCustodian: "X", ToCustodian: "Y", TransferDate: Date(2024, 5, 1),
	})
	require.NoError(t, err)
	_, err = s.Repairs().CreateRepair(ctx, &entities.Repair{
		AssetID: asset.ID, IssueDescription: "Noise", SentDate: Date(2024, 5, 2),
	})
	require.NoError(t, err)

	existed, err := s.Assets().DeleteAsset(ctx, asset.ID)
	require.NoError(t, err)
	assert.True(t, existed)

	transfers, err := s.Transfers().GetTransfersByAsset(ctx, asset.ID)
	require.NoError(t, err)
	assert.Len(t, transfers, 1)
	repairs, err := s.Repairs().GetRepairsByAsset(ctx, asset.ID)
	require.NoError(t, err)
	assert.Len(t, repairs, 1)
}

func testTransactionRollback(t *testing.T, s repositories.Storage) {
	ctx := context.Background()
	asset, err := s.Assets().CreateAsset(ctx, NewAsset("VCH-070"))
	require.NoError(t, err)

	err = s.RunInTransaction(ctx, func(tx repositories.Storage) error {
		status := entities.AssetStatusTransferred
		if _, err := tx.Assets().UpdateAsset(ctx, asset.ID, entities.AssetPatch{Status: &status}); err != nil {
			return err
		}
		if _, err := tx.Assets().CreateAsset(ctx, NewAsset("VCH-071")); err != nil {
			return err
		}
		return errRollback
	})
	assert.ErrorIs(t, err, errRollback)

	got, err := s.Assets().FindAsset(ctx, asset.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.AssetStatusActive, got.Status)
	_, err = s.Assets().FindAssetByVoucher(ctx, "VCH-071")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func testTransactionCommit(t *testing.T, s repositories.Storage) {
	ctx := context.Background()
	asset, err := s.Assets().CreateAsset(ctx, NewAsset("VCH-080"))
	require.NoError(t, err)

	err = s.RunInTransaction(ctx, func(tx repositories.Storage) error {
		if _, err := tx.Transfers().CreateTransfer(ctx, &entities.Transfer{
			AssetID: asset.ID, FromLocation: "A", ToLocation: "B",
			FromCustodian: "X", ToCustodian: "Y", TransferDate: Date(2024, 6, 1),
		}); err != nil {
			return err
		}
		status := entities.AssetStatusTransferred
		_, err := tx.Assets().UpdateAsset(ctx, asset.ID, entities.AssetPatch{Status: &status})
		return err
	})
	require.NoError(t, err)

	got, err := s.Assets().FindAsset(ctx, asset.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.AssetStatusTransferred, got.Status)
	transfers, err := s.Transfers().GetTransfersByAsset(ctx, asset.ID)
	require.NoError(t, err)
	assert.Len(t, transfers, 1)
}

func testNotFound(t *testing.T, s repositories.Storage) {
	ctx := context.Background()
	_, err := s.Users().FindUser(ctx, 424242)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = s.Users().FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = s.Assets().FindAssetByVoucher(ctx, "NONE")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = s.Transfers().FindTransfer(ctx, 424242)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = s.Repairs().FindRepair(ctx, 424242)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	desc := "x"
	_, err = s.Repairs().UpdateRepair(ctx, 424242, entities.RepairPatch{IssueDescription: &desc})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = s.Users().UpdateUser(ctx, 424242, entities.UserPatch{Username: &desc})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, s.Ping(ctx))
}
