package postgres

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"inventory-system/internal/entities"
	"inventory-system/pkg/database/postgresql"
)

const assetsTable = "assets"

var assetColumns = []string{
	"id", "voucher_number", "asset_date", "donor", "location",
	"loss_quantity", "loss_amount", "handover_person", "handover_organization",
	"transfer_to", "transfer_reason", "is_donation", "project_name",
	"is_insured", "policy_number", "warranty", "status", "created_at", "updated_at",
}

var assetReturning = "RETURNING " + strings.Join(assetColumns, ", ")

type AssetRepository struct {
	db     postgresql.Querier
	logger *zap.Logger
}

func scanAsset(row pgx.Row) (*entities.Asset, error) {
	var a entities.Asset
	err := row.Scan(
		&a.ID, &a.VoucherNumber, &a.Date, &a.Donor, &a.Location,
		&a.LossQuantity, &a.LossAmount, &a.HandoverPerson, &a.HandoverOrganization,
		&a.TransferTo, &a.TransferReason, &a.IsDonation, &a.ProjectName,
		&a.IsInsured, &a.PolicyNumber, &a.Warranty, &a.Status, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &a, nil
}

func (r *AssetRepository) GetAssets(ctx context.Context) ([]entities.Asset, error) {
	query, args, err := toSQL(psql.Select(assetColumns...).From(assetsTable).OrderBy("created_at DESC", "id DESC"))
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	assets := make([]entities.Asset, 0)
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, *a)
	}
	return assets, mapError(rows.Err())
}

func (r *AssetRepository) FindAsset(ctx context.Context, id uint64) (*entities.Asset, error) {
	query, args, err := toSQL(psql.Select(assetColumns...).From(assetsTable).Where(sq.Eq{"id": id}))
	if err != nil {
		return nil, err
	}
	return scanAsset(r.db.QueryRow(ctx, query, args...))
}

func (r *AssetRepository) FindAssetByVoucher(ctx context.Context, voucherNumber string) (*entities.Asset, error) {
	query, args, err := toSQL(psql.Select(assetColumns...).From(assetsTable).Where(sq.Eq{"voucher_number": voucherNumber}))
	if err != nil {
		return nil, err
	}
	return scanAsset(r.db.QueryRow(ctx, query, args...))
}

func (r *AssetRepository) CreateAsset(ctx context.Context, asset *entities.Asset) (*entities.Asset, error) {
	status := asset.Status
	if status == "" {
		status = entities.AssetStatusActive
	}

	query, args, err := toSQL(psql.Insert(assetsTable).
		Columns(
			"voucher_number", "asset_date", "donor", "location",
			"loss_quantity", "loss_amount", "handover_person", "handover_organization",
			"transfer_to", "transfer_reason", "is_donation", "project_name",
			"is_insured", "policy_number", "warranty", "status",
		).
		Values(
			asset.VoucherNumber, asset.Date, asset.Donor, asset.Location,
			asset.LossQuantity, asset.LossAmount, asset.HandoverPerson, asset.HandoverOrganization,
			asset.TransferTo, asset.TransferReason, asset.IsDonation, asset.ProjectName,
			asset.IsInsured, asset.PolicyNumber, asset.Warranty, string(status),
		).
		Suffix(assetReturning))
	if err != nil {
		return nil, err
	}
	return scanAsset(r.db.QueryRow(ctx, query, args...))
}

func (r *AssetRepository) UpdateAsset(ctx context.Context, id uint64, patch entities.AssetPatch) (*entities.Asset, error) {
	query, args, err := toSQL(psql.Update(assetsTable).
		SetMap(patch.Changes()).
		Set("updated_at", bumpUpdatedAt).
		Where(sq.Eq{"id": id}).
		Suffix(assetReturning))
	if err != nil {
		return nil, err
	}
	return scanAsset(r.db.QueryRow(ctx, query, args...))
}

// DeleteAsset не каскадирует: перемещения и ремонты остаются.
func (r *AssetRepository) DeleteAsset(ctx context.Context, id uint64) (bool, error) {
	query, args, err := toSQL(psql.Delete(assetsTable).Where(sq.Eq{"id": id}))
	if err != nil {
		return false, err
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return false, mapError(err)
	}
	return tag.RowsAffected() > 0, nil
}
