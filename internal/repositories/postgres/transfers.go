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

const transfersTable = "transfers"

var transferColumns = []string{
	"id", "asset_id", "from_location", "to_location", "from_custodian",
	"to_custodian", "organization", "reason", "transfer_date", "created_at",
}

type TransferRepository struct {
	db     postgresql.Querier
	logger *zap.Logger
}

func scanTransfer(row pgx.Row) (*entities.Transfer, error) {
	var t entities.Transfer
	err := row.Scan(
		&t.ID, &t.AssetID, &t.FromLocation, &t.ToLocation, &t.FromCustodian,
		&t.ToCustodian, &t.Organization, &t.Reason, &t.TransferDate, &t.CreatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &t, nil
}

func (r *TransferRepository) list(ctx context.Context, where sq.Sqlizer) ([]entities.Transfer, error) {
	builder := psql.Select(transferColumns...).From(transfersTable).OrderBy("created_at DESC", "id DESC")
	if where != nil {
		builder = builder.Where(where)
	}
	query, args, err := toSQL(builder)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	transfers := make([]entities.Transfer, 0)
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, err
		}
		transfers = append(transfers, *t)
	}
	return transfers, mapError(rows.Err())
}

func (r *TransferRepository) GetTransfers(ctx context.Context) ([]entities.Transfer, error) {
	return r.list(ctx, nil)
}

func (r *TransferRepository) GetTransfersByAsset(ctx context.Context, assetID uint64) ([]entities.Transfer, error) {
	return r.list(ctx, sq.Eq{"asset_id": assetID})
}

func (r *TransferRepository) FindTransfer(ctx context.Context, id uint64) (*entities.Transfer, error) {
	query, args, err := toSQL(psql.Select(transferColumns...).From(transfersTable).Where(sq.Eq{"id": id}))
	if err != nil {
		return nil, err
	}
	return scanTransfer(r.db.QueryRow(ctx, query, args...))
}

func (r *TransferRepository) CreateTransfer(ctx context.Context, transfer *entities.Transfer) (*entities.Transfer, error) {
	query, args, err := toSQL(psql.Insert(transfersTable).
		Columns("asset_id", "from_location", "to_location", "from_custodian",
			"to_custodian", "organization", "reason", "transfer_date").
		Values(transfer.AssetID, transfer.FromLocation, transfer.ToLocation, transfer.FromCustodian,
			transfer.ToCustodian, transfer.Organization, transfer.Reason, transfer.TransferDate).
		Suffix("RETURNING " + strings.Join(transferColumns, ", ")))
	if err != nil {
		return nil, err
	}
	return scanTransfer(r.db.QueryRow(ctx, query, args...))
}
