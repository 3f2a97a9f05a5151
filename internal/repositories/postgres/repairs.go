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

const repairsTable = "repairs"

var repairColumns = []string{
	"id", "asset_id", "issue_description", "repair_center", "expected_return_date",
	"actual_return_date", "status", "cost", "sent_date", "created_at", "updated_at",
}

var repairReturning = "RETURNING " + strings.Join(repairColumns, ", ")

type RepairRepository struct {
	db     postgresql.Querier
	logger *zap.Logger
}

func scanRepair(row pgx.Row) (*entities.Repair, error) {
	var rp entities.Repair
	err := row.Scan(
		&rp.ID, &rp.AssetID, &rp.IssueDescription, &rp.RepairCenter, &rp.ExpectedReturnDate,
		&rp.ActualReturnDate, &rp.Status, &rp.Cost, &rp.SentDate, &rp.CreatedAt, &rp.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &rp, nil
}

func (r *RepairRepository) list(ctx context.Context, where sq.Sqlizer) ([]entities.Repair, error) {
	builder := psql.Select(repairColumns...).From(repairsTable).OrderBy("created_at DESC", "id DESC")
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

	repairs := make([]entities.Repair, 0)
	for rows.Next() {
		rp, err := scanRepair(rows)
		if err != nil {
			return nil, err
		}
		repairs = append(repairs, *rp)
	}
	return repairs, mapError(rows.Err())
}

func (r *RepairRepository) GetRepairs(ctx context.Context) ([]entities.Repair, error) {
	return r.list(ctx, nil)
}

func (r *RepairRepository) GetActiveRepairs(ctx context.Context) ([]entities.Repair, error) {
	return r.list(ctx, sq.NotEq{"status": string(entities.RepairStatusCompleted)})
}

func (r *RepairRepository) GetRepairsByAsset(ctx context.Context, assetID uint64) ([]entities.Repair, error) {
	return r.list(ctx, sq.Eq{"asset_id": assetID})
}

func (r *RepairRepository) FindRepair(ctx context.Context, id uint64) (*entities.Repair, error) {
	query, args, err := toSQL(psql.Select(repairColumns...).From(repairsTable).Where(sq.Eq{"id": id}))
	if err != nil {
		return nil, err
	}
	return scanRepair(r.db.QueryRow(ctx, query, args...))
}

func (r *RepairRepository) CreateRepair(ctx context.Context, repair *entities.Repair) (*entities.Repair, error) {
	status := repair.Status
	if status == "" {
		status = entities.RepairStatusInRepair
	}

	query, args, err := toSQL(psql.Insert(repairsTable).
		Columns("asset_id", "issue_description", "repair_center", "expected_return_date",
			"actual_return_date", "status", "cost", "sent_date").
		Values(repair.AssetID, repair.IssueDescription, repair.RepairCenter, repair.ExpectedReturnDate,
			repair.ActualReturnDate, string(status), repair.Cost, repair.SentDate).
		Suffix(repairReturning))
	if err != nil {
		return nil, err
	}
	return scanRepair(r.db.QueryRow(ctx, query, args...))
}

func (r *RepairRepository) UpdateRepair(ctx context.Context, id uint64, patch entities.RepairPatch) (*entities.Repair, error) {
	query, args, err := toSQL(psql.Update(repairsTable).
		SetMap(patch.Changes()).
		Set("updated_at", bumpUpdatedAt).
		Where(sq.Eq{"id": id}).
		Suffix(repairReturning))
	if err != nil {
		return nil, err
	}
	return scanRepair(r.db.QueryRow(ctx, query, args...))
}

func (r *RepairRepository) DeleteRepair(ctx context.Context, id uint64) (bool, error) {
	query, args, err := toSQL(psql.Delete(repairsTable).Where(sq.Eq{"id": id}))
	if err != nil {
		return false, err
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return false, mapError(err)
	}
	return tag.RowsAffected() > 0, nil
}
