package gormrepo

import (
	"context"
	"time"

	"soloville/internal/adapter/repo/gorm/model"
	"soloville/internal/app/ports"
	"soloville/internal/domain/village"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BalanceRepo struct {
	db *gorm.DB
}

func NewBalanceRepo(db *gorm.DB) BalanceRepo {
	return BalanceRepo{db: db}
}

type balanceRow struct {
	model.ResourceBalance
	ResourceCode string `gorm:"column:resource_code"`
}

func (r BalanceRepo) query(ctx context.Context) *gorm.DB {
	return dbFor(ctx, r.db).
		Table(model.TableNameResourceBalance + " AS b").
		Select("b.*, r.code AS resource_code").
		Joins("JOIN " + model.TableNameResource + " r ON r.id = b.resource_id")
}

func (r BalanceRepo) Get(ctx context.Context, citizenID, resourceID int64) (village.Balance, error) {
	var row balanceRow
	err := r.query(ctx).
		Where("b.citizen_id = ? AND b.resource_id = ?", citizenID, resourceID).
		Take(&row).Error
	if err != nil {
		return village.Balance{}, translateErr(err)
	}
	return toBalance(row), nil
}

func (r BalanceRepo) GetForUpdate(ctx context.Context, citizenID, resourceID int64) (village.Balance, error) {
	var row balanceRow
	err := r.query(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "b"}}).
		Where("b.citizen_id = ? AND b.resource_id = ?", citizenID, resourceID).
		Take(&row).Error
	if err != nil {
		return village.Balance{}, translateErr(err)
	}
	return toBalance(row), nil
}

func (r BalanceRepo) Insert(ctx context.Context, b village.Balance, actor string, at time.Time) (village.Balance, error) {
	m := model.ResourceBalance{
		CitizenID:  b.CitizenID,
		ResourceID: b.ResourceID,
		Quantity:   village.Round2(b.Quantity),
		Version:    1,
		ModifiedAt: &at,
		ModifiedBy: actor,
	}
	if err := dbFor(ctx, r.db).Create(&m).Error; err != nil {
		return village.Balance{}, translateErr(err)
	}
	return toBalance(balanceRow{ResourceBalance: m, ResourceCode: b.ResourceCode}), nil
}

func (r BalanceRepo) UpdateQuantity(ctx context.Context, balanceID int64, quantity float64, expectedVersion int64, actor string, at time.Time) error {
	res := dbFor(ctx, r.db).
		Model(&model.ResourceBalance{}).
		Where("id = ? AND version = ?", balanceID, expectedVersion).
		Updates(map[string]any{
			"quantity":    village.Round2(quantity),
			"version":     gorm.Expr("version + 1"),
			"modified_at": at,
			"modified_by": actor,
		})
	if res.Error != nil {
		return translateErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return nil
}

func (r BalanceRepo) ListByCitizen(ctx context.Context, citizenID int64) ([]village.Balance, error) {
	var rows []balanceRow
	err := r.query(ctx).
		Where("b.citizen_id = ?", citizenID).
		Order("r.code").
		Find(&rows).Error
	if err != nil {
		return nil, translateErr(err)
	}
	out := make([]village.Balance, 0, len(rows))
	for _, row := range rows {
		out = append(out, toBalance(row))
	}
	return out, nil
}

func toBalance(row balanceRow) village.Balance {
	return village.Balance{
		ID:           row.ID,
		CitizenID:    row.CitizenID,
		ResourceID:   row.ResourceID,
		ResourceCode: row.ResourceCode,
		Quantity:     row.Quantity,
		Version:      row.Version,
		ModifiedAt:   row.ModifiedAt,
		ModifiedBy:   row.ModifiedBy,
	}
}
