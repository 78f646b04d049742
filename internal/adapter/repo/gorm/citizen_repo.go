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

type CitizenRepo struct {
	db *gorm.DB
}

func NewCitizenRepo(db *gorm.DB) CitizenRepo {
	return CitizenRepo{db: db}
}

func (r CitizenRepo) Create(ctx context.Context, c village.Citizen) (village.Citizen, error) {
	m := model.Citizen{
		Name:          c.Name,
		Energy:        int32(c.Energy),
		DwellingLevel: int32(c.DwellingLevel),
		Rank:          int32(c.Rank),
		WellVisitedAt: c.WellVisitedAt,
		CreatedAt:     c.Audit.CreatedAt,
		CreatedBy:     c.Audit.CreatedBy,
	}
	if err := dbFor(ctx, r.db).Create(&m).Error; err != nil {
		return village.Citizen{}, translateErr(err)
	}
	return toCitizen(m), nil
}

func (r CitizenRepo) GetByName(ctx context.Context, name string) (village.Citizen, error) {
	return r.byName(dbFor(ctx, r.db), name)
}

func (r CitizenRepo) LockByName(ctx context.Context, name string) (village.Citizen, error) {
	db := dbFor(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"})
	return r.byName(db, name)
}

func (r CitizenRepo) byName(db *gorm.DB, name string) (village.Citizen, error) {
	var m model.Citizen
	if err := db.Where("name = ?", name).First(&m).Error; err != nil {
		return village.Citizen{}, translateErr(err)
	}
	return toCitizen(m), nil
}

func (r CitizenRepo) Patch(ctx context.Context, citizenID int64, patch village.CitizenPatch, actor string, at time.Time) error {
	if err := patch.Validate(); err != nil {
		return err
	}
	updates := map[string]any{
		"modified_at": at,
		"modified_by": actor,
	}
	for _, f := range patch.Fields() {
		v, _ := patch.Value(f)
		updates[string(f)] = v
	}
	res := dbFor(ctx, r.db).
		Model(&model.Citizen{}).
		Where("id = ?", citizenID).
		Updates(updates)
	if res.Error != nil {
		return translateErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r CitizenRepo) SoftDelete(ctx context.Context, citizenID int64, actor string, at time.Time) error {
	res := dbFor(ctx, r.db).
		Model(&model.Citizen{}).
		Where("id = ? AND deleted_at IS NULL", citizenID).
		Updates(map[string]any{"deleted_at": at, "deleted_by": actor})
	if res.Error != nil {
		return translateErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// ListActive reads the active_citizens view.
func (r CitizenRepo) ListActive(ctx context.Context, limit int) ([]village.Citizen, error) {
	q := dbFor(ctx, r.db).Table("active_citizens").Order("name")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []model.Citizen
	if err := q.Find(&rows).Error; err != nil {
		return nil, translateErr(err)
	}
	out := make([]village.Citizen, 0, len(rows))
	for _, m := range rows {
		out = append(out, toCitizen(m))
	}
	return out, nil
}

func toCitizen(m model.Citizen) village.Citizen {
	return village.Citizen{
		ID:            m.ID,
		Name:          m.Name,
		Energy:        int(m.Energy),
		DwellingLevel: int(m.DwellingLevel),
		Rank:          int(m.Rank),
		WellVisitedAt: m.WellVisitedAt,
		Audit: village.Audit{
			CreatedAt:  m.CreatedAt,
			CreatedBy:  m.CreatedBy,
			ModifiedAt: m.ModifiedAt,
			ModifiedBy: m.ModifiedBy,
			DeletedAt:  m.DeletedAt,
			DeletedBy:  m.DeletedBy,
		},
	}
}
