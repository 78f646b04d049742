package gormrepo

import (
	"context"
	"time"

	"soloville/internal/adapter/repo/gorm/model"
	"soloville/internal/domain/village"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type HistoryRepo struct {
	db *gorm.DB
}

func NewHistoryRepo(db *gorm.DB) HistoryRepo {
	return HistoryRepo{db: db}
}

type historyRow struct {
	model.HistoryEntry
	CitizenName string `gorm:"column:citizen_name"`
}

func (r HistoryRepo) Append(ctx context.Context, entry village.HistoryEntry) error {
	m := model.HistoryEntry{
		OperationID: entry.OperationID,
		Code:        entry.Code,
		CitizenID:   entry.CitizenID,
		Message:     entry.Message,
		OccurredAt:  entry.OccurredAt,
	}
	return translateErr(dbFor(ctx, r.db).Create(&m).Error)
}

func (r HistoryRepo) query(ctx context.Context) *gorm.DB {
	return dbFor(ctx, r.db).
		Table(model.TableNameHistoryEntry + " AS h").
		Select("h.*, c.name AS citizen_name").
		Joins("JOIN " + model.TableNameCitizen + " c ON c.id = h.citizen_id")
}

func (r HistoryRepo) ListByCitizen(ctx context.Context, citizenID int64, limit int) ([]village.HistoryEntry, error) {
	query := r.query(ctx).
		Where("h.citizen_id = ?", citizenID).
		Clauses(clause.OrderBy{
			Columns: []clause.OrderByColumn{
				{Column: clause.Column{Name: "h.occurred_at", Raw: true}, Desc: true},
				{Column: clause.Column{Name: "h.id", Raw: true}, Desc: true},
			},
		})
	if limit > 0 {
		query = query.Limit(limit)
	}
	var rows []historyRow
	if err := query.Find(&rows).Error; err != nil {
		return nil, translateErr(err)
	}
	return toHistory(rows), nil
}

func (r HistoryRepo) ListWindow(ctx context.Context, from, to time.Time, limit int) ([]village.HistoryEntry, error) {
	query := r.query(ctx).
		Where("h.occurred_at >= ? AND h.occurred_at < ?", from, to).
		Order("h.occurred_at, h.id")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var rows []historyRow
	if err := query.Find(&rows).Error; err != nil {
		return nil, translateErr(err)
	}
	return toHistory(rows), nil
}

func toHistory(rows []historyRow) []village.HistoryEntry {
	out := make([]village.HistoryEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, village.HistoryEntry{
			ID:          row.ID,
			OperationID: row.OperationID,
			Code:        row.Code,
			CitizenID:   row.CitizenID,
			CitizenName: row.CitizenName,
			Message:     row.Message,
			OccurredAt:  row.OccurredAt,
		})
	}
	return out
}
