package gormrepo

import (
	"context"

	"soloville/internal/adapter/repo/gorm/model"
	"soloville/internal/app/ports"

	"gorm.io/gorm"
)

type OperationRepo struct {
	db *gorm.DB
}

func NewOperationRepo(db *gorm.DB) OperationRepo {
	return OperationRepo{db: db}
}

func (r OperationRepo) GetByKey(ctx context.Context, citizenID int64, key string) (*ports.OperationRecord, error) {
	var m model.OperationRecord
	err := dbFor(ctx, r.db).
		Where(&model.OperationRecord{CitizenID: citizenID, RequestKey: key}).
		First(&m).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &ports.OperationRecord{
		CitizenID:   m.CitizenID,
		RequestKey:  m.RequestKey,
		Kind:        m.Kind,
		OperationID: m.OperationID,
		Outcome:     m.Outcome,
		AppliedAt:   m.AppliedAt,
	}, nil
}

func (r OperationRepo) Save(ctx context.Context, record ports.OperationRecord) error {
	m := model.OperationRecord{
		CitizenID:   record.CitizenID,
		RequestKey:  record.RequestKey,
		Kind:        record.Kind,
		OperationID: record.OperationID,
		Outcome:     record.Outcome,
		AppliedAt:   record.AppliedAt,
	}
	return translateErr(dbFor(ctx, r.db).Create(&m).Error)
}
