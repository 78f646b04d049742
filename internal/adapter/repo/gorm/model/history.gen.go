package model

import (
	"time"
)

const (
	TableNameHistoryEntry    = "history_entries"
	TableNameOperationRecord = "operation_records"
)

// HistoryEntry mapped from table <history_entries>
type HistoryEntry struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement:true" json:"id"`
	OperationID string    `gorm:"column:operation_id;not null" json:"operation_id"`
	Code        string    `gorm:"column:code;not null" json:"code"`
	CitizenID   int64     `gorm:"column:citizen_id;not null" json:"citizen_id"`
	Message     string    `gorm:"column:message;not null" json:"message"`
	OccurredAt  time.Time `gorm:"column:occurred_at;not null" json:"occurred_at"`
}

// TableName HistoryEntry's table name
func (*HistoryEntry) TableName() string {
	return TableNameHistoryEntry
}

// OperationRecord mapped from table <operation_records>
type OperationRecord struct {
	CitizenID   int64     `gorm:"column:citizen_id;primaryKey" json:"citizen_id"`
	RequestKey  string    `gorm:"column:request_key;primaryKey" json:"request_key"`
	Kind        string    `gorm:"column:kind;not null" json:"kind"`
	OperationID string    `gorm:"column:operation_id;not null" json:"operation_id"`
	Outcome     []byte    `gorm:"column:outcome;not null" json:"outcome"`
	AppliedAt   time.Time `gorm:"column:applied_at;not null" json:"applied_at"`
}

// TableName OperationRecord's table name
func (*OperationRecord) TableName() string {
	return TableNameOperationRecord
}
