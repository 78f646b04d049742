package model

import (
	"time"
)

const (
	TableNameResource        = "resources"
	TableNameResourceBalance = "resource_balances"
)

// Resource mapped from table <resources>
type Resource struct {
	ID        int64  `gorm:"column:id;primaryKey;autoIncrement:true" json:"id"`
	Code      string `gorm:"column:code;not null" json:"code"`
	Name      string `gorm:"column:name;not null" json:"name"`
	Title     string `gorm:"column:title;not null" json:"title"`
	IsProduct bool   `gorm:"column:is_product;not null" json:"is_product"`
	Active    bool   `gorm:"column:active;not null" json:"active"`
}

// TableName Resource's table name
func (*Resource) TableName() string {
	return TableNameResource
}

// ResourceBalance mapped from table <resource_balances>
type ResourceBalance struct {
	ID         int64      `gorm:"column:id;primaryKey;autoIncrement:true" json:"id"`
	CitizenID  int64      `gorm:"column:citizen_id;not null" json:"citizen_id"`
	ResourceID int64      `gorm:"column:resource_id;not null" json:"resource_id"`
	Quantity   float64    `gorm:"column:quantity;not null" json:"quantity"`
	Version    int64      `gorm:"column:version;not null;default:1" json:"version"`
	ModifiedAt *time.Time `gorm:"column:modified_at" json:"modified_at"`
	ModifiedBy string     `gorm:"column:modified_by;not null" json:"modified_by"`
}

// TableName ResourceBalance's table name
func (*ResourceBalance) TableName() string {
	return TableNameResourceBalance
}
