package model

import (
	"time"
)

const TableNameCitizen = "citizens"

// Citizen mapped from table <citizens>
type Citizen struct {
	ID            int64      `gorm:"column:id;primaryKey;autoIncrement:true" json:"id"`
	Name          string     `gorm:"column:name;not null" json:"name"`
	Energy        int32      `gorm:"column:energy;not null" json:"energy"`
	DwellingLevel int32      `gorm:"column:dwelling_level;not null" json:"dwelling_level"`
	Rank          int32      `gorm:"column:rank;not null" json:"rank"`
	WellVisitedAt *time.Time `gorm:"column:well_visited_at" json:"well_visited_at"`
	CreatedAt     time.Time  `gorm:"column:created_at;not null;default:now()" json:"created_at"`
	CreatedBy     string     `gorm:"column:created_by;not null;default:system" json:"created_by"`
	ModifiedAt    *time.Time `gorm:"column:modified_at" json:"modified_at"`
	ModifiedBy    string     `gorm:"column:modified_by;not null" json:"modified_by"`
	DeletedAt     *time.Time `gorm:"column:deleted_at" json:"deleted_at"`
	DeletedBy     string     `gorm:"column:deleted_by;not null" json:"deleted_by"`
}

// TableName Citizen's table name
func (*Citizen) TableName() string {
	return TableNameCitizen
}
