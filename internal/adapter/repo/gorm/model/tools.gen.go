package model

import (
	"time"
)

const (
	TableNameTool          = "tools"
	TableNameToolOwnership = "tool_ownerships"
)

// Tool mapped from table <tools>
type Tool struct {
	ID    int64  `gorm:"column:id;primaryKey;autoIncrement:true" json:"id"`
	Code  string `gorm:"column:code;not null" json:"code"`
	Name  string `gorm:"column:name;not null" json:"name"`
	Title string `gorm:"column:title;not null" json:"title"`
}

// TableName Tool's table name
func (*Tool) TableName() string {
	return TableNameTool
}

// ToolOwnership mapped from table <tool_ownerships>
type ToolOwnership struct {
	CitizenID  int64     `gorm:"column:citizen_id;primaryKey" json:"citizen_id"`
	ToolID     int64     `gorm:"column:tool_id;primaryKey" json:"tool_id"`
	HasTool    bool      `gorm:"column:has_tool;not null" json:"has_tool"`
	ModifiedAt time.Time `gorm:"column:modified_at;not null;default:now()" json:"modified_at"`
	ModifiedBy string    `gorm:"column:modified_by;not null" json:"modified_by"`
}

// TableName ToolOwnership's table name
func (*ToolOwnership) TableName() string {
	return TableNameToolOwnership
}
