package model

const (
	TableNameAction             = "actions"
	TableNameActionResourceRule = "action_resource_rules"
)

// Action mapped from table <actions>
type Action struct {
	ID     int64  `gorm:"column:id;primaryKey;autoIncrement:true" json:"id"`
	Code   string `gorm:"column:code;not null" json:"code"`
	Name   string `gorm:"column:name;not null" json:"name"`
	ToolID *int64 `gorm:"column:tool_id" json:"tool_id"`
	Active bool   `gorm:"column:active;not null" json:"active"`
}

// TableName Action's table name
func (*Action) TableName() string {
	return TableNameAction
}

// ActionResourceRule mapped from table <action_resource_rules>
type ActionResourceRule struct {
	ID         int64   `gorm:"column:id;primaryKey;autoIncrement:true" json:"id"`
	ActionID   int64   `gorm:"column:action_id;not null" json:"action_id"`
	ResourceID int64   `gorm:"column:resource_id;not null" json:"resource_id"`
	Position   int32   `gorm:"column:position;not null" json:"position"`
	BaseQty    float64 `gorm:"column:base_qty;not null" json:"base_qty"`
	WellQty    float64 `gorm:"column:well_qty;not null" json:"well_qty"`
	ToolQty    float64 `gorm:"column:tool_qty;not null" json:"tool_qty"`
	BaseProb   float64 `gorm:"column:base_prob;not null" json:"base_prob"`
	WellProb   float64 `gorm:"column:well_prob;not null" json:"well_prob"`
	ToolProb   float64 `gorm:"column:tool_prob;not null" json:"tool_prob"`
}

// TableName ActionResourceRule's table name
func (*ActionResourceRule) TableName() string {
	return TableNameActionResourceRule
}
