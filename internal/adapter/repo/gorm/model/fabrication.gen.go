package model

const (
	TableNameFabricationProduct    = "fabrication_products"
	TableNameFabricationIngredient = "fabrication_ingredients"
)

// FabricationProduct mapped from table <fabrication_products>
type FabricationProduct struct {
	ID             int64 `gorm:"column:id;primaryKey;autoIncrement:true" json:"id"`
	ResourceID     int64 `gorm:"column:resource_id;not null" json:"resource_id"`
	OutputQuantity int32 `gorm:"column:output_quantity;not null" json:"output_quantity"`
}

// TableName FabricationProduct's table name
func (*FabricationProduct) TableName() string {
	return TableNameFabricationProduct
}

// FabricationIngredient mapped from table <fabrication_ingredients>
type FabricationIngredient struct {
	ProductID  int64 `gorm:"column:product_id;primaryKey" json:"product_id"`
	ResourceID int64 `gorm:"column:resource_id;primaryKey" json:"resource_id"`
	Position   int32 `gorm:"column:position;not null" json:"position"`
	Quantity   int32 `gorm:"column:quantity;not null" json:"quantity"`
}

// TableName FabricationIngredient's table name
func (*FabricationIngredient) TableName() string {
	return TableNameFabricationIngredient
}
