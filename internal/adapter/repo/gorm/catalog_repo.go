package gormrepo

import (
	"context"
	"fmt"
	"time"

	"soloville/internal/adapter/repo/gorm/model"
	"soloville/internal/app/ports"
	"soloville/internal/domain/village"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ResourceRepo struct {
	db *gorm.DB
}

func NewResourceRepo(db *gorm.DB) ResourceRepo {
	return ResourceRepo{db: db}
}

func (r ResourceRepo) GetByCode(ctx context.Context, code string) (village.Resource, error) {
	var m model.Resource
	if err := dbFor(ctx, r.db).Where("code = ?", code).First(&m).Error; err != nil {
		return village.Resource{}, translateErr(err)
	}
	return toResource(m), nil
}

func (r ResourceRepo) ListActive(ctx context.Context) ([]village.Resource, error) {
	var rows []model.Resource
	if err := dbFor(ctx, r.db).Where("active").Order("id").Find(&rows).Error; err != nil {
		return nil, translateErr(err)
	}
	out := make([]village.Resource, 0, len(rows))
	for _, m := range rows {
		out = append(out, toResource(m))
	}
	return out, nil
}

func toResource(m model.Resource) village.Resource {
	return village.Resource{ID: m.ID, Code: m.Code, Name: m.Name, Title: m.Title, IsProduct: m.IsProduct, Active: m.Active}
}

type ToolRepo struct {
	db *gorm.DB
}

func NewToolRepo(db *gorm.DB) ToolRepo {
	return ToolRepo{db: db}
}

func (r ToolRepo) GetByCode(ctx context.Context, code string) (village.Tool, error) {
	var m model.Tool
	if err := dbFor(ctx, r.db).Where("code = ?", code).First(&m).Error; err != nil {
		return village.Tool{}, translateErr(err)
	}
	return village.Tool{ID: m.ID, Code: m.Code, Name: m.Name, Title: m.Title}, nil
}

func (r ToolRepo) Owns(ctx context.Context, citizenID int64, toolCode string) (bool, error) {
	var n int64
	err := dbFor(ctx, r.db).
		Table(model.TableNameToolOwnership+" AS o").
		Joins("JOIN "+model.TableNameTool+" t ON t.id = o.tool_id").
		Where("o.citizen_id = ? AND t.code = ? AND o.has_tool", citizenID, toolCode).
		Count(&n).Error
	if err != nil {
		return false, translateErr(err)
	}
	return n > 0, nil
}

func (r ToolRepo) SetOwnership(ctx context.Context, citizenID, toolID int64, has bool, actor string, at time.Time) error {
	m := model.ToolOwnership{CitizenID: citizenID, ToolID: toolID, HasTool: has, ModifiedAt: at, ModifiedBy: actor}
	err := dbFor(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "citizen_id"}, {Name: "tool_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"has_tool", "modified_at", "modified_by"}),
		}).
		Create(&m).Error
	return translateErr(err)
}

type ActionRepo struct {
	db *gorm.DB
}

func NewActionRepo(db *gorm.DB) ActionRepo {
	return ActionRepo{db: db}
}

type actionRow struct {
	model.Action
	ToolCode *string `gorm:"column:tool_code"`
}

func (r ActionRepo) GetByCode(ctx context.Context, code string) (village.Action, error) {
	var row actionRow
	err := dbFor(ctx, r.db).
		Table(model.TableNameAction+" AS a").
		Select("a.*, t.code AS tool_code").
		Joins("LEFT JOIN "+model.TableNameTool+" t ON t.id = a.tool_id").
		Where("a.code = ?", code).
		Take(&row).Error
	if err != nil {
		return village.Action{}, translateErr(err)
	}
	out := village.Action{ID: row.ID, Code: row.Code, Name: row.Name, Active: row.Active}
	if row.ToolCode != nil {
		out.ToolCode = *row.ToolCode
	}
	return out, nil
}

type ruleRow struct {
	model.ActionResourceRule
	ResourceCode string `gorm:"column:resource_code"`
}

// ListRules returns rules in seed order; the resolver draws rolls in this order.
func (r ActionRepo) ListRules(ctx context.Context, actionID int64) ([]village.ActionRule, error) {
	var rows []ruleRow
	err := dbFor(ctx, r.db).
		Table(model.TableNameActionResourceRule+" AS ar").
		Select("ar.*, r.code AS resource_code").
		Joins("JOIN "+model.TableNameResource+" r ON r.id = ar.resource_id").
		Where("ar.action_id = ?", actionID).
		Order("ar.position, ar.id").
		Find(&rows).Error
	if err != nil {
		return nil, translateErr(err)
	}
	out := make([]village.ActionRule, 0, len(rows))
	for _, row := range rows {
		out = append(out, village.ActionRule{
			ResourceID:   row.ResourceID,
			ResourceCode: row.ResourceCode,
			BaseQty:      row.BaseQty,
			WellQty:      row.WellQty,
			ToolQty:      row.ToolQty,
			BaseProb:     row.BaseProb,
			WellProb:     row.WellProb,
			ToolProb:     row.ToolProb,
		})
	}
	return out, nil
}

type RecipeRepo struct {
	db *gorm.DB
}

func NewRecipeRepo(db *gorm.DB) RecipeRepo {
	return RecipeRepo{db: db}
}

type ingredientRow struct {
	model.FabricationIngredient
	ResourceCode string `gorm:"column:resource_code"`
}

func (r RecipeRepo) GetByProductCode(ctx context.Context, productCode string) (village.Recipe, error) {
	db := dbFor(ctx, r.db)
	var res model.Resource
	if err := db.Where("code = ?", productCode).First(&res).Error; err != nil {
		return village.Recipe{}, translateErr(err)
	}
	var product model.FabricationProduct
	if err := db.Where("resource_id = ?", res.ID).First(&product).Error; err != nil {
		return village.Recipe{}, translateErr(err)
	}
	var rows []ingredientRow
	err := db.Table(model.TableNameFabricationIngredient+" AS fi").
		Select("fi.*, r.code AS resource_code").
		Joins("JOIN "+model.TableNameResource+" r ON r.id = fi.resource_id").
		Where("fi.product_id = ?", product.ID).
		Order("fi.position, fi.resource_id").
		Find(&rows).Error
	if err != nil {
		return village.Recipe{}, translateErr(err)
	}
	out := village.Recipe{
		ProductID:   res.ID,
		ProductCode: res.Code,
		ProductName: res.Name,
		Output:      int(product.OutputQuantity),
		Ingredients: make([]village.Ingredient, 0, len(rows)),
	}
	for _, row := range rows {
		out.Ingredients = append(out.Ingredients, village.Ingredient{
			ResourceID:   row.ResourceID,
			ResourceCode: row.ResourceCode,
			Quantity:     int(row.Quantity),
		})
	}
	return out, nil
}

// CatalogRepo writes seed data. Rules and ingredients are replaced wholesale.
type CatalogRepo struct {
	db *gorm.DB
}

func NewCatalogRepo(db *gorm.DB) CatalogRepo {
	return CatalogRepo{db: db}
}

func (r CatalogRepo) UpsertResource(ctx context.Context, res village.Resource) (village.Resource, error) {
	m := model.Resource{Code: res.Code, Name: res.Name, Title: res.Title, IsProduct: res.IsProduct, Active: res.Active}
	err := dbFor(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "title", "is_product", "active"}),
		}).
		Create(&m).Error
	if err != nil {
		return village.Resource{}, translateErr(err)
	}
	return toResource(m), nil
}

func (r CatalogRepo) UpsertTool(ctx context.Context, tool village.Tool) (village.Tool, error) {
	m := model.Tool{Code: tool.Code, Name: tool.Name, Title: tool.Title}
	err := dbFor(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "title"}),
		}).
		Create(&m).Error
	if err != nil {
		return village.Tool{}, translateErr(err)
	}
	return village.Tool{ID: m.ID, Code: m.Code, Name: m.Name, Title: m.Title}, nil
}

func (r CatalogRepo) UpsertAction(ctx context.Context, in ports.CatalogAction) error {
	db := dbFor(ctx, r.db)
	m := model.Action{Code: in.Action.Code, Name: in.Action.Name, Active: in.Action.Active}
	if in.Action.ToolCode != "" {
		id, err := r.idByCode(db, model.TableNameTool, in.Action.ToolCode)
		if err != nil {
			return err
		}
		m.ToolID = &id
	}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "tool_id", "active"}),
	}).Create(&m).Error
	if err != nil {
		return translateErr(err)
	}
	if err := db.Where("action_id = ?", m.ID).Delete(&model.ActionResourceRule{}).Error; err != nil {
		return translateErr(err)
	}
	if len(in.Rules) == 0 {
		return nil
	}
	rows := make([]model.ActionResourceRule, 0, len(in.Rules))
	for i, rule := range in.Rules {
		resID, err := r.idByCode(db, model.TableNameResource, rule.ResourceCode)
		if err != nil {
			return err
		}
		rows = append(rows, model.ActionResourceRule{
			ActionID:   m.ID,
			ResourceID: resID,
			Position:   int32(i),
			BaseQty:    rule.BaseQty,
			WellQty:    rule.WellQty,
			ToolQty:    rule.ToolQty,
			BaseProb:   rule.BaseProb,
			WellProb:   rule.WellProb,
			ToolProb:   rule.ToolProb,
		})
	}
	return translateErr(db.Create(&rows).Error)
}

func (r CatalogRepo) UpsertRecipe(ctx context.Context, recipe village.Recipe) error {
	db := dbFor(ctx, r.db)
	productResID, err := r.idByCode(db, model.TableNameResource, recipe.ProductCode)
	if err != nil {
		return err
	}
	product := model.FabricationProduct{ResourceID: productResID, OutputQuantity: int32(recipe.Output)}
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "resource_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"output_quantity"}),
	}).Create(&product).Error
	if err != nil {
		return translateErr(err)
	}
	if err := db.Where("product_id = ?", product.ID).Delete(&model.FabricationIngredient{}).Error; err != nil {
		return translateErr(err)
	}
	rows := make([]model.FabricationIngredient, 0, len(recipe.Ingredients))
	for i, in := range recipe.Ingredients {
		resID, err := r.idByCode(db, model.TableNameResource, in.ResourceCode)
		if err != nil {
			return err
		}
		rows = append(rows, model.FabricationIngredient{
			ProductID:  product.ID,
			ResourceID: resID,
			Position:   int32(i),
			Quantity:   int32(in.Quantity),
		})
	}
	if len(rows) == 0 {
		return nil
	}
	return translateErr(db.Create(&rows).Error)
}

func (r CatalogRepo) idByCode(db *gorm.DB, table, code string) (int64, error) {
	var ids []int64
	if err := db.Table(table).Where("code = ?", code).Limit(1).Pluck("id", &ids).Error; err != nil {
		return 0, translateErr(err)
	}
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: %s %s", ports.ErrNotFound, table, code)
	}
	return ids[0], nil
}
