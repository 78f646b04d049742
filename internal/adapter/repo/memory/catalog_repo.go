package memory

import (
	"context"
	"sort"
	"time"

	"soloville/internal/app/ports"
	"soloville/internal/domain/village"
)

type ResourceRepo struct {
	store *Store
}

func NewResourceRepo(store *Store) ResourceRepo {
	return ResourceRepo{store: store}
}

func (r ResourceRepo) GetByCode(ctx context.Context, code string) (village.Resource, error) {
	var (
		out village.Resource
		ok  bool
	)
	r.store.read(ctx, func(d *storeData) {
		out, ok = d.resources[code]
	})
	if !ok {
		return village.Resource{}, ports.ErrNotFound
	}
	return out, nil
}

func (r ResourceRepo) ListActive(ctx context.Context) ([]village.Resource, error) {
	var out []village.Resource
	r.store.read(ctx, func(d *storeData) {
		for _, res := range d.resources {
			if res.Active {
				out = append(out, res)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type ToolRepo struct {
	store *Store
}

func NewToolRepo(store *Store) ToolRepo {
	return ToolRepo{store: store}
}

func (r ToolRepo) GetByCode(ctx context.Context, code string) (village.Tool, error) {
	var (
		out village.Tool
		ok  bool
	)
	r.store.read(ctx, func(d *storeData) {
		out, ok = d.tools[code]
	})
	if !ok {
		return village.Tool{}, ports.ErrNotFound
	}
	return out, nil
}

func (r ToolRepo) Owns(ctx context.Context, citizenID int64, toolCode string) (bool, error) {
	var has bool
	r.store.read(ctx, func(d *storeData) {
		tool, ok := d.tools[toolCode]
		if !ok {
			return
		}
		has = d.ownership[ownershipKey{citizenID, tool.ID}]
	})
	return has, nil
}

func (r ToolRepo) SetOwnership(ctx context.Context, citizenID, toolID int64, has bool, _ string, _ time.Time) error {
	return r.store.write(ctx, func(d *storeData) error {
		d.ownership[ownershipKey{citizenID, toolID}] = has
		return nil
	})
}

type ActionRepo struct {
	store *Store
}

func NewActionRepo(store *Store) ActionRepo {
	return ActionRepo{store: store}
}

func (r ActionRepo) GetByCode(ctx context.Context, code string) (village.Action, error) {
	var (
		out village.Action
		ok  bool
	)
	r.store.read(ctx, func(d *storeData) {
		out, ok = d.actions[code]
	})
	if !ok {
		return village.Action{}, ports.ErrNotFound
	}
	return out, nil
}

func (r ActionRepo) ListRules(ctx context.Context, actionID int64) ([]village.ActionRule, error) {
	var out []village.ActionRule
	r.store.read(ctx, func(d *storeData) {
		out = append(out, d.rules[actionID]...)
	})
	return out, nil
}

type RecipeRepo struct {
	store *Store
}

func NewRecipeRepo(store *Store) RecipeRepo {
	return RecipeRepo{store: store}
}

func (r RecipeRepo) GetByProductCode(ctx context.Context, productCode string) (village.Recipe, error) {
	var (
		out village.Recipe
		ok  bool
	)
	r.store.read(ctx, func(d *storeData) {
		out, ok = d.recipes[productCode]
		out.Ingredients = append([]village.Ingredient(nil), out.Ingredients...)
	})
	if !ok {
		return village.Recipe{}, ports.ErrNotFound
	}
	return out, nil
}

// CatalogRepo is the seed-time writer for resources, tools, actions and recipes.
type CatalogRepo struct {
	store *Store
}

func NewCatalogRepo(store *Store) CatalogRepo {
	return CatalogRepo{store: store}
}

func (r CatalogRepo) UpsertResource(ctx context.Context, res village.Resource) (village.Resource, error) {
	err := r.store.write(ctx, func(d *storeData) error {
		if existing, ok := d.resources[res.Code]; ok {
			res.ID = existing.ID
		} else {
			res.ID = d.newID()
		}
		d.resources[res.Code] = res
		return nil
	})
	return res, err
}

func (r CatalogRepo) UpsertTool(ctx context.Context, tool village.Tool) (village.Tool, error) {
	err := r.store.write(ctx, func(d *storeData) error {
		if existing, ok := d.tools[tool.Code]; ok {
			tool.ID = existing.ID
		} else {
			tool.ID = d.newID()
		}
		d.tools[tool.Code] = tool
		return nil
	})
	return tool, err
}

func (r CatalogRepo) UpsertAction(ctx context.Context, in ports.CatalogAction) error {
	return r.store.write(ctx, func(d *storeData) error {
		action := in.Action
		if action.ToolCode != "" {
			if _, ok := d.tools[action.ToolCode]; !ok {
				return ports.ErrNotFound
			}
		}
		rules := make([]village.ActionRule, 0, len(in.Rules))
		for _, rule := range in.Rules {
			res, ok := d.resources[rule.ResourceCode]
			if !ok {
				return ports.ErrNotFound
			}
			rule.ResourceID = res.ID
			rules = append(rules, rule)
		}
		if existing, ok := d.actions[action.Code]; ok {
			action.ID = existing.ID
		} else {
			action.ID = d.newID()
		}
		d.actions[action.Code] = action
		d.rules[action.ID] = rules
		return nil
	})
}

func (r CatalogRepo) UpsertRecipe(ctx context.Context, recipe village.Recipe) error {
	return r.store.write(ctx, func(d *storeData) error {
		product, ok := d.resources[recipe.ProductCode]
		if !ok {
			return ports.ErrNotFound
		}
		recipe.ProductID = product.ID
		recipe.ProductName = product.Name
		ingredients := make([]village.Ingredient, 0, len(recipe.Ingredients))
		for _, in := range recipe.Ingredients {
			res, ok := d.resources[in.ResourceCode]
			if !ok {
				return ports.ErrNotFound
			}
			in.ResourceID = res.ID
			ingredients = append(ingredients, in)
		}
		recipe.Ingredients = ingredients
		d.recipes[recipe.ProductCode] = recipe
		return nil
	})
}
