// Package catalog answers read-only questions about the seeded recipe and
// action tables. Lookups never mutate and never fail for unknown codes
// with anything but a domain not-found error.
package catalog

import (
	"context"
	"errors"
	"strings"

	"soloville/internal/app/ports"
	"soloville/internal/domain/village"
)

type Registry struct {
	Resources ports.ResourceRepository
	Actions   ports.ActionRepository
	Recipes   ports.RecipeRepository
}

func NormalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

func (r Registry) GetRecipe(ctx context.Context, productCode string) (village.Recipe, error) {
	code := NormalizeCode(productCode)
	if code == "" {
		return village.Recipe{}, village.ErrProductNotFabricable
	}
	product, err := r.Resources.GetByCode(ctx, code)
	if err != nil {
		return village.Recipe{}, notFound(err, village.ErrProductNotFabricable)
	}
	if !product.IsProduct || !product.Active {
		return village.Recipe{}, village.ErrProductNotFabricable
	}
	recipe, err := r.Recipes.GetByProductCode(ctx, code)
	if err != nil {
		return village.Recipe{}, notFound(err, village.ErrProductNotFabricable)
	}
	if recipe.ProductName == "" {
		recipe.ProductName = product.Name
	}
	return recipe, nil
}

func (r Registry) GetActionRules(ctx context.Context, actionCode string) (village.Action, []village.ActionRule, error) {
	code := NormalizeCode(actionCode)
	if code == "" {
		return village.Action{}, nil, village.ErrActionNotFound
	}
	action, err := r.Actions.GetByCode(ctx, code)
	if err != nil {
		return village.Action{}, nil, notFound(err, village.ErrActionNotFound)
	}
	if !action.Active {
		return village.Action{}, nil, village.ErrActionNotFound
	}
	rules, err := r.Actions.ListRules(ctx, action.ID)
	if err != nil {
		return village.Action{}, nil, err
	}
	return action, rules, nil
}

// DescribeRecipe renders what one craft of productCode costs.
func (r Registry) DescribeRecipe(ctx context.Context, productCode string) (string, error) {
	recipe, err := r.GetRecipe(ctx, productCode)
	if err != nil {
		return "", err
	}
	return village.RecipeDescription(recipe), nil
}

func notFound(err, domainErr error) error {
	if errors.Is(err, ports.ErrNotFound) {
		return domainErr
	}
	return err
}
