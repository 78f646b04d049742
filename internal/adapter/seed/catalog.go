// Package seed loads the resource, tool, action and recipe catalog from a
// YAML file and writes it through a ports.CatalogWriter.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"soloville/internal/app/catalog"
	"soloville/internal/app/ports"
	"soloville/internal/domain/village"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.schema.json
var schemaJSON string

const schemaURL = "catalog.schema.json"

type Resource struct {
	Code    string `yaml:"code"`
	Name    string `yaml:"name"`
	Title   string `yaml:"title"`
	Product bool   `yaml:"product"`
	Active  *bool  `yaml:"active"`
}

type Tool struct {
	Code  string `yaml:"code"`
	Name  string `yaml:"name"`
	Title string `yaml:"title"`
}

type Rule struct {
	Resource string   `yaml:"resource"`
	Base     float64  `yaml:"base"`
	Well     float64  `yaml:"well"`
	Tool     float64  `yaml:"tool"`
	BaseProb *float64 `yaml:"base_prob"`
	WellProb *float64 `yaml:"well_prob"`
	ToolProb *float64 `yaml:"tool_prob"`
}

type Action struct {
	Code   string `yaml:"code"`
	Name   string `yaml:"name"`
	Tool   string `yaml:"tool"`
	Active *bool  `yaml:"active"`
	Rules  []Rule `yaml:"rules"`
}

type Ingredient struct {
	Resource string `yaml:"resource"`
	Quantity int    `yaml:"quantity"`
}

type Recipe struct {
	Product     string       `yaml:"product"`
	Output      int          `yaml:"output"`
	Ingredients []Ingredient `yaml:"ingredients"`
}

type Catalog struct {
	Resources []Resource `yaml:"resources"`
	Tools     []Tool     `yaml:"tools"`
	Actions   []Action   `yaml:"actions"`
	Recipes   []Recipe   `yaml:"recipes"`
}

func compileSchema() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, bytes.NewReader([]byte(schemaJSON))); err != nil {
		return nil, fmt.Errorf("add catalog schema: %w", err)
	}
	return c.Compile(schemaURL)
}

func LoadFile(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse validates data against the catalog schema, decodes it and checks
// cross references between sections.
func Parse(data []byte) (Catalog, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Catalog{}, fmt.Errorf("decode catalog yaml: %w", err)
	}
	// the validator wants JSON-decoded values
	raw, err := json.Marshal(doc)
	if err != nil {
		return Catalog{}, fmt.Errorf("convert catalog to json: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return Catalog{}, fmt.Errorf("convert catalog to json: %w", err)
	}
	schema, err := compileSchema()
	if err != nil {
		return Catalog{}, err
	}
	if err := schema.Validate(inst); err != nil {
		return Catalog{}, fmt.Errorf("catalog schema: %w", err)
	}

	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return Catalog{}, fmt.Errorf("decode catalog: %w", err)
	}
	if err := cat.Validate(); err != nil {
		return Catalog{}, err
	}
	return cat, nil
}

func (c Catalog) Validate() error {
	resources := make(map[string]Resource, len(c.Resources))
	for _, r := range c.Resources {
		code := catalog.NormalizeCode(r.Code)
		if _, dup := resources[code]; dup {
			return fmt.Errorf("duplicate resource %q", code)
		}
		resources[code] = r
	}
	if _, ok := resources[village.EnergyResource]; !ok {
		return fmt.Errorf("catalog must define the %q resource", village.EnergyResource)
	}
	tools := make(map[string]struct{}, len(c.Tools))
	for _, t := range c.Tools {
		tools[catalog.NormalizeCode(t.Code)] = struct{}{}
	}
	for _, a := range c.Actions {
		if a.Tool != "" {
			if _, ok := tools[catalog.NormalizeCode(a.Tool)]; !ok {
				return fmt.Errorf("action %q: unknown tool %q", a.Code, a.Tool)
			}
		}
		seen := make(map[string]struct{}, len(a.Rules))
		for _, r := range a.toCatalogAction().Rules {
			if _, ok := resources[r.ResourceCode]; !ok {
				return fmt.Errorf("action %q: unknown resource %q", a.Code, r.ResourceCode)
			}
			if _, dup := seen[r.ResourceCode]; dup {
				return fmt.Errorf("action %q: duplicate rule for %q", a.Code, r.ResourceCode)
			}
			seen[r.ResourceCode] = struct{}{}
			if err := r.Validate(); err != nil {
				return fmt.Errorf("action %q: %w", a.Code, err)
			}
		}
	}
	for _, rc := range c.Recipes {
		recipe := rc.toRecipe()
		product, ok := resources[recipe.ProductCode]
		if !ok || !product.Product {
			return fmt.Errorf("recipe %q: product must be a catalog resource marked product", rc.Product)
		}
		if err := recipe.Validate(); err != nil {
			return fmt.Errorf("recipe %q: %w", rc.Product, err)
		}
		for _, in := range recipe.Ingredients {
			if _, ok := resources[in.ResourceCode]; !ok {
				return fmt.Errorf("recipe %q: unknown resource %q", rc.Product, in.ResourceCode)
			}
		}
	}
	return nil
}

func probOr100(p *float64) float64 {
	if p == nil {
		return 100
	}
	return *p
}

func boolOr(b *bool, fallback bool) bool {
	if b == nil {
		return fallback
	}
	return *b
}

func (a Action) toCatalogAction() ports.CatalogAction {
	out := ports.CatalogAction{
		Action: village.Action{
			Code:     catalog.NormalizeCode(a.Code),
			Name:     a.Name,
			ToolCode: catalog.NormalizeCode(a.Tool),
			Active:   boolOr(a.Active, true),
		},
		Rules: make([]village.ActionRule, 0, len(a.Rules)),
	}
	for _, r := range a.Rules {
		out.Rules = append(out.Rules, village.ActionRule{
			ResourceCode: catalog.NormalizeCode(r.Resource),
			BaseQty:      r.Base,
			WellQty:      r.Well,
			ToolQty:      r.Tool,
			BaseProb:     probOr100(r.BaseProb),
			WellProb:     probOr100(r.WellProb),
			ToolProb:     probOr100(r.ToolProb),
		})
	}
	return out
}

func (r Recipe) toRecipe() village.Recipe {
	out := village.Recipe{
		ProductCode: catalog.NormalizeCode(r.Product),
		Output:      r.Output,
		Ingredients: make([]village.Ingredient, 0, len(r.Ingredients)),
	}
	for _, in := range r.Ingredients {
		out.Ingredients = append(out.Ingredients, village.Ingredient{
			ResourceCode: catalog.NormalizeCode(in.Resource),
			Quantity:     in.Quantity,
		})
	}
	return out
}

type Summary struct {
	Resources int
	Tools     int
	Actions   int
	Recipes   int
}

// Apply upserts the whole catalog in one transaction. Re-applying the same
// catalog leaves the store unchanged.
func Apply(ctx context.Context, tx ports.TxManager, w ports.CatalogWriter, c Catalog) (Summary, error) {
	var sum Summary
	err := tx.RunInTx(ctx, func(txCtx context.Context) error {
		sum = Summary{}
		for _, r := range c.Resources {
			if _, err := w.UpsertResource(txCtx, village.Resource{
				Code:      catalog.NormalizeCode(r.Code),
				Name:      r.Name,
				Title:     r.Title,
				IsProduct: r.Product,
				Active:    boolOr(r.Active, true),
			}); err != nil {
				return fmt.Errorf("resource %s: %w", r.Code, err)
			}
			sum.Resources++
		}
		for _, t := range c.Tools {
			if _, err := w.UpsertTool(txCtx, village.Tool{Code: catalog.NormalizeCode(t.Code), Name: t.Name, Title: t.Title}); err != nil {
				return fmt.Errorf("tool %s: %w", t.Code, err)
			}
			sum.Tools++
		}
		for _, a := range c.Actions {
			if err := w.UpsertAction(txCtx, a.toCatalogAction()); err != nil {
				return fmt.Errorf("action %s: %w", a.Code, err)
			}
			sum.Actions++
		}
		for _, r := range c.Recipes {
			if err := w.UpsertRecipe(txCtx, r.toRecipe()); err != nil {
				return fmt.Errorf("recipe %s: %w", r.Product, err)
			}
			sum.Recipes++
		}
		return nil
	})
	if err != nil {
		return Summary{}, err
	}
	return sum, nil
}
