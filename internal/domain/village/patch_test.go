package village

import (
	"errors"
	"testing"
	"time"
)

func TestCitizenPatch_ApplyAndFields(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	p := CitizenPatch{}.DwellingLevel(2).WellVisitedAt(at)
	if err := p.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	fields := p.Fields()
	if len(fields) != 2 || fields[0] != FieldDwellingLevel || fields[1] != FieldWellVisitedAt {
		t.Fatalf("unexpected fields: %v", fields)
	}

	c := Citizen{Name: "Ada"}
	p.Apply(&c)
	if c.DwellingLevel != 2 || c.WellVisitedAt == nil || !c.WellVisitedAt.Equal(at) {
		t.Fatalf("patch not applied: %+v", c)
	}
}

func TestCitizenPatch_IsImmutable(t *testing.T) {
	base := CitizenPatch{}.Rank(1)
	_ = base.Energy(3)
	if len(base.Fields()) != 1 {
		t.Fatalf("setter mutated receiver: %v", base.Fields())
	}
}

func TestCitizenPatch_ValidateRejectsOutOfRange(t *testing.T) {
	cases := []CitizenPatch{
		{},
		CitizenPatch{}.DwellingLevel(MaxDwellingLevel + 1),
		CitizenPatch{}.Energy(-1),
		CitizenPatch{}.WellVisitedAt(time.Time{}),
	}
	for i, p := range cases {
		if err := p.Validate(); !errors.Is(err, ErrInvalidPatch) {
			t.Fatalf("case %d: expected ErrInvalidPatch, got %v", i, err)
		}
	}
}

func TestWellEligible(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	recent := now.Add(-23 * time.Hour)
	stale := now.Add(-24 * time.Hour)
	if WellEligible(nil, now, DefaultWellWindow) {
		t.Fatalf("nil visit must not be eligible")
	}
	if !WellEligible(&recent, now, DefaultWellWindow) {
		t.Fatalf("visit 23h ago must be eligible")
	}
	if WellEligible(&stale, now, DefaultWellWindow) {
		t.Fatalf("visit exactly 24h ago must not be eligible")
	}
}

func TestRecipeValidateAndDescription(t *testing.T) {
	r := Recipe{ProductCode: "tabla", ProductName: "Tabla", Output: 5, Ingredients: []Ingredient{
		{ResourceCode: "madera", Quantity: 1},
		{ResourceCode: EnergyResource, Quantity: 1},
	}}
	if err := r.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	want := "Crafting 5 Tabla costs:\n1 x madera\n1 x energia"
	if got := RecipeDescription(r); got != want {
		t.Fatalf("description got=%q want=%q", got, want)
	}
	r.Ingredients = append(r.Ingredients, Ingredient{ResourceCode: "madera", Quantity: 2})
	if err := r.Validate(); !errors.Is(err, ErrInvalidRecipe) {
		t.Fatalf("duplicate ingredient must be rejected, got %v", err)
	}
}
