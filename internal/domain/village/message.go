package village

import (
	"fmt"
	"strings"
)

func ActionMessage(citizen, action string, res Resolution) string {
	parts := make([]string, 0, len(res.Grants))
	for _, g := range res.Grants {
		parts = append(parts, FormatQuantity(g.Quantity)+" "+g.ResourceCode)
	}
	got := "nothing"
	if len(parts) > 0 {
		got = strings.Join(parts, ", ")
	}
	return fmt.Sprintf("%s performed %s and got: %s\n%s", citizen, action, got, res.Luck.Message())
}

func CraftMessage(citizen string, r Recipe) string {
	return fmt.Sprintf("%s crafted %d %s", citizen, r.Output, r.ProductCode)
}

func UpgradeMessage(citizen string, level int) string {
	return fmt.Sprintf("%s upgraded dwelling to level %d", citizen, level)
}

// RecipeDescription renders the cost of one craft, ingredients in recipe order.
func RecipeDescription(r Recipe) string {
	name := r.ProductName
	if name == "" {
		name = r.ProductCode
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Crafting %d %s costs:", r.Output, name)
	for _, in := range r.Ingredients {
		fmt.Fprintf(&b, "\n%d x %s", in.Quantity, in.ResourceCode)
	}
	return b.String()
}
