package village

import "time"

// EnergyResource is the catalog code of the resource that pays for actions.
const EnergyResource = "energia"

// ActorSystem is recorded in audit columns when no caller identity is known.
const ActorSystem = "system"

const (
	HistoryCodeCraft           = "CRAFT"
	HistoryCodeUpgradeDwelling = "UPGRADE_DWELLING"
)

type Audit struct {
	CreatedAt  time.Time  `json:"created_at"`
	CreatedBy  string     `json:"created_by"`
	ModifiedAt *time.Time `json:"modified_at,omitempty"`
	ModifiedBy string     `json:"modified_by,omitempty"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
	DeletedBy  string     `json:"deleted_by,omitempty"`
}

type Citizen struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Energy        int        `json:"energy"`
	DwellingLevel int        `json:"dwelling_level"`
	Rank          int        `json:"rank"`
	WellVisitedAt *time.Time `json:"well_visited_at,omitempty"`
	Audit         Audit      `json:"audit"`
}

func (c Citizen) Active() bool {
	return c.Audit.DeletedAt == nil
}

type Resource struct {
	ID        int64  `json:"id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Title     string `json:"title,omitempty"`
	IsProduct bool   `json:"is_product"`
	Active    bool   `json:"active"`
}

type Balance struct {
	ID           int64      `json:"id"`
	CitizenID    int64      `json:"citizen_id"`
	ResourceID   int64      `json:"resource_id"`
	ResourceCode string     `json:"resource_code"`
	Quantity     float64    `json:"quantity"`
	Version      int64      `json:"version"`
	ModifiedAt   *time.Time `json:"modified_at,omitempty"`
	ModifiedBy   string     `json:"modified_by,omitempty"`
}

type Tool struct {
	ID    int64  `json:"id"`
	Code  string `json:"code"`
	Name  string `json:"name"`
	Title string `json:"title,omitempty"`
}

type Action struct {
	ID       int64  `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	ToolCode string `json:"tool_code,omitempty"`
	Active   bool   `json:"active"`
}

func (a Action) RequiresTool() bool {
	return a.ToolCode != ""
}

// ActionRule is one row of an action's resource table. Probabilities are
// percentages in [0,100]; quantities may be negative or fractional.
type ActionRule struct {
	ResourceID   int64   `json:"resource_id"`
	ResourceCode string  `json:"resource_code"`
	BaseQty      float64 `json:"base_qty"`
	WellQty      float64 `json:"well_qty"`
	ToolQty      float64 `json:"tool_qty"`
	BaseProb     float64 `json:"base_prob"`
	WellProb     float64 `json:"well_prob"`
	ToolProb     float64 `json:"tool_prob"`
}

func (r ActionRule) Validate() error {
	for _, p := range []float64{r.BaseProb, r.WellProb, r.ToolProb} {
		if p < 0 || p > 100 {
			return ErrInvalidRule
		}
	}
	if r.ResourceCode == "" {
		return ErrInvalidRule
	}
	return nil
}

type Ingredient struct {
	ResourceID   int64  `json:"resource_id"`
	ResourceCode string `json:"resource_code"`
	Quantity     int    `json:"quantity"`
}

type Recipe struct {
	ProductID   int64        `json:"product_id"`
	ProductCode string       `json:"product_code"`
	ProductName string       `json:"product_name"`
	Output      int          `json:"output"`
	Ingredients []Ingredient `json:"ingredients"`
}

func (r Recipe) Requirements() []Requirement {
	out := make([]Requirement, 0, len(r.Ingredients))
	for _, in := range r.Ingredients {
		out = append(out, Requirement{ResourceCode: in.ResourceCode, Quantity: float64(in.Quantity)})
	}
	return out
}

func (r Recipe) Validate() error {
	if r.ProductCode == "" || r.Output <= 0 || len(r.Ingredients) == 0 {
		return ErrInvalidRecipe
	}
	seen := make(map[string]struct{}, len(r.Ingredients))
	for _, in := range r.Ingredients {
		if in.Quantity <= 0 || in.ResourceCode == "" {
			return ErrInvalidRecipe
		}
		if _, dup := seen[in.ResourceCode]; dup {
			return ErrInvalidRecipe
		}
		seen[in.ResourceCode] = struct{}{}
	}
	return nil
}

type HistoryEntry struct {
	ID          int64     `json:"id"`
	OperationID string    `json:"operation_id"`
	Code        string    `json:"code"`
	CitizenID   int64     `json:"citizen_id"`
	CitizenName string    `json:"citizen_name,omitempty"`
	Message     string    `json:"message"`
	OccurredAt  time.Time `json:"occurred_at"`
}
