package village

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidRequest        = errors.New("invalid request")
	ErrCitizenNotFound       = errors.New("citizen not found")
	ErrCitizenExists         = errors.New("citizen already exists")
	ErrActionNotFound        = errors.New("action not found")
	ErrResourceNotFound      = errors.New("resource not found")
	ErrToolNotFound          = errors.New("tool not found")
	ErrProductNotFabricable  = errors.New("product not fabricable")
	ErrInsufficientEnergy    = errors.New("insufficient energy")
	ErrInsufficientResources = errors.New("insufficient resources")
	ErrDwellingMaxLevel      = errors.New("dwelling already at max level")
	ErrInvalidRule           = errors.New("invalid action rule")
	ErrInvalidRecipe         = errors.New("invalid recipe")
	ErrInvalidPatch          = errors.New("invalid citizen patch")
)

type Shortfall struct {
	ResourceCode string  `json:"resource_code"`
	Required     float64 `json:"required"`
	Available    float64 `json:"available"`
}

type InsufficientResourcesError struct {
	Missing []Shortfall
}

func (e *InsufficientResourcesError) Error() string {
	parts := make([]string, 0, len(e.Missing))
	for _, m := range e.Missing {
		parts = append(parts, fmt.Sprintf("%s need %s have %s", m.ResourceCode, FormatQuantity(m.Required), FormatQuantity(m.Available)))
	}
	return fmt.Sprintf("%s: %s", ErrInsufficientResources.Error(), strings.Join(parts, ", "))
}

func (e *InsufficientResourcesError) Unwrap() error {
	return ErrInsufficientResources
}
