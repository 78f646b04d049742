package village

import (
	"math"
	"strconv"
)

// Round2 rounds to two decimal places, half away from zero.
func Round2(x float64) float64 {
	r := math.Round(x*100) / 100
	if r == 0 {
		return 0
	}
	return r
}

// FormatQuantity renders whole values without a decimal part.
func FormatQuantity(x float64) string {
	x = Round2(x)
	if x == math.Trunc(x) {
		return strconv.FormatInt(int64(x), 10)
	}
	return strconv.FormatFloat(x, 'f', -1, 64)
}

type Requirement struct {
	ResourceCode string  `json:"resource_code"`
	Quantity     float64 `json:"quantity"`
}

// Shortfalls lists every requirement not covered by have, in requirement order.
func Shortfalls(have map[string]float64, need []Requirement) []Shortfall {
	var out []Shortfall
	for _, req := range need {
		avail := have[req.ResourceCode]
		if avail < req.Quantity {
			out = append(out, Shortfall{ResourceCode: req.ResourceCode, Required: req.Quantity, Available: avail})
		}
	}
	return out
}
