package village

import (
	"fmt"
	"strings"
)

type Luck string

const (
	LuckSuccess Luck = "success"
	LuckNormal  Luck = "normal"
	LuckFailure Luck = "failure"
)

const (
	successMultiplier = 1.3
	failureMultiplier = 0.7
)

// LuckPolicy partitions [0,1) into success, normal and failure bands, in that order.
type LuckPolicy struct {
	Success float64
	Normal  float64
}

var (
	LuckPolicyRange    = LuckPolicy{Success: 0.30, Normal: 0.40}
	LuckPolicyWeighted = LuckPolicy{Success: 0.25, Normal: 0.50}
)

func LuckPolicyByName(name string) (LuckPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "range":
		return LuckPolicyRange, nil
	case "weighted":
		return LuckPolicyWeighted, nil
	default:
		return LuckPolicy{}, fmt.Errorf("unknown luck scheme %q", name)
	}
}

func (p LuckPolicy) Classify(u float64) Luck {
	switch {
	case u < p.Success:
		return LuckSuccess
	case u < p.Success+p.Normal:
		return LuckNormal
	default:
		return LuckFailure
	}
}

// Scale applies the luck multiplier to a non-energy quantity. A positive
// quantity scaled down on failure never drops below 1.
func (l Luck) Scale(q float64) float64 {
	switch l {
	case LuckSuccess:
		return q * successMultiplier
	case LuckFailure:
		scaled := q * failureMultiplier
		if q > 0 && scaled < 1 {
			return 1
		}
		return scaled
	default:
		return q
	}
}

func (l Luck) Message() string {
	switch l {
	case LuckSuccess:
		return "Great job!"
	case LuckFailure:
		return "Could have been better!"
	default:
		return "Not bad!"
	}
}
