package village

import "math"

// DefaultEnergyCost is debited when an action's table has no energy row.
const DefaultEnergyCost = 1.0

type Eligibility struct {
	Well bool
	Tool bool
}

type Grant struct {
	ResourceID   int64   `json:"resource_id"`
	ResourceCode string  `json:"resource_code"`
	Quantity     float64 `json:"quantity"`
	Base         bool    `json:"base"`
	Well         bool    `json:"well"`
	Tool         bool    `json:"tool"`
}

type Resolution struct {
	Luck             Luck    `json:"luck"`
	Grants           []Grant `json:"grants"`
	EnergyResourceID int64   `json:"energy_resource_id"`
	EnergyDelta      float64 `json:"energy_delta"`
}

// Resolve rolls an action's rule table. The luck roll is drawn first, then
// for each rule in order: base roll, well roll when eligible, tool roll when
// eligible. Non-energy grants are luck scaled and rounded; zero grants are
// dropped. The energy row's base quantity is the action cost and is always
// paid; its well and tool quantities are refunds that never make the net
// delta positive.
func Resolve(rules []ActionRule, elig Eligibility, policy LuckPolicy, roll Roller) Resolution {
	out := Resolution{Luck: policy.Classify(roll.Float64())}
	energySeen := false

	for _, rule := range rules {
		if rule.ResourceCode == EnergyResource {
			energySeen = true
			out.EnergyResourceID = rule.ResourceID
			delta := -math.Max(DefaultEnergyCost, math.Abs(rule.BaseQty))
			if elig.Well && passes(roll, rule.WellProb) {
				delta += rule.WellQty
			}
			if elig.Tool && passes(roll, rule.ToolProb) {
				delta += rule.ToolQty
			}
			out.EnergyDelta = Round2(math.Min(delta, 0))
			continue
		}

		g := Grant{ResourceID: rule.ResourceID, ResourceCode: rule.ResourceCode}
		if passes(roll, rule.BaseProb) {
			g.Quantity += rule.BaseQty
			g.Base = true
		}
		if elig.Well && passes(roll, rule.WellProb) {
			g.Quantity += rule.WellQty
			g.Well = true
		}
		if elig.Tool && passes(roll, rule.ToolProb) {
			g.Quantity += rule.ToolQty
			g.Tool = true
		}
		g.Quantity = Round2(out.Luck.Scale(g.Quantity))
		if g.Quantity == 0 {
			continue
		}
		out.Grants = append(out.Grants, g)
	}

	if !energySeen {
		out.EnergyDelta = -DefaultEnergyCost
	}
	return out
}

func passes(roll Roller, probability float64) bool {
	return roll.Float64()*100 < probability
}
