package village

type scriptedRoller struct {
	values []float64
	next   int
}

func (r *scriptedRoller) Float64() float64 {
	if r.next >= len(r.values) {
		return 0
	}
	v := r.values[r.next]
	r.next++
	return v
}

func talarRules() []ActionRule {
	return []ActionRule{
		{ResourceID: 2, ResourceCode: "madera", BaseQty: 1, ToolQty: 0.5, BaseProb: 100, WellProb: 100, ToolProb: 100},
		{ResourceID: 3, ResourceCode: "rama", BaseQty: 5, WellQty: 5, ToolQty: 2, BaseProb: 100, WellProb: 100, ToolProb: 100},
		{ResourceID: 13, ResourceCode: EnergyResource, BaseQty: -1, WellQty: 0.1, ToolQty: 0.2, BaseProb: 100, WellProb: 100, ToolProb: 100},
	}
}

func grantOf(res Resolution, code string) (Grant, bool) {
	for _, g := range res.Grants {
		if g.ResourceCode == code {
			return g, true
		}
	}
	return Grant{}, false
}
