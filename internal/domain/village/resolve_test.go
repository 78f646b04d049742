package village

import "testing"

func TestResolve_NormalLuckGrantsBaseQuantities(t *testing.T) {
	roll := &scriptedRoller{values: []float64{0.5, 0, 0}}
	res := Resolve(talarRules(), Eligibility{}, LuckPolicyRange, roll)

	if res.Luck != LuckNormal {
		t.Fatalf("luck got=%s want=%s", res.Luck, LuckNormal)
	}
	if g, ok := grantOf(res, "madera"); !ok || g.Quantity != 1 {
		t.Fatalf("madera got=%v want=1", g.Quantity)
	}
	if g, ok := grantOf(res, "rama"); !ok || g.Quantity != 5 {
		t.Fatalf("rama got=%v want=5", g.Quantity)
	}
	if res.EnergyDelta != -1 {
		t.Fatalf("energy delta got=%v want=-1", res.EnergyDelta)
	}
	if res.EnergyResourceID != 13 {
		t.Fatalf("energy resource id got=%d want=13", res.EnergyResourceID)
	}
	if roll.next != 3 {
		t.Fatalf("expected 3 draws without bonuses, got=%d", roll.next)
	}
}

func TestResolve_SuccessScalesEverythingButEnergy(t *testing.T) {
	res := Resolve(talarRules(), Eligibility{}, LuckPolicyRange, &scriptedRoller{values: []float64{0.1, 0, 0}})
	if res.Luck != LuckSuccess {
		t.Fatalf("luck got=%s want=%s", res.Luck, LuckSuccess)
	}
	if g, _ := grantOf(res, "madera"); g.Quantity != 1.3 {
		t.Fatalf("madera got=%v want=1.3", g.Quantity)
	}
	if g, _ := grantOf(res, "rama"); g.Quantity != 6.5 {
		t.Fatalf("rama got=%v want=6.5", g.Quantity)
	}
	if res.EnergyDelta != -1 {
		t.Fatalf("energy must not be scaled, got=%v", res.EnergyDelta)
	}
}

func TestResolve_FailureScalesDownWithFloorOfOne(t *testing.T) {
	res := Resolve(talarRules(), Eligibility{}, LuckPolicyRange, &scriptedRoller{values: []float64{0.95, 0, 0}})
	if res.Luck != LuckFailure {
		t.Fatalf("luck got=%s want=%s", res.Luck, LuckFailure)
	}
	if g, _ := grantOf(res, "madera"); g.Quantity != 1 {
		t.Fatalf("madera got=%v want floor 1", g.Quantity)
	}
	if g, _ := grantOf(res, "rama"); g.Quantity != 3.5 {
		t.Fatalf("rama got=%v want=3.5", g.Quantity)
	}
}

func TestResolve_ProbabilityIsStrictlyLessThan(t *testing.T) {
	rules := []ActionRule{{ResourceID: 5, ResourceCode: "hierro", BaseQty: 1, BaseProb: 30}}

	res := Resolve(rules, Eligibility{}, LuckPolicyRange, &scriptedRoller{values: []float64{0.5, 0.30}})
	if _, ok := grantOf(res, "hierro"); ok {
		t.Fatalf("roll equal to probability must not grant")
	}
	res = Resolve(rules, Eligibility{}, LuckPolicyRange, &scriptedRoller{values: []float64{0.5, 0.29}})
	if g, ok := grantOf(res, "hierro"); !ok || g.Quantity != 1 {
		t.Fatalf("roll below probability must grant, got=%v", g.Quantity)
	}
}

func TestResolve_WellAndToolBonusesDrawIndependentRolls(t *testing.T) {
	// luck, madera base/well/tool, rama base/well/tool, energy well/tool
	roll := &scriptedRoller{values: []float64{0.5, 0, 0, 0, 0, 0.99, 0, 0, 0}}
	res := Resolve(talarRules(), Eligibility{Well: true, Tool: true}, LuckPolicyRange, roll)

	madera, _ := grantOf(res, "madera")
	if madera.Quantity != 1.5 || !madera.Base || !madera.Well || !madera.Tool {
		t.Fatalf("madera got=%+v want 1.5 with all three contributions", madera)
	}
	rama, _ := grantOf(res, "rama")
	if rama.Quantity != 7 || !rama.Base || rama.Well || !rama.Tool {
		t.Fatalf("rama got=%+v want 7 without well", rama)
	}
	if res.EnergyDelta != -0.7 {
		t.Fatalf("energy delta got=%v want=-0.7", res.EnergyDelta)
	}
	if roll.next != 9 {
		t.Fatalf("draws got=%d want=9", roll.next)
	}
}

func TestResolve_IneligibleBonusesAreNotDrawn(t *testing.T) {
	rules := []ActionRule{{ResourceID: 7, ResourceCode: "hierba", WellQty: 3, BaseProb: 100, WellProb: 100}}
	roll := &scriptedRoller{values: []float64{0.5, 0}}
	res := Resolve(rules, Eligibility{}, LuckPolicyRange, roll)
	if len(res.Grants) != 0 {
		t.Fatalf("zero grants must be dropped, got=%+v", res.Grants)
	}
	if roll.next != 2 {
		t.Fatalf("draws got=%d want=2", roll.next)
	}
}

func TestResolve_EnergyRefundNeverYieldsEnergy(t *testing.T) {
	rules := []ActionRule{{ResourceID: 13, ResourceCode: EnergyResource, BaseQty: -1, ToolQty: 5, ToolProb: 100}}
	res := Resolve(rules, Eligibility{Tool: true}, LuckPolicyRange, &scriptedRoller{values: []float64{0.5, 0}})
	if res.EnergyDelta != 0 {
		t.Fatalf("energy delta got=%v want=0", res.EnergyDelta)
	}
}

func TestResolve_DefaultEnergyCostWithoutEnergyRule(t *testing.T) {
	rules := []ActionRule{{ResourceID: 1, ResourceCode: "moneda", BaseQty: 10, BaseProb: 100}}
	res := Resolve(rules, Eligibility{}, LuckPolicyRange, &scriptedRoller{values: []float64{0.5, 0}})
	if res.EnergyDelta != -DefaultEnergyCost {
		t.Fatalf("energy delta got=%v want=%v", res.EnergyDelta, -DefaultEnergyCost)
	}
}

func TestResolve_LargerEnergyCostIsHonoured(t *testing.T) {
	rules := []ActionRule{{ResourceID: 13, ResourceCode: EnergyResource, BaseQty: 3}}
	res := Resolve(rules, Eligibility{}, LuckPolicyRange, &scriptedRoller{values: []float64{0.5}})
	if res.EnergyDelta != -3 {
		t.Fatalf("energy delta got=%v want=-3", res.EnergyDelta)
	}
}
