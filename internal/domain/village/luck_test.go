package village

import "testing"

func TestLuckPolicy_ClassifyBands(t *testing.T) {
	cases := []struct {
		policy LuckPolicy
		u      float64
		want   Luck
	}{
		{LuckPolicyRange, 0, LuckSuccess},
		{LuckPolicyRange, 0.299, LuckSuccess},
		{LuckPolicyRange, 0.3, LuckNormal},
		{LuckPolicyRange, 0.699, LuckNormal},
		{LuckPolicyRange, 0.7, LuckFailure},
		{LuckPolicyWeighted, 0.249, LuckSuccess},
		{LuckPolicyWeighted, 0.25, LuckNormal},
		{LuckPolicyWeighted, 0.749, LuckNormal},
		{LuckPolicyWeighted, 0.75, LuckFailure},
	}
	for _, tc := range cases {
		if got := tc.policy.Classify(tc.u); got != tc.want {
			t.Fatalf("Classify(%v) with %+v got=%s want=%s", tc.u, tc.policy, got, tc.want)
		}
	}
}

func TestLuckPolicyByName(t *testing.T) {
	if p, err := LuckPolicyByName(""); err != nil || p != LuckPolicyRange {
		t.Fatalf("default scheme got=%+v err=%v", p, err)
	}
	if p, err := LuckPolicyByName("Weighted"); err != nil || p != LuckPolicyWeighted {
		t.Fatalf("weighted scheme got=%+v err=%v", p, err)
	}
	if _, err := LuckPolicyByName("dice"); err == nil {
		t.Fatalf("expected error for unknown scheme")
	}
}

func TestLuck_ScaleFailureKeepsNegativeUnfloored(t *testing.T) {
	if got := LuckFailure.Scale(-2); got != -1.4 {
		t.Fatalf("got=%v want=-1.4", got)
	}
	if got := LuckFailure.Scale(0); got != 0 {
		t.Fatalf("got=%v want=0", got)
	}
}
