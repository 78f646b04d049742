package village

import "testing"

func TestRound2(t *testing.T) {
	cases := map[float64]float64{
		1.006:  1.01,
		2.344:  2.34,
		-0.001: 0,
		6.5:    6.5,
	}
	for in, want := range cases {
		if got := Round2(in); got != want {
			t.Fatalf("Round2(%v) got=%v want=%v", in, got, want)
		}
	}
}

func TestFormatQuantity(t *testing.T) {
	cases := map[float64]string{
		5:     "5",
		1.3:   "1.3",
		0.999: "1",
		-0.9:  "-0.9",
		2.25:  "2.25",
	}
	for in, want := range cases {
		if got := FormatQuantity(in); got != want {
			t.Fatalf("FormatQuantity(%v) got=%q want=%q", in, got, want)
		}
	}
}

func TestShortfalls(t *testing.T) {
	have := map[string]float64{"madera": 0, EnergyResource: 5}
	need := []Requirement{{ResourceCode: "madera", Quantity: 1}, {ResourceCode: EnergyResource, Quantity: 1}}
	got := Shortfalls(have, need)
	if len(got) != 1 || got[0].ResourceCode != "madera" || got[0].Required != 1 || got[0].Available != 0 {
		t.Fatalf("unexpected shortfalls: %+v", got)
	}
}
