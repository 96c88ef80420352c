package effect

import "testing"

func TestParseNamesAndAliases(t *testing.T) {
	cases := map[string]ID{
		"gold":            Gold,
		"sultan_loyalty":  Loyalty,
		"military_morale": Morale,
		"threat":          KizilbasThreat,
		" Happiness ":     Happiness,
	}
	for in, want := range cases {
		got, ok := Parse(in)
		if !ok || got != want {
			t.Errorf("Parse(%q) = %v, %v; want %v", in, got, ok, want)
		}
	}
	if _, ok := Parse("dragon_fire"); ok {
		t.Error("expected unknown key to fail")
	}
}

func TestFromMapIsOrderedAndReportsUnknown(t *testing.T) {
	b, unknown := FromMap(map[string]int{"happiness": 5, "gold": -100, "mystery": 1})
	if len(b) != 2 || b[0].ID != Gold || b[1].ID != Happiness {
		t.Fatalf("unexpected bundle %v", b)
	}
	if len(unknown) != 1 || unknown[0] != "mystery" {
		t.Fatalf("unexpected unknown list %v", unknown)
	}
	if b.Sum(Gold) != -100 {
		t.Fatalf("sum = %d", b.Sum(Gold))
	}
}
