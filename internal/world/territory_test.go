package world

import "testing"

func TestLookupByPrefix(t *testing.T) {
	tr, ok := Lookup("Rum")
	if !ok {
		t.Fatal("Rum should resolve")
	}
	if tr.Name != "Rum Eyaleti" || tr.Capital != "Sivas" || tr.Region != Anatolia || tr.Coastal {
		t.Fatalf("unexpected territory %+v", tr)
	}
	if _, ok := Lookup("Atlantis"); ok {
		t.Fatal("unknown territory resolved")
	}
}

func TestNeighborsExistInCatalog(t *testing.T) {
	for _, name := range Names() {
		tr, _ := Lookup(name)
		for _, n := range tr.Neighbors {
			if _, ok := Lookup(n); !ok {
				t.Errorf("%s lists unknown neighbor %q", name, n)
			}
		}
	}
}

func TestPlayableExcludesForeignStates(t *testing.T) {
	for _, n := range Playable() {
		tr, _ := Lookup(n)
		if tr.Type == TypeForeign {
			t.Errorf("%s is foreign but playable", n)
		}
	}
	if !IsCoastal("Trabzon Eyaleti") || IsCoastal("Rum Eyaleti") {
		t.Fatal("coastal flags wrong")
	}
}
