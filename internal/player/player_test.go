package player

import (
	"math"
	"testing"
)

func TestBonusesByGender(t *testing.T) {
	m := Default()
	f := New("Mihrimah", Female, 1500)
	tests := []struct {
		p    *Player
		tag  string
		want float64
	}{
		{m, SiegeAttack, 0.10},
		{m, TextileTrade, 0},
		{f, VakifEffect, 0.30},
		{f, RaidPower, 0},
	}
	for _, tt := range tests {
		if got := tt.p.Bonus(tt.tag); got != tt.want {
			t.Errorf("%s %s = %v, want %v", tt.p.Gender, tt.tag, got, tt.want)
		}
	}
}

func TestMalusFades(t *testing.T) {
	f := New("Mihrimah", Female, 1500)
	for _, tt := range []struct {
		turns int
		want  float64
	}{{0, -0.20}, {10, -0.15}, {20, -0.10}, {40, 0}, {90, 0}} {
		f.TurnsAsGovernor = tt.turns
		if got := f.Malus(BeyLoyalty); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("turn %d: %v, want %v", tt.turns, got, tt.want)
		}
	}
	if Default().Malus(BeyLoyalty) != 0 {
		t.Fatal("male governor has a malus")
	}
}

func TestSeniority(t *testing.T) {
	p := Default()
	p.Prestige = 65
	for i := 1; i < PrestigeInterval; i++ {
		if p.ProcessTurn() {
			t.Fatalf("rank changed on turn %d", i)
		}
	}
	if !p.ProcessTurn() || p.Prestige != 70 || p.Experience != 10 || p.Rank() != "Vezir" {
		t.Fatalf("player %+v rank %s", p, p.Rank())
	}
	p.AdjustPrestige(-200)
	if p.Prestige != 0 || p.Rank() != "Sancakbeyi" {
		t.Fatalf("prestige %d", p.Prestige)
	}
}

func TestTitles(t *testing.T) {
	m := Default()
	f := New("Mihrimah", Female, 1500)
	if m.FullTitle() != "Kasım Paşa" || f.FullTitle() != "Mihrimah Hatun" {
		t.Fatalf("titles %q %q", m.FullTitle(), f.FullTitle())
	}
	if got := f.Format("{name} {governor}, {from_people} sizi bekliyor"); got != "Mihrimah Hatun, Hatun Efendimiz sizi bekliyor" {
		t.Fatalf("format %q", got)
	}
	if m.Title("nobody") != "Beyefendi" {
		t.Fatal("unknown context not general")
	}
	if !m.HasAbility("lead_raid") || f.HasAbility("lead_raid") || !f.HasAbility("harem_network") {
		t.Fatal("abilities")
	}
}

func TestSanitize(t *testing.T) {
	p := &Player{Gender: "other", Prestige: 140}
	p.Sanitize()
	if p.Gender != Male || p.Name != "Kasım" || p.Prestige != 100 || p.BirthYear != 1490 {
		t.Fatalf("player %+v", p)
	}
	if g, ok := ParseGender("Kadın"); !ok || g != Female {
		t.Fatal("parse kadın")
	}
}
