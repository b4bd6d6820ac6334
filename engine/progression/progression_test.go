package progression

import (
	"testing"

	"github.com/nathoo/gacharealm/types"
)

func TestApplyXP_NoLevel(t *testing.T) {
	p := types.PlayerState{Level: 1, XP: 0, XPToNextLevel: 100, MaxHP: 50}
	lu := ApplyXP(&p, 99)

	if lu.Levels != 0 || p.Level != 1 || p.XP != 99 {
		t.Fatalf("unexpected level up: %+v player=%+v", lu, p)
	}
}

func TestApplyXP_ExactThreshold(t *testing.T) {
	p := types.PlayerState{Level: 1, XP: 95, XPToNextLevel: 100, MaxHP: 50, Attack: 5, Defense: 2, Gold: 0}
	lu := ApplyXP(&p, 5)

	if p.Level != 2 || p.XP != 0 || p.XPToNextLevel != 120 {
		t.Fatalf("level=%d xp=%d next=%d", p.Level, p.XP, p.XPToNextLevel)
	}
	if p.MaxHP != 60 || p.Attack != 7 || p.Defense != 3 {
		t.Errorf("stats maxHp=%d atk=%d def=%d", p.MaxHP, p.Attack, p.Defense)
	}
	if lu.GoldBonus != 200 || p.Gold != 200 {
		t.Errorf("gold bonus=%d gold=%d, want 200", lu.GoldBonus, p.Gold)
	}
}

func TestApplyXP_MultiLevel(t *testing.T) {
	// 90/100 + 250 = 340: 340-100=240 (next 120), 240-120=120 (next 144), stop.
	p := types.PlayerState{Level: 3, XP: 90, XPToNextLevel: 100, MaxHP: 70, Attack: 9, Defense: 4, Gold: 10}
	lu := ApplyXP(&p, 250)

	if lu.Levels != 2 {
		t.Fatalf("levels gained = %d, want 2", lu.Levels)
	}
	if p.Level != 5 || p.XP != 120 || p.XPToNextLevel != 144 {
		t.Errorf("level=%d xp=%d next=%d, want 5/120/144", p.Level, p.XP, p.XPToNextLevel)
	}
	if p.MaxHP != 90 || p.Attack != 13 || p.Defense != 6 {
		t.Errorf("maxHp=%d atk=%d def=%d", p.MaxHP, p.Attack, p.Defense)
	}
	if lu.GoldBonus != 900 || p.Gold != 910 {
		t.Errorf("gold bonus=%d gold=%d, want 400+500", lu.GoldBonus, p.Gold)
	}
	if p.XP >= p.XPToNextLevel {
		t.Error("xp must end below the threshold")
	}
}

func TestDamage(t *testing.T) {
	tests := []struct {
		atk, def, want int
	}{
		{20, 10, 18}, // 20 × (1 − 10/110) = 18.18
		{5, 0, 5},
		{1, 1000, 1},
		{0, 0, 1},
		{100, 100, 50},
		{7, 3, 7}, // 6.796 rounds up
	}
	for _, tt := range tests {
		if got := Damage(tt.atk, tt.def); got != tt.want {
			t.Errorf("Damage(%d, %d) = %d, want %d", tt.atk, tt.def, got, tt.want)
		}
	}
}

func TestEnhanceChance(t *testing.T) {
	tests := []struct {
		level int
		want  float64
	}{
		{0, 1.0},
		{1, 0.92},
		{5, 0.6},
		{11, 0.12},
		{12, 0.1},
		{20, 0.1},
	}
	for _, tt := range tests {
		got := EnhanceChance(tt.level)
		if got < tt.want-1e-9 || got > tt.want+1e-9 {
			t.Errorf("EnhanceChance(%d) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestEnhanceCosts(t *testing.T) {
	if got := EnhanceGoldCost(0, types.GradeCommon); got != 100 {
		t.Errorf("gold cost +0 common = %d", got)
	}
	if got := EnhanceGoldCost(2, types.GradeUncommon); got != 600 {
		t.Errorf("gold cost +2 uncommon = %d", got)
	}

	materials := map[int]int{0: 1, 1: 1, 2: 2, 3: 2, 4: 3, 9: 5}
	for level, want := range materials {
		if got := EnhanceMaterialCost(level); got != want {
			t.Errorf("EnhanceMaterialCost(%d) = %d, want %d", level, got, want)
		}
	}
}

func TestSellPrice(t *testing.T) {
	if got := SellPrice(200); got != 100 {
		t.Errorf("SellPrice(200) = %d", got)
	}
	if got := SellPrice(15); got != 7 {
		t.Errorf("SellPrice(15) = %d", got)
	}
}
