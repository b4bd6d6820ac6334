// Package progression holds the game's arithmetic: the level-up loop,
// the damage formula, and enhancement odds and costs.
package progression

import (
	"math"

	"github.com/nathoo/gacharealm/engine/state"
	"github.com/nathoo/gacharealm/types"
)

// Level-up tuning.
const (
	MaxHPPerLevel      = 10
	AttackPerLevel     = 2
	DefensePerLevel    = 1
	ThresholdGrowth    = 1.2
	GoldBonusPerLevel  = 100
	MinEnhanceChance   = 0.1
	EnhanceChanceDecay = 0.08
	EnhanceGoldBase    = 100
)

// LevelUp reports the outcome of ApplyXP.
type LevelUp struct {
	Levels    int // levels gained
	GoldBonus int // sum of newLevel × 100 over every level gained
}

// ApplyXP adds xp to p and runs the level-up loop until xp is below the
// threshold. Each level grants +10 max hp, +2 attack, +1 defense, grows the
// threshold by 20% (floored), and pays newLevel × 100 gold.
func ApplyXP(p *types.PlayerState, xp int) LevelUp {
	var lu LevelUp
	if xp <= 0 {
		return lu
	}
	p.XP += xp
	for p.XPToNextLevel > 0 && p.XP >= p.XPToNextLevel {
		p.XP -= p.XPToNextLevel
		p.Level++
		p.MaxHP += MaxHPPerLevel
		p.Attack += AttackPerLevel
		p.Defense += DefensePerLevel
		p.XPToNextLevel = int(math.Floor(float64(p.XPToNextLevel) * ThresholdGrowth))
		bonus := p.Level * GoldBonusPerLevel
		p.Gold += bonus
		lu.Levels++
		lu.GoldBonus += bonus
	}
	return lu
}

// Damage applies percentage mitigation: max(1, round(atk × (1 − def/(def+100)))).
func Damage(attack, defense int) int {
	if defense < 0 {
		defense = 0
	}
	mitigated := float64(attack) * (1 - float64(defense)/float64(defense+100))
	d := int(math.Round(mitigated))
	if d < 1 {
		return 1
	}
	return d
}

// EnhanceChance is the success probability of enhancing from level.
func EnhanceChance(level int) float64 {
	return math.Max(MinEnhanceChance, 1-float64(level)*EnhanceChanceDecay)
}

// EnhanceGoldCost is 100 × (level+1) × gradeOrder.
func EnhanceGoldCost(level int, grade types.Grade) int {
	order := state.GradeOrder(grade)
	if order < 1 {
		order = 1
	}
	return EnhanceGoldBase * (level + 1) * order
}

// EnhanceMaterialCost is ceil((level+1)/2) units of the enhancement material.
func EnhanceMaterialCost(level int) int {
	return (level + 2) / 2
}

// SellPrice is half the catalog price, floored.
func SellPrice(price int) int {
	return price / 2
}
