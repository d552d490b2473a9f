package engine

import "math"

const (
	// XPPerLevel is the XP needed for each level increment.
	XPPerLevel = 200

	// RewardThreshold is the watched fraction at which a viewing is rewarded.
	RewardThreshold = 0.9

	// DevXPStep is the XP granted or removed by a single developer adjustment.
	DevXPStep = 50
)

// Rules holds the tunable progression constants.
type Rules struct {
	XPPerLevel      int
	RewardThreshold float64
}

func DefaultRules() Rules {
	return Rules{XPPerLevel: XPPerLevel, RewardThreshold: RewardThreshold}
}

// withDefaults fills zero or out-of-range fields from DefaultRules.
func (r Rules) withDefaults() Rules {
	if r.XPPerLevel <= 0 {
		r.XPPerLevel = XPPerLevel
	}
	if r.RewardThreshold <= 0 || r.RewardThreshold > 1 {
		r.RewardThreshold = RewardThreshold
	}
	return r
}

// LevelForXP returns floor(xp/XPPerLevel)+1. Negative XP counts as zero.
func (r Rules) LevelForXP(xp int) int {
	r = r.withDefaults()
	if xp < 0 {
		xp = 0
	}
	return xp/r.XPPerLevel + 1
}

// XPForLevel returns the minimum XP of the given level.
func (r Rules) XPForLevel(level int) int {
	r = r.withDefaults()
	if level <= 1 {
		return 0
	}
	return (level - 1) * r.XPPerLevel
}

// XPIntoLevel returns how far xp is past the start of its level.
func (r Rules) XPIntoLevel(xp int) int {
	if xp < 0 {
		return 0
	}
	return xp % r.withDefaults().XPPerLevel
}

func LevelForXP(xp int) int {
	return DefaultRules().LevelForXP(xp)
}

// SecondsWatched is floor(duration*fraction), never negative.
func SecondsWatched(duration int, fraction float64) int {
	if duration <= 0 || fraction <= 0 {
		return 0
	}
	return int(math.Floor(float64(duration) * fraction))
}

// syncLevels recomputes every character's level from its XP.
func (r Rules) syncLevels(roster []Character) bool {
	changed := false
	for i := range roster {
		if roster[i].XP < 0 {
			roster[i].XP = 0
			changed = true
		}
		lvl := r.LevelForXP(roster[i].XP)
		if roster[i].Level != lvl {
			roster[i].Level = lvl
			changed = true
		}
	}
	return changed
}
