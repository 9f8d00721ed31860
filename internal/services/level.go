package services

import "learnhub/internal/models"

// Level thresholds. Level 1 starts at zero lifetime points and needs 100 to
// reach level 2; each subsequent level needs 1.5x the previous requirement,
// rounded down. Levels are a pure function of lifetime earned points.
const (
	baseLevel            = 1
	baseLevelRequirement = 100
)

// LevelOf derives the level position for a lifetime point total. Negative
// inputs are treated as zero; spending never lowers a level because spends
// do not reduce the lifetime total.
func LevelOf(lifetimePoints int64) models.LevelProgress {
	if lifetimePoints < 0 {
		lifetimePoints = 0
	}

	level := baseLevel
	required := int64(baseLevelRequirement)
	remaining := lifetimePoints

	for remaining >= required {
		remaining -= required
		level++
		required = required * 3 / 2
	}

	return models.LevelProgress{
		Level:                 level,
		PointsIntoLevel:       remaining,
		PointsRequiredForNext: required,
	}
}
