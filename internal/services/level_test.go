package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelOf(t *testing.T) {
	tests := []struct {
		name            string
		lifetime        int64
		wantLevel       int
		wantInto        int64
		wantRequirement int64
	}{
		{"new user", 0, 1, 0, 100},
		{"just below level 2", 99, 1, 99, 100},
		{"exactly level 2", 100, 2, 0, 150},
		{"mid level 2", 180, 2, 80, 150},
		{"exactly level 3", 250, 3, 0, 225},
		{"just below level 4", 474, 3, 224, 225},
		{"exactly level 4", 475, 4, 0, 337},
		{"exactly level 5", 812, 5, 0, 505},
		{"negative treated as zero", -50, 1, 0, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LevelOf(tt.lifetime)
			assert.Equal(t, tt.wantLevel, got.Level)
			assert.Equal(t, tt.wantInto, got.PointsIntoLevel)
			assert.Equal(t, tt.wantRequirement, got.PointsRequiredForNext)
		})
	}
}

func TestLevelOfMonotonic(t *testing.T) {
	// Levels never decrease as lifetime points grow
	prev := LevelOf(0)
	for lifetime := int64(1); lifetime <= 5000; lifetime++ {
		cur := LevelOf(lifetime)
		assert.GreaterOrEqual(t, cur.Level, prev.Level, "lifetime %d", lifetime)
		assert.LessOrEqual(t, cur.Level, prev.Level+1, "lifetime %d", lifetime)
		prev = cur
	}
}

func TestLevelRequirementGrowth(t *testing.T) {
	// Each level requires 1.5x the previous requirement, rounded down
	required := int64(100)
	lifetime := int64(0)
	for level := 1; level < 10; level++ {
		progress := LevelOf(lifetime)
		assert.Equal(t, level, progress.Level)
		assert.Equal(t, required, progress.PointsRequiredForNext)
		lifetime += required
		required = required * 3 / 2
	}
}
