package service

import "testing"

func TestCalculateExperiencePoints(t *testing.T) {
	tests := []struct {
		name              string
		materials         int
		videos            int
		quizzes           int
		passed            int
		achievementsCount int
		want              int
	}{
		{name: "zero activity", want: 0},
		{name: "single material", materials: 1, want: 10},
		{name: "single video", videos: 1, want: 15},
		{name: "quiz completed and passed", quizzes: 1, passed: 1, want: 50},
		{name: "single achievement", achievementsCount: 1, want: 50},
		{name: "mixed activity", materials: 3, videos: 2, quizzes: 4, passed: 2, achievementsCount: 1, want: 250},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateExperiencePoints(tt.materials, tt.videos, tt.quizzes, tt.passed, tt.achievementsCount)
			if got != tt.want {
				t.Errorf("CalculateExperiencePoints = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCalculateUserLevel(t *testing.T) {
	tests := []struct {
		name         string
		xp           int
		wantLevel    int
		wantFloor    int
		wantCeiling  int
		wantProgress int
	}{
		{name: "fresh user", xp: 0, wantLevel: 1, wantFloor: 0, wantCeiling: 100, wantProgress: 0},
		{name: "negative xp clamped", xp: -10, wantLevel: 1, wantFloor: 0, wantCeiling: 100, wantProgress: 0},
		{name: "just below level two", xp: 99, wantLevel: 1, wantFloor: 0, wantCeiling: 100, wantProgress: 99},
		{name: "exactly level two", xp: 100, wantLevel: 2, wantFloor: 100, wantCeiling: 220, wantProgress: 0},
		{name: "midway through level two", xp: 150, wantLevel: 2, wantFloor: 100, wantCeiling: 220, wantProgress: 42},
		{name: "exactly level three", xp: 220, wantLevel: 3, wantFloor: 220, wantCeiling: 364, wantProgress: 0},
		{name: "exactly level four", xp: 364, wantLevel: 4, wantFloor: 364, wantCeiling: 537, wantProgress: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateUserLevel(tt.xp)
			if got.Level != tt.wantLevel {
				t.Errorf("Level = %d, want %d", got.Level, tt.wantLevel)
			}
			if got.CurrentLevelXP != tt.wantFloor {
				t.Errorf("CurrentLevelXP = %d, want %d", got.CurrentLevelXP, tt.wantFloor)
			}
			if got.NextLevelXP != tt.wantCeiling {
				t.Errorf("NextLevelXP = %d, want %d", got.NextLevelXP, tt.wantCeiling)
			}
			if got.Progress != tt.wantProgress {
				t.Errorf("Progress = %d, want %d", got.Progress, tt.wantProgress)
			}
		})
	}
}

func TestCalculateUserLevelMonotonic(t *testing.T) {
	prev := CalculateUserLevel(0)
	for xp := 1; xp <= 5000; xp++ {
		cur := CalculateUserLevel(xp)
		if cur.Level < prev.Level {
			t.Fatalf("level decreased from %d to %d at xp=%d", prev.Level, cur.Level, xp)
		}
		if cur.Progress < 0 || cur.Progress > 100 {
			t.Fatalf("progress out of range at xp=%d: %d", xp, cur.Progress)
		}
		prev = cur
	}
}
