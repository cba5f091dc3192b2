package service

import "math"

// 各类学习行为的经验值权重
const (
	XPPerMaterial      = 10
	XPPerVideo         = 15
	XPPerQuizCompleted = 20
	XPPerQuizPassed    = 30
	XPPerAchievement   = 50
)

// 等级曲线：首级需要100经验，之后每级递增20%
const (
	levelBaseXP     = 100
	levelGrowthRate = 1.2
)

// CalculateExperiencePoints 行为计数到经验值的加权线性映射
func CalculateExperiencePoints(materialsCompleted, videosWatched, quizzesCompleted, quizzesPassed, achievementsCount int) int {
	return materialsCompleted*XPPerMaterial +
		videosWatched*XPPerVideo +
		quizzesCompleted*XPPerQuizCompleted +
		quizzesPassed*XPPerQuizPassed +
		achievementsCount*XPPerAchievement
}

type UserLevel struct {
	Level          int `json:"level"`
	CurrentLevelXP int `json:"currentLevelXp"` // 当前等级的经验下限
	NextLevelXP    int `json:"nextLevelXp"`    // 升级所需的累计经验
	Progress       int `json:"progress"`       // 当前等级内进度 0-100
}

// CalculateUserLevel 由累计经验值推算等级。
// 每级门槛按20%递增并取整后再累加，曲线严格递增，循环必然终止。
func CalculateUserLevel(xp int) UserLevel {
	if xp < 0 {
		xp = 0
	}

	level := 1
	xpRequired := levelBaseXP
	cumulative := 0

	for xp >= cumulative+xpRequired {
		cumulative += xpRequired
		level++
		xpRequired = int(math.Round(float64(xpRequired) * levelGrowthRate))
	}

	progress := int(math.Round(float64(xp-cumulative) / float64(xpRequired) * 100))

	return UserLevel{
		Level:          level,
		CurrentLevelXP: cumulative,
		NextLevelXP:    cumulative + xpRequired,
		Progress:       progress,
	}
}
