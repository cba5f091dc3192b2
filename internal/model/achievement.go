package model

type AchievementType string

const (
	AchievementPerfectScore     AchievementType = "quiz_perfect_score"
	AchievementQuickCompletion  AchievementType = "quiz_quick_completion"
	AchievementFirstAttemptPass AchievementType = "quiz_first_attempt_pass"
)

// Achievement 成就记录，由测验提交触发的规则产生，同类型可重复累积
type Achievement struct {
	BaseModel
	UserID      uint            `gorm:"index;type:bigint unsigned" json:"userId"`
	Type        AchievementType `gorm:"size:50;not null;index" json:"type"`
	Description string          `gorm:"size:255" json:"description"`
	Points      int             `gorm:"default:0" json:"points"`
	BadgeID     string          `gorm:"size:100" json:"badgeId"`
}

func (Achievement) TableName() string {
	return "achievements"
}
