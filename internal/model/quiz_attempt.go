package model

import (
	"time"
)

// QuizAttempt 一次测验提交的完整记录，创建后不再修改（追加式历史）
// swagger:model QuizAttempt
type QuizAttempt struct {
	BaseModel
	UserID           uint            `gorm:"index;type:bigint unsigned" json:"userId"`
	QuizID           uint            `gorm:"index;type:bigint unsigned" json:"quizId"`
	Score            int             `gorm:"not null" json:"score"` // 0-100
	Passed           bool            `gorm:"default:false" json:"passed"`
	Answers          map[uint]string `gorm:"serializer:json" json:"answers"` // 题目ID -> 提交答案
	StartedAt        time.Time       `json:"startedAt"`
	CompletedAt      time.Time       `json:"completedAt"`
	TotalTimeSeconds int             `gorm:"default:0" json:"totalTimeSeconds"`
	ExperiencePoints int             `gorm:"default:0" json:"experiencePoints"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
