package model

import "encoding/json"

type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionTrueFalse      QuestionType = "true_false"
)

// Question 测验题目，始终属于一个 Quiz
// swagger:model Question
type Question struct {
	BaseModel
	QuizID       uint            `gorm:"index;type:bigint unsigned" json:"quizId"`
	QuestionType QuestionType    `gorm:"size:50;not null" json:"questionType"`
	Content      string          `gorm:"type:text;not null" json:"content"`
	Options      json.RawMessage `gorm:"type:json" json:"options,omitempty"` // 有序选项列表（选择题）
	Answer       string          `gorm:"type:text" json:"answer"`
	Points       int             `gorm:"default:1" json:"points"` // 分值，>= 1
	Order        int             `gorm:"default:0" json:"order"`
	Explanation  string          `gorm:"type:text" json:"explanation"`
}

func (Question) TableName() string {
	return "questions"
}
