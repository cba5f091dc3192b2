package model

type QuizDifficulty string

const (
	DifficultyBeginner     QuizDifficulty = "beginner"
	DifficultyIntermediate QuizDifficulty = "intermediate"
	DifficultyAdvanced     QuizDifficulty = "advanced"
)

// DifficultyMultiplier 难度系数：得分换算经验值时使用
func (d QuizDifficulty) Multiplier() float64 {
	switch d {
	case DifficultyIntermediate:
		return 1.5
	case DifficultyAdvanced:
		return 2.0
	default:
		return 1.0
	}
}

// swagger:model Quiz
type Quiz struct {
	BaseModel
	Title        string         `gorm:"size:255;not null" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	Category     string         `gorm:"size:100;index" json:"category"` // candlesticks, risk_management, options ...
	Difficulty   QuizDifficulty `gorm:"size:20;default:'beginner'" json:"difficulty"`
	PassingScore int            `gorm:"default:70" json:"passingScore"` // 及格线（百分比）
	IsPublished  bool           `gorm:"default:false" json:"isPublished"`
	CreatorID    uint           `gorm:"index;type:bigint unsigned" json:"creatorId"`
}

func (Quiz) TableName() string {
	return "quizzes"
}
