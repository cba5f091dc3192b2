package service

import (
	"math"
	"trade_edu_backend/internal/model"
)

// SubmittedAnswer 提交时的单题作答
type SubmittedAnswer struct {
	QuestionID uint   `json:"questionId" binding:"required"`
	Answer     string `json:"answer"`
}

type ScoreResult struct {
	Score        int  `json:"score"` // 0-100，四舍五入
	Passed       bool `json:"passed"`
	EarnedPoints int  `json:"earnedPoints"`
	TotalPoints  int  `json:"totalPoints"`
}

// ScoreAnswers 对一次提交评分。
// 只遍历已作答的题目：未作答的题目不计入分母，引用未知题目ID的作答直接忽略。
// 分母为0时得分记0，避免除零。
func ScoreAnswers(questions []model.Question, answers []SubmittedAnswer, passingScore int) ScoreResult {
	questionMap := make(map[uint]model.Question, len(questions))
	for _, q := range questions {
		questionMap[q.ID] = q
	}

	earnedPoints := 0
	totalPoints := 0
	for _, ans := range answers {
		q, ok := questionMap[ans.QuestionID]
		if !ok {
			continue
		}
		totalPoints += q.Points
		if ans.Answer == q.Answer {
			earnedPoints += q.Points
		}
	}

	score := 0
	if totalPoints > 0 {
		score = int(math.Round(float64(earnedPoints) / float64(totalPoints) * 100))
	}

	return ScoreResult{
		Score:        score,
		Passed:       score >= passingScore,
		EarnedPoints: earnedPoints,
		TotalPoints:  totalPoints,
	}
}
