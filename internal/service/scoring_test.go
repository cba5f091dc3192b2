package service

import (
	"testing"
	"trade_edu_backend/internal/model"
)

func question(id uint, answer string, points int) model.Question {
	q := model.Question{
		QuestionType: model.QuestionMultipleChoice,
		Answer:       answer,
		Points:       points,
	}
	q.ID = id
	return q
}

func TestScoreAnswers(t *testing.T) {
	questions := []model.Question{
		question(1, "A", 1),
		question(2, "B", 1),
		question(3, "true", 2),
	}

	tests := []struct {
		name         string
		questions    []model.Question
		answers      []SubmittedAnswer
		passingScore int
		wantScore    int
		wantPassed   bool
		wantEarned   int
		wantTotal    int
	}{
		{
			name:      "all correct",
			questions: questions,
			answers: []SubmittedAnswer{
				{QuestionID: 1, Answer: "A"},
				{QuestionID: 2, Answer: "B"},
				{QuestionID: 3, Answer: "true"},
			},
			passingScore: 70,
			wantScore:    100,
			wantPassed:   true,
			wantEarned:   4,
			wantTotal:    4,
		},
		{
			name:      "partially correct with point weighting",
			questions: questions,
			answers: []SubmittedAnswer{
				{QuestionID: 1, Answer: "A"},
				{QuestionID: 2, Answer: "C"},
				{QuestionID: 3, Answer: "true"},
			},
			passingScore: 70,
			wantScore:    75, // 3 of 4 points
			wantPassed:   true,
			wantEarned:   3,
			wantTotal:    4,
		},
		{
			name:      "unanswered questions not counted",
			questions: questions,
			answers: []SubmittedAnswer{
				{QuestionID: 1, Answer: "A"},
			},
			passingScore: 70,
			wantScore:    100, // only the answered question enters the denominator
			wantPassed:   true,
			wantEarned:   1,
			wantTotal:    1,
		},
		{
			name:      "unknown question ids ignored",
			questions: questions,
			answers: []SubmittedAnswer{
				{QuestionID: 99, Answer: "A"},
				{QuestionID: 1, Answer: "X"},
			},
			passingScore: 70,
			wantScore:    0,
			wantPassed:   false,
			wantEarned:   0,
			wantTotal:    1,
		},
		{
			name:         "no answers scores zero",
			questions:    questions,
			answers:      nil,
			passingScore: 70,
			wantScore:    0,
			wantPassed:   false,
		},
		{
			name:         "zero denominator with zero passing score still passes",
			questions:    questions,
			answers:      nil,
			passingScore: 0,
			wantScore:    0,
			wantPassed:   true,
		},
		{
			name:      "rounding to nearest integer",
			questions: []model.Question{question(1, "A", 1), question(2, "B", 1), question(3, "C", 1)},
			answers: []SubmittedAnswer{
				{QuestionID: 1, Answer: "A"},
				{QuestionID: 2, Answer: "X"},
				{QuestionID: 3, Answer: "X"},
			},
			passingScore: 70,
			wantScore:    33, // 1/3 -> 33.33 -> 33
			wantPassed:   false,
			wantEarned:   1,
			wantTotal:    3,
		},
		{
			name:      "exact passing score passes",
			questions: []model.Question{question(1, "A", 1), question(2, "B", 1)},
			answers: []SubmittedAnswer{
				{QuestionID: 1, Answer: "A"},
				{QuestionID: 2, Answer: "X"},
			},
			passingScore: 50,
			wantScore:    50,
			wantPassed:   true,
			wantEarned:   1,
			wantTotal:    2,
		},
		{
			name:      "answers are case sensitive",
			questions: []model.Question{question(1, "True", 1)},
			answers: []SubmittedAnswer{
				{QuestionID: 1, Answer: "true"},
			},
			passingScore: 70,
			wantScore:    0,
			wantPassed:   false,
			wantTotal:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreAnswers(tt.questions, tt.answers, tt.passingScore)
			if got.Score != tt.wantScore {
				t.Errorf("Score = %d, want %d", got.Score, tt.wantScore)
			}
			if got.Passed != tt.wantPassed {
				t.Errorf("Passed = %v, want %v", got.Passed, tt.wantPassed)
			}
			if got.EarnedPoints != tt.wantEarned {
				t.Errorf("EarnedPoints = %d, want %d", got.EarnedPoints, tt.wantEarned)
			}
			if got.TotalPoints != tt.wantTotal {
				t.Errorf("TotalPoints = %d, want %d", got.TotalPoints, tt.wantTotal)
			}
		})
	}
}
