package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"
	"trade_edu_backend/internal/model"
	"trade_edu_backend/internal/repository"
	"trade_edu_backend/internal/util"
	"trade_edu_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type QuizService struct {
	QuizRepo        *repository.QuizRepository
	AttemptRepo     *repository.QuizAttemptRepository
	AchievementRepo *repository.AchievementRepository
	UserRepo        *repository.UserRepository
}

func NewQuizService(
	quizRepo *repository.QuizRepository,
	attemptRepo *repository.QuizAttemptRepository,
	achievementRepo *repository.AchievementRepository,
	userRepo *repository.UserRepository,
) *QuizService {
	return &QuizService{
		QuizRepo:        quizRepo,
		AttemptRepo:     attemptRepo,
		AchievementRepo: achievementRepo,
		UserRepo:        userRepo,
	}
}

type QuizRequest struct {
	Title        string               `json:"title" binding:"required"`
	Description  string               `json:"description"`
	Category     string               `json:"category"`
	Difficulty   model.QuizDifficulty `json:"difficulty"`
	PassingScore int                  `json:"passingScore"`
	IsPublished  bool                 `json:"isPublished"`
}

func (s *QuizService) CreateQuiz(creatorID uint, req QuizRequest) (*model.Quiz, error) {
	quiz := &model.Quiz{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Difficulty:   req.Difficulty,
		PassingScore: req.PassingScore,
		IsPublished:  req.IsPublished,
		CreatorID:    creatorID,
	}
	if quiz.Difficulty == "" {
		quiz.Difficulty = model.DifficultyBeginner
	}
	if err := s.QuizRepo.CreateQuiz(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) UpdateQuiz(id uint, req QuizRequest) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindQuizByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}

	quiz.Title = req.Title
	quiz.Description = req.Description
	quiz.Category = req.Category
	if req.Difficulty != "" {
		quiz.Difficulty = req.Difficulty
	}
	quiz.PassingScore = req.PassingScore
	quiz.IsPublished = req.IsPublished

	if err := s.QuizRepo.UpdateQuiz(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) DeleteQuiz(id uint) error {
	return s.QuizRepo.DeleteQuiz(id)
}

func (s *QuizService) ListQuizzes(page, limit int, publishedOnly bool, category string) ([]model.Quiz, int64, error) {
	return s.QuizRepo.ListQuizzes(page, limit, publishedOnly, category)
}

func (s *QuizService) GetQuiz(id uint) (*model.Quiz, []model.Question, error) {
	quiz, err := s.QuizRepo.FindQuizByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrQuizNotFound
		}
		return nil, nil, err
	}
	questions, err := s.QuizRepo.ListQuestions(id)
	return quiz, questions, err
}

type QuestionRequest struct {
	QuestionType model.QuestionType `json:"questionType" binding:"required"`
	Content      string             `json:"content" binding:"required"`
	Options      json.RawMessage    `json:"options"`
	Answer       string             `json:"answer" binding:"required"`
	Points       int                `json:"points"`
	Order        int                `json:"order"`
	Explanation  string             `json:"explanation"`
}

func (s *QuizService) CreateQuestion(quizID uint, req QuestionRequest) (*model.Question, error) {
	if _, err := s.QuizRepo.FindQuizByID(quizID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}

	q := &model.Question{
		QuizID:       quizID,
		QuestionType: req.QuestionType,
		Content:      req.Content,
		Options:      req.Options,
		Answer:       req.Answer,
		Points:       req.Points,
		Order:        req.Order,
		Explanation:  req.Explanation,
	}
	if q.Points < 1 {
		q.Points = 1
	}
	if err := s.QuizRepo.CreateQuestion(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuizService) UpdateQuestion(id uint, req QuestionRequest) (*model.Question, error) {
	q, err := s.QuizRepo.FindQuestionByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}

	q.QuestionType = req.QuestionType
	q.Content = req.Content
	q.Options = req.Options
	q.Answer = req.Answer
	q.Points = req.Points
	q.Order = req.Order
	q.Explanation = req.Explanation
	if q.Points < 1 {
		q.Points = 1
	}
	if err := s.QuizRepo.UpdateQuestion(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuizService) DeleteQuestion(id uint) error {
	return s.QuizRepo.DeleteQuestion(id)
}

// StudentQuestion 学生视图：不包含答案与解析
type StudentQuestion struct {
	ID           uint               `json:"id"`
	QuestionType model.QuestionType `json:"questionType"`
	Content      string             `json:"content"`
	Options      json.RawMessage    `json:"options,omitempty"`
	Points       int                `json:"points"`
	Order        int                `json:"order"`
}

func (s *QuizService) ListStudentQuestions(quizID uint) ([]StudentQuestion, error) {
	quiz, err := s.QuizRepo.FindQuizByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	if !quiz.IsPublished {
		return nil, util.ErrQuizNotPublished
	}

	qs, err := s.QuizRepo.ListQuestions(quizID)
	if err != nil {
		return nil, err
	}

	res := make([]StudentQuestion, len(qs))
	for i, q := range qs {
		res[i] = StudentQuestion{
			ID:           q.ID,
			QuestionType: q.QuestionType,
			Content:      q.Content,
			Options:      q.Options,
			Points:       q.Points,
			Order:        q.Order,
		}
	}
	return res, nil
}

type AttemptSubmissionRequest struct {
	Answers   []SubmittedAnswer `json:"answers" binding:"required"`
	StartedAt time.Time         `json:"startedAt" binding:"required"`
}

// AchievementResult 成就评估的结果。Err 不为空表示评估过程出过错，
// 但绝不影响已落库的提交记录，调用方可以选择查看。
type AchievementResult struct {
	Awarded []model.Achievement `json:"awarded"`
	Err     error               `json:"-"`
}

// SubmitAttempt 记录一次测验提交：
// 评分 -> 按难度换算经验 -> 落库 -> 尽力而为的成就评估与用户经验累加。
// 落库之前的任何错误都直接返回，之后的错误只记日志。
func (s *QuizService) SubmitAttempt(userID uint, quizID uint, req AttemptSubmissionRequest) (*model.QuizAttempt, *AchievementResult, error) {
	if userID == 0 {
		return nil, nil, util.ErrUnauthenticated
	}

	quiz, err := s.QuizRepo.FindQuizByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrQuizNotFound
		}
		return nil, nil, err
	}

	questions, err := s.QuizRepo.ListQuestions(quizID)
	if err != nil {
		return nil, nil, err
	}

	result := ScoreAnswers(questions, req.Answers, quiz.PassingScore)

	completedAt := time.Now()
	elapsed := int(completedAt.Sub(req.StartedAt).Seconds())
	if elapsed < 0 {
		elapsed = 0
	}

	experiencePoints := int(math.Round(float64(result.Score) * quiz.Difficulty.Multiplier()))

	answerMap := make(map[uint]string, len(req.Answers))
	for _, ans := range req.Answers {
		answerMap[ans.QuestionID] = ans.Answer
	}

	attempt := &model.QuizAttempt{
		UserID:           userID,
		QuizID:           quizID,
		Score:            result.Score,
		Passed:           result.Passed,
		Answers:          answerMap,
		StartedAt:        req.StartedAt,
		CompletedAt:      completedAt,
		TotalTimeSeconds: elapsed,
		ExperiencePoints: experiencePoints,
	}

	if err := s.AttemptRepo.Create(attempt); err != nil {
		return nil, nil, fmt.Errorf("persist attempt: %w", err)
	}

	achievements := s.evaluateAchievements(attempt, quiz)

	// 经验累加同样是旁路操作，失败不回滚提交
	totalXP := attempt.ExperiencePoints
	for _, a := range achievements.Awarded {
		totalXP += a.Points
	}
	if totalXP > 0 {
		if err := s.UserRepo.UpdateXP(userID, totalXP); err != nil {
			logger.Log.Error("failed to update user xp after attempt",
				zap.Uint("userId", userID),
				zap.Uint("attemptId", attempt.ID),
				zap.Error(err))
		}
	}

	return attempt, achievements, nil
}

// evaluateAchievements 对照固定规则集评估一次提交，规则相互独立可同时命中。
// 任何查询或写入失败只记日志并记入结果，不向上传播。
func (s *QuizService) evaluateAchievements(attempt *model.QuizAttempt, quiz *model.Quiz) *AchievementResult {
	res := &AchievementResult{}

	award := func(t model.AchievementType, points int, description, badgeID string) {
		achievement := &model.Achievement{
			UserID:      attempt.UserID,
			Type:        t,
			Description: description,
			Points:      points,
			BadgeID:     badgeID,
		}
		if err := s.AchievementRepo.Create(achievement); err != nil {
			logger.Log.Error("failed to award achievement",
				zap.String("type", string(t)),
				zap.Uint("userId", attempt.UserID),
				zap.Error(err))
			if res.Err == nil {
				res.Err = err
			}
			return
		}
		res.Awarded = append(res.Awarded, *achievement)
	}

	if attempt.Score == 100 {
		award(model.AchievementPerfectScore, 50,
			fmt.Sprintf("Scored 100%% on %q", quiz.Title), "perfect-score")
	}

	if attempt.TotalTimeSeconds < 120 && attempt.Passed {
		award(model.AchievementQuickCompletion, 30,
			fmt.Sprintf("Passed %q in under two minutes", quiz.Title), "quick-completion")
	}

	prior, err := s.AttemptRepo.CountPrior(attempt.UserID, attempt.QuizID, attempt.ID)
	if err != nil {
		logger.Log.Error("failed to query attempt history",
			zap.Uint("userId", attempt.UserID),
			zap.Uint("quizId", attempt.QuizID),
			zap.Error(err))
		if res.Err == nil {
			res.Err = err
		}
	} else if prior == 0 && attempt.Passed {
		award(model.AchievementFirstAttemptPass, 40,
			fmt.Sprintf("Passed %q on the first attempt", quiz.Title), "first-attempt-pass")
	}

	return res
}

func (s *QuizService) GetAttempt(id uint) (*model.QuizAttempt, error) {
	attempt, err := s.AttemptRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}
	return attempt, nil
}

func (s *QuizService) ListUserAttempts(userID uint, page, limit int) ([]model.QuizAttempt, int64, error) {
	return s.AttemptRepo.ListByUser(userID, page, limit)
}
