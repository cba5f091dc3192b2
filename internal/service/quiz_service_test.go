package service

import (
	"testing"
	"time"
	"trade_edu_backend/internal/model"
	"trade_edu_backend/internal/repository"
	"trade_edu_backend/internal/util"
	"trade_edu_backend/pkg/logger"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// newTestDB 打开一个内存 sqlite 库并迁移测试需要的表
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	logger.Log = zap.NewNop()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	// 内存库随连接销毁，限制为单连接避免表丢失
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&model.User{},
		&model.Quiz{},
		&model.Question{},
		&model.QuizAttempt{},
		&model.Achievement{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func newTestQuizService(t *testing.T) (*QuizService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := NewQuizService(
		repository.NewQuizRepository(db),
		repository.NewQuizAttemptRepository(db),
		repository.NewAchievementRepository(db),
		repository.NewUserRepository(db),
	)
	return svc, db
}

func seedUser(t *testing.T, db *gorm.DB) *model.User {
	t.Helper()
	user := &model.User{
		Name:     "学员小王",
		Email:    "student@example.com",
		Password: "hashed",
		Role:     model.Student,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedQuiz(t *testing.T, db *gorm.DB, difficulty model.QuizDifficulty, passingScore int) *model.Quiz {
	t.Helper()
	quiz := &model.Quiz{
		Title:        "K线形态入门",
		Category:     "candlesticks",
		Difficulty:   difficulty,
		PassingScore: passingScore,
		IsPublished:  true,
	}
	if err := db.Create(quiz).Error; err != nil {
		t.Fatalf("seed quiz: %v", err)
	}

	questions := []model.Question{
		{QuizID: quiz.ID, QuestionType: model.QuestionMultipleChoice, Content: "锤子线出现在哪种趋势末端？", Answer: "下跌趋势", Points: 1, Order: 1},
		{QuizID: quiz.ID, QuestionType: model.QuestionTrueFalse, Content: "十字星代表多空力量均衡", Answer: "true", Points: 1, Order: 2},
	}
	for i := range questions {
		if err := db.Create(&questions[i]).Error; err != nil {
			t.Fatalf("seed question: %v", err)
		}
	}
	return quiz
}

func submission(answers map[uint]string, startedAgo time.Duration) AttemptSubmissionRequest {
	req := AttemptSubmissionRequest{StartedAt: time.Now().Add(-startedAgo)}
	for id, ans := range answers {
		req.Answers = append(req.Answers, SubmittedAnswer{QuestionID: id, Answer: ans})
	}
	return req
}

func achievementTypes(result *AchievementResult) map[model.AchievementType]bool {
	types := make(map[model.AchievementType]bool)
	for _, a := range result.Awarded {
		types[a.Type] = true
	}
	return types
}

func TestSubmitAttemptPerfectFirstTry(t *testing.T) {
	svc, db := newTestQuizService(t)
	user := seedUser(t, db)
	quiz := seedQuiz(t, db, model.DifficultyBeginner, 70)

	var questions []model.Question
	if err := db.Where("quiz_id = ?", quiz.ID).Order("`order` asc").Find(&questions).Error; err != nil {
		t.Fatalf("load questions: %v", err)
	}

	req := submission(map[uint]string{
		questions[0].ID: "下跌趋势",
		questions[1].ID: "true",
	}, 30*time.Second)

	attempt, achievements, err := svc.SubmitAttempt(user.ID, quiz.ID, req)
	if err != nil {
		t.Fatalf("SubmitAttempt: %v", err)
	}

	if attempt.Score != 100 {
		t.Errorf("Score = %d, want 100", attempt.Score)
	}
	if !attempt.Passed {
		t.Error("Passed = false, want true")
	}
	if attempt.ExperiencePoints != 100 {
		t.Errorf("ExperiencePoints = %d, want 100 (beginner multiplier 1.0)", attempt.ExperiencePoints)
	}

	if achievements.Err != nil {
		t.Fatalf("achievement evaluation error: %v", achievements.Err)
	}
	types := achievementTypes(achievements)
	for _, want := range []model.AchievementType{
		model.AchievementPerfectScore,
		model.AchievementQuickCompletion,
		model.AchievementFirstAttemptPass,
	} {
		if !types[want] {
			t.Errorf("missing achievement %s, awarded: %v", want, achievements.Awarded)
		}
	}

	// 经验累加：100（提交）+ 50 + 30 + 40（成就）
	var refreshed model.User
	if err := db.First(&refreshed, user.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if refreshed.XP != 220 {
		t.Errorf("user XP = %d, want 220", refreshed.XP)
	}
}

func TestSubmitAttemptDifficultyMultiplier(t *testing.T) {
	svc, db := newTestQuizService(t)
	user := seedUser(t, db)
	quiz := seedQuiz(t, db, model.DifficultyAdvanced, 70)

	var questions []model.Question
	if err := db.Where("quiz_id = ?", quiz.ID).Find(&questions).Error; err != nil {
		t.Fatalf("load questions: %v", err)
	}

	req := submission(map[uint]string{
		questions[0].ID: "下跌趋势",
		questions[1].ID: "false",
	}, 30*time.Second)

	attempt, _, err := svc.SubmitAttempt(user.ID, quiz.ID, req)
	if err != nil {
		t.Fatalf("SubmitAttempt: %v", err)
	}
	if attempt.Score != 50 {
		t.Fatalf("Score = %d, want 50", attempt.Score)
	}
	if attempt.ExperiencePoints != 100 {
		t.Errorf("ExperiencePoints = %d, want 100 (50 * 2.0)", attempt.ExperiencePoints)
	}
	if attempt.Passed {
		t.Error("Passed = true, want false")
	}
}

func TestSubmitAttemptSecondTryNoFirstPassBadge(t *testing.T) {
	svc, db := newTestQuizService(t)
	user := seedUser(t, db)
	quiz := seedQuiz(t, db, model.DifficultyBeginner, 70)

	var questions []model.Question
	if err := db.Where("quiz_id = ?", quiz.ID).Find(&questions).Error; err != nil {
		t.Fatalf("load questions: %v", err)
	}

	perfect := map[uint]string{
		questions[0].ID: "下跌趋势",
		questions[1].ID: "true",
	}

	if _, _, err := svc.SubmitAttempt(user.ID, quiz.ID, submission(perfect, 30*time.Second)); err != nil {
		t.Fatalf("first attempt: %v", err)
	}

	_, achievements, err := svc.SubmitAttempt(user.ID, quiz.ID, submission(perfect, 30*time.Second))
	if err != nil {
		t.Fatalf("second attempt: %v", err)
	}

	types := achievementTypes(achievements)
	if types[model.AchievementFirstAttemptPass] {
		t.Error("first-attempt-pass awarded on second attempt")
	}
	if !types[model.AchievementPerfectScore] {
		t.Error("perfect-score should still be awarded on second attempt")
	}
}

func TestSubmitAttemptSlowPassNoQuickBadge(t *testing.T) {
	svc, db := newTestQuizService(t)
	user := seedUser(t, db)
	quiz := seedQuiz(t, db, model.DifficultyBeginner, 70)

	var questions []model.Question
	if err := db.Where("quiz_id = ?", quiz.ID).Find(&questions).Error; err != nil {
		t.Fatalf("load questions: %v", err)
	}

	req := submission(map[uint]string{
		questions[0].ID: "下跌趋势",
		questions[1].ID: "true",
	}, 5*time.Minute)

	attempt, achievements, err := svc.SubmitAttempt(user.ID, quiz.ID, req)
	if err != nil {
		t.Fatalf("SubmitAttempt: %v", err)
	}
	if attempt.TotalTimeSeconds < 120 {
		t.Fatalf("TotalTimeSeconds = %d, expected >= 120", attempt.TotalTimeSeconds)
	}
	if achievementTypes(achievements)[model.AchievementQuickCompletion] {
		t.Error("quick-completion awarded despite slow attempt")
	}
}

func TestSubmitAttemptErrors(t *testing.T) {
	svc, db := newTestQuizService(t)
	user := seedUser(t, db)
	quiz := seedQuiz(t, db, model.DifficultyBeginner, 70)

	if _, _, err := svc.SubmitAttempt(0, quiz.ID, submission(nil, time.Second)); err != util.ErrUnauthenticated {
		t.Errorf("userID 0: err = %v, want ErrUnauthenticated", err)
	}

	if _, _, err := svc.SubmitAttempt(user.ID, 9999, submission(nil, time.Second)); err != util.ErrQuizNotFound {
		t.Errorf("unknown quiz: err = %v, want ErrQuizNotFound", err)
	}
}

func TestSubmitAttemptPersistsRecord(t *testing.T) {
	svc, db := newTestQuizService(t)
	user := seedUser(t, db)
	quiz := seedQuiz(t, db, model.DifficultyBeginner, 70)

	var questions []model.Question
	if err := db.Where("quiz_id = ?", quiz.ID).Find(&questions).Error; err != nil {
		t.Fatalf("load questions: %v", err)
	}

	req := submission(map[uint]string{
		questions[0].ID: "下跌趋势",
		questions[1].ID: "false",
	}, 45*time.Second)

	attempt, _, err := svc.SubmitAttempt(user.ID, quiz.ID, req)
	if err != nil {
		t.Fatalf("SubmitAttempt: %v", err)
	}

	stored, err := svc.GetAttempt(attempt.ID)
	if err != nil {
		t.Fatalf("GetAttempt: %v", err)
	}
	if stored.Score != attempt.Score || stored.Passed != attempt.Passed {
		t.Errorf("stored attempt = %d/%v, want %d/%v", stored.Score, stored.Passed, attempt.Score, attempt.Passed)
	}
	if stored.Answers[questions[0].ID] != "下跌趋势" {
		t.Errorf("stored answer = %q, want %q", stored.Answers[questions[0].ID], "下跌趋势")
	}

	attempts, total, err := svc.ListUserAttempts(user.ID, 1, 10)
	if err != nil {
		t.Fatalf("ListUserAttempts: %v", err)
	}
	if total != 1 || len(attempts) != 1 {
		t.Errorf("ListUserAttempts = %d records (total %d), want 1", len(attempts), total)
	}
}

func TestListStudentQuestionsHidesAnswers(t *testing.T) {
	svc, db := newTestQuizService(t)
	quiz := seedQuiz(t, db, model.DifficultyBeginner, 70)

	questions, err := svc.ListStudentQuestions(quiz.ID)
	if err != nil {
		t.Fatalf("ListStudentQuestions: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("got %d questions, want 2", len(questions))
	}

	unpublished, err := svc.CreateQuiz(1, QuizRequest{Title: "草稿测验"})
	if err != nil {
		t.Fatalf("CreateQuiz: %v", err)
	}
	if _, err := svc.ListStudentQuestions(unpublished.ID); err != util.ErrQuizNotPublished {
		t.Errorf("unpublished quiz: err = %v, want ErrQuizNotPublished", err)
	}
}
