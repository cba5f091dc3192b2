package service

import (
	"errors"
	"time"
	"trade_edu_backend/internal/model"
	"trade_edu_backend/internal/repository"
	"trade_edu_backend/internal/util"
	"trade_edu_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ProgressService struct {
	ProgressRepo    *repository.ProgressRepository
	MaterialRepo    *repository.MaterialRepository
	AttemptRepo     *repository.QuizAttemptRepository
	AchievementRepo *repository.AchievementRepository
	UserRepo        *repository.UserRepository
}

func NewProgressService(
	progressRepo *repository.ProgressRepository,
	materialRepo *repository.MaterialRepository,
	attemptRepo *repository.QuizAttemptRepository,
	achievementRepo *repository.AchievementRepository,
	userRepo *repository.UserRepository,
) *ProgressService {
	return &ProgressService{
		ProgressRepo:    progressRepo,
		MaterialRepo:    materialRepo,
		AttemptRepo:     attemptRepo,
		AchievementRepo: achievementRepo,
		UserRepo:        userRepo,
	}
}

// RecordCompletion 记录资料完成。重复完成同一份资料不再记录也不再给经验。
func (s *ProgressService) RecordCompletion(userID uint, materialID string) (*model.MaterialCompletion, error) {
	material, err := s.MaterialRepo.FindByID(materialID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrMaterialNotFound
		}
		return nil, err
	}

	exists, err := s.ProgressRepo.HasCompletion(userID, materialID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, nil
	}

	completion := &model.MaterialCompletion{
		UserID:       userID,
		MaterialID:   materialID,
		MaterialType: material.Type,
		CompletedAt:  time.Now(),
	}
	if err := s.ProgressRepo.CreateCompletion(completion); err != nil {
		return nil, err
	}

	xp := XPPerMaterial
	if material.Type == model.MaterialVideo {
		xp = XPPerVideo
	}
	if err := s.UserRepo.UpdateXP(userID, xp); err != nil {
		logger.Log.Error("failed to award completion xp",
			zap.Uint("userId", userID),
			zap.String("materialId", materialID),
			zap.Error(err))
	}

	return completion, nil
}

type ProgressSummary struct {
	MaterialsCompleted int       `json:"materialsCompleted"`
	VideosWatched      int       `json:"videosWatched"`
	QuizzesCompleted   int       `json:"quizzesCompleted"`
	QuizzesPassed      int       `json:"quizzesPassed"`
	Achievements       int       `json:"achievements"`
	ExperiencePoints   int       `json:"experiencePoints"` // 按行为计数推算
	Level              UserLevel `json:"level"`
}

// GetProgress 汇总行为计数并推算经验与等级
func (s *ProgressService) GetProgress(userID uint) (*ProgressSummary, error) {
	materials, err := s.ProgressRepo.CountByUserAndType(userID, model.MaterialArticle)
	if err != nil {
		return nil, err
	}
	videos, err := s.ProgressRepo.CountByUserAndType(userID, model.MaterialVideo)
	if err != nil {
		return nil, err
	}
	completed, err := s.AttemptRepo.CountByUser(userID)
	if err != nil {
		return nil, err
	}
	passed, err := s.AttemptRepo.CountPassedByUser(userID)
	if err != nil {
		return nil, err
	}
	achievements, err := s.AchievementRepo.CountByUser(userID)
	if err != nil {
		return nil, err
	}

	xp := CalculateExperiencePoints(int(materials), int(videos), int(completed), int(passed), int(achievements))

	return &ProgressSummary{
		MaterialsCompleted: int(materials),
		VideosWatched:      int(videos),
		QuizzesCompleted:   int(completed),
		QuizzesPassed:      int(passed),
		Achievements:       int(achievements),
		ExperiencePoints:   xp,
		Level:              CalculateUserLevel(xp),
	}, nil
}
