package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"trade_edu_backend/internal/model"
	"trade_edu_backend/internal/repository"
	"trade_edu_backend/internal/util"
	"trade_edu_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ContentService struct {
	MaterialRepo *repository.MaterialRepository
	Storage      *StorageService
}

func NewContentService(materialRepo *repository.MaterialRepository, storage *StorageService) *ContentService {
	return &ContentService{
		MaterialRepo: materialRepo,
		Storage:      storage,
	}
}

type MaterialUploadRequest struct {
	Title       string             `form:"title" binding:"required"`
	Description string             `form:"description"`
	Category    string             `form:"category"`
	Type        model.MaterialType `form:"type" binding:"required"`
}

// CreateMaterial 上传学习资料。视频先用 ffprobe 读取时长，探测失败不阻塞上传。
func (s *ContentService) CreateMaterial(ctx context.Context, uploaderID uint, req MaterialUploadRequest, localPath, filename, contentType string) (*model.LearningMaterial, error) {
	var duration float64
	if req.Type == model.MaterialVideo {
		if info, err := util.ProbeVideo(localPath); err == nil {
			duration = info.Duration
		} else {
			logger.Log.Warn("video probe failed", zap.String("file", filename), zap.Error(err))
		}
	}

	f, err := os.Open(localPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}

	objectName := fmt.Sprintf("materials/%s%s", model.GenerateUUID(), filepath.Ext(filename))
	url, err := s.Storage.Upload(ctx, objectName, f, stat.Size(), contentType)
	if err != nil {
		return nil, err
	}

	material := &model.LearningMaterial{
		Title:           req.Title,
		Description:     req.Description,
		Category:        req.Category,
		Type:            req.Type,
		URL:             url,
		DurationSeconds: duration,
		UploaderID:      uploaderID,
		IsPublished:     true,
	}
	if err := s.MaterialRepo.Create(material); err != nil {
		return nil, err
	}
	return material, nil
}

func (s *ContentService) GetMaterial(id string) (*model.LearningMaterial, error) {
	material, err := s.MaterialRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrMaterialNotFound
		}
		return nil, err
	}
	return material, nil
}

func (s *ContentService) ListMaterials(page, limit int, category string, materialType model.MaterialType) ([]model.LearningMaterial, int64, error) {
	return s.MaterialRepo.List(page, limit, category, materialType)
}

func (s *ContentService) DeleteMaterial(id string) error {
	return s.MaterialRepo.Delete(id)
}
