package repository

import (
	"trade_edu_backend/internal/model"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) CreateCompletion(c *model.MaterialCompletion) error {
	return r.DB.Create(c).Error
}

func (r *ProgressRepository) HasCompletion(userID uint, materialID string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.MaterialCompletion{}).
		Where("user_id = ? AND material_id = ?", userID, materialID).
		Count(&count).Error
	return count > 0, err
}

func (r *ProgressRepository) CountByUserAndType(userID uint, materialType model.MaterialType) (int64, error) {
	var count int64
	err := r.DB.Model(&model.MaterialCompletion{}).
		Where("user_id = ? AND material_type = ?", userID, materialType).
		Count(&count).Error
	return count, err
}
