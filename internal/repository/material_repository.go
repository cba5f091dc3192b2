package repository

import (
	"trade_edu_backend/internal/model"

	"gorm.io/gorm"
)

type MaterialRepository struct {
	DB *gorm.DB
}

func NewMaterialRepository(db *gorm.DB) *MaterialRepository {
	return &MaterialRepository{DB: db}
}

func (r *MaterialRepository) Create(m *model.LearningMaterial) error {
	return r.DB.Create(m).Error
}

func (r *MaterialRepository) FindByID(id string) (*model.LearningMaterial, error) {
	var m model.LearningMaterial
	err := r.DB.Where("id = ?", id).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MaterialRepository) Update(m *model.LearningMaterial) error {
	return r.DB.Save(m).Error
}

func (r *MaterialRepository) Delete(id string) error {
	return r.DB.Where("id = ?", id).Delete(&model.LearningMaterial{}).Error
}

func (r *MaterialRepository) List(page, limit int, category string, materialType model.MaterialType) ([]model.LearningMaterial, int64, error) {
	var materials []model.LearningMaterial
	var total int64

	query := r.DB.Model(&model.LearningMaterial{}).Where("is_published = ?", true)
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if materialType != "" {
		query = query.Where("type = ?", materialType)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&materials).Error
	return materials, total, err
}
