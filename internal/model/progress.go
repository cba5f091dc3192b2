package model

import "time"

// MaterialCompletion 用户完成一份学习资料的记录
// 冗余存储 MaterialType，统计文章/视频计数时免去关联查询
type MaterialCompletion struct {
	BaseModel
	UserID       uint         `gorm:"index;type:bigint unsigned" json:"userId"`
	MaterialID   string       `gorm:"index;type:varchar(36)" json:"materialId"`
	MaterialType MaterialType `gorm:"size:20;index" json:"materialType"`
	CompletedAt  time.Time    `json:"completedAt"`
}

func (MaterialCompletion) TableName() string {
	return "material_completions"
}
