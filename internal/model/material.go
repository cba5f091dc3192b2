package model

type MaterialType string

const (
	MaterialArticle MaterialType = "article"
	MaterialVideo   MaterialType = "video"
)

// LearningMaterial 学习资料（文章/视频），由导师或管理员上传
// swagger:model LearningMaterial
type LearningMaterial struct {
	UUIDBase
	Title           string       `gorm:"size:255;not null" json:"title"`
	Description     string       `gorm:"type:text" json:"description"`
	Category        string       `gorm:"size:100;index" json:"category"`
	Type            MaterialType `gorm:"size:20;not null" json:"type"`
	URL             string       `gorm:"size:500" json:"url"`
	DurationSeconds float64      `gorm:"default:0" json:"durationSeconds"` // 视频时长
	UploaderID      uint         `gorm:"index;type:bigint unsigned" json:"uploaderId"`
	IsPublished     bool         `gorm:"default:true" json:"isPublished"`
}

func (LearningMaterial) TableName() string {
	return "learning_materials"
}
