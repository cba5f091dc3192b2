package database

import (
	"encoding/json"
	"fmt"
	"log"
	"trade_edu_backend/internal/config"
	"trade_edu_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.Quiz{},
		&model.Question{},
		&model.QuizAttempt{},
		&model.Achievement{},
		&model.LearningMaterial{},
		&model.MaterialCompletion{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	seedDefaultQuizzes(db)

	return db, nil
}

// 空库时写入一套入门测验，方便新环境直接可用
func seedDefaultQuizzes(db *gorm.DB) {
	var count int64
	db.Model(&model.Quiz{}).Count(&count)
	if count > 0 {
		return
	}

	quiz := &model.Quiz{
		Title:        "K线图基础",
		Description:  "蜡烛图形态与基本读图能力",
		Category:     "candlesticks",
		Difficulty:   model.DifficultyBeginner,
		PassingScore: 70,
		IsPublished:  true,
	}
	if err := db.Create(quiz).Error; err != nil {
		return
	}

	mcOptions, _ := json.Marshal([]string{"开盘价", "收盘价", "最高价", "成交量"})
	tfOptions, _ := json.Marshal([]string{"true", "false"})

	questions := []model.Question{
		{
			QuizID:       quiz.ID,
			QuestionType: model.QuestionMultipleChoice,
			Content:      "阳线实体的顶部表示哪一个价格？",
			Options:      mcOptions,
			Answer:       "收盘价",
			Points:       2,
			Order:        1,
			Explanation:  "阳线收盘高于开盘，实体顶部即收盘价。",
		},
		{
			QuizID:       quiz.ID,
			QuestionType: model.QuestionTrueFalse,
			Content:      "十字星形态通常意味着多空力量接近平衡。",
			Options:      tfOptions,
			Answer:       "true",
			Points:       1,
			Order:        2,
		},
	}
	for i := range questions {
		db.Create(&questions[i])
	}
}
