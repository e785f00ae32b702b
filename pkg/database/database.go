package database

import (
	"classquiz_backend/internal/config"
	"classquiz_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
		cfg.Database.Charset,
		cfg.Database.ParseTime,
	)

	logLevel := logger.Info
	if cfg.Server.Mode == "release" {
		logLevel = logger.Warn
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	// release 模式默认不自动迁移，需显式 -migrate / -migrate-only
	if cfg.Server.Mode != "release" || cfg.ForceMigrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
		log.Println("Database migration completed")
		seedDemoModule(db)
	}

	return db, nil
}

// Migrate 执行数据库迁移
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Module{},
		&model.Question{},
		&model.Attempt{},
	)
}

// seedDemoModule 空库时插入一个演示模块，方便首次部署后直接体验答题流程
func seedDemoModule(db *gorm.DB) {
	var count int64
	db.Model(&model.Module{}).Count(&count)
	if count != 0 {
		return
	}

	module := &model.Module{
		Name:      "Getting Started",
		Subject:   "General",
		TimeLimit: 2,
	}
	if err := db.Create(module).Error; err != nil {
		return
	}

	demoQuestions := []model.Question{
		{
			ModuleID: module.ID,
			Kind:     model.SingleChoice,
			Text:     "Which role can author question modules?",
			Options:  model.StringList{"student", "teacher", "guest"},
			Answer:   model.AnswerValue{Kind: model.SingleChoice, Single: 1},
			Order:    0,
		},
		{
			ModuleID:    module.ID,
			Kind:        model.TrueFalse,
			Text:        "A submitted attempt can be edited afterwards.",
			Answer:      model.AnswerValue{Kind: model.TrueFalse, Boolean: false},
			Explanation: "The attempt log is append-only.",
			Order:       1,
		},
	}
	for i := range demoQuestions {
		db.Create(&demoQuestions[i])
	}
}
