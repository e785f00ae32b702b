// 手动灌入演示数据脚本
//
// 创建一个演示教师账号和两个示例模块（含各类型题目），用于首次部署后
// 直接体验教师端与学生端流程。重复执行是安全的：已存在的数据会被跳过。
//
// 用法: go run scripts/seed_demo.go
package main

import (
	"errors"
	"log"
	"os"

	"classquiz_backend/internal/config"
	"classquiz_backend/internal/model"
	"classquiz_backend/internal/repository"
	"classquiz_backend/internal/service"
	"classquiz_backend/pkg/database"
	"classquiz_backend/pkg/logger"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

func main() {
	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}
	cfg.ForceMigrate = true

	logger.InitLogger(cfg.Server.Mode)

	db, err := database.InitDB(&cfg)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	moduleRepo := repository.NewModuleRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	authService := service.NewAuthService(userRepo, &cfg)

	teacher := &model.User{
		Name:     "Demo Teacher",
		Email:    "teacher@classquiz.local",
		Password: "demo-password",
		Role:     model.Teacher,
	}
	if err := authService.Register(teacher); err != nil {
		existing, findErr := userRepo.FindByEmail(teacher.Email)
		if findErr != nil {
			log.Fatalf("创建演示教师失败: %v", err)
		}
		teacher = existing
		log.Println("演示教师已存在，跳过创建")
	}

	seedModules(moduleRepo, questionRepo, teacher.ID)
	log.Println("演示数据灌入完成")
}

func seedModules(moduleRepo *repository.ModuleRepository, questionRepo *repository.QuestionRepository, creatorID uint) {
	modules := []struct {
		module    model.Module
		questions []model.Question
	}{
		{
			module: model.Module{Name: "Algebra Basics", Subject: "Math", TimeLimit: 5, CreatorID: creatorID},
			questions: []model.Question{
				{
					Kind:    model.SingleChoice,
					Text:    "What is 7 × 8?",
					Options: model.StringList{"54", "56", "64"},
					Answer:  model.AnswerValue{Kind: model.SingleChoice, Single: 1},
					Order:   0,
				},
				{
					Kind:        model.MultipleChoice,
					Text:        "Which of these are prime numbers?",
					Options:     model.StringList{"2", "9", "11", "21"},
					Answer:      model.AnswerValue{Kind: model.MultipleChoice, Multiple: []int{0, 2}},
					Explanation: "9 = 3×3 and 21 = 3×7 are composite.",
					Order:       1,
				},
				{
					Kind:        model.TrueFalse,
					Text:        "Zero is an even number.",
					Answer:      model.AnswerValue{Kind: model.TrueFalse, Boolean: true},
					Explanation: "Zero is divisible by two with no remainder.",
					Order:       2,
				},
			},
		},
		{
			module: model.Module{Name: "Cell Biology", Subject: "Biology", TimeLimit: 10, CreatorID: creatorID},
			questions: []model.Question{
				{
					Kind:        model.TextAnswer,
					Text:        "Which organelle is known as the powerhouse of the cell?",
					Answer:      model.AnswerValue{Kind: model.TextAnswer, Text: "mitochondria"},
					Explanation: "Mitochondria produce most of the cell's ATP.",
					Order:       0,
				},
				{
					Kind:    model.SingleChoice,
					Text:    "Which structure controls what enters and leaves the cell?",
					Options: model.StringList{"cell membrane", "nucleus", "ribosome"},
					Answer:  model.AnswerValue{Kind: model.SingleChoice, Single: 0},
					Order:   1,
				},
			},
		},
	}

	for _, seed := range modules {
		existing, err := moduleRepo.ListBySubject(seed.module.Subject)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Fatalf("查询模块失败: %v", err)
		}
		skip := false
		for _, m := range existing {
			if m.Name == seed.module.Name {
				log.Printf("模块 %q 已存在，跳过", m.Name)
				skip = true
				break
			}
		}
		if skip {
			continue
		}

		m := seed.module
		if err := moduleRepo.Create(&m); err != nil {
			log.Fatalf("创建模块 %q 失败: %v", m.Name, err)
		}
		for i := range seed.questions {
			q := seed.questions[i]
			q.ModuleID = m.ID
			if err := questionRepo.Create(&q); err != nil {
				log.Fatalf("创建题目失败: %v", err)
			}
		}
		log.Printf("已创建模块 %q（%d 道题）", m.Name, len(seed.questions))
	}
}
