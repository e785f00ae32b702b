package service

import (
	"context"
	"testing"
	"time"

	"classquiz_backend/internal/model"
	"classquiz_backend/internal/repository"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
)

func newModuleFixture(t *testing.T) (*ModuleService, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.Module{}, &model.Question{}, &model.Attempt{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	moduleRepo := repository.NewModuleRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	attemptRepo := repository.NewAttemptRepository(db)
	cache := NewQuestionCache(questionRepo, time.Minute)
	leaderboard := NewLeaderboardService(attemptRepo, nil, 0)

	return NewModuleService(moduleRepo, questionRepo, attemptRepo, cache, leaderboard), db
}

func TestModuleDetailStripsAnswers(t *testing.T) {
	svc, _ := newModuleFixture(t)

	module, err := svc.Create(1, ModuleInput{Name: "Algebra", Subject: "Math", TimeLimit: 5})
	if err != nil {
		t.Fatal(err)
	}
	question := &model.Question{
		ModuleID:    module.ID,
		Kind:        model.SingleChoice,
		Text:        "2 + 2 = ?",
		Options:     model.StringList{"4", "5"},
		Answer:      model.AnswerValue{Kind: model.SingleChoice, Single: 0},
		Explanation: "basic addition",
	}
	if err := svc.Questions.Create(question); err != nil {
		t.Fatal(err)
	}

	detail, err := svc.Detail(module.ID)
	if err != nil {
		t.Fatal(err)
	}
	if detail.Name != "Algebra" || detail.TimeLimit != 5 {
		t.Errorf("module fields lost: %+v", detail.ModuleView)
	}
	if len(detail.Questions) != 1 {
		t.Fatalf("got %d questions", len(detail.Questions))
	}
	// 学生视图类型本身不携带答案或解析字段
	q := detail.Questions[0]
	if q.Text != "2 + 2 = ?" || len(q.Options) != 2 {
		t.Errorf("question view mangled: %+v", q)
	}
}

func TestModuleListCountsQuestions(t *testing.T) {
	svc, _ := newModuleFixture(t)

	module, err := svc.Create(1, ModuleInput{Name: "Algebra", Subject: "Math", TimeLimit: 5})
	if err != nil {
		t.Fatal(err)
	}
	empty, err := svc.Create(1, ModuleInput{Name: "Drafts", Subject: "Math", TimeLimit: 5})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Questions.Create(&model.Question{
		ModuleID: module.ID, Kind: model.TrueFalse, Text: "t",
		Answer: model.AnswerValue{Kind: model.TrueFalse, Boolean: true},
	}); err != nil {
		t.Fatal(err)
	}

	summaries, err := svc.List("Math")
	if err != nil {
		t.Fatal(err)
	}
	counts := map[string]int64{}
	for _, s := range summaries {
		counts[s.ID] = s.QuestionCount
	}
	if counts[module.ID] != 1 || counts[empty.ID] != 0 {
		t.Errorf("question counts wrong: %+v", counts)
	}
}

func TestDeleteBySubject(t *testing.T) {
	svc, _ := newModuleFixture(t)

	for _, in := range []ModuleInput{
		{Name: "Algebra", Subject: "Math", TimeLimit: 5},
		{Name: "Geometry", Subject: "Math", TimeLimit: 10},
		{Name: "Cells", Subject: "Biology", TimeLimit: 5},
	} {
		if _, err := svc.Create(1, in); err != nil {
			t.Fatal(err)
		}
	}

	deleted, err := svc.DeleteBySubject(context.Background(), "Math")
	if err != nil {
		t.Fatal(err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}

	remaining, err := svc.List("")
	if err != nil {
		t.Fatal(err)
	}
	if len(remaining) != 1 || remaining[0].Subject != "Biology" {
		t.Errorf("wrong survivors: %+v", remaining)
	}
}

func TestDeleteInvalidatesQuestionCache(t *testing.T) {
	svc, _ := newModuleFixture(t)

	module, err := svc.Create(1, ModuleInput{Name: "Algebra", Subject: "Math", TimeLimit: 5})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Questions.Create(&model.Question{
		ModuleID: module.ID, Kind: model.TrueFalse, Text: "t",
		Answer: model.AnswerValue{Kind: model.TrueFalse, Boolean: true},
	}); err != nil {
		t.Fatal(err)
	}

	// 预热缓存
	if qs, err := svc.Cache.QuestionsForModule(context.Background(), module.ID); err != nil || len(qs) != 1 {
		t.Fatalf("warm cache: %v %d", err, len(qs))
	}

	if err := svc.Delete(context.Background(), module.ID); err != nil {
		t.Fatal(err)
	}

	qs, err := svc.Cache.QuestionsForModule(context.Background(), module.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(qs) != 0 {
		t.Errorf("cache served %d questions for a deleted module", len(qs))
	}
}
