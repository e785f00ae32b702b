package repository

import (
	"errors"
	"testing"
	"time"

	"classquiz_backend/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
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
	return db
}

func seedModule(t *testing.T, db *gorm.DB) *model.Module {
	t.Helper()

	module := &model.Module{Name: "Algebra Basics", Subject: "Math", TimeLimit: 5, CreatorID: 1}
	if err := NewModuleRepository(db).Create(module); err != nil {
		t.Fatalf("create module: %v", err)
	}
	return module
}

func TestQuestionListRespectsOrder(t *testing.T) {
	db := newTestDB(t)
	module := seedModule(t, db)
	repo := NewQuestionRepository(db)

	for _, q := range []model.Question{
		{ModuleID: module.ID, Kind: model.SingleChoice, Text: "third", Options: model.StringList{"a", "b"}, Answer: model.AnswerValue{Kind: model.SingleChoice}, Order: 3},
		{ModuleID: module.ID, Kind: model.SingleChoice, Text: "first", Options: model.StringList{"a", "b"}, Answer: model.AnswerValue{Kind: model.SingleChoice}, Order: 1},
		{ModuleID: module.ID, Kind: model.SingleChoice, Text: "second", Options: model.StringList{"a", "b"}, Answer: model.AnswerValue{Kind: model.SingleChoice}, Order: 2},
	} {
		q := q
		if err := repo.Create(&q); err != nil {
			t.Fatalf("create question: %v", err)
		}
	}

	questions, err := repo.ListByModule(module.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(questions) != 3 {
		t.Fatalf("got %d questions", len(questions))
	}
	for i, want := range []string{"first", "second", "third"} {
		if questions[i].Text != want {
			t.Errorf("position %d: %s, want %s", i, questions[i].Text, want)
		}
	}

	count, err := repo.CountByModule(module.ID)
	if err != nil || count != 3 {
		t.Errorf("CountByModule = %d, %v", count, err)
	}
}

func TestQuestionAnswerRoundTrip(t *testing.T) {
	db := newTestDB(t)
	module := seedModule(t, db)
	repo := NewQuestionRepository(db)

	question := &model.Question{
		ModuleID: module.ID,
		Kind:     model.MultipleChoice,
		Text:     "Which are prime?",
		Options:  model.StringList{"2", "3", "4", "5"},
		Answer:   model.AnswerValue{Kind: model.MultipleChoice, Multiple: []int{0, 1, 3}},
	}
	if err := repo.Create(question); err != nil {
		t.Fatal(err)
	}
	if question.ID == "" {
		t.Fatal("BeforeCreate hook did not assign an id")
	}

	loaded, err := repo.FindByID(question.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !loaded.Answer.Matches(model.AnswerValue{Kind: model.MultipleChoice, Multiple: []int{3, 1, 0}}) {
		t.Errorf("stored answer lost fidelity: %+v", loaded.Answer)
	}
	if len(loaded.Options) != 4 || loaded.Options[2] != "4" {
		t.Errorf("options column mangled: %+v", loaded.Options)
	}
}

func TestAttemptListByModuleOrdering(t *testing.T) {
	db := newTestDB(t)
	module := seedModule(t, db)
	repo := NewAttemptRepository(db)

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for _, a := range []model.Attempt{
		{UserID: 1, Email: "bob@x.io", ModuleID: module.ID, ModuleName: module.Name, Score: 2, TotalQuestions: 3, Percentage: 66.7, TakenAt: base.Add(2 * time.Minute)},
		{UserID: 2, Email: "ada@x.io", ModuleID: module.ID, ModuleName: module.Name, Score: 2, TotalQuestions: 3, Percentage: 66.7, TakenAt: base.Add(time.Minute)},
		{UserID: 3, Email: "cat@x.io", ModuleID: module.ID, ModuleName: module.Name, Score: 3, TotalQuestions: 3, Percentage: 100, TakenAt: base.Add(3 * time.Minute)},
	} {
		a := a
		if err := repo.Append(&a); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	attempts, err := repo.ListByModule(module.ID)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"cat@x.io", "ada@x.io", "bob@x.io"}
	for i, email := range want {
		if attempts[i].Email != email {
			t.Errorf("position %d: %s, want %s", i, attempts[i].Email, email)
		}
	}
}

func TestModuleDeleteCascades(t *testing.T) {
	db := newTestDB(t)
	module := seedModule(t, db)
	moduleRepo := NewModuleRepository(db)
	questionRepo := NewQuestionRepository(db)
	attemptRepo := NewAttemptRepository(db)

	q := &model.Question{ModuleID: module.ID, Kind: model.TrueFalse, Text: "t", Answer: model.AnswerValue{Kind: model.TrueFalse, Boolean: true}}
	if err := questionRepo.Create(q); err != nil {
		t.Fatal(err)
	}
	a := &model.Attempt{UserID: 1, Email: "a@x.io", ModuleID: module.ID, ModuleName: module.Name, Score: 1, TotalQuestions: 1, Percentage: 100, TakenAt: time.Now()}
	if err := attemptRepo.Append(a); err != nil {
		t.Fatal(err)
	}

	if err := moduleRepo.Delete(module.ID); err != nil {
		t.Fatalf("delete module: %v", err)
	}

	if _, err := moduleRepo.FindByID(module.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("module still findable after delete: %v", err)
	}
	if count, _ := questionRepo.CountByModule(module.ID); count != 0 {
		t.Errorf("%d questions survived cascade", count)
	}
	if attempts, _ := attemptRepo.ListByModule(module.ID); len(attempts) != 0 {
		t.Errorf("%d attempts survived cascade", len(attempts))
	}
}

func TestAttemptListByUser(t *testing.T) {
	db := newTestDB(t)
	module := seedModule(t, db)
	repo := NewAttemptRepository(db)

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		a := &model.Attempt{UserID: 1, Email: "a@x.io", ModuleID: module.ID, ModuleName: module.Name, Score: i, TotalQuestions: 5, Percentage: float64(i) * 20, TakenAt: base.Add(time.Duration(i) * time.Minute)}
		if err := repo.Append(a); err != nil {
			t.Fatal(err)
		}
	}
	other := &model.Attempt{UserID: 2, Email: "b@x.io", ModuleID: module.ID, ModuleName: module.Name, Score: 5, TotalQuestions: 5, Percentage: 100, TakenAt: base}
	if err := repo.Append(other); err != nil {
		t.Fatal(err)
	}

	attempts, err := repo.ListByUser(1, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(attempts) != 3 {
		t.Fatalf("limit ignored: got %d", len(attempts))
	}
	for _, a := range attempts {
		if a.UserID != 1 {
			t.Errorf("foreign attempt leaked: %+v", a)
		}
	}
	// 最近的在前
	if !attempts[0].TakenAt.After(attempts[1].TakenAt) {
		t.Errorf("not ordered by recency: %v then %v", attempts[0].TakenAt, attempts[1].TakenAt)
	}
}

func TestModuleListBySubject(t *testing.T) {
	db := newTestDB(t)
	repo := NewModuleRepository(db)

	for _, m := range []model.Module{
		{Name: "Algebra", Subject: "Math", TimeLimit: 5},
		{Name: "Geometry", Subject: "Math", TimeLimit: 10},
		{Name: "Cells", Subject: "Biology", TimeLimit: 5},
	} {
		m := m
		if err := repo.Create(&m); err != nil {
			t.Fatal(err)
		}
	}

	math, err := repo.ListBySubject("Math")
	if err != nil {
		t.Fatal(err)
	}
	if len(math) != 2 {
		t.Errorf("ListBySubject(Math) = %d modules", len(math))
	}
	all, err := repo.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("List() = %d modules", len(all))
	}
}
