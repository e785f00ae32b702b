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

func newCacheFixture(t *testing.T) (*QuestionCache, *gorm.DB, *fakeClock) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.Question{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	repo := repository.NewQuestionRepository(db)
	for i, text := range []string{"one", "two"} {
		q := &model.Question{
			ModuleID: "mod-1",
			Kind:     model.SingleChoice,
			Text:     text,
			Options:  model.StringList{"a", "b"},
			Answer:   model.AnswerValue{Kind: model.SingleChoice},
			Order:    i,
		}
		if err := repo.Create(q); err != nil {
			t.Fatalf("seed question: %v", err)
		}
	}

	clock := &fakeClock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	cache := NewQuestionCache(repo, time.Minute)
	cache.clock = clock.Now
	return cache, db, clock
}

func TestQuestionCacheServesCachedSetWithinTTL(t *testing.T) {
	cache, db, _ := newCacheFixture(t)
	ctx := context.Background()

	first, err := cache.QuestionsForModule(ctx, "mod-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != 2 {
		t.Fatalf("got %d questions", len(first))
	}

	// 底层数据变化但 TTL 未过：仍返回缓存副本
	if err := db.Where("module_id = ?", "mod-1").Delete(&model.Question{}).Error; err != nil {
		t.Fatal(err)
	}
	cached, err := cache.QuestionsForModule(ctx, "mod-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(cached) != 2 {
		t.Errorf("cache not used: got %d questions", len(cached))
	}
}

func TestQuestionCacheExpiresAndInvalidates(t *testing.T) {
	cache, db, clock := newCacheFixture(t)
	ctx := context.Background()

	if _, err := cache.QuestionsForModule(ctx, "mod-1"); err != nil {
		t.Fatal(err)
	}
	if err := db.Where("module_id = ?", "mod-1").Delete(&model.Question{}).Error; err != nil {
		t.Fatal(err)
	}

	// TTL 过期后重新读库
	clock.Advance(2 * time.Minute)
	fresh, err := cache.QuestionsForModule(ctx, "mod-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(fresh) != 0 {
		t.Errorf("stale entry served after TTL: %d questions", len(fresh))
	}

	// Invalidate 立即生效，不等 TTL
	cache2, db2, _ := newCacheFixture(t)
	if _, err := cache2.QuestionsForModule(ctx, "mod-1"); err != nil {
		t.Fatal(err)
	}
	if err := db2.Where("module_id = ?", "mod-1").Delete(&model.Question{}).Error; err != nil {
		t.Fatal(err)
	}
	cache2.Invalidate("mod-1")
	fresh2, err := cache2.QuestionsForModule(ctx, "mod-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(fresh2) != 0 {
		t.Errorf("invalidated entry still served: %d questions", len(fresh2))
	}
}
