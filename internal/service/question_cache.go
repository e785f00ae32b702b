package service

import (
	"context"
	"sync"
	"time"

	"classquiz_backend/internal/model"
	"classquiz_backend/internal/repository"

	"golang.org/x/sync/singleflight"
)

// QuestionSource 按模块加载题目
type QuestionSource interface {
	QuestionsForModule(ctx context.Context, moduleID string) ([]model.Question, error)
}

// QuestionCache caches a module's question set with a TTL so that starting
// many sessions against the same module does not hammer the database.
// Concurrent misses for one module are collapsed via singleflight.
type QuestionCache struct {
	repo  *repository.QuestionRepository
	ttl   time.Duration
	clock func() time.Time
	sf    singleflight.Group

	mu    sync.RWMutex
	cache map[string]cachedQuestions
}

type cachedQuestions struct {
	questions []model.Question
	expiresAt time.Time
}

func NewQuestionCache(repo *repository.QuestionRepository, ttl time.Duration) *QuestionCache {
	return &QuestionCache{
		repo:  repo,
		ttl:   ttl,
		clock: time.Now,
		cache: make(map[string]cachedQuestions),
	}
}

func (c *QuestionCache) QuestionsForModule(ctx context.Context, moduleID string) ([]model.Question, error) {
	now := c.clock()

	c.mu.RLock()
	entry, ok := c.cache[moduleID]
	c.mu.RUnlock()
	if ok && now.Before(entry.expiresAt) {
		return entry.questions, nil
	}

	v, err, _ := c.sf.Do(moduleID, func() (interface{}, error) {
		qs, err := c.repo.ListByModule(moduleID)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.cache[moduleID] = cachedQuestions{
			questions: qs,
			expiresAt: c.clock().Add(c.ttl),
		}
		c.mu.Unlock()
		return qs, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.Question), nil
}

// Invalidate drops the cached question set after teacher edits or module
// deletion.
func (c *QuestionCache) Invalidate(moduleID string) {
	c.mu.Lock()
	delete(c.cache, moduleID)
	c.mu.Unlock()
}
