package service

import (
	"classquiz_backend/internal/model"
	"classquiz_backend/pkg/logger"
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// AttemptLog 抽象追加式成绩日志，便于在测试中用内存实现替换
type AttemptLog interface {
	Append(a *model.Attempt) error
	ListByModule(moduleID string) ([]model.Attempt, error)
}

// LeaderboardEntry 单条排行榜记录
type LeaderboardEntry struct {
	Rank           int       `json:"rank"`
	Email          string    `json:"email"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	Percentage     float64   `json:"percentage"`
	Module         string    `json:"module"`
	Date           time.Time `json:"date"`
}

// LeaderboardService 计算模块排行榜与名次。排序规则：分数降序，平分时
// 先提交者名次靠前。完整榜单可经 Redis 缓存，名次计算始终读库。
type LeaderboardService struct {
	Attempts AttemptLog
	rdb      *redis.Client
	cacheTTL time.Duration
}

func NewLeaderboardService(attempts AttemptLog, rdb *redis.Client, cacheTTL time.Duration) *LeaderboardService {
	return &LeaderboardService{
		Attempts: attempts,
		rdb:      rdb,
		cacheTTL: cacheTTL,
	}
}

func cacheKey(moduleID string) string {
	return "classquiz:leaderboard:" + moduleID
}

// sortAttempts 分数降序，平分时提交时间早者在前
func sortAttempts(attempts []model.Attempt) {
	sort.SliceStable(attempts, func(i, j int) bool {
		if attempts[i].Score != attempts[j].Score {
			return attempts[i].Score > attempts[j].Score
		}
		return attempts[i].TakenAt.Before(attempts[j].TakenAt)
	})
}

// ForModule 返回模块排行榜；limit <= 0 时返回全部
func (s *LeaderboardService) ForModule(ctx context.Context, moduleID string, limit int) ([]LeaderboardEntry, error) {
	entries, err := s.loadEntries(ctx, moduleID)
	if err != nil {
		return nil, err
	}
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	return entries, nil
}

// RankOf 返回指定成绩在其模块中的 1 起始名次。绕过缓存，保证刚追加的
// 记录立即可见。
func (s *LeaderboardService) RankOf(moduleID, attemptID string) (int, error) {
	attempts, err := s.Attempts.ListByModule(moduleID)
	if err != nil {
		return 0, err
	}
	sortAttempts(attempts)
	for i := range attempts {
		if attempts[i].ID == attemptID {
			return i + 1, nil
		}
	}
	return 0, nil
}

// Invalidate 在新增成绩或删除模块后丢弃缓存
func (s *LeaderboardService) Invalidate(ctx context.Context, moduleID string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, cacheKey(moduleID)).Err(); err != nil {
		logger.Log.Warn("leaderboard cache invalidation failed",
			zap.String("module_id", moduleID), zap.Error(err))
	}
}

func (s *LeaderboardService) loadEntries(ctx context.Context, moduleID string) ([]LeaderboardEntry, error) {
	if s.rdb != nil {
		raw, err := s.rdb.Get(ctx, cacheKey(moduleID)).Bytes()
		if err == nil {
			var cached []LeaderboardEntry
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
		}
	}

	attempts, err := s.Attempts.ListByModule(moduleID)
	if err != nil {
		return nil, err
	}
	sortAttempts(attempts)

	entries := make([]LeaderboardEntry, 0, len(attempts))
	for i := range attempts {
		entries = append(entries, LeaderboardEntry{
			Rank:           i + 1,
			Email:          attempts[i].Email,
			Score:          attempts[i].Score,
			TotalQuestions: attempts[i].TotalQuestions,
			Percentage:     attempts[i].Percentage,
			Module:         attempts[i].ModuleName,
			Date:           attempts[i].TakenAt,
		})
	}

	if s.rdb != nil {
		if raw, err := json.Marshal(entries); err == nil {
			if err := s.rdb.Set(ctx, cacheKey(moduleID), raw, s.cacheTTL).Err(); err != nil {
				logger.Log.Warn("leaderboard cache write failed",
					zap.String("module_id", moduleID), zap.Error(err))
			}
		}
	}

	return entries, nil
}
