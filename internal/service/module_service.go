package service

import (
	"context"
	"errors"

	"classquiz_backend/internal/model"
	"classquiz_backend/internal/repository"
	"classquiz_backend/internal/util"
	"classquiz_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ModuleService 模块管理：学生端列表/详情，教师端增删改
type ModuleService struct {
	Modules     *repository.ModuleRepository
	Questions   *repository.QuestionRepository
	Attempts    *repository.AttemptRepository
	Cache       *QuestionCache
	Leaderboard *LeaderboardService
}

func NewModuleService(modules *repository.ModuleRepository, questions *repository.QuestionRepository, attempts *repository.AttemptRepository, cache *QuestionCache, leaderboard *LeaderboardService) *ModuleService {
	return &ModuleService{
		Modules:     modules,
		Questions:   questions,
		Attempts:    attempts,
		Cache:       cache,
		Leaderboard: leaderboard,
	}
}

// ModuleSummary 模块列表项，带题目数量
type ModuleSummary struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Subject       string `json:"subject"`
	TimeLimit     int    `json:"timeLimit"`
	QuestionCount int64  `json:"questionCount"`
}

type ModuleInput struct {
	Name      string `json:"name" binding:"required"`
	Subject   string `json:"subject" binding:"required"`
	TimeLimit int    `json:"timeLimit" binding:"required,min=1,max=180"`
}

// List returns module summaries, optionally filtered by subject. Modules
// with zero questions are still listed; starting them is what fails.
func (s *ModuleService) List(subject string) ([]ModuleSummary, error) {
	var (
		modules []model.Module
		err     error
	)
	if subject != "" {
		modules, err = s.Modules.ListBySubject(subject)
	} else {
		modules, err = s.Modules.List()
	}
	if err != nil {
		return nil, err
	}

	summaries := make([]ModuleSummary, 0, len(modules))
	for i := range modules {
		count, err := s.Questions.CountByModule(modules[i].ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, ModuleSummary{
			ID:            modules[i].ID,
			Name:          modules[i].Name,
			Subject:       modules[i].Subject,
			TimeLimit:     modules[i].TimeLimit,
			QuestionCount: count,
		})
	}
	return summaries, nil
}

// ModuleDetail 学生视角的模块详情：题目不含答案与解析
type ModuleDetail struct {
	ModuleView
	Questions []SessionQuestionView `json:"questions"`
}

// Detail returns the module with its questions stripped of answers and
// explanations, for the student-facing detail page.
func (s *ModuleService) Detail(id string) (*ModuleDetail, error) {
	module, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	questions, err := s.Questions.ListByModule(id)
	if err != nil {
		return nil, err
	}

	detail := &ModuleDetail{
		ModuleView: moduleView(*module),
		Questions:  make([]SessionQuestionView, 0, len(questions)),
	}
	for i := range questions {
		q := &questions[i]
		detail.Questions = append(detail.Questions, SessionQuestionView{
			ID:      q.ID,
			Kind:    q.Kind,
			Text:    q.Text,
			Options: q.Options,
			Order:   q.Order,
		})
	}
	return detail, nil
}

func (s *ModuleService) Get(id string) (*model.Module, error) {
	module, err := s.Modules.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrModuleNotFound
		}
		return nil, err
	}
	return module, nil
}

func (s *ModuleService) Create(creatorID uint, input ModuleInput) (*model.Module, error) {
	module := &model.Module{
		Name:      input.Name,
		Subject:   input.Subject,
		TimeLimit: input.TimeLimit,
		CreatorID: creatorID,
	}
	if err := s.Modules.Create(module); err != nil {
		return nil, err
	}
	logger.Log.Info("module created",
		zap.String("module_id", module.ID),
		zap.Uint("creator_id", creatorID))
	return module, nil
}

func (s *ModuleService) Update(ctx context.Context, id string, input ModuleInput) (*model.Module, error) {
	module, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	module.Name = input.Name
	module.Subject = input.Subject
	module.TimeLimit = input.TimeLimit
	if err := s.Modules.Update(module); err != nil {
		return nil, err
	}

	s.Cache.Invalidate(id)
	s.Leaderboard.Invalidate(ctx, id)
	return module, nil
}

// Delete removes a module together with its questions and attempt history,
// and drops the caches that referenced it.
func (s *ModuleService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	if err := s.Modules.Delete(id); err != nil {
		return err
	}

	s.Cache.Invalidate(id)
	s.Leaderboard.Invalidate(ctx, id)
	logger.Log.Info("module deleted", zap.String("module_id", id))
	return nil
}

// DeleteBySubject removes every module under a subject. Returns the number
// of modules removed.
func (s *ModuleService) DeleteBySubject(ctx context.Context, subject string) (int, error) {
	modules, err := s.Modules.ListBySubject(subject)
	if err != nil {
		return 0, err
	}
	for i := range modules {
		if err := s.Delete(ctx, modules[i].ID); err != nil {
			return i, err
		}
	}
	return len(modules), nil
}
