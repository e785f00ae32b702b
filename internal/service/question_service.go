package service

import (
	"errors"
	"fmt"

	"classquiz_backend/internal/model"
	"classquiz_backend/internal/repository"
	"classquiz_backend/internal/util"

	"gorm.io/gorm"
)

// QuestionService 题目管理，写操作后失效所属模块的题目缓存
type QuestionService struct {
	Questions *repository.QuestionRepository
	Modules   *repository.ModuleRepository
	Cache     *QuestionCache
}

func NewQuestionService(questions *repository.QuestionRepository, modules *repository.ModuleRepository, cache *QuestionCache) *QuestionService {
	return &QuestionService{Questions: questions, Modules: modules, Cache: cache}
}

type QuestionInput struct {
	Kind        model.QuestionKind `json:"kind" binding:"required"`
	Text        string             `json:"questionText" binding:"required"`
	Options     model.StringList   `json:"options"`
	Answer      model.AnswerValue  `json:"answer" binding:"required"`
	Explanation string             `json:"explanation"`
	Order       int                `json:"order"`
}

func (in *QuestionInput) validate() error {
	if !in.Kind.Valid() {
		return fmt.Errorf("unknown question kind %q", in.Kind)
	}
	switch in.Kind {
	case model.SingleChoice, model.MultipleChoice:
		if len(in.Options) < 2 {
			return errors.New("choice questions need at least two options")
		}
	case model.TrueFalse, model.TextAnswer:
		if len(in.Options) != 0 {
			return errors.New("options are only valid for choice questions")
		}
	}
	if in.Answer.Kind != in.Kind {
		return util.ErrAnswerKindMismatch
	}
	return in.Answer.Validate(len(in.Options))
}

func (s *QuestionService) ListByModule(moduleID string) ([]model.Question, error) {
	if _, err := s.Modules.FindByID(moduleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrModuleNotFound
		}
		return nil, err
	}
	return s.Questions.ListByModule(moduleID)
}

func (s *QuestionService) Create(moduleID string, input QuestionInput) (*model.Question, error) {
	if _, err := s.Modules.FindByID(moduleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrModuleNotFound
		}
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	question := &model.Question{
		ModuleID:    moduleID,
		Kind:        input.Kind,
		Text:        input.Text,
		Options:     input.Options,
		Answer:      input.Answer,
		Explanation: input.Explanation,
		Order:       input.Order,
	}
	if err := s.Questions.Create(question); err != nil {
		return nil, err
	}
	s.Cache.Invalidate(moduleID)
	return question, nil
}

func (s *QuestionService) Update(id string, input QuestionInput) (*model.Question, error) {
	question, err := s.Questions.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	question.Kind = input.Kind
	question.Text = input.Text
	question.Options = input.Options
	question.Answer = input.Answer
	question.Explanation = input.Explanation
	question.Order = input.Order
	if err := s.Questions.Update(question); err != nil {
		return nil, err
	}
	s.Cache.Invalidate(question.ModuleID)
	return question, nil
}

func (s *QuestionService) Delete(id string) error {
	question, err := s.Questions.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuestionNotFound
		}
		return err
	}
	if err := s.Questions.Delete(id); err != nil {
		return err
	}
	s.Cache.Invalidate(question.ModuleID)
	return nil
}
