package repository

import (
	"classquiz_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) Create(q *model.Question) error {
	return r.DB.Create(q).Error
}

func (r *QuestionRepository) FindByID(id string) (*model.Question, error) {
	var q model.Question
	err := r.DB.First(&q, "id = ?", id).Error
	return &q, err
}

func (r *QuestionRepository) ListByModule(moduleID string) ([]model.Question, error) {
	var qs []model.Question
	err := r.DB.Where("module_id = ?", moduleID).
		Order("`order` asc, created_at asc").
		Find(&qs).Error
	return qs, err
}

func (r *QuestionRepository) CountByModule(moduleID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Question{}).Where("module_id = ?", moduleID).Count(&count).Error
	return count, err
}

func (r *QuestionRepository) Update(q *model.Question) error {
	return r.DB.Save(q).Error
}

func (r *QuestionRepository) Delete(id string) error {
	return r.DB.Delete(&model.Question{}, "id = ?", id).Error
}
