package repository

import (
	"classquiz_backend/internal/model"

	"gorm.io/gorm"
)

type ModuleRepository struct {
	DB *gorm.DB
}

func NewModuleRepository(db *gorm.DB) *ModuleRepository {
	return &ModuleRepository{DB: db}
}

func (r *ModuleRepository) Create(m *model.Module) error {
	return r.DB.Create(m).Error
}

func (r *ModuleRepository) FindByID(id string) (*model.Module, error) {
	var m model.Module
	err := r.DB.First(&m, "id = ?", id).Error
	return &m, err
}

func (r *ModuleRepository) List() ([]model.Module, error) {
	var ms []model.Module
	err := r.DB.Order("created_at desc").Find(&ms).Error
	return ms, err
}

func (r *ModuleRepository) ListBySubject(subject string) ([]model.Module, error) {
	var ms []model.Module
	err := r.DB.Where("subject = ?", subject).Order("created_at desc").Find(&ms).Error
	return ms, err
}

func (r *ModuleRepository) Update(m *model.Module) error {
	return r.DB.Save(m).Error
}

// Delete removes the module together with its questions and attempts in one
// transaction. Attempt rows are physically deleted, not hidden, so the
// leaderboard for a removed module is gone for good.
func (r *ModuleRepository) Delete(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("module_id = ?", id).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("module_id = ?", id).Delete(&model.Attempt{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Module{}, "id = ?", id).Error
	})
}
