package repository

import (
	"classquiz_backend/internal/model"

	"gorm.io/gorm"
)

// AttemptRepository is the persistent attempt log. Entries are appended and
// read; the only delete path is the module cascade.
type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) Append(a *model.Attempt) error {
	return r.DB.Create(a).Error
}

// ListByModule returns the module's attempts in leaderboard order:
// score descending, earlier submission first on ties.
func (r *AttemptRepository) ListByModule(moduleID string) ([]model.Attempt, error) {
	var as []model.Attempt
	err := r.DB.Where("module_id = ?", moduleID).
		Order("score desc, taken_at asc").
		Find(&as).Error
	return as, err
}

func (r *AttemptRepository) ListByUser(userID uint, limit int) ([]model.Attempt, error) {
	var as []model.Attempt
	q := r.DB.Where("user_id = ?", userID).Order("taken_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&as).Error
	return as, err
}

func (r *AttemptRepository) DeleteByModule(moduleID string) error {
	return r.DB.Unscoped().Where("module_id = ?", moduleID).Delete(&model.Attempt{}).Error
}
