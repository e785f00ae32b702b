package model

import "time"

// Attempt is one completed, scored quiz submission. The log is append-only:
// rows are never updated, and are only deleted together with their module.
// ModuleName and Email are snapshots taken at submission time; later edits
// to the module or the account do not rewrite history.
// swagger:model Attempt
type Attempt struct {
	UUIDBase
	UserID         uint      `gorm:"index;type:bigint unsigned" json:"userId"`
	Email          string    `gorm:"size:100;not null" json:"email"`
	ModuleID       string    `gorm:"index;type:varchar(36);not null" json:"moduleId"`
	ModuleName     string    `gorm:"size:255;not null" json:"module"`
	Score          int       `gorm:"not null" json:"score"`
	TotalQuestions int       `gorm:"not null" json:"totalQuestions"`
	Percentage     float64   `gorm:"not null" json:"percentage"`
	TakenAt        time.Time `gorm:"index;not null" json:"date"`
}

func (Attempt) TableName() string {
	return "attempts"
}
