package model

// Module groups the questions a teacher authors and a student selects
// before attempting a quiz. The time limit lives here exclusively;
// questions reference it through their module, never store it.
// swagger:model Module
type Module struct {
	UUIDBase
	Name      string `gorm:"size:255;not null" json:"name"`
	Subject   string `gorm:"size:100;index" json:"subject"`
	TimeLimit int    `gorm:"default:5" json:"timeLimit"` // minutes
	CreatorID uint   `gorm:"index;type:bigint unsigned" json:"creatorId"`
}

func (Module) TableName() string {
	return "modules"
}
