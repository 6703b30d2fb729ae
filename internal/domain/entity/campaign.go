package entity

import (
	"time"
)

// Статусы кампании
const (
	CampaignStatusActive    = "active"
	CampaignStatusInactive  = "inactive"
	CampaignStatusCompleted = "completed"
)

// Campaign представляет кампанию оценки качества.
// GridID опционален: кампания может существовать без привязанной сетки,
// а удаление сетки оставляет висячую ссылку (как и у оценок).
type Campaign struct {
	ID             uint      `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name           string    `gorm:"size:100;not null" json:"name"`
	Description    string    `gorm:"size:500;not null;default:''" json:"description"`
	Status         string    `gorm:"size:20;not null;default:'active';index" json:"status"`
	GridID         *uint     `gorm:"index" json:"grid_id,omitempty"`
	RecordCount    int       `gorm:"not null;default:0" json:"record_count"`
	EvaluatedCount int       `gorm:"not null;default:0" json:"evaluated_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Campaign) TableName() string {
	return "campaigns"
}

// IsActive проверяет, активна ли кампания
func (c *Campaign) IsActive() bool {
	return c.Status == CampaignStatusActive
}

// IsValidCampaignStatus проверяет принадлежность статуса к перечислению
func IsValidCampaignStatus(status string) bool {
	switch status {
	case CampaignStatusActive, CampaignStatusInactive, CampaignStatusCompleted:
		return true
	}
	return false
}
