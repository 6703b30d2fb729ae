package repository

import (
	"github.com/yourusername/qa-eval-api/internal/domain/entity"
)

// CampaignUpdate определяет частичное обновление кампании.
// nil-поле означает "не менять".
type CampaignUpdate struct {
	Name           *string
	Description    *string
	Status         *string
	GridID         *uint
	RecordCount    *int
	EvaluatedCount *int
}

// CampaignRepository определяет методы для работы с кампаниями.
// Политика "not found" та же, что у GridRepository: мутации по
// отсутствующему ID - молчаливый no-op.
type CampaignRepository interface {
	Create(campaign *entity.Campaign) (uint, error)
	GetByID(id uint) (*entity.Campaign, error)
	List() ([]entity.Campaign, error)
	Update(id uint, patch CampaignUpdate) error
	Delete(id uint) error

	// Restore заменяет коллекцию содержимым снапшота (загрузка при старте)
	Restore(campaigns []entity.Campaign) error
}
