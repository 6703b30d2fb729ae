package memory

import (
	"fmt"
	"sync"
	"time"

	"github.com/yourusername/qa-eval-api/internal/domain/entity"
	"github.com/yourusername/qa-eval-api/internal/domain/repository"
	apperrors "github.com/yourusername/qa-eval-api/internal/pkg/errors"
)

// CampaignRepo реализует repository.CampaignRepository поверх состояния в памяти
type CampaignRepo struct {
	mu        sync.RWMutex
	campaigns []entity.Campaign
	lastID    uint
}

// NewCampaignRepo создает новый репозиторий кампаний
func NewCampaignRepo() *CampaignRepo {
	return &CampaignRepo{}
}

// Create назначает ID и добавляет кампанию; возвращает новый ID
func (r *CampaignRepo) Create(campaign *entity.Campaign) (uint, error) {
	if campaign.Name == "" {
		return 0, fmt.Errorf("%w: campaign name is required", apperrors.ErrValidation)
	}
	if campaign.Status == "" {
		campaign.Status = entity.CampaignStatusActive
	}
	if !entity.IsValidCampaignStatus(campaign.Status) {
		return 0, fmt.Errorf("%w: unknown campaign status %q", apperrors.ErrValidation, campaign.Status)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastID++
	id := r.lastID

	stored := cloneCampaign(campaign)
	stored.ID = id
	now := time.Now()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	r.campaigns = append(r.campaigns, stored)
	return id, nil
}

// GetByID возвращает кампанию по ID
func (r *CampaignRepo) GetByID(id uint) (*entity.Campaign, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.campaigns {
		if r.campaigns[i].ID == id {
			c := cloneCampaign(&r.campaigns[i])
			return &c, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// List возвращает все кампании
func (r *CampaignRepo) List() ([]entity.Campaign, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]entity.Campaign, len(r.campaigns))
	for i := range r.campaigns {
		result[i] = cloneCampaign(&r.campaigns[i])
	}
	return result, nil
}

// Update сливает patch в кампанию. Отсутствующий ID - молчаливый no-op.
func (r *CampaignRepo) Update(id uint, patch repository.CampaignUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.campaigns {
		if r.campaigns[i].ID != id {
			continue
		}
		c := &r.campaigns[i]

		if patch.Name != nil {
			if *patch.Name == "" {
				return fmt.Errorf("%w: campaign name is required", apperrors.ErrValidation)
			}
			c.Name = *patch.Name
		}
		if patch.Description != nil {
			c.Description = *patch.Description
		}
		if patch.Status != nil {
			if !entity.IsValidCampaignStatus(*patch.Status) {
				return fmt.Errorf("%w: unknown campaign status %q", apperrors.ErrValidation, *patch.Status)
			}
			c.Status = *patch.Status
		}
		if patch.GridID != nil {
			v := *patch.GridID
			c.GridID = &v
		}
		if patch.RecordCount != nil {
			c.RecordCount = *patch.RecordCount
		}
		if patch.EvaluatedCount != nil {
			c.EvaluatedCount = *patch.EvaluatedCount
		}
		c.UpdatedAt = time.Now()
		return nil
	}
	return nil
}

// Delete удаляет кампанию
func (r *CampaignRepo) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.campaigns {
		if r.campaigns[i].ID == id {
			r.campaigns = append(r.campaigns[:i], r.campaigns[i+1:]...)
			return nil
		}
	}
	return nil
}

// Restore заменяет коллекцию содержимым снапшота
func (r *CampaignRepo) Restore(campaigns []entity.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.campaigns = make([]entity.Campaign, len(campaigns))
	r.lastID = 0
	for i := range campaigns {
		c := cloneCampaign(&campaigns[i])
		if c.ID > r.lastID {
			r.lastID = c.ID
		}
		r.campaigns[i] = c
	}
	return nil
}

func cloneCampaign(c *entity.Campaign) entity.Campaign {
	cc := *c
	if c.GridID != nil {
		v := *c.GridID
		cc.GridID = &v
	}
	return cc
}
