package service

import (
	"context"

	"github.com/yourusername/qa-eval-api/internal/domain/entity"
	"github.com/yourusername/qa-eval-api/internal/domain/repository"
)

// CampaignStats - агрегированная сводка по кампании
type CampaignStats struct {
	CampaignID      uint    `json:"campaign_id"`
	EvaluationCount int     `json:"evaluation_count"`
	AverageScore    float64 `json:"average_score"`
	RecordCount     int     `json:"record_count"`
	EvaluatedCount  int     `json:"evaluated_count"`
}

// CampaignService управляет кампаниями оценки качества
type CampaignService struct {
	campaignRepo repository.CampaignRepository
	evalRepo     repository.EvaluationRepository
	remote       repository.RemoteStore
	snapshots    *SnapshotService
}

// NewCampaignService создает новый сервис кампаний
func NewCampaignService(
	campaignRepo repository.CampaignRepository,
	evalRepo repository.EvaluationRepository,
	remote repository.RemoteStore,
	snapshots *SnapshotService,
) *CampaignService {
	return &CampaignService{
		campaignRepo: campaignRepo,
		evalRepo:     evalRepo,
		remote:       remote,
		snapshots:    snapshots,
	}
}

// CreateCampaign создает кампанию и возвращает присвоенный ID
func (s *CampaignService) CreateCampaign(campaign *entity.Campaign) (uint, error) {
	id, err := s.campaignRepo.Create(campaign)
	if err != nil {
		return 0, err
	}

	if s.remote != nil {
		if created, err := s.campaignRepo.GetByID(id); err == nil {
			persistRemote("CreateCampaign", func(ctx context.Context) error {
				return s.remote.CreateCampaign(ctx, created)
			})
		}
	}
	s.snapshots.SaveQuiet()
	return id, nil
}

// GetCampaign возвращает кампанию по ID
func (s *CampaignService) GetCampaign(id uint) (*entity.Campaign, error) {
	return s.campaignRepo.GetByID(id)
}

// ListCampaigns возвращает все кампании
func (s *CampaignService) ListCampaigns() ([]entity.Campaign, error) {
	return s.campaignRepo.List()
}

// UpdateCampaign применяет частичное обновление кампании
func (s *CampaignService) UpdateCampaign(id uint, patch repository.CampaignUpdate) error {
	if err := s.campaignRepo.Update(id, patch); err != nil {
		return err
	}
	s.pushCampaign(id)
	s.snapshots.SaveQuiet()
	return nil
}

// DeleteCampaign удаляет кампанию; ее оценки остаются как исторические записи
func (s *CampaignService) DeleteCampaign(id uint) error {
	if err := s.campaignRepo.Delete(id); err != nil {
		return err
	}

	if s.remote != nil {
		persistRemote("DeleteCampaign", func(ctx context.Context) error {
			return s.remote.DeleteCampaign(ctx, id)
		})
	}
	s.snapshots.SaveQuiet()
	return nil
}

// GetCampaignStats считает сводку по оценкам кампании
func (s *CampaignService) GetCampaignStats(id uint) (*CampaignStats, error) {
	campaign, err := s.campaignRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	evaluations, err := s.evalRepo.GetByCampaignID(id)
	if err != nil {
		return nil, err
	}

	stats := &CampaignStats{
		CampaignID:      campaign.ID,
		EvaluationCount: len(evaluations),
		RecordCount:     campaign.RecordCount,
		EvaluatedCount:  campaign.EvaluatedCount,
	}
	if len(evaluations) > 0 {
		total := 0
		for _, e := range evaluations {
			total += e.Score
		}
		stats.AverageScore = float64(total) / float64(len(evaluations))
	}
	return stats, nil
}

func (s *CampaignService) pushCampaign(id uint) {
	if s.remote == nil {
		return
	}
	campaign, err := s.campaignRepo.GetByID(id)
	if err != nil {
		return
	}
	persistRemote("UpdateCampaign", func(ctx context.Context) error {
		return s.remote.UpdateCampaign(ctx, campaign)
	})
}
