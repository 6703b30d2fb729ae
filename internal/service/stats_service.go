package service

import (
	"github.com/yourusername/qa-eval-api/internal/domain/entity"
	"github.com/yourusername/qa-eval-api/internal/domain/repository"
)

// DashboardStats - сводка по всей системе для главной страницы дашборда
type DashboardStats struct {
	GridCount        int     `json:"grid_count"`
	CampaignCount    int     `json:"campaign_count"`
	ActiveCampaigns  int     `json:"active_campaigns"`
	EvaluationCount  int     `json:"evaluation_count"`
	ReviewedCount    int     `json:"reviewed_count"`
	AverageScore     float64 `json:"average_score"`
	LowScoreCount    int     `json:"low_score_count"`
	LowScoreBoundary int     `json:"low_score_boundary"`
}

// StatsService агрегирует показатели для дашборда
type StatsService struct {
	gridRepo     repository.GridRepository
	evalRepo     repository.EvaluationRepository
	campaignRepo repository.CampaignRepository
	lowBoundary  int
}

// NewStatsService создает новый сервис статистики.
// lowBoundary задает границу "низкого" балла для счетчика на дашборде.
func NewStatsService(
	gridRepo repository.GridRepository,
	evalRepo repository.EvaluationRepository,
	campaignRepo repository.CampaignRepository,
	lowBoundary int,
) *StatsService {
	return &StatsService{
		gridRepo:     gridRepo,
		evalRepo:     evalRepo,
		campaignRepo: campaignRepo,
		lowBoundary:  lowBoundary,
	}
}

// GetDashboardStats собирает сводку по сеткам, кампаниям и оценкам
func (s *StatsService) GetDashboardStats() (*DashboardStats, error) {
	grids, err := s.gridRepo.List()
	if err != nil {
		return nil, err
	}
	campaigns, err := s.campaignRepo.List()
	if err != nil {
		return nil, err
	}
	evaluations, err := s.evalRepo.List()
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		GridCount:        len(grids),
		CampaignCount:    len(campaigns),
		EvaluationCount:  len(evaluations),
		LowScoreBoundary: s.lowBoundary,
	}
	for _, c := range campaigns {
		if c.Status == entity.CampaignStatusActive {
			stats.ActiveCampaigns++
		}
	}

	total := 0
	for _, e := range evaluations {
		total += e.Score
		if e.IsReviewed() {
			stats.ReviewedCount++
		}
		if s.lowBoundary > 0 && e.Score < s.lowBoundary {
			stats.LowScoreCount++
		}
	}
	if len(evaluations) > 0 {
		stats.AverageScore = float64(total) / float64(len(evaluations))
	}
	return stats, nil
}
