package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/yourusername/qa-eval-api/internal/domain/entity"
	"github.com/yourusername/qa-eval-api/internal/domain/repository"
	apperrors "github.com/yourusername/qa-eval-api/internal/pkg/errors"
)

// EventPublisher рассылает доменные события подписчикам (live-лента дашборда)
type EventPublisher interface {
	Publish(event string, payload interface{})
}

// NoopEventPublisher используется, когда live-лента отключена
type NoopEventPublisher struct{}

// Publish ничего не делает
func (NoopEventPublisher) Publish(event string, payload interface{}) {}

// EvaluationService - движок подсчета оценок: превращает пару
// (сетка, ответы) в нормализованный балл 0..100 и персистирует оценку.
// Балл вычисляется один раз при подаче и замораживается.
type EvaluationService struct {
	gridRepo     repository.GridRepository
	evalRepo     repository.EvaluationRepository
	campaignRepo repository.CampaignRepository
	remote       repository.RemoteStore
	snapshots    *SnapshotService
	aggregator   Aggregator
	events       EventPublisher
	alerts       AlertService
	alertBelow   int // балл, ниже которого уходит письмо-предупреждение; 0 - отключено
}

// NewEvaluationService создает новый сервис оценок.
// При nil aggregator используется взвешенная по максимуму стратегия.
func NewEvaluationService(
	gridRepo repository.GridRepository,
	evalRepo repository.EvaluationRepository,
	campaignRepo repository.CampaignRepository,
	remote repository.RemoteStore,
	snapshots *SnapshotService,
	aggregator Aggregator,
	events EventPublisher,
	alerts AlertService,
	alertBelow int,
) *EvaluationService {
	if aggregator == nil {
		aggregator = WeightedByMaxAggregator{}
	}
	if events == nil {
		events = NoopEventPublisher{}
	}
	if alerts == nil {
		alerts = &NoopAlertService{}
	}
	return &EvaluationService{
		gridRepo:     gridRepo,
		evalRepo:     evalRepo,
		campaignRepo: campaignRepo,
		remote:       remote,
		snapshots:    snapshots,
		aggregator:   aggregator,
		events:       events,
		alerts:       alerts,
		alertBelow:   alertBelow,
	}
}

// SubmitEvaluation вычисляет балл и создает оценку со статусом submitted.
// Неизвестная сетка - no-op: оценка не создается, возвращается (nil, nil).
// Ответы на отсутствующие в сетке вопросы молча игнорируются, неотвеченные
// вопросы не штрафуют балл.
func (s *EvaluationService) SubmitEvaluation(gridID uint, campaignID *uint, answers []entity.EvaluationAnswer) (*entity.Evaluation, error) {
	grid, err := s.gridRepo.GetByID(gridID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	evaluation := &entity.Evaluation{
		Reference:  uuid.NewString(),
		GridID:     gridID,
		CampaignID: campaignID,
		Answers:    answers,
		Score:      s.aggregator.Aggregate(grid, answers),
		Status:     entity.EvaluationStatusSubmitted,
	}

	if _, err := s.evalRepo.Create(evaluation); err != nil {
		return nil, err
	}

	// Счетчик оцененных записей кампании; сама кампания может не существовать
	if campaignID != nil {
		if campaign, err := s.campaignRepo.GetByID(*campaignID); err == nil {
			n := campaign.EvaluatedCount + 1
			if err := s.campaignRepo.Update(campaign.ID, repository.CampaignUpdate{EvaluatedCount: &n}); err != nil {
				log.Printf("[EvaluationService] Не удалось обновить счетчик кампании #%d: %v", campaign.ID, err)
			}
		}
	}

	if s.remote != nil {
		persistRemote("CreateEvaluation", func(ctx context.Context) error {
			return s.remote.CreateEvaluation(ctx, evaluation)
		})
	}
	s.snapshots.SaveQuiet()

	s.events.Publish("evaluation.submitted", evaluation)

	if s.alertBelow > 0 && evaluation.Score < s.alertBelow {
		go s.sendLowScoreAlert(evaluation, grid.Name)
	}

	return evaluation, nil
}

// GetEvaluation возвращает оценку по ID
func (s *EvaluationService) GetEvaluation(id uint) (*entity.Evaluation, error) {
	return s.evalRepo.GetByID(id)
}

// GetEvaluationsByGridID возвращает оценки сетки, включая оценки
// уже удаленных сеток - удаление сетки их не каскадирует
func (s *EvaluationService) GetEvaluationsByGridID(gridID uint) ([]entity.Evaluation, error) {
	return s.evalRepo.GetByGridID(gridID)
}

// GetEvaluationsByCampaignID возвращает оценки кампании
func (s *EvaluationService) GetEvaluationsByCampaignID(campaignID uint) ([]entity.Evaluation, error) {
	return s.evalRepo.GetByCampaignID(campaignID)
}

// ListEvaluations возвращает все оценки
func (s *EvaluationService) ListEvaluations() ([]entity.Evaluation, error) {
	return s.evalRepo.List()
}

// MarkReviewed переводит оценку submitted → reviewed
func (s *EvaluationService) MarkReviewed(id uint) error {
	if err := s.evalRepo.MarkReviewed(id); err != nil {
		return err
	}

	if s.remote != nil {
		if evaluation, err := s.evalRepo.GetByID(id); err == nil {
			persistRemote("UpdateEvaluation", func(ctx context.Context) error {
				return s.remote.UpdateEvaluation(ctx, evaluation)
			})
		}
	}
	s.snapshots.SaveQuiet()
	return nil
}

func (s *EvaluationService) sendLowScoreAlert(evaluation *entity.Evaluation, gridName string) {
	ctx, cancel := context.WithTimeout(context.Background(), remoteWriteTimeout)
	defer cancel()

	if err := s.alerts.SendLowScoreAlert(ctx, evaluation, gridName); err != nil {
		log.Printf("[EvaluationService] Не удалось отправить предупреждение о низком балле по оценке #%d: %v", evaluation.ID, err)
	}
}
