package service

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/qa-eval-api/internal/domain/entity"
	apperrors "github.com/yourusername/qa-eval-api/internal/pkg/errors"
	"github.com/yourusername/qa-eval-api/internal/repository/memory"
)

// recordingPublisher собирает опубликованные события для проверок
type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(event string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func newEvaluationServiceForTest(t *testing.T) (*EvaluationService, *memory.GridRepo, *memory.CampaignRepo, *recordingPublisher) {
	t.Helper()

	gridRepo := memory.NewGridRepo()
	evalRepo := memory.NewEvaluationRepo()
	campaignRepo := memory.NewCampaignRepo()
	snapshots := NewSnapshotService(gridRepo, evalRepo, campaignRepo, nil)
	events := &recordingPublisher{}

	svc := NewEvaluationService(gridRepo, evalRepo, campaignRepo, nil, snapshots, nil, events, nil, 0)
	return svc, gridRepo, campaignRepo, events
}

func submitGrid(t *testing.T, gridRepo *memory.GridRepo) uint {
	t.Helper()
	id, err := gridRepo.Create(&entity.Grid{
		Name: "Контроль звонков",
		Questions: []entity.Question{
			{Text: "Поздоровался?", Type: entity.QuestionTypeToggle},
			{
				Text:     "Общая оценка",
				Type:     entity.QuestionTypeRating,
				MinValue: intPtr(0),
				MaxValue: intPtr(5),
			},
		},
	})
	require.NoError(t, err)
	return id
}

func TestSubmitEvaluation(t *testing.T) {
	svc, gridRepo, _, events := newEvaluationServiceForTest(t)
	gridID := submitGrid(t, gridRepo)

	evaluation, err := svc.SubmitEvaluation(gridID, nil, []entity.EvaluationAnswer{
		{QuestionID: 1, Value: entity.BoolValue(true)},
		{QuestionID: 2, Value: entity.NumberValue(3)},
	})
	require.NoError(t, err)
	require.NotNil(t, evaluation)

	// (1+3)/(1+5) = 66.67 → 67
	assert.Equal(t, 67, evaluation.Score)
	assert.Equal(t, entity.EvaluationStatusSubmitted, evaluation.Status)
	assert.NotZero(t, evaluation.ID)
	assert.NotEmpty(t, evaluation.Reference, "Каждая оценка получает uuid-референс")
	assert.Contains(t, events.events, "evaluation.submitted")
}

func TestSubmitEvaluationMissingGridIsNoop(t *testing.T) {
	svc, _, _, events := newEvaluationServiceForTest(t)

	evaluation, err := svc.SubmitEvaluation(99, nil, []entity.EvaluationAnswer{
		{QuestionID: 1, Value: entity.BoolValue(true)},
	})
	require.NoError(t, err)
	assert.Nil(t, evaluation, "Подача по несуществующей сетке не создает оценку")
	assert.Empty(t, events.events)

	evals, err := svc.ListEvaluations()
	require.NoError(t, err)
	assert.Empty(t, evals)
}

func TestSubmitEvaluationScoreFrozen(t *testing.T) {
	svc, gridRepo, _, _ := newEvaluationServiceForTest(t)
	gridID := submitGrid(t, gridRepo)

	evaluation, err := svc.SubmitEvaluation(gridID, nil, []entity.EvaluationAnswer{
		{QuestionID: 1, Value: entity.BoolValue(true)},
	})
	require.NoError(t, err)
	frozen := evaluation.Score

	// Изменение сетки после подачи не трогает сохраненный балл
	require.NoError(t, gridRepo.DeleteQuestion(gridID, 1))

	stored, err := svc.GetEvaluation(evaluation.ID)
	require.NoError(t, err)
	assert.Equal(t, frozen, stored.Score)
}

func TestSubmitEvaluationSurvivesGridDeletion(t *testing.T) {
	svc, gridRepo, _, _ := newEvaluationServiceForTest(t)
	gridID := submitGrid(t, gridRepo)

	evaluation, err := svc.SubmitEvaluation(gridID, nil, []entity.EvaluationAnswer{
		{QuestionID: 1, Value: entity.BoolValue(true)},
	})
	require.NoError(t, err)

	require.NoError(t, gridRepo.Delete(gridID))

	evals, err := svc.GetEvaluationsByGridID(gridID)
	require.NoError(t, err)
	require.Len(t, evals, 1, "Оценки переживают удаление сетки")
	assert.Equal(t, evaluation.ID, evals[0].ID)
}

func TestSubmitEvaluationBumpsCampaignCounter(t *testing.T) {
	svc, gridRepo, campaignRepo, _ := newEvaluationServiceForTest(t)
	gridID := submitGrid(t, gridRepo)

	campaignID, err := campaignRepo.Create(&entity.Campaign{Name: "Август", RecordCount: 10})
	require.NoError(t, err)

	_, err = svc.SubmitEvaluation(gridID, &campaignID, []entity.EvaluationAnswer{
		{QuestionID: 1, Value: entity.BoolValue(true)},
	})
	require.NoError(t, err)

	campaign, err := campaignRepo.GetByID(campaignID)
	require.NoError(t, err)
	assert.Equal(t, 1, campaign.EvaluatedCount)

	// Несуществующая кампания не мешает подаче
	ghost := uint(99)
	evaluation, err := svc.SubmitEvaluation(gridID, &ghost, []entity.EvaluationAnswer{
		{QuestionID: 1, Value: entity.BoolValue(true)},
	})
	require.NoError(t, err)
	assert.NotNil(t, evaluation)
}

func TestMarkReviewed(t *testing.T) {
	svc, gridRepo, _, _ := newEvaluationServiceForTest(t)
	gridID := submitGrid(t, gridRepo)

	evaluation, err := svc.SubmitEvaluation(gridID, nil, []entity.EvaluationAnswer{
		{QuestionID: 1, Value: entity.BoolValue(true)},
	})
	require.NoError(t, err)

	require.NoError(t, svc.MarkReviewed(evaluation.ID))

	stored, err := svc.GetEvaluation(evaluation.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.EvaluationStatusReviewed, stored.Status)

	err = svc.MarkReviewed(evaluation.ID)
	assert.True(t, errors.Is(err, apperrors.ErrConflict), "Повторное ревью - конфликт")
}
