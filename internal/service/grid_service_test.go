package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/qa-eval-api/internal/domain/entity"
	"github.com/yourusername/qa-eval-api/internal/repository/memory"
)

func newGridServiceForTest() *GridService {
	gridRepo := memory.NewGridRepo()
	snapshots := NewSnapshotService(gridRepo, memory.NewEvaluationRepo(), memory.NewCampaignRepo(), nil)
	return NewGridService(gridRepo, nil, snapshots)
}

func TestGridServiceRoundTrip(t *testing.T) {
	svc := newGridServiceForTest()

	id, err := svc.CreateGrid(CreateGridInput{
		Name:        "Контроль качества",
		Description: "Оценка разговоров операторов",
		Questions: []entity.Question{
			{Text: "Поздоровался?", Type: entity.QuestionTypeToggle},
			{Text: "Тон разговора", Type: entity.QuestionTypeRating, MinValue: intPtr(0), MaxValue: intPtr(5)},
		},
	})
	require.NoError(t, err)
	require.NotZero(t, id)

	questionID, err := svc.AddQuestion(id, entity.Question{
		Text: "Комментарий", Type: entity.QuestionTypeText,
	})
	require.NoError(t, err)
	assert.Equal(t, uint(3), questionID)

	require.NoError(t, svc.ReorderQuestions(id, []uint{3, 1, 2}))

	grid, err := svc.GetGrid(id)
	require.NoError(t, err)
	require.Len(t, grid.Questions, 3)
	assert.Equal(t, uint(3), grid.Questions[0].ID)
	assert.Equal(t, 0, grid.Questions[0].Position)

	require.NoError(t, svc.DeleteGrid(id))

	grids, err := svc.ListGrids()
	require.NoError(t, err)
	assert.Empty(t, grids)
}
