package memory

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/qa-eval-api/internal/domain/entity"
	"github.com/yourusername/qa-eval-api/internal/domain/repository"
	apperrors "github.com/yourusername/qa-eval-api/internal/pkg/errors"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func testGrid() *entity.Grid {
	return &entity.Grid{
		Name:        "Контроль звонков",
		Description: "Сетка для оценки входящих звонков",
		Questions: []entity.Question{
			{Text: "Поздоровался?", Type: entity.QuestionTypeToggle},
			{
				Text: "Качество консультации",
				Type: entity.QuestionTypeRadio,
				Options: entity.OptionList{
					{ID: 1, Label: "Плохо", Value: 0},
					{ID: 2, Label: "Хорошо", Value: 5},
				},
			},
		},
	}
}

func TestGridRepoCreate(t *testing.T) {
	repo := NewGridRepo()

	id, err := repo.Create(testGrid())
	require.NoError(t, err)
	assert.Equal(t, uint(1), id)

	grid, err := repo.GetByID(id)
	require.NoError(t, err)
	assert.Equal(t, "Контроль звонков", grid.Name)
	require.Len(t, grid.Questions, 2)

	// Вопросы получают последовательные ID в пространстве сетки
	assert.Equal(t, uint(1), grid.Questions[0].ID)
	assert.Equal(t, uint(2), grid.Questions[1].ID)
	assert.Equal(t, 0, grid.Questions[0].Position)
	assert.Equal(t, 1, grid.Questions[1].Position)
	assert.False(t, grid.CreatedAt.IsZero())
}

func TestGridRepoCreateValidatesQuestions(t *testing.T) {
	repo := NewGridRepo()

	_, err := repo.Create(&entity.Grid{
		Name:      "Сетка",
		Questions: []entity.Question{{Text: "Вопрос", Type: entity.QuestionTypeRadio}},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestGridRepoQuestionIDSpacePerGrid(t *testing.T) {
	repo := NewGridRepo()

	id1, err := repo.Create(testGrid())
	require.NoError(t, err)
	id2, err := repo.Create(testGrid())
	require.NoError(t, err)

	g1, err := repo.GetByID(id1)
	require.NoError(t, err)
	g2, err := repo.GetByID(id2)
	require.NoError(t, err)

	// Обе сетки начинают нумерацию вопросов с 1
	assert.Equal(t, uint(1), g1.Questions[0].ID)
	assert.Equal(t, uint(1), g2.Questions[0].ID)
}

func TestGridRepoIDsNeverReused(t *testing.T) {
	repo := NewGridRepo()

	id1, err := repo.Create(testGrid())
	require.NoError(t, err)
	require.NoError(t, repo.Delete(id1))

	// Новый ID идет от исторического максимума, а не от размера коллекции
	id2, err := repo.Create(testGrid())
	require.NoError(t, err)
	assert.Equal(t, id1+1, id2)
}

func TestGridRepoQuestionIDsNeverReusedAfterDelete(t *testing.T) {
	repo := NewGridRepo()

	gridID, err := repo.Create(testGrid())
	require.NoError(t, err)

	require.NoError(t, repo.DeleteQuestion(gridID, 2))

	qid, err := repo.AddQuestion(gridID, entity.Question{
		Text: "Новый вопрос", Type: entity.QuestionTypeToggle,
	})
	require.NoError(t, err)
	assert.Equal(t, uint(3), qid, "После удаления вопроса #2 следующий ID должен быть 3")
}

func TestGridRepoGetByIDMiss(t *testing.T) {
	repo := NewGridRepo()

	_, err := repo.GetByID(99)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestGridRepoUpdate(t *testing.T) {
	repo := NewGridRepo()
	id, err := repo.Create(testGrid())
	require.NoError(t, err)

	err = repo.Update(id, repository.GridUpdate{
		Name:        strPtr("Новое имя"),
		Description: strPtr(""),
	})
	require.NoError(t, err)

	grid, err := repo.GetByID(id)
	require.NoError(t, err)
	assert.Equal(t, "Новое имя", grid.Name)
	assert.Equal(t, "", grid.Description)
	assert.Len(t, grid.Questions, 2, "Вопросы без patch.Questions не меняются")
}

func TestGridRepoUpdateEmptyPatchBumpsUpdatedAt(t *testing.T) {
	repo := NewGridRepo()
	id, err := repo.Create(testGrid())
	require.NoError(t, err)

	before, err := repo.GetByID(id)
	require.NoError(t, err)

	stamp := before.UpdatedAt.Add(5 * time.Minute)
	require.NoError(t, repo.Update(id, repository.GridUpdate{UpdatedAt: &stamp}))

	after, err := repo.GetByID(id)
	require.NoError(t, err)
	assert.Equal(t, before.Name, after.Name)
	assert.Equal(t, stamp.Unix(), after.UpdatedAt.Unix())
}

func TestGridRepoUpdateEmptyNameRejected(t *testing.T) {
	repo := NewGridRepo()
	id, err := repo.Create(testGrid())
	require.NoError(t, err)

	err = repo.Update(id, repository.GridUpdate{Name: strPtr("")})
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestGridRepoUpdateAtomicity(t *testing.T) {
	repo := NewGridRepo()
	id, err := repo.Create(testGrid())
	require.NoError(t, err)

	// Невалидный вопрос в patch отклоняет мутацию целиком:
	// имя и описание не должны примениться частично
	err = repo.Update(id, repository.GridUpdate{
		Name:        strPtr("Новое имя"),
		Description: strPtr("Новое описание"),
		Questions: []entity.Question{
			{Text: "Без вариантов", Type: entity.QuestionTypeRadio},
		},
	})
	require.True(t, errors.Is(err, apperrors.ErrValidation))

	grid, err := repo.GetByID(id)
	require.NoError(t, err)
	assert.Equal(t, "Контроль звонков", grid.Name)
	assert.Equal(t, "Сетка для оценки входящих звонков", grid.Description)
	require.Len(t, grid.Questions, 2)
}

func TestGridRepoUpdateMissingIDIsNoop(t *testing.T) {
	repo := NewGridRepo()

	// Мутация несуществующей сетки молча игнорируется
	assert.NoError(t, repo.Update(42, repository.GridUpdate{Name: strPtr("Имя")}))
	assert.NoError(t, repo.Delete(42))
	assert.NoError(t, repo.DeleteQuestion(42, 1))
	assert.NoError(t, repo.UpdateQuestion(42, 1, repository.QuestionUpdate{}))

	qid, err := repo.AddQuestion(42, entity.Question{Text: "Вопрос", Type: entity.QuestionTypeText})
	assert.NoError(t, err)
	assert.Equal(t, uint(0), qid)
}

func TestGridRepoAddQuestion(t *testing.T) {
	repo := NewGridRepo()
	id, err := repo.Create(testGrid())
	require.NoError(t, err)

	qid, err := repo.AddQuestion(id, entity.Question{
		Text:     "Общее впечатление",
		Type:     entity.QuestionTypeRating,
		MinValue: intPtr(0),
		MaxValue: intPtr(5),
	})
	require.NoError(t, err)
	assert.Equal(t, uint(3), qid)

	grid, err := repo.GetByID(id)
	require.NoError(t, err)
	require.Len(t, grid.Questions, 3)
	assert.Equal(t, 2, grid.Questions[2].Position, "Новый вопрос добавляется в конец")
}

func TestGridRepoUpdateQuestionAtomicity(t *testing.T) {
	repo := NewGridRepo()
	id, err := repo.Create(testGrid())
	require.NoError(t, err)

	// Невалидное слияние (radio без вариантов) не должно менять вопрос
	err = repo.UpdateQuestion(id, 1, repository.QuestionUpdate{
		Type: strPtr(entity.QuestionTypeRadio),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	grid, err := repo.GetByID(id)
	require.NoError(t, err)
	assert.Equal(t, entity.QuestionTypeToggle, grid.Questions[0].Type,
		"Неудачное обновление не должно частично применяться")
}

func TestGridRepoUpdateQuestionTypeChangeResetsShape(t *testing.T) {
	repo := NewGridRepo()
	id, err := repo.Create(testGrid())
	require.NoError(t, err)

	// radio → toggle: варианты старого типа сбрасываются
	err = repo.UpdateQuestion(id, 2, repository.QuestionUpdate{
		Type: strPtr(entity.QuestionTypeToggle),
	})
	require.NoError(t, err)

	grid, err := repo.GetByID(id)
	require.NoError(t, err)
	assert.Equal(t, entity.QuestionTypeToggle, grid.Questions[1].Type)
	assert.Empty(t, grid.Questions[1].Options)
}

func TestGridRepoDeleteQuestionReindexesPositions(t *testing.T) {
	repo := NewGridRepo()
	id, err := repo.Create(testGrid())
	require.NoError(t, err)

	require.NoError(t, repo.DeleteQuestion(id, 1))

	grid, err := repo.GetByID(id)
	require.NoError(t, err)
	require.Len(t, grid.Questions, 1)
	assert.Equal(t, uint(2), grid.Questions[0].ID)
	assert.Equal(t, 0, grid.Questions[0].Position)
}

func TestGridRepoReorderQuestions(t *testing.T) {
	repo := NewGridRepo()
	id, err := repo.Create(testGrid())
	require.NoError(t, err)

	require.NoError(t, repo.ReorderQuestions(id, []uint{2, 1}))

	grid, err := repo.GetByID(id)
	require.NoError(t, err)
	assert.Equal(t, uint(2), grid.Questions[0].ID)
	assert.Equal(t, uint(1), grid.Questions[1].ID)
	assert.Equal(t, 0, grid.Questions[0].Position)
	assert.Equal(t, 1, grid.Questions[1].Position)
}

func TestGridRepoReorderMismatch(t *testing.T) {
	repo := NewGridRepo()
	id, err := repo.Create(testGrid())
	require.NoError(t, err)

	tests := []struct {
		name  string
		order []uint
	}{
		{name: "missing id", order: []uint{1}},
		{name: "unknown id", order: []uint{1, 99}},
		{name: "duplicate id", order: []uint{1, 1}},
		{name: "extra id", order: []uint{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.ReorderQuestions(id, tt.order)
			assert.True(t, errors.Is(err, apperrors.ErrValidation),
				"Неполная перестановка должна отклоняться: %v", err)
		})
	}

	// Состояние после неудачных перестановок не изменилось
	grid, err := repo.GetByID(id)
	require.NoError(t, err)
	assert.Equal(t, uint(1), grid.Questions[0].ID)
}

func TestGridRepoClonesProtectState(t *testing.T) {
	repo := NewGridRepo()
	id, err := repo.Create(testGrid())
	require.NoError(t, err)

	grid, err := repo.GetByID(id)
	require.NoError(t, err)
	grid.Name = "испорчено"
	grid.Questions[0].Text = "испорчено"

	fresh, err := repo.GetByID(id)
	require.NoError(t, err)
	assert.Equal(t, "Контроль звонков", fresh.Name)
	assert.Equal(t, "Поздоровался?", fresh.Questions[0].Text)
}

func TestGridRepoRestore(t *testing.T) {
	repo := NewGridRepo()
	id, err := repo.Create(testGrid())
	require.NoError(t, err)
	grids, err := repo.List()
	require.NoError(t, err)

	restored := NewGridRepo()
	require.NoError(t, restored.Restore(grids))

	// Счетчики восстанавливаются по максимумам, нумерация продолжается
	id2, err := restored.Create(testGrid())
	require.NoError(t, err)
	assert.Equal(t, id+1, id2)

	qid, err := restored.AddQuestion(id, entity.Question{Text: "Еще", Type: entity.QuestionTypeText})
	require.NoError(t, err)
	assert.Equal(t, uint(3), qid)
}
