package memory

import (
	"fmt"
	"sync"
	"time"

	"github.com/yourusername/qa-eval-api/internal/domain/entity"
	apperrors "github.com/yourusername/qa-eval-api/internal/pkg/errors"
)

// EvaluationRepo реализует repository.EvaluationRepository поверх состояния
// в памяти. Коллекция append-only; GridRepo ее никогда не мутирует, удаление
// сетки оставляет оценки на месте с висячим grid_id.
type EvaluationRepo struct {
	mu          sync.RWMutex
	evaluations []entity.Evaluation
	lastID      uint // исторический максимум, ID не переиспользуются
}

// NewEvaluationRepo создает новый репозиторий оценок
func NewEvaluationRepo() *EvaluationRepo {
	return &EvaluationRepo{}
}

// Create назначает ID и добавляет оценку; возвращает новый ID
func (r *EvaluationRepo) Create(evaluation *entity.Evaluation) (uint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastID++
	id := r.lastID

	stored := cloneEvaluation(evaluation)
	stored.ID = id
	now := time.Now()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	r.evaluations = append(r.evaluations, stored)

	// Отдаем вызывающему назначенные поля
	evaluation.ID = id
	evaluation.CreatedAt = stored.CreatedAt
	evaluation.UpdatedAt = stored.UpdatedAt
	return id, nil
}

// GetByID возвращает оценку по ID
func (r *EvaluationRepo) GetByID(id uint) (*entity.Evaluation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.evaluations {
		if r.evaluations[i].ID == id {
			e := cloneEvaluation(&r.evaluations[i])
			return &e, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// GetByGridID возвращает оценки сетки (линейный фильтр).
// Сетка может уже не существовать - оценки при этом остаются доступны.
func (r *EvaluationRepo) GetByGridID(gridID uint) ([]entity.Evaluation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []entity.Evaluation
	for i := range r.evaluations {
		if r.evaluations[i].GridID == gridID {
			result = append(result, cloneEvaluation(&r.evaluations[i]))
		}
	}
	return result, nil
}

// GetByCampaignID возвращает оценки кампании
func (r *EvaluationRepo) GetByCampaignID(campaignID uint) ([]entity.Evaluation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []entity.Evaluation
	for i := range r.evaluations {
		if r.evaluations[i].CampaignID != nil && *r.evaluations[i].CampaignID == campaignID {
			result = append(result, cloneEvaluation(&r.evaluations[i]))
		}
	}
	return result, nil
}

// List возвращает все оценки
func (r *EvaluationRepo) List() ([]entity.Evaluation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]entity.Evaluation, len(r.evaluations))
	for i := range r.evaluations {
		result[i] = cloneEvaluation(&r.evaluations[i])
	}
	return result, nil
}

// MarkReviewed переводит оценку submitted → reviewed.
// Любой другой исходный статус - ErrConflict; отсутствующий ID - no-op.
func (r *EvaluationRepo) MarkReviewed(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.evaluations {
		if r.evaluations[i].ID == id {
			if r.evaluations[i].Status != entity.EvaluationStatusSubmitted {
				return fmt.Errorf("%w: evaluation #%d is %s, only submitted evaluations can be reviewed",
					apperrors.ErrConflict, id, r.evaluations[i].Status)
			}
			r.evaluations[i].Status = entity.EvaluationStatusReviewed
			r.evaluations[i].UpdatedAt = time.Now()
			return nil
		}
	}
	return nil
}

// Restore заменяет коллекцию содержимым снапшота
func (r *EvaluationRepo) Restore(evaluations []entity.Evaluation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.evaluations = make([]entity.Evaluation, len(evaluations))
	r.lastID = 0
	for i := range evaluations {
		e := cloneEvaluation(&evaluations[i])
		if e.ID > r.lastID {
			r.lastID = e.ID
		}
		r.evaluations[i] = e
	}
	return nil
}

func cloneEvaluation(e *entity.Evaluation) entity.Evaluation {
	c := *e
	if e.CampaignID != nil {
		v := *e.CampaignID
		c.CampaignID = &v
	}
	c.Answers = make(entity.AnswerList, len(e.Answers))
	for i, a := range e.Answers {
		ac := a
		ac.Value = entity.AnswerValue{Raw: append([]byte(nil), a.Value.Raw...)}
		c.Answers[i] = ac
	}
	return c
}
