package memory

import (
	"fmt"
	"sync"
	"time"

	"github.com/yourusername/qa-eval-api/internal/domain/entity"
	"github.com/yourusername/qa-eval-api/internal/domain/repository"
	apperrors "github.com/yourusername/qa-eval-api/internal/pkg/errors"
)

// GridRepo реализует repository.GridRepository поверх состояния в памяти.
// Все операции - это read-modify-write под мьютексом: назначение ID по
// максимуму небезопасно при конкурентных писателях без сериализации.
type GridRepo struct {
	mu    sync.RWMutex
	grids []entity.Grid

	// Исторические максимумы ID. ID никогда не переиспользуются после
	// удаления, поэтому счетчики не убывают вместе с коллекцией.
	lastGridID     uint
	lastQuestionID map[uint]uint // пространство ID вопросов - на сетку, не глобальное
}

// NewGridRepo создает новый репозиторий сеток
func NewGridRepo() *GridRepo {
	return &GridRepo{
		lastQuestionID: make(map[uint]uint),
	}
}

// Create назначает ID и добавляет сетку; возвращает новый ID
func (r *GridRepo) Create(grid *entity.Grid) (uint, error) {
	if err := grid.Validate(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastGridID++
	id := r.lastGridID

	stored := cloneGrid(grid)
	stored.ID = id
	now := time.Now()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	// Вопросам, пришедшим вместе с сеткой, назначаем ID последовательно
	// в пространстве этой сетки
	var lastQID uint
	for i := range stored.Questions {
		lastQID++
		stored.Questions[i].ID = lastQID
		stored.Questions[i].GridID = id
		stored.Questions[i].Position = i
	}
	r.lastQuestionID[id] = lastQID

	r.grids = append(r.grids, stored)
	return id, nil
}

// GetByID возвращает сетку по ID
func (r *GridRepo) GetByID(id uint) (*entity.Grid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.grids {
		if r.grids[i].ID == id {
			g := cloneGrid(&r.grids[i])
			return &g, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// List возвращает все сетки
func (r *GridRepo) List() ([]entity.Grid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	grids := make([]entity.Grid, len(r.grids))
	for i := range r.grids {
		grids[i] = cloneGrid(&r.grids[i])
	}
	return grids, nil
}

// Update сливает patch в сетку. Отсутствующий ID - молчаливый no-op.
// Весь patch сначала проверяется целиком и только потом применяется:
// ошибка валидации не оставляет сетку частично измененной.
// UpdatedAt обновляется текущим временем, если вызывающий не передал свое.
func (r *GridRepo) Update(id uint, patch repository.GridUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g := r.findLocked(id)
	if g == nil {
		return nil
	}

	if patch.Name != nil && *patch.Name == "" {
		return fmt.Errorf("%w: grid name is required", apperrors.ErrValidation)
	}

	var replacement []entity.Question
	lastQID := r.lastQuestionID[id]
	if patch.Questions != nil {
		replacement = make([]entity.Question, len(patch.Questions))
		for i, q := range patch.Questions {
			if err := q.Validate(); err != nil {
				return err
			}
			qc := cloneQuestion(&q)
			if qc.ID == 0 {
				lastQID++
				qc.ID = lastQID
			} else if qc.ID > lastQID {
				lastQID = qc.ID
			}
			qc.GridID = id
			qc.Position = i
			replacement[i] = qc
		}
	}

	if patch.Name != nil {
		g.Name = *patch.Name
	}
	if patch.Description != nil {
		g.Description = *patch.Description
	}
	if patch.Questions != nil {
		g.Questions = replacement
		r.lastQuestionID[id] = lastQID
	}

	if patch.UpdatedAt != nil {
		g.UpdatedAt = *patch.UpdatedAt
	} else {
		g.UpdatedAt = time.Now()
	}
	return nil
}

// Delete удаляет сетку вместе с вопросами. Оценки, ссылающиеся на нее,
// не трогаются - они остаются историческими записями.
func (r *GridRepo) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.grids {
		if r.grids[i].ID == id {
			r.grids = append(r.grids[:i], r.grids[i+1:]...)
			return nil
		}
	}
	return nil
}

// AddQuestion валидирует вопрос, назначает ID в пространстве сетки и
// добавляет его в конец списка. Неизвестная сетка - молчаливый no-op (0, nil).
func (r *GridRepo) AddQuestion(gridID uint, question entity.Question) (uint, error) {
	if err := question.Validate(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	g := r.findLocked(gridID)
	if g == nil {
		return 0, nil
	}

	r.lastQuestionID[gridID]++
	qid := r.lastQuestionID[gridID]

	stored := cloneQuestion(&question)
	stored.ID = qid
	stored.GridID = gridID
	stored.Position = len(g.Questions)

	g.Questions = append(g.Questions, stored)
	g.UpdatedAt = time.Now()
	return qid, nil
}

// UpdateQuestion сливает patch в вопрос и валидирует результат до применения:
// невалидное слияние не меняет состояние. Отсутствующая сетка или вопрос -
// молчаливый no-op.
func (r *GridRepo) UpdateQuestion(gridID, questionID uint, patch repository.QuestionUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g := r.findLocked(gridID)
	if g == nil {
		return nil
	}

	q, ok := g.FindQuestion(questionID)
	if !ok {
		return nil
	}

	merged := cloneQuestion(q)
	if patch.Text != nil {
		merged.Text = *patch.Text
	}
	if patch.Type != nil {
		merged.Type = *patch.Type
	}
	if patch.Required != nil {
		merged.Required = *patch.Required
	}
	if patch.Options != nil {
		merged.Options = append(entity.OptionList(nil), patch.Options...)
	}
	if patch.MinValue != nil {
		merged.MinValue = patch.MinValue
	}
	if patch.MaxValue != nil {
		merged.MaxValue = patch.MaxValue
	}

	// Смена типа может сделать старую форму невалидной, поэтому несовместимые
	// поля сбрасываются по форме нового типа перед проверкой
	if patch.Type != nil {
		if !entity.RequiresOptions(merged.Type) {
			merged.Options = nil
		}
		if !entity.RequiresRange(merged.Type) {
			merged.MinValue = nil
			merged.MaxValue = nil
		}
	}

	if err := merged.Validate(); err != nil {
		return err
	}

	*q = merged
	g.UpdatedAt = time.Now()
	return nil
}

// DeleteQuestion удаляет вопрос из списка сетки
func (r *GridRepo) DeleteQuestion(gridID, questionID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g := r.findLocked(gridID)
	if g == nil {
		return nil
	}

	for i := range g.Questions {
		if g.Questions[i].ID == questionID {
			g.Questions = append(g.Questions[:i], g.Questions[i+1:]...)
			for j := range g.Questions {
				g.Questions[j].Position = j
			}
			g.UpdatedAt = time.Now()
			return nil
		}
	}
	return nil
}

// ReorderQuestions переставляет вопросы точно по order.
// order обязан быть перестановкой текущих ID: каждый существующий ID
// ровно один раз, иначе ErrValidation "order mismatch".
func (r *GridRepo) ReorderQuestions(gridID uint, order []uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g := r.findLocked(gridID)
	if g == nil {
		return nil
	}

	if len(order) != len(g.Questions) {
		return fmt.Errorf("%w: order mismatch", apperrors.ErrValidation)
	}

	byID := make(map[uint]*entity.Question, len(g.Questions))
	for i := range g.Questions {
		byID[g.Questions[i].ID] = &g.Questions[i]
	}

	reordered := make([]entity.Question, 0, len(order))
	seen := make(map[uint]bool, len(order))
	for _, qid := range order {
		q, ok := byID[qid]
		if !ok || seen[qid] {
			return fmt.Errorf("%w: order mismatch", apperrors.ErrValidation)
		}
		seen[qid] = true
		reordered = append(reordered, *q)
	}

	for i := range reordered {
		reordered[i].Position = i
	}
	g.Questions = reordered
	g.UpdatedAt = time.Now()
	return nil
}

// Restore заменяет коллекцию содержимым снапшота и восстанавливает
// счетчики ID по максимумам восстановленных записей
func (r *GridRepo) Restore(grids []entity.Grid) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.grids = make([]entity.Grid, len(grids))
	r.lastGridID = 0
	r.lastQuestionID = make(map[uint]uint, len(grids))

	for i := range grids {
		g := cloneGrid(&grids[i])
		if g.ID > r.lastGridID {
			r.lastGridID = g.ID
		}
		var lastQID uint
		for _, q := range g.Questions {
			if q.ID > lastQID {
				lastQID = q.ID
			}
		}
		r.lastQuestionID[g.ID] = lastQID
		r.grids[i] = g
	}
	return nil
}

// findLocked ищет сетку по ID; вызывается только под мьютексом
func (r *GridRepo) findLocked(id uint) *entity.Grid {
	for i := range r.grids {
		if r.grids[i].ID == id {
			return &r.grids[i]
		}
	}
	return nil
}

// cloneGrid делает глубокую копию, чтобы вызывающие не могли
// мутировать внутреннее состояние репозитория
func cloneGrid(g *entity.Grid) entity.Grid {
	c := *g
	c.Questions = make([]entity.Question, len(g.Questions))
	for i := range g.Questions {
		c.Questions[i] = cloneQuestion(&g.Questions[i])
	}
	return c
}

func cloneQuestion(q *entity.Question) entity.Question {
	c := *q
	if q.Options != nil {
		c.Options = append(entity.OptionList(nil), q.Options...)
	}
	if q.MinValue != nil {
		v := *q.MinValue
		c.MinValue = &v
	}
	if q.MaxValue != nil {
		v := *q.MaxValue
		c.MaxValue = &v
	}
	return c
}
