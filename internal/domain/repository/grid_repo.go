package repository

import (
	"time"

	"github.com/yourusername/qa-eval-api/internal/domain/entity"
)

// GridUpdate определяет частичное обновление сетки.
// nil-поле означает "не менять". UpdatedAt задается вызывающим только
// в touch-and-save сценариях, иначе репозиторий ставит текущее время.
type GridUpdate struct {
	Name        *string
	Description *string
	Questions   []entity.Question // nil - без изменений, пустой слайс - очистить
	UpdatedAt   *time.Time
}

// QuestionUpdate определяет частичное обновление вопроса
type QuestionUpdate struct {
	Text     *string
	Type     *string
	Required *bool
	Options  entity.OptionList // nil - без изменений
	MinValue *int
	MaxValue *int
}

// GridRepository определяет методы для работы с оценочными сетками.
// Репозиторий - единственный владелец коллекции и единственный источник ID.
//
// Политика "not found" для мутаций: молчаливый no-op (состояние не меняется,
// ошибки нет). Она применяется единообразно ко всем операциям изменения;
// ErrNotFound возвращают только операции чтения.
type GridRepository interface {
	// Create назначает ID и добавляет сетку; возвращает новый ID.
	// Вызывающие полагаются на возврат ID для немедленного выбора созданной сетки.
	Create(grid *entity.Grid) (uint, error)
	GetByID(id uint) (*entity.Grid, error)
	List() ([]entity.Grid, error)
	Update(id uint, patch GridUpdate) error
	// Delete удаляет сетку вместе с вопросами. Оценки НЕ каскадируются.
	Delete(id uint) error

	// AddQuestion назначает ID в пространстве сетки (не глобальном) и добавляет
	// вопрос в конец списка; возвращает новый ID вопроса.
	AddQuestion(gridID uint, question entity.Question) (uint, error)
	UpdateQuestion(gridID, questionID uint, patch QuestionUpdate) error
	DeleteQuestion(gridID, questionID uint) error
	// ReorderQuestions переставляет вопросы точно по order: каждый существующий
	// ID должен встретиться ровно один раз, иначе ErrValidation.
	ReorderQuestions(gridID uint, order []uint) error

	// Restore заменяет коллекцию содержимым снапшота (загрузка при старте)
	Restore(grids []entity.Grid) error
}
