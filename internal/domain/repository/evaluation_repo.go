package repository

import (
	"github.com/yourusername/qa-eval-api/internal/domain/entity"
)

// EvaluationRepository определяет методы для работы с оценками.
// Коллекция append-only: поданные оценки не обновляются и не удаляются,
// единственная разрешенная мутация - переход статуса submitted → reviewed.
type EvaluationRepository interface {
	// Create назначает ID (max исторических + 1) и добавляет оценку
	Create(evaluation *entity.Evaluation) (uint, error)
	GetByID(id uint) (*entity.Evaluation, error)
	// GetByGridID возвращает оценки сетки, включая оценки уже удаленных сеток
	GetByGridID(gridID uint) ([]entity.Evaluation, error)
	GetByCampaignID(campaignID uint) ([]entity.Evaluation, error)
	List() ([]entity.Evaluation, error)
	// MarkReviewed переводит submitted → reviewed; иные переходы - ErrConflict
	MarkReviewed(id uint) error

	// Restore заменяет коллекцию содержимым снапшота (загрузка при старте)
	Restore(evaluations []entity.Evaluation) error
}
