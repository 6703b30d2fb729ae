package repository

import (
	"github.com/yourusername/qa-eval-api/internal/domain/entity"
)

// SnapshotSchemaVersion - текущая версия формы снапшота.
// Увеличивается при ломающих изменениях; снапшоты с чужой версией
// отбрасываются при загрузке (состояние начинается с чистого листа).
const SnapshotSchemaVersion = 1

// StoreSnapshot - персистируемая форма локального состояния хранилищ
type StoreSnapshot struct {
	Grids         []entity.Grid       `json:"grids"`
	Evaluations   []entity.Evaluation `json:"evaluations"`
	Campaigns     []entity.Campaign   `json:"campaigns"`
	SchemaVersion int                 `json:"schema_version"`
}

// SnapshotRepository определяет методы сохранения и загрузки снапшота состояния
type SnapshotRepository interface {
	Save(snapshot *StoreSnapshot) error
	// Load возвращает ErrNotFound, если снапшота еще нет
	Load() (*StoreSnapshot, error)
}
