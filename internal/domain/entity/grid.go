package entity

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/yourusername/qa-eval-api/internal/pkg/errors"
)

// Grid представляет оценочную сетку - именованный упорядоченный набор вопросов.
// Порядок questions значим: это порядок отображения и итерации.
type Grid struct {
	ID          uint       `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name        string     `gorm:"size:100;not null" json:"name"`
	Description string     `gorm:"size:500;not null;default:''" json:"description"`
	Questions   []Question `gorm:"foreignKey:GridID" json:"questions"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Grid) TableName() string {
	return "evaluation_grids"
}

// FindQuestion ищет вопрос по ID внутри сетки
func (g *Grid) FindQuestion(questionID uint) (*Question, bool) {
	for i := range g.Questions {
		if g.Questions[i].ID == questionID {
			return &g.Questions[i], true
		}
	}
	return nil, false
}

// QuestionIDs возвращает ID вопросов в текущем порядке
func (g *Grid) QuestionIDs() []uint {
	ids := make([]uint, len(g.Questions))
	for i, q := range g.Questions {
		ids[i] = q.ID
	}
	return ids
}

// Validate проверяет сетку вместе со всеми вопросами
func (g *Grid) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return fmt.Errorf("%w: grid name is required", apperrors.ErrValidation)
	}
	for i := range g.Questions {
		if err := g.Questions[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}
