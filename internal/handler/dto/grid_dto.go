package dto

import (
	"time"

	"github.com/yourusername/qa-eval-api/internal/domain/entity"
)

// QuestionResponse представляет вопрос в формате для ответа клиенту
type QuestionResponse struct {
	ID       uint                    `json:"id"`
	GridID   uint                    `json:"grid_id"`
	Text     string                  `json:"text"`
	Type     string                  `json:"type"`
	Required bool                    `json:"required"`
	Options  []entity.QuestionOption `json:"options,omitempty"`
	MinValue *int                    `json:"min_value,omitempty"`
	MaxValue *int                    `json:"max_value,omitempty"`
	Position int                     `json:"position"`
}

// GridResponse представляет оценочную сетку в формате для ответа клиенту
type GridResponse struct {
	ID          uint               `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Questions   []QuestionResponse `json:"questions"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// NewQuestionResponse создает DTO для вопроса
func NewQuestionResponse(q *entity.Question) QuestionResponse {
	return QuestionResponse{
		ID:       q.ID,
		GridID:   q.GridID,
		Text:     q.Text,
		Type:     q.Type,
		Required: q.Required,
		Options:  q.Options,
		MinValue: q.MinValue,
		MaxValue: q.MaxValue,
		Position: q.Position,
	}
}

// NewGridResponse создает DTO для сетки вместе с вопросами
func NewGridResponse(grid *entity.Grid) *GridResponse {
	questions := make([]QuestionResponse, 0, len(grid.Questions))
	for i := range grid.Questions {
		questions = append(questions, NewQuestionResponse(&grid.Questions[i]))
	}
	return &GridResponse{
		ID:          grid.ID,
		Name:        grid.Name,
		Description: grid.Description,
		Questions:   questions,
		CreatedAt:   grid.CreatedAt,
		UpdatedAt:   grid.UpdatedAt,
	}
}

// NewListGridResponse создает список DTO сеток
func NewListGridResponse(grids []entity.Grid) []*GridResponse {
	responses := make([]*GridResponse, 0, len(grids))
	for i := range grids {
		responses = append(responses, NewGridResponse(&grids[i]))
	}
	return responses
}
