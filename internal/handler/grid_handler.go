package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/qa-eval-api/internal/domain/entity"
	"github.com/yourusername/qa-eval-api/internal/domain/repository"
	"github.com/yourusername/qa-eval-api/internal/handler/dto"
	apperrors "github.com/yourusername/qa-eval-api/internal/pkg/errors"
	"github.com/yourusername/qa-eval-api/internal/service"
)

// GridHandler обрабатывает запросы, связанные с оценочными сетками
type GridHandler struct {
	gridService *service.GridService
}

// NewGridHandler создает новый обработчик сеток
func NewGridHandler(gridService *service.GridService) *GridHandler {
	return &GridHandler{gridService: gridService}
}

// QuestionRequest представляет вопрос в запросе на создание/обновление
type QuestionRequest struct {
	Text     string                  `json:"text" binding:"required,min=1,max=500"`
	Type     string                  `json:"type" binding:"required"`
	Required bool                    `json:"required"`
	Options  []entity.QuestionOption `json:"options,omitempty"`
	MinValue *int                    `json:"min_value,omitempty"`
	MaxValue *int                    `json:"max_value,omitempty"`
}

func (r *QuestionRequest) toEntity() entity.Question {
	return entity.Question{
		Text:     r.Text,
		Type:     r.Type,
		Required: r.Required,
		Options:  r.Options,
		MinValue: r.MinValue,
		MaxValue: r.MaxValue,
	}
}

// CreateGridRequest представляет запрос на создание сетки
type CreateGridRequest struct {
	Name        string            `json:"name" binding:"required,min=1,max=200"`
	Description string            `json:"description" binding:"omitempty,max=1000"`
	Questions   []QuestionRequest `json:"questions,omitempty"`
}

// CreateGrid обрабатывает запрос на создание сетки
func (h *GridHandler) CreateGrid(c *gin.Context) {
	var req CreateGridRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	questions := make([]entity.Question, 0, len(req.Questions))
	for i := range req.Questions {
		questions = append(questions, req.Questions[i].toEntity())
	}

	id, err := h.gridService.CreateGrid(service.CreateGridInput{
		Name:        req.Name,
		Description: req.Description,
		Questions:   questions,
	})
	if err != nil {
		h.handleGridError(c, err)
		return
	}

	grid, err := h.gridService.GetGrid(id)
	if err != nil {
		h.handleGridError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewGridResponse(grid))
}

// ListGrids возвращает все сетки
func (h *GridHandler) ListGrids(c *gin.Context) {
	grids, err := h.gridService.ListGrids()
	if err != nil {
		h.handleGridError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewListGridResponse(grids))
}

// GetGrid возвращает сетку по ID
func (h *GridHandler) GetGrid(c *gin.Context) {
	gridID := c.MustGet("gridID").(uint) // Получаем из контекста

	grid, err := h.gridService.GetGrid(gridID)
	if err != nil {
		h.handleGridError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewGridResponse(grid))
}

// UpdateGridRequest представляет частичное обновление сетки.
// nil-поля не меняются; пустой запрос обновляет только updated_at.
type UpdateGridRequest struct {
	Name        *string           `json:"name,omitempty"`
	Description *string           `json:"description,omitempty"`
	Questions   []QuestionRequest `json:"questions,omitempty"`
}

// UpdateGrid обрабатывает запрос на обновление сетки
func (h *GridHandler) UpdateGrid(c *gin.Context) {
	gridID := c.MustGet("gridID").(uint)

	var req UpdateGridRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch := repository.GridUpdate{
		Name:        req.Name,
		Description: req.Description,
	}
	if req.Questions != nil {
		questions := make([]entity.Question, 0, len(req.Questions))
		for i := range req.Questions {
			questions = append(questions, req.Questions[i].toEntity())
		}
		patch.Questions = questions
	}
	now := time.Now()
	patch.UpdatedAt = &now

	if err := h.gridService.UpdateGrid(gridID, patch); err != nil {
		h.handleGridError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Grid updated"})
}

// DeleteGrid удаляет сетку; ее оценки остаются как исторические записи
func (h *GridHandler) DeleteGrid(c *gin.Context) {
	gridID := c.MustGet("gridID").(uint)

	if err := h.gridService.DeleteGrid(gridID); err != nil {
		h.handleGridError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Grid deleted"})
}

// AddQuestion добавляет вопрос в конец сетки
func (h *GridHandler) AddQuestion(c *gin.Context) {
	gridID := c.MustGet("gridID").(uint)

	var req QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.gridService.AddQuestion(gridID, req.toEntity())
	if err != nil {
		h.handleGridError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"question_id": id})
}

// UpdateQuestionRequest представляет частичное обновление вопроса
type UpdateQuestionRequest struct {
	Text     *string                 `json:"text,omitempty"`
	Type     *string                 `json:"type,omitempty"`
	Required *bool                   `json:"required,omitempty"`
	Options  []entity.QuestionOption `json:"options,omitempty"`
	MinValue *int                    `json:"min_value,omitempty"`
	MaxValue *int                    `json:"max_value,omitempty"`
}

// UpdateQuestion обрабатывает запрос на обновление вопроса
func (h *GridHandler) UpdateQuestion(c *gin.Context) {
	gridID := c.MustGet("gridID").(uint)
	questionID := c.MustGet("questionID").(uint)

	var req UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch := repository.QuestionUpdate{
		Text:     req.Text,
		Type:     req.Type,
		Required: req.Required,
		Options:  req.Options,
		MinValue: req.MinValue,
		MaxValue: req.MaxValue,
	}
	if err := h.gridService.UpdateQuestion(gridID, questionID, patch); err != nil {
		h.handleGridError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Question updated"})
}

// DeleteQuestion удаляет вопрос из сетки
func (h *GridHandler) DeleteQuestion(c *gin.Context) {
	gridID := c.MustGet("gridID").(uint)
	questionID := c.MustGet("questionID").(uint)

	if err := h.gridService.DeleteQuestion(gridID, questionID); err != nil {
		h.handleGridError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Question deleted"})
}

// ReorderQuestionsRequest представляет запрос на смену порядка вопросов
type ReorderQuestionsRequest struct {
	Order []uint `json:"order" binding:"required"`
}

// ReorderQuestions задает новый порядок вопросов сетки.
// Список order должен быть точной перестановкой текущих ID вопросов.
func (h *GridHandler) ReorderQuestions(c *gin.Context) {
	gridID := c.MustGet("gridID").(uint)

	var req ReorderQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.gridService.ReorderQuestions(gridID, req.Order); err != nil {
		h.handleGridError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Questions reordered"})
}

// handleGridError преобразует доменные ошибки в HTTP-статусы
func (h *GridHandler) handleGridError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in GridHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
