package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/qa-eval-api/internal/domain/entity"
	"github.com/yourusername/qa-eval-api/internal/handler/dto"
	apperrors "github.com/yourusername/qa-eval-api/internal/pkg/errors"
	"github.com/yourusername/qa-eval-api/internal/service"
)

// EvaluationHandler обрабатывает запросы, связанные с оценками
type EvaluationHandler struct {
	evaluationService *service.EvaluationService
}

// NewEvaluationHandler создает новый обработчик оценок
func NewEvaluationHandler(evaluationService *service.EvaluationService) *EvaluationHandler {
	return &EvaluationHandler{evaluationService: evaluationService}
}

// AnswerRequest представляет ответ на один вопрос сетки
type AnswerRequest struct {
	QuestionID uint               `json:"question_id" binding:"required"`
	Value      entity.AnswerValue `json:"value"`
	Comment    string             `json:"comment,omitempty"`
}

// SubmitEvaluationRequest представляет запрос на подачу оценки
type SubmitEvaluationRequest struct {
	CampaignID *uint           `json:"campaign_id,omitempty"`
	Answers    []AnswerRequest `json:"answers" binding:"required"`
}

// SubmitEvaluation вычисляет балл и сохраняет оценку.
// Подача по несуществующей сетке - no-op, возвращается 204.
func (h *EvaluationHandler) SubmitEvaluation(c *gin.Context) {
	gridID := c.MustGet("gridID").(uint)

	var req SubmitEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	answers := make([]entity.EvaluationAnswer, 0, len(req.Answers))
	for _, a := range req.Answers {
		answers = append(answers, entity.EvaluationAnswer{
			QuestionID: a.QuestionID,
			Value:      a.Value,
			Comment:    a.Comment,
		})
	}

	evaluation, err := h.evaluationService.SubmitEvaluation(gridID, req.CampaignID, answers)
	if err != nil {
		h.handleEvaluationError(c, err)
		return
	}
	if evaluation == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusCreated, dto.NewEvaluationResponse(evaluation))
}

// ListEvaluationsByGrid возвращает оценки сетки
func (h *EvaluationHandler) ListEvaluationsByGrid(c *gin.Context) {
	gridID := c.MustGet("gridID").(uint)

	evaluations, err := h.evaluationService.GetEvaluationsByGridID(gridID)
	if err != nil {
		h.handleEvaluationError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewListEvaluationResponse(evaluations))
}

// ListEvaluations возвращает все оценки
func (h *EvaluationHandler) ListEvaluations(c *gin.Context) {
	evaluations, err := h.evaluationService.ListEvaluations()
	if err != nil {
		h.handleEvaluationError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewListEvaluationResponse(evaluations))
}

// GetEvaluation возвращает оценку по ID
func (h *EvaluationHandler) GetEvaluation(c *gin.Context) {
	evaluationID := c.MustGet("evaluationID").(uint)

	evaluation, err := h.evaluationService.GetEvaluation(evaluationID)
	if err != nil {
		h.handleEvaluationError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewEvaluationResponse(evaluation))
}

// MarkReviewed переводит оценку в статус reviewed
func (h *EvaluationHandler) MarkReviewed(c *gin.Context) {
	evaluationID := c.MustGet("evaluationID").(uint)

	if err := h.evaluationService.MarkReviewed(evaluationID); err != nil {
		h.handleEvaluationError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Evaluation reviewed"})
}

// handleEvaluationError преобразует доменные ошибки в HTTP-статусы
func (h *EvaluationHandler) handleEvaluationError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in EvaluationHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
