package handler

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"github.com/yourusername/qa-eval-api/internal/domain/entity"
	"github.com/yourusername/qa-eval-api/internal/domain/repository"
	"github.com/yourusername/qa-eval-api/internal/handler/dto"
	apperrors "github.com/yourusername/qa-eval-api/internal/pkg/errors"
	"github.com/yourusername/qa-eval-api/internal/service"
)

// CampaignHandler обрабатывает запросы, связанные с кампаниями
type CampaignHandler struct {
	campaignService   *service.CampaignService
	evaluationService *service.EvaluationService
}

// NewCampaignHandler создает новый обработчик кампаний
func NewCampaignHandler(
	campaignService *service.CampaignService,
	evaluationService *service.EvaluationService,
) *CampaignHandler {
	return &CampaignHandler{
		campaignService:   campaignService,
		evaluationService: evaluationService,
	}
}

// CreateCampaignRequest представляет запрос на создание кампании
type CreateCampaignRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Description string `json:"description" binding:"omitempty,max=1000"`
	Status      string `json:"status" binding:"omitempty"`
	GridID      *uint  `json:"grid_id,omitempty"`
	RecordCount int    `json:"record_count" binding:"omitempty,min=0"`
}

// CreateCampaign обрабатывает запрос на создание кампании
func (h *CampaignHandler) CreateCampaign(c *gin.Context) {
	var req CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	campaign := &entity.Campaign{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		GridID:      req.GridID,
		RecordCount: req.RecordCount,
	}
	id, err := h.campaignService.CreateCampaign(campaign)
	if err != nil {
		h.handleCampaignError(c, err)
		return
	}

	created, err := h.campaignService.GetCampaign(id)
	if err != nil {
		h.handleCampaignError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewCampaignResponse(created))
}

// ListCampaigns возвращает все кампании
func (h *CampaignHandler) ListCampaigns(c *gin.Context) {
	campaigns, err := h.campaignService.ListCampaigns()
	if err != nil {
		h.handleCampaignError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewListCampaignResponse(campaigns))
}

// GetCampaign возвращает кампанию по ID
func (h *CampaignHandler) GetCampaign(c *gin.Context) {
	campaignID := c.MustGet("campaignID").(uint)

	campaign, err := h.campaignService.GetCampaign(campaignID)
	if err != nil {
		h.handleCampaignError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCampaignResponse(campaign))
}

// UpdateCampaignRequest представляет частичное обновление кампании
type UpdateCampaignRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	GridID      *uint   `json:"grid_id,omitempty"`
	RecordCount *int    `json:"record_count,omitempty"`
}

// UpdateCampaign обрабатывает запрос на обновление кампании
func (h *CampaignHandler) UpdateCampaign(c *gin.Context) {
	campaignID := c.MustGet("campaignID").(uint)

	var req UpdateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch := repository.CampaignUpdate{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		GridID:      req.GridID,
		RecordCount: req.RecordCount,
	}
	if err := h.campaignService.UpdateCampaign(campaignID, patch); err != nil {
		h.handleCampaignError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Campaign updated"})
}

// DeleteCampaign удаляет кампанию
func (h *CampaignHandler) DeleteCampaign(c *gin.Context) {
	campaignID := c.MustGet("campaignID").(uint)

	if err := h.campaignService.DeleteCampaign(campaignID); err != nil {
		h.handleCampaignError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Campaign deleted"})
}

// GetCampaignStats возвращает сводку по кампании
func (h *CampaignHandler) GetCampaignStats(c *gin.Context) {
	campaignID := c.MustGet("campaignID").(uint)

	stats, err := h.campaignService.GetCampaignStats(campaignID)
	if err != nil {
		h.handleCampaignError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ExportEvaluations выгружает оценки кампании в CSV или XLSX
func (h *CampaignHandler) ExportEvaluations(c *gin.Context) {
	campaignID := c.MustGet("campaignID").(uint)
	format := c.DefaultQuery("format", "csv")

	campaign, err := h.campaignService.GetCampaign(campaignID)
	if err != nil {
		h.handleCampaignError(c, err)
		return
	}

	evaluations, err := h.evaluationService.GetEvaluationsByCampaignID(campaignID)
	if err != nil {
		h.handleCampaignError(c, err)
		return
	}

	filename := fmt.Sprintf("campaign_%d_evaluations_%s", campaignID, time.Now().Format("2006-01-02"))

	switch format {
	case "xlsx":
		h.exportXLSX(c, evaluations, campaign, filename)
	default:
		h.exportCSV(c, evaluations, campaign, filename)
	}
}

// exportCSV экспортирует оценки в CSV с правильным экранированием спецсимволов
func (h *CampaignHandler) exportCSV(c *gin.Context, evaluations []entity.Evaluation, campaign *entity.Campaign, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

	// BOM для корректного отображения UTF-8 в Excel
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	// Используем encoding/csv для правильного экранирования запятых/кавычек
	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	// Шапка с именем кампании, затем заголовки колонок
	writer.Write([]string{"Кампания", sanitizeForExcel(campaign.Name)})
	writer.Write([]string{"ID", "Референс", "Сетка", "Балл", "Статус", "Ответов", "Дата подачи"})

	// Данные
	for _, e := range evaluations {
		writer.Write([]string{
			strconv.Itoa(int(e.ID)),
			sanitizeForExcel(e.Reference),
			strconv.Itoa(int(e.GridID)),
			strconv.Itoa(e.Score),
			translateStatus(e.Status),
			strconv.Itoa(len(e.Answers)),
			e.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
}

// exportXLSX экспортирует оценки в Excel с использованием StreamWriter
func (h *CampaignHandler) exportXLSX(c *gin.Context, evaluations []entity.Evaluation, campaign *entity.Campaign, filename string) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Оценки"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[CampaignHandler] Ошибка создания StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	// Шапка с именем кампании, затем заголовки колонок
	if err := sw.SetRow("A1", []interface{}{"Кампания", sanitizeForExcel(campaign.Name)}); err != nil {
		log.Printf("[CampaignHandler] Ошибка записи шапки: %v", err)
	}
	headers := []interface{}{"ID", "Референс", "Сетка", "Балл", "Статус", "Ответов", "Дата подачи"}
	if err := sw.SetRow("A2", headers); err != nil {
		log.Printf("[CampaignHandler] Ошибка записи заголовков: %v", err)
	}

	// Данные
	for i, e := range evaluations {
		rowNum := i + 3 // 1 - шапка, 2 - заголовки
		cell := fmt.Sprintf("A%d", rowNum)

		row := []interface{}{
			e.ID,
			sanitizeForExcel(e.Reference),
			e.GridID,
			e.Score,
			translateStatus(e.Status),
			len(e.Answers),
			e.CreatedAt.Format("2006-01-02 15:04"),
		}
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[CampaignHandler] Ошибка записи строки %d: %v", rowNum, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[CampaignHandler] Ошибка при Flush: %v", err)
	}

	// Записываем в response
	if err := f.Write(c.Writer); err != nil {
		log.Printf("[CampaignHandler] Ошибка записи Excel в response: %v", err)
	}
}

// translateStatus переводит статус оценки для выгрузки
func translateStatus(status string) string {
	switch status {
	case entity.EvaluationStatusDraft:
		return "Черновик"
	case entity.EvaluationStatusSubmitted:
		return "Подана"
	case entity.EvaluationStatusReviewed:
		return "Проверена"
	default:
		return status
	}
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}

// handleCampaignError преобразует доменные ошибки в HTTP-статусы
func (h *CampaignHandler) handleCampaignError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in CampaignHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
