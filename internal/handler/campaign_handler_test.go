package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/qa-eval-api/internal/domain/entity"
	"github.com/yourusername/qa-eval-api/internal/repository/memory"
	"github.com/yourusername/qa-eval-api/internal/service"
)

func newExportRouter(t *testing.T) (*gin.Engine, uint) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gridRepo := memory.NewGridRepo()
	evalRepo := memory.NewEvaluationRepo()
	campaignRepo := memory.NewCampaignRepo()
	snapshots := service.NewSnapshotService(gridRepo, evalRepo, campaignRepo, nil)

	gridID, err := gridRepo.Create(&entity.Grid{
		Name: "Контроль звонков",
		Questions: []entity.Question{
			{Text: "Поздоровался?", Type: entity.QuestionTypeToggle},
		},
	})
	require.NoError(t, err)

	campaignID, err := campaignRepo.Create(&entity.Campaign{Name: "=Сводка августа"})
	require.NoError(t, err)

	evalService := service.NewEvaluationService(gridRepo, evalRepo, campaignRepo, nil, snapshots, nil, nil, nil, 0)
	_, err = evalService.SubmitEvaluation(gridID, &campaignID, []entity.EvaluationAnswer{
		{QuestionID: 1, Value: entity.BoolValue(true)},
	})
	require.NoError(t, err)

	campaignService := service.NewCampaignService(campaignRepo, evalRepo, nil, snapshots)
	h := NewCampaignHandler(campaignService, evalService)

	router := gin.New()
	router.GET("/api/campaigns/:id/evaluations/export", func(c *gin.Context) {
		c.Set("campaignID", campaignID)
		h.ExportEvaluations(c)
	})
	return router, campaignID
}

func TestExportEvaluationsCSV(t *testing.T) {
	router, _ := newExportRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/campaigns/1/evaluations/export?format=csv", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".csv")

	body := w.Body.String()
	lines := strings.Split(strings.TrimSpace(body), "\n")
	require.GreaterOrEqual(t, len(lines), 3, "Шапка, заголовки и хотя бы одна строка данных")

	// Шапка несет имя кампании, формулоподобное имя экранировано
	assert.Contains(t, lines[0], "Кампания")
	assert.Contains(t, lines[0], "'=Сводка августа")
	assert.Contains(t, lines[1], "Референс")
	assert.Contains(t, lines[2], "Подана")
}

func TestExportEvaluationsXLSX(t *testing.T) {
	router, _ := newExportRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/campaigns/1/evaluations/export?format=xlsx", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	assert.NotZero(t, w.Body.Len())
}
