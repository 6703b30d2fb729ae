package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Извлекатели числовых параметров маршрута. Каждый разбирает свой сегмент
// URL и кладет uint-значение в контекст Gin под ключом, который затем
// читают хендлеры через MustGet.

// GridID разбирает :id сетки и сохраняет его под ключом "gridID"
func GridID() gin.HandlerFunc {
	return uintParam("id", "gridID", "invalid grid id")
}

// QuestionID разбирает :question_id и сохраняет его под ключом "questionID"
func QuestionID() gin.HandlerFunc {
	return uintParam("question_id", "questionID", "invalid question id")
}

// EvaluationID разбирает :id оценки и сохраняет его под ключом "evaluationID"
func EvaluationID() gin.HandlerFunc {
	return uintParam("id", "evaluationID", "invalid evaluation id")
}

// CampaignID разбирает :id кампании и сохраняет его под ключом "campaignID"
func CampaignID() gin.HandlerFunc {
	return uintParam("id", "campaignID", "invalid campaign id")
}

func uintParam(param, contextKey, badRequestMsg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param(param), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": badRequestMsg})
			c.Abort()
			return
		}
		c.Set(contextKey, uint(id))
		c.Next()
	}
}
