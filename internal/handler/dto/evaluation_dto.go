package dto

import (
	"time"

	"github.com/yourusername/qa-eval-api/internal/domain/entity"
)

// AnswerResponse представляет ответ на вопрос в формате для клиента
type AnswerResponse struct {
	QuestionID uint               `json:"question_id"`
	Value      entity.AnswerValue `json:"value"`
	Comment    string             `json:"comment,omitempty"`
}

// EvaluationResponse представляет оценку в формате для ответа клиенту
type EvaluationResponse struct {
	ID         uint             `json:"id"`
	Reference  string           `json:"reference"`
	GridID     uint             `json:"grid_id"`
	CampaignID *uint            `json:"campaign_id,omitempty"`
	Answers    []AnswerResponse `json:"answers"`
	Score      int              `json:"score"`
	Status     string           `json:"status"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// CampaignResponse представляет кампанию в формате для ответа клиенту
type CampaignResponse struct {
	ID             uint      `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	Status         string    `json:"status"`
	GridID         *uint     `json:"grid_id,omitempty"`
	RecordCount    int       `json:"record_count"`
	EvaluatedCount int       `json:"evaluated_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewEvaluationResponse создает DTO для оценки
func NewEvaluationResponse(e *entity.Evaluation) *EvaluationResponse {
	answers := make([]AnswerResponse, 0, len(e.Answers))
	for _, a := range e.Answers {
		answers = append(answers, AnswerResponse{
			QuestionID: a.QuestionID,
			Value:      a.Value,
			Comment:    a.Comment,
		})
	}
	return &EvaluationResponse{
		ID:         e.ID,
		Reference:  e.Reference,
		GridID:     e.GridID,
		CampaignID: e.CampaignID,
		Answers:    answers,
		Score:      e.Score,
		Status:     e.Status,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

// NewListEvaluationResponse создает список DTO оценок
func NewListEvaluationResponse(evaluations []entity.Evaluation) []*EvaluationResponse {
	responses := make([]*EvaluationResponse, 0, len(evaluations))
	for i := range evaluations {
		responses = append(responses, NewEvaluationResponse(&evaluations[i]))
	}
	return responses
}

// NewCampaignResponse создает DTO для кампании
func NewCampaignResponse(campaign *entity.Campaign) *CampaignResponse {
	return &CampaignResponse{
		ID:             campaign.ID,
		Name:           campaign.Name,
		Description:    campaign.Description,
		Status:         campaign.Status,
		GridID:         campaign.GridID,
		RecordCount:    campaign.RecordCount,
		EvaluatedCount: campaign.EvaluatedCount,
		CreatedAt:      campaign.CreatedAt,
		UpdatedAt:      campaign.UpdatedAt,
	}
}

// NewListCampaignResponse создает список DTO кампаний
func NewListCampaignResponse(campaigns []entity.Campaign) []*CampaignResponse {
	responses := make([]*CampaignResponse, 0, len(campaigns))
	for i := range campaigns {
		responses = append(responses, NewCampaignResponse(&campaigns[i]))
	}
	return responses
}
