package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strconv"
	"time"
)

// Статусы оценки
const (
	EvaluationStatusDraft     = "draft"
	EvaluationStatusSubmitted = "submitted"
	EvaluationStatusReviewed  = "reviewed"
)

// AnswerValue хранит значение ответа произвольной формы:
// string | number | boolean | number[] в зависимости от типа вопроса.
// Внутри лежит сырой JSON, типизированный доступ - через аксессоры.
type AnswerValue struct {
	Raw json.RawMessage
}

// NumberValue создает числовое значение ответа
func NumberValue(n float64) AnswerValue {
	b, _ := json.Marshal(n)
	return AnswerValue{Raw: b}
}

// BoolValue создает булево значение ответа
func BoolValue(b bool) AnswerValue {
	raw, _ := json.Marshal(b)
	return AnswerValue{Raw: raw}
}

// StringValue создает строковое значение ответа
func StringValue(s string) AnswerValue {
	raw, _ := json.Marshal(s)
	return AnswerValue{Raw: raw}
}

// NumbersValue создает значение-массив чисел (ответ на checkbox)
func NumbersValue(ns ...float64) AnswerValue {
	raw, _ := json.Marshal(ns)
	return AnswerValue{Raw: raw}
}

// MarshalJSON реализует json.Marshaler
func (v AnswerValue) MarshalJSON() ([]byte, error) {
	if len(v.Raw) == 0 {
		return []byte("null"), nil
	}
	return v.Raw, nil
}

// UnmarshalJSON реализует json.Unmarshaler
func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	v.Raw = append(v.Raw[:0], data...)
	return nil
}

// Number возвращает числовое значение ответа.
// Числовые строки приводятся к числу (семантика исходного хранилища),
// для остальных форм возвращается false.
func (v AnswerValue) Number() (float64, bool) {
	var n float64
	if err := json.Unmarshal(v.Raw, &n); err == nil {
		return n, true
	}
	var s string
	if err := json.Unmarshal(v.Raw, &s); err == nil {
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

// Bool возвращает булево значение ответа
func (v AnswerValue) Bool() (bool, bool) {
	var b bool
	if err := json.Unmarshal(v.Raw, &b); err != nil {
		return false, false
	}
	return b, true
}

// Numbers возвращает значение-массив чисел
func (v AnswerValue) Numbers() ([]float64, bool) {
	var ns []float64
	if err := json.Unmarshal(v.Raw, &ns); err != nil {
		return nil, false
	}
	return ns, true
}

// Text возвращает строковое значение ответа
func (v AnswerValue) Text() (string, bool) {
	var s string
	if err := json.Unmarshal(v.Raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// EvaluationAnswer представляет один ответ внутри оценки.
// QuestionID ссылается на вопрос сетки без внешнего ключа:
// ответы на удаленные вопросы остаются и молча игнорируются при подсчете.
type EvaluationAnswer struct {
	QuestionID uint        `json:"question_id"`
	Value      AnswerValue `json:"value"`
	Comment    string      `json:"comment,omitempty"`
}

// AnswerList - пользовательский тип для работы с JSONB
type AnswerList []EvaluationAnswer

// Scan реализует интерфейс sql.Scanner для AnswerList
func (a *AnswerList) Scan(value interface{}) error {
	if value == nil {
		*a = AnswerList{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	if len(bytes) == 0 {
		*a = AnswerList{}
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// Value реализует интерфейс driver.Valuer для AnswerList
func (a AnswerList) Value() (driver.Value, error) {
	if len(a) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(a)
}

// Evaluation представляет одну завершенную оценку, поданную против сетки.
// Score вычисляется один раз при подаче и замораживается: последующие
// изменения сетки на него не влияют. GridID может указывать на уже
// удаленную сетку - оценки переживают удаление как исторические записи.
type Evaluation struct {
	ID         uint       `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Reference  string     `gorm:"size:36;not null;uniqueIndex" json:"reference"`
	GridID     uint       `gorm:"not null;index" json:"grid_id"`
	CampaignID *uint      `gorm:"index" json:"campaign_id,omitempty"`
	Answers    AnswerList `gorm:"type:jsonb;not null" json:"answers"`
	Score      int        `gorm:"not null;default:0" json:"score"`
	Status     string     `gorm:"size:20;not null;default:'submitted'" json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Evaluation) TableName() string {
	return "evaluations"
}

// IsSubmitted проверяет, подана ли оценка
func (e *Evaluation) IsSubmitted() bool {
	return e.Status == EvaluationStatusSubmitted
}

// IsReviewed проверяет, проверена ли оценка
func (e *Evaluation) IsReviewed() bool {
	return e.Status == EvaluationStatusReviewed
}
