package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/yourusername/qa-eval-api/internal/pkg/errors"
)

// Типы вопросов оценочной сетки (закрытое перечисление)
const (
	QuestionTypeText     = "text"
	QuestionTypeSelect   = "select"
	QuestionTypeRadio    = "radio"
	QuestionTypeCheckbox = "checkbox"
	QuestionTypeSlider   = "slider"
	QuestionTypeToggle   = "toggle"
	QuestionTypeRating   = "rating"
)

// RatingMaxValues - допустимые значения maxValue для типа rating (количество звезд)
var RatingMaxValues = map[int]bool{3: true, 5: true, 10: true}

// QuestionOption представляет вариант ответа с весом для подсчета баллов
type QuestionOption struct {
	ID    uint   `json:"id"`
	Label string `json:"label"`
	Value int    `json:"value"`
}

// OptionList - пользовательский тип для работы с JSONB
type OptionList []QuestionOption

// Scan реализует интерфейс sql.Scanner для OptionList
// Используется GORM для чтения JSONB данных из базы
func (o *OptionList) Scan(value interface{}) error {
	// Обработка NULL значений из базы данных
	if value == nil {
		*o = OptionList{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	if len(bytes) == 0 {
		*o = OptionList{}
		return nil
	}

	return json.Unmarshal(bytes, o)
}

// Value реализует интерфейс driver.Valuer для OptionList
// Используется GORM для записи OptionList в JSONB в базе
func (o OptionList) Value() (driver.Value, error) {
	if len(o) == 0 {
		return []byte("[]"), nil // Возвращаем пустой JSON массив вместо null
	}
	return json.Marshal(o)
}

// Question представляет типизированный вопрос внутри сетки.
// Форма вопроса зависит от типа: options только для select/radio/checkbox,
// min/max только для slider/rating. Инвариант формы обеспечивается Validate(),
// читать поля напрямую мимо аксессоров EffectiveOptions/RangeMax не следует.
type Question struct {
	ID       uint       `gorm:"primaryKey;autoIncrement:false" json:"id"`
	GridID   uint       `gorm:"primaryKey;autoIncrement:false" json:"grid_id"`
	Text     string     `gorm:"size:500;not null" json:"text"`
	Type     string     `gorm:"size:20;not null" json:"type"`
	Required bool       `gorm:"not null;default:false" json:"required"`
	Options  OptionList `gorm:"type:jsonb" json:"options,omitempty"`
	MinValue *int       `json:"min_value,omitempty"`
	MaxValue *int       `json:"max_value,omitempty"`
	Position int        `gorm:"not null;default:0" json:"position"`
}

// TableName определяет имя таблицы для GORM
func (Question) TableName() string {
	return "questions"
}

// RequiresOptions возвращает true для типов с вариантами ответа
func RequiresOptions(questionType string) bool {
	switch questionType {
	case QuestionTypeSelect, QuestionTypeRadio, QuestionTypeCheckbox:
		return true
	}
	return false
}

// RequiresRange возвращает true для типов с числовым диапазоном
func RequiresRange(questionType string) bool {
	return questionType == QuestionTypeSlider || questionType == QuestionTypeRating
}

// IsSelfContained возвращает true для типов, которым не нужны ни options,
// ни диапазон от вызывающего (toggle получает фиксированную пару Нет/Да)
func IsSelfContained(questionType string) bool {
	return questionType == QuestionTypeText || questionType == QuestionTypeToggle
}

// IsValidType проверяет принадлежность типа к закрытому перечислению
func IsValidType(questionType string) bool {
	return RequiresOptions(questionType) || RequiresRange(questionType) || IsSelfContained(questionType)
}

// toggleOptions - синтезированная пара вариантов для типа toggle.
// Вызывающий никогда не задает options для toggle сам.
var toggleOptions = OptionList{
	{ID: 1, Label: "Нет", Value: 0},
	{ID: 2, Label: "Да", Value: 1},
}

// EffectiveOptions возвращает варианты ответа с учетом типа вопроса.
// Для toggle возвращается фиксированная пара Нет→0 / Да→1,
// для типов без вариантов - nil.
func (q *Question) EffectiveOptions() OptionList {
	switch {
	case q.Type == QuestionTypeToggle:
		return toggleOptions
	case RequiresOptions(q.Type):
		return q.Options
	}
	return nil
}

// RangeMax возвращает верхнюю границу диапазона для slider/rating.
// При отсутствии maxValue используется 10 (легаси-умолчание подсчета баллов).
func (q *Question) RangeMax() int {
	if q.MaxValue != nil {
		return *q.MaxValue
	}
	return 10
}

// MaxOptionValue возвращает максимальный вес среди вариантов ответа
func (q *Question) MaxOptionValue() int {
	max := 0
	for _, opt := range q.EffectiveOptions() {
		if opt.Value > max {
			max = opt.Value
		}
	}
	return max
}

// OptionValueSum возвращает сумму положительных весов всех вариантов.
// Используется как знаменатель при подсчете checkbox-вопросов.
func (q *Question) OptionValueSum() int {
	sum := 0
	for _, opt := range q.EffectiveOptions() {
		if opt.Value > 0 {
			sum += opt.Value
		}
	}
	return sum
}

// FindOptionByValue ищет вариант ответа по весу
func (q *Question) FindOptionByValue(value int) (QuestionOption, bool) {
	for _, opt := range q.EffectiveOptions() {
		if opt.Value == value {
			return opt, true
		}
	}
	return QuestionOption{}, false
}

// Validate проверяет форму вопроса согласно его типу.
// Все ошибки оборачивают apperrors.ErrValidation.
func (q *Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("%w: question text is required", apperrors.ErrValidation)
	}

	if !IsValidType(q.Type) {
		return fmt.Errorf("%w: unknown question type %q", apperrors.ErrValidation, q.Type)
	}

	switch {
	case RequiresOptions(q.Type):
		if len(q.Options) == 0 {
			return fmt.Errorf("%w: missing options", apperrors.ErrValidation)
		}
		for _, opt := range q.Options {
			if strings.TrimSpace(opt.Label) == "" {
				return fmt.Errorf("%w: incomplete option labels", apperrors.ErrValidation)
			}
		}
		if q.MinValue != nil || q.MaxValue != nil {
			return fmt.Errorf("%w: range bounds are not allowed for type %q", apperrors.ErrValidation, q.Type)
		}

	case RequiresRange(q.Type):
		if len(q.Options) > 0 {
			return fmt.Errorf("%w: options are not allowed for type %q", apperrors.ErrValidation, q.Type)
		}
		if q.MinValue == nil || q.MaxValue == nil {
			return fmt.Errorf("%w: incomplete range", apperrors.ErrValidation)
		}
		if q.Type == QuestionTypeRating {
			if *q.MinValue != 0 {
				return fmt.Errorf("%w: rating min value is fixed at 0", apperrors.ErrValidation)
			}
			if !RatingMaxValues[*q.MaxValue] {
				return fmt.Errorf("%w: rating max value must be 3, 5 or 10", apperrors.ErrValidation)
			}
		} else if *q.MaxValue <= *q.MinValue {
			return fmt.Errorf("%w: slider max value must be greater than min value", apperrors.ErrValidation)
		}

	default: // text, toggle
		if len(q.Options) > 0 {
			return fmt.Errorf("%w: options are not allowed for type %q", apperrors.ErrValidation, q.Type)
		}
		if q.MinValue != nil || q.MaxValue != nil {
			return fmt.Errorf("%w: range bounds are not allowed for type %q", apperrors.ErrValidation, q.Type)
		}
	}

	return nil
}
