package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yourusername/qa-eval-api/internal/domain/entity"
)

func intPtr(n int) *int { return &n }

// scoringGrid собирает сетку с уже назначенными ID вопросов
func scoringGrid(questions ...entity.Question) *entity.Grid {
	for i := range questions {
		if questions[i].ID == 0 {
			questions[i].ID = uint(i + 1)
		}
		questions[i].Position = i
	}
	return &entity.Grid{ID: 1, Name: "Сетка", Questions: questions}
}

func TestWeightedByMaxRadio(t *testing.T) {
	grid := scoringGrid(entity.Question{
		Text: "Качество приветствия",
		Type: entity.QuestionTypeRadio,
		Options: entity.OptionList{
			{ID: 1, Label: "Плохо", Value: 0},
			{ID: 2, Label: "Средне", Value: 3},
			{ID: 3, Label: "Хорошо", Value: 5},
		},
	})

	agg := WeightedByMaxAggregator{}

	// Выбран вариант с весом 3 из максимума 5
	score := agg.Aggregate(grid, []entity.EvaluationAnswer{
		{QuestionID: 1, Value: entity.NumberValue(3)},
	})
	assert.Equal(t, 60, score)

	// Несовпадающее значение не вносит ничего - нечего оценивать
	score = agg.Aggregate(grid, []entity.EvaluationAnswer{
		{QuestionID: 1, Value: entity.NumberValue(4)},
	})
	assert.Equal(t, 0, score)
}

func TestWeightedByMaxSliderAndRating(t *testing.T) {
	grid := scoringGrid(
		entity.Question{
			Text:     "Общая оценка",
			Type:     entity.QuestionTypeSlider,
			MinValue: intPtr(0),
			MaxValue: intPtr(100),
		},
		entity.Question{
			Text:     "Вежливость",
			Type:     entity.QuestionTypeRating,
			MinValue: intPtr(0),
			MaxValue: intPtr(5),
		},
	)

	agg := WeightedByMaxAggregator{}

	// 70/100 + 4/5 → (70+4)/(100+5) = 70.47... → 70
	score := agg.Aggregate(grid, []entity.EvaluationAnswer{
		{QuestionID: 1, Value: entity.NumberValue(70)},
		{QuestionID: 2, Value: entity.NumberValue(4)},
	})
	assert.Equal(t, 70, score)
}

func TestWeightedByMaxSliderWeighsMore(t *testing.T) {
	// Слайдер 0-100 неявно весит больше, чем рейтинг 0-5:
	// идеальный рейтинг не компенсирует низкий слайдер
	grid := scoringGrid(
		entity.Question{
			Text:     "Общая оценка",
			Type:     entity.QuestionTypeSlider,
			MinValue: intPtr(0),
			MaxValue: intPtr(100),
		},
		entity.Question{
			Text:     "Вежливость",
			Type:     entity.QuestionTypeRating,
			MinValue: intPtr(0),
			MaxValue: intPtr(5),
		},
	)

	score := WeightedByMaxAggregator{}.Aggregate(grid, []entity.EvaluationAnswer{
		{QuestionID: 1, Value: entity.NumberValue(10)},
		{QuestionID: 2, Value: entity.NumberValue(5)},
	})
	// (10+5)/105 = 14.28... → 14
	assert.Equal(t, 14, score)
}

func TestWeightedByMaxRangeDefaultTen(t *testing.T) {
	// Без maxValue знаменатель слайдера равен 10
	grid := scoringGrid(entity.Question{Text: "Оценка", Type: entity.QuestionTypeSlider})

	score := WeightedByMaxAggregator{}.Aggregate(grid, []entity.EvaluationAnswer{
		{QuestionID: 1, Value: entity.NumberValue(7)},
	})
	assert.Equal(t, 70, score)
}

func TestWeightedByMaxToggle(t *testing.T) {
	grid := scoringGrid(
		entity.Question{Text: "Поздоровался", Type: entity.QuestionTypeToggle},
		entity.Question{Text: "Представился", Type: entity.QuestionTypeToggle},
	)

	agg := WeightedByMaxAggregator{}

	// true + false → 1/2
	score := agg.Aggregate(grid, []entity.EvaluationAnswer{
		{QuestionID: 1, Value: entity.BoolValue(true)},
		{QuestionID: 2, Value: entity.BoolValue(false)},
	})
	assert.Equal(t, 50, score)

	// Знаменатель toggle растет даже при false: оба false → 0, а не "пусто"
	score = agg.Aggregate(grid, []entity.EvaluationAnswer{
		{QuestionID: 1, Value: entity.BoolValue(false)},
		{QuestionID: 2, Value: entity.BoolValue(false)},
	})
	assert.Equal(t, 0, score)
}

func TestWeightedByMaxCheckbox(t *testing.T) {
	grid := scoringGrid(entity.Question{
		Text: "Что выполнил оператор?",
		Type: entity.QuestionTypeCheckbox,
		Options: entity.OptionList{
			{ID: 1, Label: "Приветствие", Value: 2},
			{ID: 2, Label: "Уточнение проблемы", Value: 3},
			{ID: 3, Label: "Решение", Value: 5},
		},
	})

	agg := WeightedByMaxAggregator{}

	// Выбраны варианты с весами 2 и 5 из суммы 10
	score := agg.Aggregate(grid, []entity.EvaluationAnswer{
		{QuestionID: 1, Value: entity.NumbersValue(2, 5)},
	})
	assert.Equal(t, 70, score)

	// Повторы в ответе не удваивают вклад
	score = agg.Aggregate(grid, []entity.EvaluationAnswer{
		{QuestionID: 1, Value: entity.NumbersValue(5, 5)},
	})
	assert.Equal(t, 50, score)
}

func TestWeightedByMaxTextIgnored(t *testing.T) {
	grid := scoringGrid(
		entity.Question{Text: "Комментарий", Type: entity.QuestionTypeText},
		entity.Question{Text: "Скрипт", Type: entity.QuestionTypeToggle},
	)

	score := WeightedByMaxAggregator{}.Aggregate(grid, []entity.EvaluationAnswer{
		{QuestionID: 1, Value: entity.StringValue("длинный комментарий")},
		{QuestionID: 2, Value: entity.BoolValue(true)},
	})
	assert.Equal(t, 100, score, "Текстовый ответ не должен влиять на балл")
}

func TestWeightedByMaxStaleAnswersSkipped(t *testing.T) {
	grid := scoringGrid(entity.Question{Text: "Скрипт", Type: entity.QuestionTypeToggle})

	// Ответ на удаленный вопрос #99 молча пропускается
	score := WeightedByMaxAggregator{}.Aggregate(grid, []entity.EvaluationAnswer{
		{QuestionID: 1, Value: entity.BoolValue(true)},
		{QuestionID: 99, Value: entity.NumberValue(5)},
	})
	assert.Equal(t, 100, score)
}

func TestWeightedByMaxUnansweredNotPenalized(t *testing.T) {
	grid := scoringGrid(
		entity.Question{Text: "Скрипт", Type: entity.QuestionTypeToggle},
		entity.Question{
			Text:     "Оценка",
			Type:     entity.QuestionTypeSlider,
			MinValue: intPtr(0),
			MaxValue: intPtr(100),
		},
	)

	// Слайдер не отвечен: он не входит ни в числитель, ни в знаменатель
	score := WeightedByMaxAggregator{}.Aggregate(grid, []entity.EvaluationAnswer{
		{QuestionID: 1, Value: entity.BoolValue(true)},
	})
	assert.Equal(t, 100, score)
}

func TestWeightedByMaxNumericStringCoerced(t *testing.T) {
	grid := scoringGrid(entity.Question{
		Text:     "Оценка",
		Type:     entity.QuestionTypeSlider,
		MinValue: intPtr(0),
		MaxValue: intPtr(10),
	})

	score := WeightedByMaxAggregator{}.Aggregate(grid, []entity.EvaluationAnswer{
		{QuestionID: 1, Value: entity.StringValue("8")},
	})
	assert.Equal(t, 80, score, "Числовая строка приводится к числу")
}

func TestWeightedByMaxEmptyInputs(t *testing.T) {
	agg := WeightedByMaxAggregator{}

	assert.Equal(t, 0, agg.Aggregate(scoringGrid(), nil), "Пустая сетка без ответов")
	assert.Equal(t, 0, agg.Aggregate(
		scoringGrid(entity.Question{Text: "Комментарий", Type: entity.QuestionTypeText}),
		[]entity.EvaluationAnswer{{QuestionID: 1, Value: entity.StringValue("текст")}},
	), "Только неоцениваемые ответы → 0")
}

func TestScoreClampedToRange(t *testing.T) {
	weighted := WeightedByMaxAggregator{}
	equal := EqualWeightAggregator{}

	// Вариант с отрицательным весом уводит сырую сумму ниже нуля,
	// но итоговый балл не выходит за нижнюю границу
	negative := scoringGrid(entity.Question{
		Text: "Тон разговора",
		Type: entity.QuestionTypeRadio,
		Options: entity.OptionList{
			{ID: 1, Label: "Грубое", Value: -5},
			{ID: 2, Label: "Нейтральное", Value: 2},
		},
	})
	rude := []entity.EvaluationAnswer{{QuestionID: 1, Value: entity.NumberValue(-5)}}
	assert.Equal(t, 0, weighted.Aggregate(negative, rude))
	assert.Equal(t, 0, equal.Aggregate(negative, rude))

	// Значение слайдера выше максимума не поднимает балл выше 100
	overflow := scoringGrid(entity.Question{
		Text:     "Длительность",
		Type:     entity.QuestionTypeSlider,
		MinValue: intPtr(0),
		MaxValue: intPtr(10),
	})
	over := []entity.EvaluationAnswer{{QuestionID: 1, Value: entity.NumberValue(15)}}
	assert.Equal(t, 100, weighted.Aggregate(overflow, over))
	assert.Equal(t, 100, equal.Aggregate(overflow, over))
}

func TestWeightedByMaxDeterministic(t *testing.T) {
	grid := scoringGrid(
		entity.Question{Text: "Скрипт", Type: entity.QuestionTypeToggle},
		entity.Question{
			Text:     "Оценка",
			Type:     entity.QuestionTypeRating,
			MinValue: intPtr(0),
			MaxValue: intPtr(5),
		},
	)
	answers := []entity.EvaluationAnswer{
		{QuestionID: 1, Value: entity.BoolValue(true)},
		{QuestionID: 2, Value: entity.NumberValue(3)},
	}

	agg := WeightedByMaxAggregator{}
	first := agg.Aggregate(grid, answers)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, agg.Aggregate(grid, answers))
	}
}

func TestEqualWeightAggregator(t *testing.T) {
	// Та же пара ответов, но каждый вопрос весит одинаково:
	// слайдер 10/100 и рейтинг 5/5 → (0.1+1)/2 = 55%
	grid := scoringGrid(
		entity.Question{
			Text:     "Общая оценка",
			Type:     entity.QuestionTypeSlider,
			MinValue: intPtr(0),
			MaxValue: intPtr(100),
		},
		entity.Question{
			Text:     "Вежливость",
			Type:     entity.QuestionTypeRating,
			MinValue: intPtr(0),
			MaxValue: intPtr(5),
		},
	)
	answers := []entity.EvaluationAnswer{
		{QuestionID: 1, Value: entity.NumberValue(10)},
		{QuestionID: 2, Value: entity.NumberValue(5)},
	}

	assert.Equal(t, 55, EqualWeightAggregator{}.Aggregate(grid, answers))
	assert.Equal(t, 14, WeightedByMaxAggregator{}.Aggregate(grid, answers),
		"Стратегии должны расходиться на неравных диапазонах")
}

func TestEqualWeightEmpty(t *testing.T) {
	assert.Equal(t, 0, EqualWeightAggregator{}.Aggregate(scoringGrid(), nil))
}
