package service

import (
	"math"

	"github.com/yourusername/qa-eval-api/internal/domain/entity"
)

// Aggregator сводит набор разнотипных ответов к нормализованному баллу 0..100.
// Стратегия взвешивания вопросов подключаемая: продакшен использует
// WeightedByMaxAggregator, альтернативы реализуют тот же интерфейс.
type Aggregator interface {
	Aggregate(grid *entity.Grid, answers []entity.EvaluationAnswer) int
}

// WeightedByMaxAggregator - агрегация, взвешенная по максимуму вопроса:
// максимально достижимый вклад каждого вопроса становится его неявным весом
// в итоговом проценте. Слайдер 0-100 весит в десять раз больше слайдера 0-10.
//
// Правила накопления:
//   - radio/select: вес совпавшего по значению варианта / максимальный вес варианта;
//     ответ без совпадения не вносит ничего ни в числитель, ни в знаменатель
//   - checkbox: сумма весов выбранных вариантов / сумма положительных весов всех вариантов
//   - slider/rating: числовое значение / maxValue (10, если граница не задана)
//   - toggle: 1 за true, знаменатель растет на 1 независимо от ответа
//   - text: не оценивается
//
// Ответы на отсутствующие (удаленные) вопросы молча пропускаются, неотвеченные
// вопросы не попадают ни в одну из сумм - пропуск не штрафует итоговый балл.
type WeightedByMaxAggregator struct{}

// Aggregate возвращает round(score/possible*100), 0 если нечего оценивать
func (WeightedByMaxAggregator) Aggregate(grid *entity.Grid, answers []entity.EvaluationAnswer) int {
	var score, possible float64

	for _, ans := range answers {
		q, ok := grid.FindQuestion(ans.QuestionID)
		if !ok {
			continue
		}

		switch q.Type {
		case entity.QuestionTypeRadio, entity.QuestionTypeSelect:
			n, ok := ans.Value.Number()
			if !ok {
				continue
			}
			if opt, found := q.FindOptionByValue(int(n)); found {
				score += float64(opt.Value)
				possible += float64(q.MaxOptionValue())
			}

		case entity.QuestionTypeCheckbox:
			earned, total, ok := checkboxContribution(q, ans.Value)
			if !ok {
				continue
			}
			score += earned
			possible += total

		case entity.QuestionTypeSlider, entity.QuestionTypeRating:
			n, ok := ans.Value.Number()
			if !ok {
				continue
			}
			score += n
			possible += float64(q.RangeMax())

		case entity.QuestionTypeToggle:
			if b, ok := ans.Value.Bool(); ok && b {
				score++
			}
			possible++ // знаменатель растет независимо от значения ответа

		case entity.QuestionTypeText:
			// свободный текст не оценивается
		}
	}

	return normalize(score, possible)
}

// EqualWeightAggregator - альтернативная стратегия: каждый оцениваемый
// отвеченный вопрос нормализуется к 0..1 и все вопросы весят одинаково.
type EqualWeightAggregator struct{}

// Aggregate возвращает округленное среднее по-вопросных долей, 0..100
func (EqualWeightAggregator) Aggregate(grid *entity.Grid, answers []entity.EvaluationAnswer) int {
	var sum float64
	var count int

	for _, ans := range answers {
		q, ok := grid.FindQuestion(ans.QuestionID)
		if !ok {
			continue
		}

		ratio, scored := answerRatio(q, ans.Value)
		if !scored {
			continue
		}
		sum += ratio
		count++
	}

	if count == 0 {
		return 0
	}
	return clampPercent(math.Round(sum / float64(count) * 100))
}

// answerRatio возвращает долю 0..1 для одного ответа в равновесной стратегии
func answerRatio(q *entity.Question, v entity.AnswerValue) (float64, bool) {
	switch q.Type {
	case entity.QuestionTypeRadio, entity.QuestionTypeSelect:
		n, ok := v.Number()
		if !ok {
			return 0, false
		}
		opt, found := q.FindOptionByValue(int(n))
		if !found {
			return 0, false
		}
		max := q.MaxOptionValue()
		if max == 0 {
			return 0, false
		}
		return float64(opt.Value) / float64(max), true

	case entity.QuestionTypeCheckbox:
		earned, total, ok := checkboxContribution(q, v)
		if !ok || total == 0 {
			return 0, false
		}
		return earned / total, true

	case entity.QuestionTypeSlider, entity.QuestionTypeRating:
		n, ok := v.Number()
		if !ok {
			return 0, false
		}
		max := q.RangeMax()
		if max == 0 {
			return 0, false
		}
		return n / float64(max), true

	case entity.QuestionTypeToggle:
		if b, ok := v.Bool(); ok && b {
			return 1, true
		}
		return 0, true
	}

	return 0, false
}

// checkboxContribution считает вклад checkbox-ответа: сумма весов выбранных
// вариантов против суммы положительных весов всех вариантов вопроса.
// Каждое выбранное значение сопоставляется не более чем одному варианту,
// повторы в ответе игнорируются.
func checkboxContribution(q *entity.Question, v entity.AnswerValue) (earned, total float64, ok bool) {
	values, valid := v.Numbers()
	if !valid {
		return 0, 0, false
	}

	sum := q.OptionValueSum()
	if sum == 0 {
		return 0, 0, false
	}

	seen := make(map[int]bool, len(values))
	for _, n := range values {
		value := int(n)
		if seen[value] {
			continue
		}
		seen[value] = true
		if opt, found := q.FindOptionByValue(value); found {
			earned += float64(opt.Value)
		}
	}

	return earned, float64(sum), true
}

// normalize приводит пару (score, possible) к целому проценту 0..100.
// Варианты с отрицательным весом могут увести сырую сумму ниже нуля,
// итоговый балл при этом упирается в границы диапазона.
func normalize(score, possible float64) int {
	if possible <= 0 {
		return 0
	}
	return clampPercent(math.Round(score / possible * 100))
}

func clampPercent(n float64) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return int(n)
}
