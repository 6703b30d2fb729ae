package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswerValueNumber(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   float64
		wantOK bool
	}{
		{name: "plain number", raw: `7`, want: 7, wantOK: true},
		{name: "float number", raw: `3.5`, want: 3.5, wantOK: true},
		{name: "numeric string coerced", raw: `"42"`, want: 42, wantOK: true},
		{name: "non-numeric string", raw: `"да"`, wantOK: false},
		{name: "boolean is not a number", raw: `true`, wantOK: false},
		{name: "array is not a number", raw: `[1,2]`, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := AnswerValue{Raw: json.RawMessage(tt.raw)}
			n, ok := v.Number()
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, n)
			}
		})
	}
}

func TestAnswerValueBool(t *testing.T) {
	b, ok := BoolValue(true).Bool()
	require.True(t, ok)
	assert.True(t, b)

	_, ok = NumberValue(1).Bool()
	assert.False(t, ok, "Число не должно читаться как булево")
}

func TestAnswerValueNumbers(t *testing.T) {
	ns, ok := NumbersValue(1, 2, 3).Numbers()
	require.True(t, ok)
	assert.Equal(t, []float64{1, 2, 3}, ns)

	_, ok = StringValue("текст").Numbers()
	assert.False(t, ok)
}

func TestAnswerValueJSONRoundTrip(t *testing.T) {
	answer := EvaluationAnswer{
		QuestionID: 3,
		Value:      NumbersValue(2, 5),
		Comment:    "выбраны два пункта",
	}

	data, err := json.Marshal(answer)
	require.NoError(t, err)

	var decoded EvaluationAnswer
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, answer.QuestionID, decoded.QuestionID)
	assert.Equal(t, answer.Comment, decoded.Comment)
	ns, ok := decoded.Value.Numbers()
	require.True(t, ok)
	assert.Equal(t, []float64{2, 5}, ns)
}

func TestAnswerValueEmptyMarshalsAsNull(t *testing.T) {
	data, err := json.Marshal(AnswerValue{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

func TestEvaluationStatusPredicates(t *testing.T) {
	e := Evaluation{Status: EvaluationStatusSubmitted}
	assert.True(t, e.IsSubmitted())
	assert.False(t, e.IsReviewed())

	e.Status = EvaluationStatusReviewed
	assert.True(t, e.IsReviewed())
	assert.False(t, e.IsSubmitted())
}
