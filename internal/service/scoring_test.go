package service

import (
	"testing"

	"classquiz_backend/internal/model"
)

func question(id string, kind model.QuestionKind, answer model.AnswerValue) model.Question {
	return model.Question{
		UUIDBase: model.UUIDBase{ID: id},
		Kind:     kind,
		Answer:   answer,
	}
}

func TestScore(t *testing.T) {
	questions := []model.Question{
		question("q1", model.SingleChoice, model.AnswerValue{Kind: model.SingleChoice, Single: 0}),
		question("q2", model.SingleChoice, model.AnswerValue{Kind: model.SingleChoice, Single: 1}),
		question("q3", model.SingleChoice, model.AnswerValue{Kind: model.SingleChoice, Single: 2}),
	}

	tests := []struct {
		name    string
		answers map[string]model.AnswerValue
		want    int
	}{
		{
			name:    "no answers",
			answers: map[string]model.AnswerValue{},
			want:    0,
		},
		{
			name: "two of three correct",
			answers: map[string]model.AnswerValue{
				"q1": {Kind: model.SingleChoice, Single: 0},
				"q2": {Kind: model.SingleChoice, Single: 1},
				"q3": {Kind: model.SingleChoice, Single: 0},
			},
			want: 2,
		},
		{
			name: "all correct",
			answers: map[string]model.AnswerValue{
				"q1": {Kind: model.SingleChoice, Single: 0},
				"q2": {Kind: model.SingleChoice, Single: 1},
				"q3": {Kind: model.SingleChoice, Single: 2},
			},
			want: 3,
		},
		{
			name: "answer for unknown question is ignored",
			answers: map[string]model.AnswerValue{
				"q1":      {Kind: model.SingleChoice, Single: 0},
				"unknown": {Kind: model.SingleChoice, Single: 0},
			},
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(questions, tt.answers)
			if got != tt.want {
				t.Errorf("Score() = %d, want %d", got, tt.want)
			}
			if got < 0 || got > len(questions) {
				t.Errorf("Score() = %d outside [0,%d]", got, len(questions))
			}
			// 重新计分必须得到同一结果
			if again := Score(questions, tt.answers); again != got {
				t.Errorf("rescoring changed result: %d then %d", got, again)
			}
		})
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		score, total int
		want         float64
	}{
		{0, 3, 0},
		{2, 3, 66.7},
		{1, 3, 33.3},
		{3, 3, 100},
		{1, 8, 12.5},
		{0, 0, 0},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := Percentage(tt.score, tt.total); got != tt.want {
			t.Errorf("Percentage(%d, %d) = %v, want %v", tt.score, tt.total, got, tt.want)
		}
	}
}
