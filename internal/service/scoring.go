package service

import (
	"math"

	"classquiz_backend/internal/model"
)

// Score counts correct answers. It is a pure function of the question set
// and the answer map: recomputing over the same inputs always yields the
// same value, and unanswered questions simply never match.
func Score(questions []model.Question, answers map[string]model.AnswerValue) int {
	score := 0
	for i := range questions {
		submitted, ok := answers[questions[i].ID]
		if !ok {
			continue
		}
		if questions[i].Answer.Matches(submitted) {
			score++
		}
	}
	return score
}

// Percentage returns score/total as a percentage rounded to one decimal.
func Percentage(score, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(score)/float64(total)*1000) / 10
}
