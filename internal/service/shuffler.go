package service

import (
	"math/rand"
	"time"

	"classquiz_backend/internal/model"
)

// ShuffleQuestions returns a shuffled copy of the question list. Only the
// order of questions changes; options inside a question keep their order, so
// stored answer indices stay valid.
func ShuffleQuestions(questions []model.Question) []model.Question {
	shuffled := make([]model.Question, len(questions))
	copy(shuffled, questions)

	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	// Fisher–Yates
	for i := len(shuffled) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	return shuffled
}
