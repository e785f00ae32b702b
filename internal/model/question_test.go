package model

import "testing"

func TestAnswerValueMatches(t *testing.T) {
	tests := []struct {
		name      string
		correct   AnswerValue
		submitted AnswerValue
		want      bool
	}{
		{
			name:      "single choice exact index",
			correct:   AnswerValue{Kind: SingleChoice, Single: 2},
			submitted: AnswerValue{Kind: SingleChoice, Single: 2},
			want:      true,
		},
		{
			name:      "single choice wrong index",
			correct:   AnswerValue{Kind: SingleChoice, Single: 2},
			submitted: AnswerValue{Kind: SingleChoice, Single: 0},
			want:      false,
		},
		{
			name:      "kind mismatch never matches",
			correct:   AnswerValue{Kind: SingleChoice, Single: 0},
			submitted: AnswerValue{Kind: TrueFalse, Boolean: false},
			want:      false,
		},
		{
			name:      "multiple choice ignores submission order",
			correct:   AnswerValue{Kind: MultipleChoice, Multiple: []int{0, 2, 3}},
			submitted: AnswerValue{Kind: MultipleChoice, Multiple: []int{3, 0, 2}},
			want:      true,
		},
		{
			name:      "multiple choice duplicate indexes collapse",
			correct:   AnswerValue{Kind: MultipleChoice, Multiple: []int{0, 2}},
			submitted: AnswerValue{Kind: MultipleChoice, Multiple: []int{2, 0, 2}},
			want:      true,
		},
		{
			name:      "multiple choice subset is wrong",
			correct:   AnswerValue{Kind: MultipleChoice, Multiple: []int{0, 2, 3}},
			submitted: AnswerValue{Kind: MultipleChoice, Multiple: []int{0, 2}},
			want:      false,
		},
		{
			name:      "multiple choice superset is wrong",
			correct:   AnswerValue{Kind: MultipleChoice, Multiple: []int{0, 2}},
			submitted: AnswerValue{Kind: MultipleChoice, Multiple: []int{0, 1, 2}},
			want:      false,
		},
		{
			name:      "multiple choice empty submission is wrong",
			correct:   AnswerValue{Kind: MultipleChoice, Multiple: []int{0}},
			submitted: AnswerValue{Kind: MultipleChoice},
			want:      false,
		},
		{
			name:      "true false",
			correct:   AnswerValue{Kind: TrueFalse, Boolean: true},
			submitted: AnswerValue{Kind: TrueFalse, Boolean: true},
			want:      true,
		},
		{
			name:      "text ignores case and surrounding whitespace",
			correct:   AnswerValue{Kind: TextAnswer, Text: "Photosynthesis"},
			submitted: AnswerValue{Kind: TextAnswer, Text: "  photosynthesis "},
			want:      true,
		},
		{
			name:      "text inner whitespace still significant",
			correct:   AnswerValue{Kind: TextAnswer, Text: "carbon dioxide"},
			submitted: AnswerValue{Kind: TextAnswer, Text: "carbondioxide"},
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.correct.Matches(tt.submitted); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAnswerValueValidate(t *testing.T) {
	tests := []struct {
		name        string
		answer      AnswerValue
		optionCount int
		wantErr     bool
	}{
		{"single in range", AnswerValue{Kind: SingleChoice, Single: 1}, 3, false},
		{"single out of range", AnswerValue{Kind: SingleChoice, Single: 3}, 3, true},
		{"single negative", AnswerValue{Kind: SingleChoice, Single: -1}, 3, true},
		{"multiple in range", AnswerValue{Kind: MultipleChoice, Multiple: []int{0, 2}}, 3, false},
		{"multiple out of range", AnswerValue{Kind: MultipleChoice, Multiple: []int{0, 4}}, 3, true},
		{"multiple empty", AnswerValue{Kind: MultipleChoice}, 3, true},
		{"true false needs no options", AnswerValue{Kind: TrueFalse, Boolean: false}, 0, false},
		{"text non-empty", AnswerValue{Kind: TextAnswer, Text: "42"}, 0, false},
		{"text whitespace only", AnswerValue{Kind: TextAnswer, Text: "   "}, 0, true},
		{"unknown kind", AnswerValue{Kind: "essay"}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.answer.Validate(tt.optionCount)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestQuestionKindValid(t *testing.T) {
	for _, kind := range []QuestionKind{SingleChoice, MultipleChoice, TrueFalse, TextAnswer} {
		if !kind.Valid() {
			t.Errorf("kind %q should be valid", kind)
		}
	}
	if QuestionKind("essay").Valid() {
		t.Error("unknown kind should be invalid")
	}
}
