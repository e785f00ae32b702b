package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

type QuestionKind string

const (
	SingleChoice   QuestionKind = "single_choice"
	MultipleChoice QuestionKind = "multiple_choice"
	TrueFalse      QuestionKind = "true_false"
	TextAnswer     QuestionKind = "text"
)

func (k QuestionKind) Valid() bool {
	switch k {
	case SingleChoice, MultipleChoice, TrueFalse, TextAnswer:
		return true
	}
	return false
}

// StringList stores ordered question options as a JSON column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	}
	return fmt.Errorf("unsupported options column type %T", value)
}

// AnswerValue is a tagged variant keyed by the question kind. Exactly one
// payload field is meaningful for a given kind: option index for
// single_choice, option index set for multiple_choice, boolean for
// true_false, free text for text.
// swagger:model AnswerValue
type AnswerValue struct {
	Kind     QuestionKind `json:"kind"`
	Single   int          `json:"single"`
	Multiple []int        `json:"multiple,omitempty"`
	Boolean  bool         `json:"boolean"`
	Text     string       `json:"text,omitempty"`
}

func (a AnswerValue) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a *AnswerValue) Scan(value interface{}) error {
	if value == nil {
		*a = AnswerValue{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	}
	return fmt.Errorf("unsupported answer column type %T", value)
}

// Matches reports whether a submitted answer is correct against the
// authoritative answer a. Kinds must agree; each kind has exactly one
// comparison rule, so nothing is ever coerced between representations.
func (a AnswerValue) Matches(submitted AnswerValue) bool {
	if a.Kind != submitted.Kind {
		return false
	}
	switch a.Kind {
	case SingleChoice:
		return a.Single == submitted.Single
	case MultipleChoice:
		// Exact set equality, no partial credit.
		return equalIndexSets(a.Multiple, submitted.Multiple)
	case TrueFalse:
		return a.Boolean == submitted.Boolean
	case TextAnswer:
		return strings.EqualFold(strings.TrimSpace(a.Text), strings.TrimSpace(submitted.Text))
	}
	return false
}

// Validate checks that the answer payload is usable for a question with the
// given option count.
func (a AnswerValue) Validate(optionCount int) error {
	switch a.Kind {
	case SingleChoice:
		if a.Single < 0 || a.Single >= optionCount {
			return errors.New("answer index out of range")
		}
	case MultipleChoice:
		if len(a.Multiple) == 0 {
			return errors.New("at least one answer index is required")
		}
		for _, idx := range a.Multiple {
			if idx < 0 || idx >= optionCount {
				return errors.New("answer index out of range")
			}
		}
	case TrueFalse:
		// nothing to range-check
	case TextAnswer:
		if strings.TrimSpace(a.Text) == "" {
			return errors.New("answer text is empty")
		}
	default:
		return errors.New("unknown question kind")
	}
	return nil
}

func equalIndexSets(a, b []int) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	as := append([]int(nil), a...)
	bs := append([]int(nil), b...)
	sort.Ints(as)
	sort.Ints(bs)
	as = dedupSorted(as)
	bs = dedupSorted(bs)
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

func dedupSorted(s []int) []int {
	out := s[:0]
	for i, v := range s {
		if i == 0 || v != s[i-1] {
			out = append(out, v)
		}
	}
	return out
}

// Question belongs to exactly one module. Options are only meaningful for
// choice kinds; the answer is the tagged variant above.
// swagger:model Question
type Question struct {
	UUIDBase
	ModuleID    string      `gorm:"index;type:varchar(36);not null" json:"moduleId"`
	Kind        QuestionKind `gorm:"size:50;not null" json:"kind"`
	Text        string      `gorm:"type:text;not null" json:"questionText"`
	Options     StringList  `gorm:"type:json" json:"options"`
	Answer      AnswerValue `gorm:"type:json" json:"answer"`
	Explanation string      `gorm:"type:text" json:"explanation"`
	Order       int         `gorm:"default:0" json:"order"`
}

func (Question) TableName() string {
	return "questions"
}
