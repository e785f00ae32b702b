package util

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailRegistered     = errors.New("email already registered")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrModuleNotFound      = errors.New("module not found")
	ErrModuleEmpty         = errors.New("module has no questions")
	ErrQuestionNotFound    = errors.New("question not found")
	ErrSessionNotFound     = errors.New("no active quiz session")
	ErrSessionPhase        = errors.New("operation not allowed in current session phase")
	ErrAnswerKindMismatch  = errors.New("answer kind does not match question kind")
	ErrIncompleteAnswers   = errors.New("all questions must be answered before submitting")
	ErrAlreadySubmitted    = errors.New("quiz session already submitted")
)
