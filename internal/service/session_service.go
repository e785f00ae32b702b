package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"classquiz_backend/internal/model"
	"classquiz_backend/internal/util"
	"classquiz_backend/pkg/logger"
	"classquiz_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SessionPhase string

const (
	PhaseReady      SessionPhase = "ready"
	PhaseInProgress SessionPhase = "in_progress"
	PhaseCompleted  SessionPhase = "completed"
)

const noExplanationFallback = "No explanation provided for this question."

// ModuleFinder 按 ID 加载模块
type ModuleFinder interface {
	FindByID(id string) (*model.Module, error)
}

// QuizSession is the in-memory state of one attempt. It is never persisted;
// discarding it is always safe. All fields are guarded by the owning
// service's mutex.
type QuizSession struct {
	UserID    uint
	Email     string
	Module    model.Module
	Questions []model.Question
	Answers   map[string]model.AnswerValue
	Phase     SessionPhase
	CreatedAt time.Time
	StartedAt time.Time
	Deadline  time.Time
	Result    *QuizResult

	lowTime     bool
	timer       *time.Timer
	completedAt time.Time
}

// SessionService drives the quiz session state machine:
// ready -> in_progress -> completed. One session per user; starting a new
// one discards the previous session and cancels its timer.
type SessionService struct {
	Modules     ModuleFinder
	Questions   QuestionSource
	Attempts    AttemptLog
	Leaderboard *LeaderboardService

	readyTTL     time.Duration
	completedTTL time.Duration

	mu       sync.Mutex
	sessions map[uint]*QuizSession
	now      func() time.Time
}

func NewSessionService(modules ModuleFinder, questions QuestionSource, attempts AttemptLog, leaderboard *LeaderboardService, readyTTL, completedTTL time.Duration) *SessionService {
	return &SessionService{
		Modules:      modules,
		Questions:    questions,
		Attempts:     attempts,
		Leaderboard:  leaderboard,
		readyTTL:     readyTTL,
		completedTTL: completedTTL,
		sessions:     make(map[uint]*QuizSession),
		now:          time.Now,
	}
}

type ModuleView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Subject   string `json:"subject"`
	TimeLimit int    `json:"timeLimit"`
}

// SessionQuestionView 学生视角的题目：不含正确答案与解析
type SessionQuestionView struct {
	ID      string             `json:"id"`
	Kind    model.QuestionKind `json:"kind"`
	Text    string             `json:"questionText"`
	Options model.StringList   `json:"options"`
	Order   int                `json:"order"`
}

type SessionView struct {
	Phase            SessionPhase          `json:"phase"`
	Module           ModuleView            `json:"module"`
	Questions        []SessionQuestionView `json:"questions"`
	TotalQuestions   int                   `json:"totalQuestions"`
	AnsweredCount    int                   `json:"answeredCount"`
	RemainingSeconds int                   `json:"remainingSeconds"`
	LowTimeWarning   bool                  `json:"lowTimeWarning"`
	CanSubmit        bool                  `json:"canSubmit"`
}

type ReviewQuestion struct {
	ID            string             `json:"id"`
	Kind          model.QuestionKind `json:"kind"`
	Text          string             `json:"questionText"`
	Options       model.StringList   `json:"options"`
	YourAnswer    *model.AnswerValue `json:"yourAnswer,omitempty"`
	CorrectAnswer model.AnswerValue  `json:"correctAnswer"`
	Correct       bool               `json:"correct"`
	Explanation   string             `json:"explanation"`
}

type QuizResult struct {
	Score           int              `json:"score"`
	TotalQuestions  int              `json:"totalQuestions"`
	Percentage      float64          `json:"percentage"`
	Rank            int              `json:"rank"`
	Persisted       bool             `json:"persisted"`
	ForcedByTimeout bool             `json:"forcedByTimeout"`
	SubmittedAt     time.Time        `json:"submittedAt"`
	Module          ModuleView       `json:"module"`
	Review          []ReviewQuestion `json:"review"`
}

// Start loads and shuffles the module's questions and creates a fresh
// session in the ready phase, replacing any previous session for the user.
// Load failures leave no session behind.
func (s *SessionService) Start(ctx context.Context, userID uint, email, moduleID string) (*SessionView, error) {
	module, err := s.Modules.FindByID(moduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrModuleNotFound
		}
		return nil, err
	}

	questions, err := s.Questions.QuestionsForModule(ctx, moduleID)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, util.ErrModuleEmpty
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.sessions[userID]; ok {
		s.stopTimerLocked(existing)
	}

	session := &QuizSession{
		UserID:    userID,
		Email:     email,
		Module:    *module,
		Questions: ShuffleQuestions(questions),
		Answers:   make(map[string]model.AnswerValue, len(questions)),
		Phase:     PhaseReady,
		CreatedAt: s.now(),
	}
	s.sessions[userID] = session
	s.updateGaugeLocked()

	return s.viewLocked(session), nil
}

// Begin moves the session to in_progress, fixes the deadline and arms the
// expiry timer. The timer is cancelled on every path that leaves
// in_progress so it can never touch a discarded session.
func (s *SessionService) Begin(userID uint) (*SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[userID]
	if !ok {
		return nil, util.ErrSessionNotFound
	}
	if session.Phase != PhaseReady {
		return nil, util.ErrSessionPhase
	}

	limit := time.Duration(session.Module.TimeLimit) * time.Minute
	if limit <= 0 {
		limit = time.Minute
	}

	session.Phase = PhaseInProgress
	session.StartedAt = s.now()
	session.Deadline = session.StartedAt.Add(limit)
	session.timer = time.AfterFunc(limit, func() {
		s.expire(userID)
	})

	return s.viewLocked(session), nil
}

// SaveAnswer records the student's choice for one question; re-answering
// the same question overwrites the previous choice.
func (s *SessionService) SaveAnswer(userID uint, questionID string, answer model.AnswerValue) (*SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[userID]
	if !ok {
		return nil, util.ErrSessionNotFound
	}
	if session.Phase != PhaseInProgress {
		return nil, util.ErrSessionPhase
	}

	var question *model.Question
	for i := range session.Questions {
		if session.Questions[i].ID == questionID {
			question = &session.Questions[i]
			break
		}
	}
	if question == nil {
		return nil, util.ErrQuestionNotFound
	}
	if answer.Kind != question.Kind {
		return nil, util.ErrAnswerKindMismatch
	}
	if err := answer.Validate(len(question.Options)); err != nil {
		return nil, err
	}

	session.Answers[questionID] = answer
	return s.viewLocked(session), nil
}

// Snapshot returns the observable session state, including remaining time
// and the latched low-time warning.
func (s *SessionService) Snapshot(userID uint) (*SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[userID]
	if !ok {
		return nil, util.ErrSessionNotFound
	}
	return s.viewLocked(session), nil
}

// Submit scores the session. Manual submission requires every question to
// be answered; once the deadline has passed the completeness check is
// bypassed.
func (s *SessionService) Submit(userID uint) (*QuizResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[userID]
	if !ok {
		return nil, util.ErrSessionNotFound
	}
	switch session.Phase {
	case PhaseCompleted:
		return nil, util.ErrAlreadySubmitted
	case PhaseReady:
		return nil, util.ErrSessionPhase
	}

	expired := !s.now().Before(session.Deadline)
	if !expired && len(session.Answers) < len(session.Questions) {
		return nil, util.ErrIncompleteAnswers
	}

	trigger := "manual"
	if expired {
		trigger = "timeout"
	}
	return s.finalizeLocked(session, trigger), nil
}

// Result returns the retained review of a completed session.
func (s *SessionService) Result(userID uint) (*QuizResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[userID]
	if !ok {
		return nil, util.ErrSessionNotFound
	}
	if session.Phase != PhaseCompleted || session.Result == nil {
		return nil, util.ErrSessionPhase
	}
	return session.Result, nil
}

// Reset discards the session ("take another quiz"), cancelling any timer.
func (s *SessionService) Reset(userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[userID]
	if !ok {
		return util.ErrSessionNotFound
	}
	s.stopTimerLocked(session)
	delete(s.sessions, userID)
	s.updateGaugeLocked()
	return nil
}

// ReapIdle drops ready sessions that were never begun and completed
// sessions past their retention, so abandoned state does not accumulate.
func (s *SessionService) ReapIdle() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	reaped := 0
	for userID, session := range s.sessions {
		switch session.Phase {
		case PhaseReady:
			if now.Sub(session.CreatedAt) > s.readyTTL {
				s.stopTimerLocked(session)
				delete(s.sessions, userID)
				reaped++
			}
		case PhaseCompleted:
			if now.Sub(session.completedAt) > s.completedTTL {
				delete(s.sessions, userID)
				reaped++
			}
		}
	}
	if reaped > 0 {
		s.updateGaugeLocked()
	}
	return reaped
}

// expire is the timer callback. The phase check makes it a no-op when the
// session was already submitted or reset, so a late-firing timer can never
// corrupt later state, and auto-submission happens exactly once.
func (s *SessionService) expire(userID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[userID]
	if !ok || session.Phase != PhaseInProgress {
		return
	}
	s.finalizeLocked(session, "timeout")
}

func (s *SessionService) finalizeLocked(session *QuizSession, trigger string) *QuizResult {
	s.stopTimerLocked(session)

	score := Score(session.Questions, session.Answers)
	total := len(session.Questions)
	submittedAt := s.now()

	attempt := &model.Attempt{
		UserID:         session.UserID,
		Email:          session.Email,
		ModuleID:       session.Module.ID,
		ModuleName:     session.Module.Name,
		Score:          score,
		TotalQuestions: total,
		Percentage:     Percentage(score, total),
		TakenAt:        submittedAt,
	}

	// The score is computed locally; a failed append degrades the result
	// (no rank) instead of losing it.
	persisted := true
	if err := s.Attempts.Append(attempt); err != nil {
		persisted = false
		logger.Log.Error("failed to persist attempt",
			zap.Uint("user_id", session.UserID),
			zap.String("module_id", session.Module.ID),
			zap.Error(err))
	}

	rank := 0
	if persisted {
		var err error
		rank, err = s.Leaderboard.RankOf(session.Module.ID, attempt.ID)
		if err != nil {
			logger.Log.Error("failed to compute rank",
				zap.String("module_id", session.Module.ID), zap.Error(err))
		}
		s.Leaderboard.Invalidate(context.Background(), session.Module.ID)
	}

	result := &QuizResult{
		Score:           score,
		TotalQuestions:  total,
		Percentage:      attempt.Percentage,
		Rank:            rank,
		Persisted:       persisted,
		ForcedByTimeout: trigger == "timeout",
		SubmittedAt:     submittedAt,
		Module:          moduleView(session.Module),
		Review:          buildReview(session),
	}

	session.Phase = PhaseCompleted
	session.Result = result
	session.completedAt = submittedAt

	monitoring.AttemptsSubmitted.WithLabelValues(trigger).Inc()

	return result
}

func buildReview(session *QuizSession) []ReviewQuestion {
	review := make([]ReviewQuestion, 0, len(session.Questions))
	for i := range session.Questions {
		q := &session.Questions[i]

		var submitted *model.AnswerValue
		answer, answered := session.Answers[q.ID]
		if answered {
			a := answer
			submitted = &a
		}

		explanation := q.Explanation
		if explanation == "" {
			explanation = noExplanationFallback
		}

		review = append(review, ReviewQuestion{
			ID:            q.ID,
			Kind:          q.Kind,
			Text:          q.Text,
			Options:       q.Options,
			YourAnswer:    submitted,
			CorrectAnswer: q.Answer,
			Correct:       answered && q.Answer.Matches(answer),
			Explanation:   explanation,
		})
	}
	return review
}

func moduleView(m model.Module) ModuleView {
	return ModuleView{
		ID:        m.ID,
		Name:      m.Name,
		Subject:   m.Subject,
		TimeLimit: m.TimeLimit,
	}
}

func (s *SessionService) viewLocked(session *QuizSession) *SessionView {
	remaining := 0
	switch session.Phase {
	case PhaseReady:
		remaining = session.Module.TimeLimit * 60
	case PhaseInProgress:
		remaining = int(session.Deadline.Sub(s.now()).Seconds())
		if remaining < 0 {
			remaining = 0
		}
		// Latched: once raised the warning stays until the session
		// leaves in_progress.
		if remaining <= 60 {
			session.lowTime = true
		}
	}

	questions := make([]SessionQuestionView, 0, len(session.Questions))
	for i := range session.Questions {
		q := &session.Questions[i]
		questions = append(questions, SessionQuestionView{
			ID:      q.ID,
			Kind:    q.Kind,
			Text:    q.Text,
			Options: q.Options,
			Order:   q.Order,
		})
	}

	answered := len(session.Answers)
	return &SessionView{
		Phase:            session.Phase,
		Module:           moduleView(session.Module),
		Questions:        questions,
		TotalQuestions:   len(session.Questions),
		AnsweredCount:    answered,
		RemainingSeconds: remaining,
		LowTimeWarning:   session.Phase == PhaseInProgress && session.lowTime,
		CanSubmit:        session.Phase == PhaseInProgress && (answered == len(session.Questions) || remaining == 0),
	}
}

func (s *SessionService) stopTimerLocked(session *QuizSession) {
	if session.timer != nil {
		session.timer.Stop()
		session.timer = nil
	}
}

func (s *SessionService) updateGaugeLocked() {
	monitoring.ActiveSessions.Set(float64(len(s.sessions)))
}
