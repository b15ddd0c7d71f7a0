package quiz

import (
	"fmt"
	"sync"
)

// State describes where a session is in its lifecycle.
type State int

const (
	StateAwaitingQuestions State = iota // No question at the cursor yet
	StateReady                          // A question is available to answer
	StateFinished                       // Every question has been answered
)

func (s State) String() string {
	switch s {
	case StateAwaitingQuestions:
		return "awaiting"
	case StateReady:
		return "ready"
	case StateFinished:
		return "finished"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// AnswerResult is the outcome of answering the current question.
type AnswerResult struct {
	Correct     bool
	Selected    string
	Answer      string
	Explanation string
	Wikipedia   string

	// Options holds every option text of the answered question.
	Options []Option

	// QuestionNumber is 1-based.
	QuestionNumber int
	TotalQuestions int
	Score          int

	// IsFinished is true when this answer was the last one of the quiz.
	IsFinished bool
}

// Session holds the questions of one quiz run together with the answer
// cursor and the score. Questions are appended by the stream goroutine
// while the UI reads and answers them, so all methods lock.
type Session struct {
	mu           sync.Mutex
	questions    []Question
	currentIndex int
	targetCount  int
	score        int
}

// NewSession creates an empty session expecting targetCount questions.
// It panics if targetCount is not positive.
func NewSession(targetCount int) *Session {
	if targetCount <= 0 {
		panic(fmt.Sprintf("quiz: target count must be positive, got %d", targetCount))
	}
	return &Session{targetCount: targetCount}
}

// AddQuestion appends q in arrival order. The cursor is not moved.
func (s *Session) AddQuestion(q Question) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions = append(s.questions, q)
}

// CurrentQuestion returns the question at the cursor. The boolean is false
// when it has not arrived yet or the quiz is finished.
func (s *Session) CurrentQuestion() (Question, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current()
}

func (s *Session) current() (Question, bool) {
	if s.currentIndex >= s.targetCount || s.currentIndex >= len(s.questions) {
		return Question{}, false
	}
	return s.questions[s.currentIndex], true
}

// CheckAnswer scores selected against the current question and advances
// the cursor. Both keys are compared in normalized form. It returns false without touching any state when there is
// no current question or nothing was selected.
func (s *Session) CheckAnswer(selected string) (AnswerResult, bool) {
	key := NormalizeKey(selected)
	if key == "" {
		return AnswerResult{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.current()
	if !ok {
		return AnswerResult{}, false
	}

	answer := NormalizeKey(q.Answer)
	correct := key == answer
	if correct {
		s.score++
	}
	s.currentIndex++

	return AnswerResult{
		Correct:        correct,
		Selected:       key,
		Answer:         answer,
		Explanation:    q.Explanation,
		Wikipedia:      q.Wikipedia,
		Options:        q.Options(),
		QuestionNumber: s.currentIndex,
		TotalQuestions: s.targetCount,
		Score:          s.score,
		IsFinished:     s.currentIndex == s.targetCount,
	}, true
}

// State reports the lifecycle state at the cursor.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentIndex >= s.targetCount {
		return StateFinished
	}
	if s.currentIndex < len(s.questions) {
		return StateReady
	}
	return StateAwaitingQuestions
}

// Score returns the number of correct answers so far.
func (s *Session) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score
}

// CurrentIndex returns the zero-based answer cursor.
func (s *Session) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentIndex
}

// TargetCount returns the number of questions the quiz expects.
func (s *Session) TargetCount() int {
	return s.targetCount
}

// Available returns how many questions have been received.
func (s *Session) Available() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.questions)
}

// Summary is a point-in-time view of a session for display.
type Summary struct {
	Score      int
	Answered   int
	Total      int
	Received   int
	Accuracy   float64
	IsFinished bool
}

// Summary returns the current totals.
func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	var acc float64
	if s.currentIndex > 0 {
		acc = float64(s.score) / float64(s.currentIndex)
	}
	return Summary{
		Score:      s.score,
		Answered:   s.currentIndex,
		Total:      s.targetCount,
		Received:   len(s.questions),
		Accuracy:   acc,
		IsFinished: s.currentIndex >= s.targetCount,
	}
}
