package domain

import (
	"fmt"
	"strings"
	"time"
)

// Difficulty is the question difficulty level.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

// ParseDifficulty maps a label to a Difficulty, case-insensitively.
func ParseDifficulty(label string) (Difficulty, error) {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case string(DifficultyEasy):
		return DifficultyEasy, nil
	case string(DifficultyMedium):
		return DifficultyMedium, nil
	case string(DifficultyHard):
		return DifficultyHard, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDifficulty, label)
}

// Provider renders the difficulty the way the external API expects it.
func (d Difficulty) Provider() string {
	return strings.ToLower(string(d))
}

// Question is a single prompt with one correct and N incorrect answer choices.
type Question struct {
	ID               int64      `json:"questionId"`
	Difficulty       Difficulty `json:"difficulty"`
	Category         string     `json:"category"`
	Text             string     `json:"text"`
	Answer           string     `json:"answer"`
	IncorrectAnswers []string   `json:"incorrectAnswers"`
}

// RawQuestion is the provider payload shape before ingestion.
type RawQuestion struct {
	Difficulty       string   `json:"difficulty"`
	Category         string   `json:"category"`
	Question         string   `json:"question"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

// QuizStatus describes where a quiz sits relative to its play window.
type QuizStatus string

const (
	QuizUpcoming QuizStatus = "Upcoming"
	QuizActive   QuizStatus = "Active"
	QuizExpired  QuizStatus = "Expired"
)

// Quiz is a titled, dated collection of questions.
type Quiz struct {
	ID        int64     `json:"quizId"`
	Title     string    `json:"title"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

// Validate checks the persistable invariants of a quiz.
func (q Quiz) Validate() error {
	if l := len(q.Title); l < 1 || l > 100 {
		return ErrInvalidTitle
	}
	if q.EndDate.Before(q.StartDate) {
		return ErrInvalidDateRange
	}
	return nil
}

// StatusAt computes the quiz status for a given day. The window is [start, end).
func (q Quiz) StatusAt(today time.Time) QuizStatus {
	day := today.Truncate(24 * time.Hour)
	switch {
	case q.StartDate.After(day):
		return QuizUpcoming
	case q.EndDate.Before(day) || q.EndDate.Equal(day):
		return QuizExpired
	default:
		return QuizActive
	}
}

// QuizQuestion links one question into one quiz.
type QuizQuestion struct {
	ID         int64 `json:"quizQuestionId"`
	QuizID     int64 `json:"quizId"`
	QuestionID int64 `json:"questionId"`
}

// User is the minimal account view this service needs for notifications and records.
type User struct {
	ID        int64  `json:"userId"`
	FirstName string `json:"firstName"`
	Email     string `json:"email"`
}

// UserRecord is the persisted outcome of a user's attempt at a quiz.
// At most one record exists per (user, quiz) pair.
type UserRecord struct {
	ID       int64     `json:"userRecordId"`
	UserID   int64     `json:"userId"`
	QuizID   int64     `json:"quizId"`
	Score    int       `json:"score"`
	PlayedAt time.Time `json:"playedAt"`
}

// Submission is a user's set of chosen answers for a quiz attempt.
type Submission struct {
	QuizID  int64            `json:"quizId"`
	UserID  int64            `json:"userId"`
	Answers map[int64]string `json:"answers"`
}

// QuestionFeedback reports the outcome for a single submitted answer.
type QuestionFeedback struct {
	QuestionID    int64  `json:"questionId"`
	UserAnswer    string `json:"userAnswer"`
	CorrectAnswer string `json:"correctAnswer"`
	Correct       bool   `json:"correct"`
}

// ValidationResult summarizes a graded submission.
type ValidationResult struct {
	QuizID             int64              `json:"quizId"`
	Score              int                `json:"score"`
	TotalQuestions     int                `json:"totalQuestions"`
	CorrectQuestionIDs []int64            `json:"correctAnswers"`
	Feedback           []QuestionFeedback `json:"feedback"`
}
