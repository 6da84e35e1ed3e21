// Package app contains the quiz assembly and grading use cases.
package app

import (
	"context"
	"time"

	"trivia-quiz-service/internal/domain"
)

// QuestionSource fetches a batch of raw questions from the external provider.
type QuestionSource interface {
	Fetch(ctx context.Context, amount, categoryID int, difficulty domain.Difficulty) ([]domain.RawQuestion, error)
}

// QuestionStore is keyed storage for questions.
// SaveAll must be a synchronous bulk write: once it returns, the saved rows
// are visible to subsequent reads (the assembler samples right after ingesting).
type QuestionStore interface {
	SaveAll(ctx context.Context, questions []domain.Question) ([]domain.Question, error)
	ByID(ctx context.Context, id int64) (domain.Question, error)
	ByCategory(ctx context.Context, category string) ([]domain.Question, error)
	ByDifficulty(ctx context.Context, difficulty domain.Difficulty) ([]domain.Question, error)
	Search(ctx context.Context, keyword string) ([]domain.Question, error)
}

// QuizStore persists quizzes. CreateWithQuestions writes the quiz row and all
// of its question links atomically: a failure on any link leaves no quiz behind.
type QuizStore interface {
	CreateWithQuestions(ctx context.Context, quiz domain.Quiz, questionIDs []int64) (domain.Quiz, error)
	ByID(ctx context.Context, id int64) (domain.Quiz, error)
	Delete(ctx context.Context, id int64) error
}

// LinkStore queries the quiz-question association.
type LinkStore interface {
	Links(ctx context.Context, quizID int64) ([]domain.QuizQuestion, error)
	QuestionsForQuiz(ctx context.Context, quizID int64) ([]domain.Question, error)
}

// RecordStore persists score records. Upsert must be atomic per (user, quiz):
// concurrent calls converge to a single row holding the last written score.
type RecordStore interface {
	Upsert(ctx context.Context, userID, quizID int64, score int, playedAt time.Time) (domain.UserRecord, error)
	ByUserAndQuiz(ctx context.Context, userID, quizID int64) (domain.UserRecord, error)
	ByUser(ctx context.Context, userID int64) ([]domain.UserRecord, error)
	ByQuiz(ctx context.Context, quizID int64) ([]domain.UserRecord, error)
}

// UserStore reads user accounts owned by an external system.
type UserStore interface {
	ByID(ctx context.Context, id int64) (domain.User, error)
	All(ctx context.Context) ([]domain.User, error)
}

// NotificationGateway delivers a message to a single recipient.
// Failures are logged by callers, never propagated.
type NotificationGateway interface {
	Send(ctx context.Context, to, subject, body, replyTo string) error
}

// Announcer pushes an in-app signal about a newly created quiz.
type Announcer interface {
	AnnounceQuiz(quiz domain.Quiz)
}
