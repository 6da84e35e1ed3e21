package app

import (
	"context"
	"fmt"
	"time"

	"trivia-quiz-service/internal/domain"
)

// ScoreRecorder creates or updates the single score record for a
// (user, quiz) pair. Policy is last-write-wins: a later submission always
// overwrites the stored score, regardless of whether it is higher.
type ScoreRecorder struct {
	records RecordStore
	users   UserStore
	quizzes QuizStore
	clock   func() time.Time
}

func NewScoreRecorder(records RecordStore, users UserStore, quizzes QuizStore) *ScoreRecorder {
	return &ScoreRecorder{records: records, users: users, quizzes: quizzes, clock: time.Now}
}

// NewScoreRecorderWithClock is test-only for deterministic timestamps.
func NewScoreRecorderWithClock(records RecordStore, users UserStore, quizzes QuizStore, now func() time.Time) *ScoreRecorder {
	r := NewScoreRecorder(records, users, quizzes)
	r.clock = now
	return r
}

// Upsert persists the score for (userID, quizID), verifying both referents
// exist first. The underlying store write is atomic per key, so concurrent
// submissions converge to exactly one record.
func (r *ScoreRecorder) Upsert(ctx context.Context, userID, quizID int64, score int) (domain.UserRecord, error) {
	if _, err := r.users.ByID(ctx, userID); err != nil {
		return domain.UserRecord{}, fmt.Errorf("%w: user %d", domain.ErrUserNotFound, userID)
	}
	if _, err := r.quizzes.ByID(ctx, quizID); err != nil {
		return domain.UserRecord{}, fmt.Errorf("%w: quiz %d", domain.ErrQuizNotFound, quizID)
	}
	return r.records.Upsert(ctx, userID, quizID, score, r.clock())
}
