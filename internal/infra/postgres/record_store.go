package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"trivia-quiz-service/internal/domain"
)

// RecordStore persists score records. The unique index on
// (user_id, quiz_id) plus INSERT .. ON CONFLICT makes the upsert atomic:
// concurrent submissions cannot produce two rows or lose the final write.
type RecordStore struct {
	pool *pgxpool.Pool
}

func NewRecordStore(pool *pgxpool.Pool) *RecordStore {
	return &RecordStore{pool: pool}
}

func (s *RecordStore) Upsert(ctx context.Context, userID, quizID int64, score int, playedAt time.Time) (domain.UserRecord, error) {
	var record domain.UserRecord
	err := s.pool.QueryRow(ctx,
		`INSERT INTO user_records (user_id, quiz_id, score, played_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id, quiz_id)
		 DO UPDATE SET score = EXCLUDED.score, played_at = EXCLUDED.played_at
		 RETURNING user_record_id, user_id, quiz_id, score, played_at`,
		userID, quizID, score, playedAt).
		Scan(&record.ID, &record.UserID, &record.QuizID, &record.Score, &record.PlayedAt)
	if err != nil {
		return domain.UserRecord{}, fmt.Errorf("upsert record: %w", err)
	}
	return record, nil
}

func (s *RecordStore) ByUserAndQuiz(ctx context.Context, userID, quizID int64) (domain.UserRecord, error) {
	var record domain.UserRecord
	err := s.pool.QueryRow(ctx,
		selectRecord+` WHERE user_id = $1 AND quiz_id = $2`, userID, quizID).
		Scan(&record.ID, &record.UserID, &record.QuizID, &record.Score, &record.PlayedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.UserRecord{}, domain.ErrRecordNotFound
	}
	if err != nil {
		return domain.UserRecord{}, fmt.Errorf("load record: %w", err)
	}
	return record, nil
}

func (s *RecordStore) ByUser(ctx context.Context, userID int64) ([]domain.UserRecord, error) {
	return s.queryRecords(ctx, selectRecord+` WHERE user_id = $1 ORDER BY played_at DESC`, userID)
}

func (s *RecordStore) ByQuiz(ctx context.Context, quizID int64) ([]domain.UserRecord, error) {
	return s.queryRecords(ctx, selectRecord+` WHERE quiz_id = $1 ORDER BY played_at DESC`, quizID)
}

const selectRecord = `SELECT user_record_id, user_id, quiz_id, score, played_at FROM user_records`

func (s *RecordStore) queryRecords(ctx context.Context, sql string, args ...interface{}) ([]domain.UserRecord, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var out []domain.UserRecord
	for rows.Next() {
		var record domain.UserRecord
		if err := rows.Scan(&record.ID, &record.UserID, &record.QuizID, &record.Score, &record.PlayedAt); err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, rows.Err()
}
