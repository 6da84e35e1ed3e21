// Package postgres implements the stores on top of pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"trivia-quiz-service/internal/domain"
)

// QuestionStore persists questions in Postgres.
type QuestionStore struct {
	pool *pgxpool.Pool
}

func NewQuestionStore(pool *pgxpool.Pool) *QuestionStore {
	return &QuestionStore{pool: pool}
}

// SaveAll bulk-inserts a batch inside one transaction. Writes are visible to
// any read issued after this returns.
func (s *QuestionStore) SaveAll(ctx context.Context, questions []domain.Question) ([]domain.Question, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	saved := make([]domain.Question, 0, len(questions))
	for _, q := range questions {
		row := tx.QueryRow(ctx,
			`INSERT INTO questions (difficulty, category, text, answer, incorrect_answers)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING question_id`,
			string(q.Difficulty), q.Category, q.Text, q.Answer, q.IncorrectAnswers)
		if err := row.Scan(&q.ID); err != nil {
			return nil, fmt.Errorf("insert question: %w", err)
		}
		saved = append(saved, q)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return saved, nil
}

func (s *QuestionStore) ByID(ctx context.Context, id int64) (domain.Question, error) {
	q, err := scanQuestion(s.pool.QueryRow(ctx, selectQuestion+` WHERE question_id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	return q, err
}

func (s *QuestionStore) ByCategory(ctx context.Context, category string) ([]domain.Question, error) {
	return s.queryQuestions(ctx, selectQuestion+` WHERE category = $1 ORDER BY question_id`, category)
}

func (s *QuestionStore) ByDifficulty(ctx context.Context, difficulty domain.Difficulty) ([]domain.Question, error) {
	return s.queryQuestions(ctx, selectQuestion+` WHERE difficulty = $1 ORDER BY question_id`, string(difficulty))
}

func (s *QuestionStore) Search(ctx context.Context, keyword string) ([]domain.Question, error) {
	return s.queryQuestions(ctx, selectQuestion+` WHERE text ILIKE '%' || $1 || '%' ORDER BY question_id`, keyword)
}

const selectQuestion = `SELECT question_id, difficulty, category, text, answer, incorrect_answers FROM questions`

func (s *QuestionStore) queryQuestions(ctx context.Context, sql string, args ...interface{}) ([]domain.Question, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	var out []domain.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanQuestion(row rowScanner) (domain.Question, error) {
	var q domain.Question
	var difficulty string
	if err := row.Scan(&q.ID, &difficulty, &q.Category, &q.Text, &q.Answer, &q.IncorrectAnswers); err != nil {
		return domain.Question{}, err
	}
	q.Difficulty = domain.Difficulty(difficulty)
	return q, nil
}
