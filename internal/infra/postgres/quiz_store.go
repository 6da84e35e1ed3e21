package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"trivia-quiz-service/internal/domain"
)

// QuizStore persists quizzes and their question links. It also serves as the
// link store, since links live in the same schema and share the quiz's
// lifecycle (ON DELETE CASCADE).
type QuizStore struct {
	pool *pgxpool.Pool
}

func NewQuizStore(pool *pgxpool.Pool) *QuizStore {
	return &QuizStore{pool: pool}
}

// CreateWithQuestions writes the quiz row and all its links in one
// transaction, so a failed link insert never leaves an orphaned quiz.
func (s *QuizStore) CreateWithQuestions(ctx context.Context, quiz domain.Quiz, questionIDs []int64) (domain.Quiz, error) {
	if err := quiz.Validate(); err != nil {
		return domain.Quiz{}, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx,
		`INSERT INTO quizzes (title, start_date, end_date) VALUES ($1, $2, $3) RETURNING quiz_id`,
		quiz.Title, quiz.StartDate, quiz.EndDate)
	if err := row.Scan(&quiz.ID); err != nil {
		return domain.Quiz{}, fmt.Errorf("insert quiz: %w", err)
	}

	for _, questionID := range questionIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO quiz_questions (quiz_id, question_id) VALUES ($1, $2)`,
			quiz.ID, questionID); err != nil {
			return domain.Quiz{}, fmt.Errorf("link question %d: %w", questionID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Quiz{}, fmt.Errorf("commit: %w", err)
	}
	return quiz, nil
}

func (s *QuizStore) ByID(ctx context.Context, id int64) (domain.Quiz, error) {
	var quiz domain.Quiz
	err := s.pool.QueryRow(ctx,
		`SELECT quiz_id, title, start_date, end_date FROM quizzes WHERE quiz_id = $1`, id).
		Scan(&quiz.ID, &quiz.Title, &quiz.StartDate, &quiz.EndDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("load quiz: %w", err)
	}
	return quiz, nil
}

// Delete removes a quiz; its links go with it via ON DELETE CASCADE.
func (s *QuizStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM quizzes WHERE quiz_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrQuizNotFound
	}
	return nil
}

func (s *QuizStore) Links(ctx context.Context, quizID int64) ([]domain.QuizQuestion, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT quiz_question_id, quiz_id, question_id FROM quiz_questions
		 WHERE quiz_id = $1 ORDER BY quiz_question_id`, quizID)
	if err != nil {
		return nil, fmt.Errorf("query links: %w", err)
	}
	defer rows.Close()

	var out []domain.QuizQuestion
	for rows.Next() {
		var link domain.QuizQuestion
		if err := rows.Scan(&link.ID, &link.QuizID, &link.QuestionID); err != nil {
			return nil, err
		}
		out = append(out, link)
	}
	return out, rows.Err()
}

func (s *QuizStore) QuestionsForQuiz(ctx context.Context, quizID int64) ([]domain.Question, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT q.question_id, q.difficulty, q.category, q.text, q.answer, q.incorrect_answers
		 FROM quiz_questions qq
		 JOIN questions q ON q.question_id = qq.question_id
		 WHERE qq.quiz_id = $1
		 ORDER BY qq.quiz_question_id`, quizID)
	if err != nil {
		return nil, fmt.Errorf("query quiz questions: %w", err)
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
