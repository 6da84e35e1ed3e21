package app

import (
	"context"
	"fmt"

	"trivia-quiz-service/internal/domain"
)

// QuestionIngestor validates and normalizes raw provider payloads and
// persists them in a single bulk write.
type QuestionIngestor struct {
	questions QuestionStore
}

func NewQuestionIngestor(questions QuestionStore) *QuestionIngestor {
	return &QuestionIngestor{questions: questions}
}

// Ingest converts a raw batch into domain questions and saves them all at
// once. Validation is fail-fast: one malformed item aborts the whole batch
// and nothing is written. Incorrect answers are copied verbatim; no dedup
// against the correct answer is attempted.
func (in *QuestionIngestor) Ingest(ctx context.Context, raw []domain.RawQuestion) ([]domain.Question, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	questions := make([]domain.Question, 0, len(raw))
	for _, item := range raw {
		difficulty, err := domain.ParseDifficulty(item.Difficulty)
		if err != nil {
			return nil, err
		}
		if item.Category == "" {
			return nil, fmt.Errorf("%w: category in question %q", domain.ErrMissingField, item.Question)
		}
		if item.Question == "" {
			return nil, fmt.Errorf("%w: question text", domain.ErrMissingField)
		}
		if item.CorrectAnswer == "" {
			return nil, fmt.Errorf("%w: correct answer in question %q", domain.ErrMissingField, item.Question)
		}
		questions = append(questions, domain.Question{
			Difficulty:       difficulty,
			Category:         item.Category,
			Text:             item.Question,
			Answer:           item.CorrectAnswer,
			IncorrectAnswers: item.IncorrectAnswers,
		})
	}

	saved, err := in.questions.SaveAll(ctx, questions)
	if err != nil {
		return nil, fmt.Errorf("save ingested questions: %w", err)
	}
	return saved, nil
}
