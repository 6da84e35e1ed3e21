package app

import (
	"context"
	"fmt"
	"sort"

	"trivia-quiz-service/internal/domain"
)

// AnswerKeyProvider resolves a quiz ID to its answer key
// (question ID -> correct answer text). Implementations may cache.
type AnswerKeyProvider interface {
	AnswerKey(ctx context.Context, quizID int64) (map[int64]string, error)
}

// LinkAnswerKey builds answer keys straight from the link store.
type LinkAnswerKey struct {
	links LinkStore
}

func NewLinkAnswerKey(links LinkStore) *LinkAnswerKey {
	return &LinkAnswerKey{links: links}
}

func (k *LinkAnswerKey) AnswerKey(ctx context.Context, quizID int64) (map[int64]string, error) {
	questions, err := k.links.QuestionsForQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	key := make(map[int64]string, len(questions))
	for _, q := range questions {
		key[q.ID] = q.Answer
	}
	return key, nil
}

// SubmissionValidator grades submissions against a quiz's answer key and
// persists the outcome exactly once per (user, quiz) pair.
type SubmissionValidator struct {
	keys     AnswerKeyProvider
	recorder *ScoreRecorder
}

func NewSubmissionValidator(keys AnswerKeyProvider, recorder *ScoreRecorder) *SubmissionValidator {
	return &SubmissionValidator{keys: keys, recorder: recorder}
}

// ValidateAndScore grades every submitted answer case-sensitively against the
// stored correct answers. Submitted IDs that are not part of the quiz still
// appear in the feedback (with an empty correct answer) but never count
// toward the score or the question total. The total is always the quiz's
// full question count, even for partial submissions.
func (v *SubmissionValidator) ValidateAndScore(ctx context.Context, sub domain.Submission) (domain.ValidationResult, error) {
	key, err := v.keys.AnswerKey(ctx, sub.QuizID)
	if err != nil {
		return domain.ValidationResult{}, fmt.Errorf("%w: load answer key: %w", domain.ErrValidationFailed, err)
	}
	if len(key) == 0 {
		return domain.ValidationResult{}, fmt.Errorf("%w: quiz %d has no questions", domain.ErrQuizNotFound, sub.QuizID)
	}

	var correctIDs []int64
	feedback := make([]domain.QuestionFeedback, 0, len(sub.Answers))
	for questionID, answer := range sub.Answers {
		correctAnswer, known := key[questionID]
		correct := known && answer == correctAnswer
		if correct {
			correctIDs = append(correctIDs, questionID)
		}
		feedback = append(feedback, domain.QuestionFeedback{
			QuestionID:    questionID,
			UserAnswer:    answer,
			CorrectAnswer: correctAnswer,
			Correct:       correct,
		})
	}
	sort.Slice(feedback, func(i, j int) bool { return feedback[i].QuestionID < feedback[j].QuestionID })
	sort.Slice(correctIDs, func(i, j int) bool { return correctIDs[i] < correctIDs[j] })

	score := len(correctIDs)
	if _, err := v.recorder.Upsert(ctx, sub.UserID, sub.QuizID, score); err != nil {
		return domain.ValidationResult{}, err
	}

	return domain.ValidationResult{
		QuizID:             sub.QuizID,
		Score:              score,
		TotalQuestions:     len(key),
		CorrectQuestionIDs: correctIDs,
		Feedback:           feedback,
	}, nil
}
