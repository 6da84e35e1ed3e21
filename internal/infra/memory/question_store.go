// Package memory holds mutex-guarded in-memory store implementations,
// used by tests and by the demo mode of the server.
package memory

import (
	"context"
	"strings"
	"sync"

	"trivia-quiz-service/internal/domain"
)

// QuestionStore is an in-memory implementation of app.QuestionStore.
type QuestionStore struct {
	mu        sync.RWMutex
	nextID    int64
	questions map[int64]domain.Question
}

func NewQuestionStore() *QuestionStore {
	return &QuestionStore{questions: make(map[int64]domain.Question)}
}

func (s *QuestionStore) SaveAll(_ context.Context, questions []domain.Question) ([]domain.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := make([]domain.Question, 0, len(questions))
	for _, q := range questions {
		if q.ID == 0 {
			s.nextID++
			q.ID = s.nextID
		}
		q.IncorrectAnswers = append([]string(nil), q.IncorrectAnswers...)
		s.questions[q.ID] = q
		saved = append(saved, q)
	}
	return saved, nil
}

func (s *QuestionStore) ByID(_ context.Context, id int64) (domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if q, ok := s.questions[id]; ok {
		return q, nil
	}
	return domain.Question{}, domain.ErrQuestionNotFound
}

func (s *QuestionStore) ByCategory(_ context.Context, category string) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Question
	for _, q := range s.questions {
		if q.Category == category {
			out = append(out, q)
		}
	}
	return out, nil
}

func (s *QuestionStore) ByDifficulty(_ context.Context, difficulty domain.Difficulty) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Question
	for _, q := range s.questions {
		if q.Difficulty == difficulty {
			out = append(out, q)
		}
	}
	return out, nil
}

func (s *QuestionStore) Search(_ context.Context, keyword string) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	needle := strings.ToLower(keyword)
	var out []domain.Question
	for _, q := range s.questions {
		if strings.Contains(strings.ToLower(q.Text), needle) {
			out = append(out, q)
		}
	}
	return out, nil
}
