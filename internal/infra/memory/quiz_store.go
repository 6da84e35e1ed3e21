package memory

import (
	"context"
	"sort"
	"sync"

	"trivia-quiz-service/internal/domain"
)

// QuizStore is an in-memory implementation of app.QuizStore and
// app.LinkStore. It owns the quiz-question links so that quiz creation and
// link writes happen under one lock, and quiz deletion cascades to links.
type QuizStore struct {
	questions *QuestionStore

	mu         sync.RWMutex
	nextQuizID int64
	nextLinkID int64
	quizzes    map[int64]domain.Quiz
	links      map[int64][]domain.QuizQuestion
}

func NewQuizStore(questions *QuestionStore) *QuizStore {
	return &QuizStore{
		questions: questions,
		quizzes:   make(map[int64]domain.Quiz),
		links:     make(map[int64][]domain.QuizQuestion),
	}
}

func (s *QuizStore) CreateWithQuestions(ctx context.Context, quiz domain.Quiz, questionIDs []int64) (domain.Quiz, error) {
	if err := quiz.Validate(); err != nil {
		return domain.Quiz{}, err
	}
	// All-or-nothing: verify every question before touching any state.
	for _, id := range questionIDs {
		if _, err := s.questions.ByID(ctx, id); err != nil {
			return domain.Quiz{}, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextQuizID++
	quiz.ID = s.nextQuizID
	s.quizzes[quiz.ID] = quiz
	for _, questionID := range questionIDs {
		s.nextLinkID++
		s.links[quiz.ID] = append(s.links[quiz.ID], domain.QuizQuestion{
			ID:         s.nextLinkID,
			QuizID:     quiz.ID,
			QuestionID: questionID,
		})
	}
	return quiz, nil
}

func (s *QuizStore) ByID(_ context.Context, id int64) (domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if quiz, ok := s.quizzes[id]; ok {
		return quiz, nil
	}
	return domain.Quiz{}, domain.ErrQuizNotFound
}

func (s *QuizStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quizzes[id]; !ok {
		return domain.ErrQuizNotFound
	}
	delete(s.quizzes, id)
	delete(s.links, id)
	return nil
}

func (s *QuizStore) Links(_ context.Context, quizID int64) ([]domain.QuizQuestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]domain.QuizQuestion(nil), s.links[quizID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *QuizStore) QuestionsForQuiz(ctx context.Context, quizID int64) ([]domain.Question, error) {
	links, err := s.Links(ctx, quizID)
	if err != nil {
		return nil, err
	}
	questions := make([]domain.Question, 0, len(links))
	for _, link := range links {
		q, err := s.questions.ByID(ctx, link.QuestionID)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, nil
}
