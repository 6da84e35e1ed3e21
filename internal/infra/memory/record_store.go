package memory

import (
	"context"
	"sync"
	"time"

	"trivia-quiz-service/internal/domain"
)

type recordKey struct {
	userID int64
	quizID int64
}

// RecordStore is an in-memory implementation of app.RecordStore. The single
// mutex serializes the upsert per process, so concurrent submissions for the
// same (user, quiz) pair converge to one record.
type RecordStore struct {
	mu      sync.RWMutex
	nextID  int64
	records map[recordKey]domain.UserRecord
}

func NewRecordStore() *RecordStore {
	return &RecordStore{records: make(map[recordKey]domain.UserRecord)}
}

func (s *RecordStore) Upsert(_ context.Context, userID, quizID int64, score int, playedAt time.Time) (domain.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := recordKey{userID: userID, quizID: quizID}
	record, ok := s.records[key]
	if !ok {
		s.nextID++
		record = domain.UserRecord{ID: s.nextID, UserID: userID, QuizID: quizID}
	}
	record.Score = score
	record.PlayedAt = playedAt
	s.records[key] = record
	return record, nil
}

func (s *RecordStore) ByUserAndQuiz(_ context.Context, userID, quizID int64) (domain.UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if record, ok := s.records[recordKey{userID: userID, quizID: quizID}]; ok {
		return record, nil
	}
	return domain.UserRecord{}, domain.ErrRecordNotFound
}

func (s *RecordStore) ByUser(_ context.Context, userID int64) ([]domain.UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.UserRecord
	for key, record := range s.records {
		if key.userID == userID {
			out = append(out, record)
		}
	}
	return out, nil
}

func (s *RecordStore) ByQuiz(_ context.Context, quizID int64) ([]domain.UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.UserRecord
	for key, record := range s.records {
		if key.quizID == quizID {
			out = append(out, record)
		}
	}
	return out, nil
}
