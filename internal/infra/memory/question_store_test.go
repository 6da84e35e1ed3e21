package memory

import (
	"context"
	"errors"
	"testing"

	"trivia-quiz-service/internal/domain"
)

func seedQuestions(t *testing.T) *QuestionStore {
	t.Helper()
	store := NewQuestionStore()
	_, err := store.SaveAll(context.Background(), []domain.Question{
		{Difficulty: domain.DifficultyEasy, Category: "HISTORY", Text: "Year WW2 ended?", Answer: "1945"},
		{Difficulty: domain.DifficultyHard, Category: "HISTORY", Text: "Treaty of Westphalia year?", Answer: "1648"},
		{Difficulty: domain.DifficultyEasy, Category: "FILM", Text: "Director of Jaws?", Answer: "Spielberg"},
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return store
}

func TestQuestionLookups(t *testing.T) {
	ctx := context.Background()
	store := seedQuestions(t)

	q, err := store.ByID(ctx, 1)
	if err != nil {
		t.Fatalf("by id: %v", err)
	}
	if q.Answer != "1945" {
		t.Fatalf("unexpected question: %+v", q)
	}
	if _, err := store.ByID(ctx, 99); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}

	hard, err := store.ByDifficulty(ctx, domain.DifficultyHard)
	if err != nil {
		t.Fatalf("by difficulty: %v", err)
	}
	if len(hard) != 1 || hard[0].Answer != "1648" {
		t.Fatalf("unexpected hard questions: %+v", hard)
	}

	byCat, err := store.ByCategory(ctx, "HISTORY")
	if err != nil {
		t.Fatalf("by category: %v", err)
	}
	if len(byCat) != 2 {
		t.Fatalf("expected 2 history questions, got %d", len(byCat))
	}
}

func TestQuestionSearchIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	store := seedQuestions(t)

	hits, err := store.Search(ctx, "jAwS")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 1 || hits[0].Answer != "Spielberg" {
		t.Fatalf("unexpected hits: %+v", hits)
	}

	none, err := store.Search(ctx, "geology")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no hits, got %+v", none)
	}
}

func TestSaveAllCopiesIncorrectAnswers(t *testing.T) {
	ctx := context.Background()
	store := NewQuestionStore()

	wrong := []string{"a", "b"}
	saved, err := store.SaveAll(ctx, []domain.Question{
		{Difficulty: domain.DifficultyEasy, Category: "MUSIC", Text: "q", Answer: "x", IncorrectAnswers: wrong},
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	// Mutating the caller's slice must not leak into the store.
	wrong[0] = "mutated"
	got, err := store.ByID(ctx, saved[0].ID)
	if err != nil {
		t.Fatalf("by id: %v", err)
	}
	if got.IncorrectAnswers[0] != "a" {
		t.Fatalf("stored slice aliases caller memory: %+v", got.IncorrectAnswers)
	}
}
