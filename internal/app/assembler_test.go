package app_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/domain"
	"trivia-quiz-service/internal/infra/memory"
	"trivia-quiz-service/internal/notify"
)

type stubSource struct {
	raw   []domain.RawQuestion
	err   error
	calls int
}

func (s *stubSource) Fetch(_ context.Context, amount, categoryID int, difficulty domain.Difficulty) ([]domain.RawQuestion, error) {
	s.calls++
	return s.raw, s.err
}

type assemblerFixture struct {
	source    *stubSource
	questions *memory.QuestionStore
	quizzes   *memory.QuizStore
	users     *memory.UserStore
	mail      *notify.Recorder
	assembler *app.QuizAssembler
}

func newAssemblerFixture(source *stubSource, opts ...app.AssemblerOption) *assemblerFixture {
	questions := memory.NewQuestionStore()
	quizzes := memory.NewQuizStore(questions)
	users := memory.NewUserStore(
		domain.User{FirstName: "Alice", Email: "alice@example.com"},
		domain.User{FirstName: "Bob", Email: "bob@example.com"},
	)
	mail := notify.NewRecorder()
	opts = append([]app.AssemblerOption{app.WithRandSource(rand.NewSource(1))}, opts...)
	return &assemblerFixture{
		source:    source,
		questions: questions,
		quizzes:   quizzes,
		users:     users,
		mail:      mail,
		assembler: app.NewQuizAssembler(source, app.NewQuestionIngestor(questions), questions, quizzes, users, mail, opts...),
	}
}

func rawBatch(category string, n int) []domain.RawQuestion {
	out := make([]domain.RawQuestion, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, domain.RawQuestion{
			Difficulty:       "easy",
			Category:         category,
			Question:         fmt.Sprintf("question %d", i),
			CorrectAnswer:    fmt.Sprintf("answer %d", i),
			IncorrectAnswers: []string{"w1", "w2", "w3"},
		})
	}
	return out
}

func quizWindow() (time.Time, time.Time) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 7)
}

func TestCreateQuizLinksAtMostTen(t *testing.T) {
	ctx := context.Background()
	f := newAssemblerFixture(&stubSource{raw: rawBatch("HISTORY", 10)})

	// Preload extra stock so the category holds more than ten questions.
	extra := make([]domain.Question, 5)
	for i := range extra {
		extra[i] = domain.Question{Difficulty: domain.DifficultyEasy, Category: "HISTORY", Text: fmt.Sprintf("old %d", i), Answer: "a"}
	}
	if _, err := f.questions.SaveAll(ctx, extra); err != nil {
		t.Fatalf("seed: %v", err)
	}

	start, end := quizWindow()
	quiz, err := f.assembler.CreateQuizWithQuestions(ctx, "History weekly", start, end, "HISTORY", domain.DifficultyEasy)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	links, err := f.quizzes.Links(ctx, quiz.ID)
	if err != nil {
		t.Fatalf("links: %v", err)
	}
	if len(links) != 10 {
		t.Fatalf("expected exactly 10 links from 15 candidates, got %d", len(links))
	}
	seen := make(map[int64]bool)
	for _, link := range links {
		if seen[link.QuestionID] {
			t.Fatalf("question %d linked twice", link.QuestionID)
		}
		seen[link.QuestionID] = true
	}
}

func TestCreateQuizWithSmallCategory(t *testing.T) {
	ctx := context.Background()
	f := newAssemblerFixture(&stubSource{raw: rawBatch("MYTHOLOGY", 3)})

	start, end := quizWindow()
	quiz, err := f.assembler.CreateQuizWithQuestions(ctx, "Myths", start, end, "MYTHOLOGY", domain.DifficultyEasy)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	links, _ := f.quizzes.Links(ctx, quiz.ID)
	if len(links) != 3 {
		t.Fatalf("expected all 3 available questions linked, got %d", len(links))
	}
}

func TestCreateQuizNoQuestionsAvailable(t *testing.T) {
	ctx := context.Background()
	f := newAssemblerFixture(&stubSource{raw: nil})

	start, end := quizWindow()
	_, err := f.assembler.CreateQuizWithQuestions(ctx, "Empty", start, end, "GADGETS", domain.DifficultyHard)
	if !errors.Is(err, domain.ErrNoQuestionsAvailable) {
		t.Fatalf("expected ErrNoQuestionsAvailable, got %v", err)
	}
	// No quiz row may exist.
	if _, err := f.quizzes.ByID(ctx, 1); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected no quiz row, got %v", err)
	}
	if len(f.mail.Sent()) != 0 {
		t.Fatalf("no notifications expected on failure")
	}
}

func TestCreateQuizInvalidDateRange(t *testing.T) {
	f := newAssemblerFixture(&stubSource{raw: rawBatch("ART", 10)})

	start, _ := quizWindow()
	_, err := f.assembler.CreateQuizWithQuestions(context.Background(), "Backwards", start, start.AddDate(0, 0, -1), "ART", domain.DifficultyEasy)
	if !errors.Is(err, domain.ErrInvalidDateRange) {
		t.Fatalf("expected ErrInvalidDateRange, got %v", err)
	}
	if f.source.calls != 0 {
		t.Fatalf("provider must not be called for an invalid range")
	}
}

func TestCreateQuizSourceFailureAborts(t *testing.T) {
	ctx := context.Background()
	f := newAssemblerFixture(&stubSource{err: domain.ErrSourceUnavailable})

	start, end := quizWindow()
	_, err := f.assembler.CreateQuizWithQuestions(ctx, "Doomed", start, end, "FILM", domain.DifficultyEasy)
	if !errors.Is(err, domain.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
	if _, err := f.quizzes.ByID(ctx, 1); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected no quiz row, got %v", err)
	}
}

func TestCreateQuizRateLimitSurfaces(t *testing.T) {
	f := newAssemblerFixture(&stubSource{err: domain.ErrRateLimited})

	start, end := quizWindow()
	_, err := f.assembler.CreateQuizWithQuestions(context.Background(), "Limited", start, end, "FILM", domain.DifficultyEasy)
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestNotificationFailureDoesNotFailCreation(t *testing.T) {
	ctx := context.Background()
	f := newAssemblerFixture(&stubSource{raw: rawBatch("SPORTS", 10)})
	f.mail.Err = errors.New("smtp on fire")

	start, end := quizWindow()
	quiz, err := f.assembler.CreateQuizWithQuestions(ctx, "Sports", start, end, "SPORTS", domain.DifficultyEasy)
	if err != nil {
		t.Fatalf("notification failure must not fail creation: %v", err)
	}
	if quiz.ID == 0 {
		t.Fatalf("expected persisted quiz")
	}
}

func TestNotificationsReachAllUsers(t *testing.T) {
	ctx := context.Background()
	f := newAssemblerFixture(&stubSource{raw: rawBatch("NATURE", 10)}, app.WithReplyTo("quizmaster@example.com"))

	start, end := quizWindow()
	quiz, err := f.assembler.CreateQuizWithQuestions(ctx, "Nature", start, end, "NATURE", domain.DifficultyEasy)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	sent := f.mail.Sent()
	if len(sent) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(sent))
	}
	for _, mail := range sent {
		if mail.Subject != "New Quiz Created: "+quiz.Title {
			t.Fatalf("unexpected subject: %s", mail.Subject)
		}
		if mail.ReplyTo != "quizmaster@example.com" {
			t.Fatalf("unexpected reply-to: %s", mail.ReplyTo)
		}
	}
}
