package app

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"trivia-quiz-service/internal/domain"
)

const (
	// fetchBatchSize is the fixed number of questions requested from the provider.
	fetchBatchSize = 10
	// quizSize is the maximum number of questions linked into a quiz.
	quizSize = 10

	defaultFetchTimeout  = 10 * time.Second
	defaultNotifyTimeout = 15 * time.Second
	notifyConcurrency    = 4
)

// QuizAssembler orchestrates quiz creation:
// fetch -> ingest -> random-sample -> persist quiz with links -> notify.
type QuizAssembler struct {
	source    QuestionSource
	ingestor  *QuestionIngestor
	questions QuestionStore
	quizzes   QuizStore
	users     UserStore
	gateway   NotificationGateway
	announcer Announcer

	replyTo       string
	fetchTimeout  time.Duration
	notifyTimeout time.Duration

	mu  sync.Mutex
	rnd *rand.Rand
}

// AssemblerOption tweaks an assembler; used mainly by tests and the CLI.
type AssemblerOption func(*QuizAssembler)

// WithRandSource makes question sampling deterministic.
func WithRandSource(src rand.Source) AssemblerOption {
	return func(a *QuizAssembler) { a.rnd = rand.New(src) }
}

// WithReplyTo sets the reply-to address on notification emails.
func WithReplyTo(addr string) AssemblerOption {
	return func(a *QuizAssembler) { a.replyTo = addr }
}

// WithTimeouts bounds the provider fetch and the notification fan-out.
func WithTimeouts(fetch, notify time.Duration) AssemblerOption {
	return func(a *QuizAssembler) {
		if fetch > 0 {
			a.fetchTimeout = fetch
		}
		if notify > 0 {
			a.notifyTimeout = notify
		}
	}
}

// WithAnnouncer wires an in-app announce channel for new quizzes.
func WithAnnouncer(announcer Announcer) AssemblerOption {
	return func(a *QuizAssembler) { a.announcer = announcer }
}

func NewQuizAssembler(source QuestionSource, ingestor *QuestionIngestor, questions QuestionStore,
	quizzes QuizStore, users UserStore, gateway NotificationGateway, opts ...AssemblerOption) *QuizAssembler {
	a := &QuizAssembler{
		source:        source,
		ingestor:      ingestor,
		questions:     questions,
		quizzes:       quizzes,
		users:         users,
		gateway:       gateway,
		fetchTimeout:  defaultFetchTimeout,
		notifyTimeout: defaultNotifyTimeout,
		rnd:           rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// CreateQuizWithQuestions builds and persists a quiz of up to quizSize random
// questions from the given category, topping up the stock from the external
// provider first. Fetch, ingest, sampling, and persistence failures abort
// with no quiz created; notification failures are logged and swallowed.
func (a *QuizAssembler) CreateQuizWithQuestions(ctx context.Context, title string, startDate, endDate time.Time, category string, difficulty domain.Difficulty) (domain.Quiz, error) {
	quiz := domain.Quiz{Title: title, StartDate: startDate, EndDate: endDate}
	if err := quiz.Validate(); err != nil {
		return domain.Quiz{}, err
	}

	categoryID := domain.ProviderCategoryID(category)

	fetchCtx, cancel := context.WithTimeout(ctx, a.fetchTimeout)
	defer cancel()
	raw, err := a.source.Fetch(fetchCtx, fetchBatchSize, categoryID, difficulty)
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("fetch questions: %w", err)
	}

	if _, err := a.ingestor.Ingest(ctx, raw); err != nil {
		return domain.Quiz{}, fmt.Errorf("ingest questions: %w", err)
	}

	stock, err := a.questions.ByCategory(ctx, category)
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("read category stock: %w", err)
	}
	if len(stock) == 0 {
		return domain.Quiz{}, fmt.Errorf("%w: %s", domain.ErrNoQuestionsAvailable, category)
	}

	selected := a.sample(stock, quizSize)
	ids := make([]int64, len(selected))
	for i, q := range selected {
		ids[i] = q.ID
	}

	created, err := a.quizzes.CreateWithQuestions(ctx, quiz, ids)
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("persist quiz: %w", err)
	}
	log.Printf("created quiz %d (%q) with %d questions", created.ID, created.Title, len(ids))

	a.notifyUsers(ctx, created)
	if a.announcer != nil {
		a.announcer.AnnounceQuiz(created)
	}
	return created, nil
}

// sample returns up to n questions drawn with a uniform-random permutation.
func (a *QuizAssembler) sample(stock []domain.Question, n int) []domain.Question {
	picked := make([]domain.Question, len(stock))
	copy(picked, stock)

	a.mu.Lock()
	a.rnd.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})
	a.mu.Unlock()

	if len(picked) > n {
		picked = picked[:n]
	}
	return picked
}

// notifyUsers emails every known user about the new quiz. Best effort: any
// failure, including a missing gateway, only produces a log line.
func (a *QuizAssembler) notifyUsers(ctx context.Context, quiz domain.Quiz) {
	if a.gateway == nil {
		return
	}

	notifyCtx, cancel := context.WithTimeout(ctx, a.notifyTimeout)
	defer cancel()

	users, err := a.users.All(notifyCtx)
	if err != nil {
		log.Printf("notify: listing users failed: %v", err)
		return
	}
	if len(users) == 0 {
		return
	}

	subject := "New Quiz Created: " + quiz.Title
	group, groupCtx := errgroup.WithContext(notifyCtx)
	group.SetLimit(notifyConcurrency)
	for _, user := range users {
		user := user
		group.Go(func() error {
			body := fmt.Sprintf("Hello %s,\n\nA new quiz has been created on QuizApp:\nTitle: %s\nStart Date: %s\nEnd Date: %s\n\nGood luck!\nQuizApp Team",
				user.FirstName, quiz.Title, quiz.StartDate.Format("2006-01-02"), quiz.EndDate.Format("2006-01-02"))
			if err := a.gateway.Send(groupCtx, user.Email, subject, body, a.replyTo); err != nil {
				log.Printf("notify: sending to %s failed: %v", user.Email, err)
			}
			return nil
		})
	}
	_ = group.Wait()
}
