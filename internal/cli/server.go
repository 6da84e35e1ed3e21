package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/config"
	"trivia-quiz-service/internal/infra/memory"
	infrapg "trivia-quiz-service/internal/infra/postgres"
	infraredis "trivia-quiz-service/internal/infra/redis"
	"trivia-quiz-service/internal/notify"
	transport "trivia-quiz-service/internal/transport/http"
	"trivia-quiz-service/internal/trivia"
	"trivia-quiz-service/internal/verify"
)

const defaultTriviaURL = "https://opentdb.com/api.php"

// NewServeCmd builds the CLI subcommand to start the server.
func NewServeCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the quiz service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

// deps bundles everything the transport and the create command need.
type deps struct {
	assembler *app.QuizAssembler
	validator *app.SubmissionValidator
	quizzes   app.QuizStore
	records   app.RecordStore
	gateway   app.NotificationGateway
	hub       *transport.AnnounceHub
	close     func()
}

func buildDeps(ctx context.Context, cfg config.Config, withHub bool) (*deps, error) {
	var (
		questions app.QuestionStore
		quizzes   app.QuizStore
		links     app.LinkStore
		records   app.RecordStore
		users     app.UserStore
		cleanup   = func() {}
	)

	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, err
		}
		cleanup = pool.Close
		questions = infrapg.NewQuestionStore(pool)
		quizStore := infrapg.NewQuizStore(pool)
		quizzes = quizStore
		links = quizStore
		records = infrapg.NewRecordStore(pool)
		users = infrapg.NewUserStore(pool)
	} else {
		questionStore := memory.NewQuestionStore()
		quizStore := memory.NewQuizStore(questionStore)
		questions = questionStore
		quizzes = quizStore
		links = quizStore
		records = memory.NewRecordStore()
		users = memory.NewUserStore()
		log.Printf("no postgres configured, using in-memory stores")
	}

	var keys app.AnswerKeyProvider = app.NewLinkAnswerKey(links)
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ttl := config.Duration(cfg.Redis.TTL, 10*time.Minute)
		keys = infraredis.NewAnswerKeyCache(client, app.NewLinkAnswerKey(links), ttl)
	}

	baseURL := cfg.Trivia.BaseURL
	if baseURL == "" {
		baseURL = defaultTriviaURL
	}
	fetchTimeout := config.Duration(cfg.Trivia.Timeout, 10*time.Second)
	source := trivia.NewClient(baseURL, fetchTimeout)

	notifyTimeout := config.Duration(cfg.Notify.Timeout, 15*time.Second)
	var gateway app.NotificationGateway = notify.NewLogGateway()
	if cfg.Notify.SendGridAPIKey != "" {
		gateway = notify.NewSendGridGateway(cfg.Notify.SendGridAPIKey, cfg.Notify.FromAddress, notify.DefaultBaseURL, notifyTimeout)
	}

	opts := []app.AssemblerOption{
		app.WithReplyTo(cfg.Notify.ReplyTo),
		app.WithTimeouts(fetchTimeout, notifyTimeout),
	}
	var hub *transport.AnnounceHub
	if withHub {
		hub = transport.NewAnnounceHub()
		opts = append(opts, app.WithAnnouncer(hub))
	}

	ingestor := app.NewQuestionIngestor(questions)
	assembler := app.NewQuizAssembler(source, ingestor, questions, quizzes, users, gateway, opts...)
	recorder := app.NewScoreRecorder(records, users, quizzes)
	validator := app.NewSubmissionValidator(keys, recorder)

	return &deps{
		assembler: assembler,
		validator: validator,
		quizzes:   quizzes,
		records:   records,
		gateway:   gateway,
		hub:       hub,
		close:     cleanup,
	}, nil
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	d, err := buildDeps(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer d.close()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", d.hub.ServeWS)
	handler := transport.NewHandler(d.assembler, d.validator, d.quizzes, d.records)
	handler.EnableVerification(verify.NewCodeStore(verify.DefaultTTL), d.gateway)
	handler.Register(mux)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("starting trivia quiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
