// Package http exposes the quiz use cases over JSON endpoints plus a
// websocket channel announcing new quizzes.
package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/domain"
	"trivia-quiz-service/internal/verify"
)

const dateLayout = "2006-01-02"

// Handler wires the use cases into an http.ServeMux.
type Handler struct {
	assembler *app.QuizAssembler
	validator *app.SubmissionValidator
	quizzes   app.QuizStore
	records   app.RecordStore
	clock     func() time.Time

	codes   *verify.CodeStore
	gateway app.NotificationGateway
}

func NewHandler(assembler *app.QuizAssembler, validator *app.SubmissionValidator, quizzes app.QuizStore, records app.RecordStore) *Handler {
	return &Handler{
		assembler: assembler,
		validator: validator,
		quizzes:   quizzes,
		records:   records,
		clock:     time.Now,
	}
}

// EnableVerification turns on the email verification endpoints. Codes are
// delivered through the notification gateway.
func (h *Handler) EnableVerification(codes *verify.CodeStore, gateway app.NotificationGateway) {
	h.codes = codes
	h.gateway = gateway
}

// Register installs all routes on the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/quizzes", h.handleQuizzes)
	mux.HandleFunc("/quizzes/", h.handleQuizByID)
	mux.HandleFunc("/submissions", h.handleSubmissions)
	mux.HandleFunc("/records", h.handleRecords)
	if h.codes != nil {
		mux.HandleFunc("/verify/request", h.handleVerifyRequest)
		mux.HandleFunc("/verify/confirm", h.handleVerifyConfirm)
	}
}

type createQuizRequest struct {
	Title      string `json:"title"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
}

type quizResponse struct {
	QuizID    int64  `json:"quizId"`
	Title     string `json:"title"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Status    string `json:"status"`
}

func (h *Handler) quizPayload(quiz domain.Quiz) quizResponse {
	return quizResponse{
		QuizID:    quiz.ID,
		Title:     quiz.Title,
		StartDate: quiz.StartDate.Format(dateLayout),
		EndDate:   quiz.EndDate.Format(dateLayout),
		Status:    string(quiz.StatusAt(h.clock().UTC())),
	}
}

func (h *Handler) handleQuizzes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req createQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		http.Error(w, "invalid startDate, want YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		http.Error(w, "invalid endDate, want YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	difficulty, err := domain.ParseDifficulty(req.Difficulty)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	quiz, err := h.assembler.CreateQuizWithQuestions(r.Context(), req.Title, start, end, req.Category, difficulty)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.quizPayload(quiz))
}

func (h *Handler) handleQuizByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/quizzes/"), 10, 64)
	if err != nil {
		http.Error(w, "invalid quiz id", http.StatusBadRequest)
		return
	}
	quiz, err := h.quizzes.ByID(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.quizPayload(quiz))
}

func (h *Handler) handleSubmissions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var sub domain.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	result, err := h.validator.ValidateAndScore(r.Context(), sub)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleRecords(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, err := strconv.ParseInt(r.URL.Query().Get("userId"), 10, 64)
	if err != nil {
		http.Error(w, "missing or invalid userId", http.StatusBadRequest)
		return
	}
	if rawQuiz := r.URL.Query().Get("quizId"); rawQuiz != "" {
		quizID, err := strconv.ParseInt(rawQuiz, 10, 64)
		if err != nil {
			http.Error(w, "invalid quizId", http.StatusBadRequest)
			return
		}
		record, err := h.records.ByUserAndQuiz(r.Context(), userID, quizID)
		if err != nil {
			h.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, record)
		return
	}
	records, err := h.records.ByUser(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *Handler) handleVerifyRequest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		http.Error(w, "missing or invalid email", http.StatusBadRequest)
		return
	}

	code := h.codes.Issue(req.Email)
	body := "Your verification code is " + code + ". It expires in 15 minutes."
	if err := h.gateway.Send(r.Context(), req.Email, "Verify your email", body, ""); err != nil {
		log.Printf("send verification code to %s: %v", req.Email, err)
		http.Error(w, "could not deliver verification code", http.StatusBadGateway)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) handleVerifyConfirm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Code == "" {
		http.Error(w, "missing email or code", http.StatusBadRequest)
		return
	}

	if !h.codes.Validate(req.Email, req.Code) {
		http.Error(w, "invalid or expired code", http.StatusBadRequest)
		return
	}
	h.codes.Consume(req.Email)
	writeJSON(w, http.StatusOK, map[string]bool{"verified": true})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidTitle),
		errors.Is(err, domain.ErrInvalidDateRange),
		errors.Is(err, domain.ErrInvalidDifficulty),
		errors.Is(err, domain.ErrMissingField):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrQuizNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrQuestionNotFound),
		errors.Is(err, domain.ErrRecordNotFound),
		errors.Is(err, domain.ErrNoQuestionsAvailable):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrRateLimited):
		http.Error(w, err.Error(), http.StatusTooManyRequests)
	case errors.Is(err, domain.ErrSourceUnavailable):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		log.Printf("internal error: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("write response: %v", err)
	}
}
