package domain

import "errors"

var (
	// ErrInvalidDifficulty is returned when a difficulty label maps to no known level.
	ErrInvalidDifficulty = errors.New("invalid difficulty")
	// ErrMissingField is returned when an ingested question lacks a required field.
	ErrMissingField = errors.New("required field missing")
	// ErrInvalidDateRange is returned when a quiz would end before it starts.
	ErrInvalidDateRange = errors.New("end date must not be before start date")
	// ErrInvalidTitle is returned when a quiz title is empty or too long.
	ErrInvalidTitle = errors.New("title must be between 1 and 100 characters")
	// ErrSourceUnavailable indicates the external question provider could not be reached or parsed.
	ErrSourceUnavailable = errors.New("question source unavailable")
	// ErrRateLimited indicates the external question provider rejected the call; retryable by the caller.
	ErrRateLimited = errors.New("question source rate limit exceeded")
	// ErrNoQuestionsAvailable indicates a category yielded zero candidate questions.
	ErrNoQuestionsAvailable = errors.New("no questions available for category")
	// ErrQuizNotFound indicates the quiz does not exist or has no questions.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuestionNotFound indicates a question ID is unknown to the store.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrUserNotFound indicates the user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrRecordNotFound indicates no score record exists for a (user, quiz) pair.
	ErrRecordNotFound = errors.New("record not found")
	// ErrValidationFailed wraps unexpected failures inside the grading pipeline.
	ErrValidationFailed = errors.New("submission validation failed")
)
