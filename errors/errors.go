package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Kind classifies an AppError by the pipeline stage or condition that produced it.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindNotFound      Kind = "not_found"
	KindTooLarge      Kind = "too_large"
	KindExtraction    Kind = "extraction"
	KindTranscription Kind = "transcription"
	KindGeneration    Kind = "generation"
	KindInternal      Kind = "internal"
)

type AppError struct {
	Code    int    `json:"-"`
	Kind    Kind   `json:"-"`
	Message string `json:"error"`
	Op      string `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newError(code int, kind Kind, op string, err error, message string) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
		Op:      op,
		Err:     err,
	}
}

func InvalidInput(op string, err error, message string) *AppError {
	return newError(http.StatusBadRequest, KindValidation, op, err, message)
}

func NotFound(op string, err error, message string) *AppError {
	return newError(http.StatusNotFound, KindNotFound, op, err, message)
}

func TooLarge(op string, err error, message string) *AppError {
	return newError(http.StatusRequestEntityTooLarge, KindTooLarge, op, err, message)
}

func Internal(op string, err error, message string) *AppError {
	return newError(http.StatusInternalServerError, KindInternal, op, err, message)
}

// Extraction reports a missing or failing audio extraction tool.
func Extraction(op string, err error, message string) *AppError {
	return newError(http.StatusInternalServerError, KindExtraction, op, err, message)
}

// Transcription reports a failed call to the speech-to-text service.
func Transcription(op string, err error, message string) *AppError {
	return newError(http.StatusInternalServerError, KindTranscription, op, err, message)
}

// Generation reports a failed call to the text generation service.
func Generation(op string, err error, message string) *AppError {
	return newError(http.StatusInternalServerError, KindGeneration, op, err, message)
}

// KindOf returns the kind of the outermost AppError in err's chain,
// or KindInternal when there is none.
func KindOf(err error) Kind {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err carries an AppError of the given kind anywhere in its chain.
func Is(err error, kind Kind) bool {
	for err != nil {
		var appErr *AppError
		if !stderrors.As(err, &appErr) {
			return false
		}
		if appErr.Kind == kind {
			return true
		}
		err = appErr.Err
	}
	return false
}

// StatusCode maps err to the HTTP status it should be answered with.
func StatusCode(err error) int {
	var appErr *AppError
	if stderrors.As(err, &appErr) && appErr.Code != 0 {
		return appErr.Code
	}
	return http.StatusInternalServerError
}

func IsNotFound(err error) bool {
	return Is(err, KindNotFound)
}
