package apperror

import (
	"errors"
	"fmt"
)

// Kind identifies one class of failure surfaced to callers.
type Kind string

const (
	KindUnroutableRequest  Kind = "UnroutableRequest"
	KindContentUnavailable Kind = "ContentUnavailable"
	KindSchemaValidation   Kind = "SchemaValidationError"
	KindAnalysisNotFound   Kind = "AnalysisNotFound"
	KindCollaboratorOutage Kind = "CollaboratorOutage"
	KindSessionNotFound    Kind = "SessionNotFound"
	KindJobNotFound        Kind = "JobNotFound"
	KindInvalidRequest     Kind = "InvalidRequest"
)

// Sentinels for errors.Is. Any *Error with the same Kind matches.
var (
	ErrUnroutableRequest  = &Error{Kind: KindUnroutableRequest}
	ErrContentUnavailable = &Error{Kind: KindContentUnavailable}
	ErrSchemaValidation   = &Error{Kind: KindSchemaValidation}
	ErrAnalysisNotFound   = &Error{Kind: KindAnalysisNotFound}
	ErrCollaboratorOutage = &Error{Kind: KindCollaboratorOutage}
	ErrSessionNotFound    = &Error{Kind: KindSessionNotFound}
	ErrJobNotFound        = &Error{Kind: KindJobNotFound}
	ErrInvalidRequest     = &Error{Kind: KindInvalidRequest}
)

// Error is a tagged failure. Stage is set when a pipeline stage produced it.
type Error struct {
	Kind    Kind
	Stage   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Stage != "" {
		msg = e.Stage + ": " + msg
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on Kind only, so wrapped causes do not affect classification.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// WithStage tags err with the stage that produced it. Errors without a Kind
// only get a stage prefix in their message.
func WithStage(stage string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		tagged := *appErr
		if tagged.Stage == "" {
			tagged.Stage = stage
		}
		return &tagged
	}
	return fmt.Errorf("%s: %w", stage, err)
}

// KindOf returns the Kind carried by err, or "" if none.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// StageOf returns the stage tag carried by err, or "" if none.
func StageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Stage
	}
	return ""
}
