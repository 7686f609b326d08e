package custom_errors

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuth
	KindForbidden
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// HTTPStatus returns the status code a request boundary answers with.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches validation errors against ErrValidation regardless of their field list.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t == ErrValidation && e.Kind == KindValidation
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Validation(message string, fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// KindOf classifies any error; errors outside this package are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// FieldsOf returns the field-level problems attached to a validation error.
func FieldsOf(err error) []FieldError {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}

var (
	ErrValidation      = New(KindValidation, "validation failed, invalid input data")
	ErrNoImageProvided = Validation("no image provided", FieldError{Field: "image", Message: "an image of type png, jpg, jpeg or webp is required"})
	ErrImageNotFound   = Validation("no file picked", FieldError{Field: "image", Message: "referenced image does not exist"})

	ErrInvalidCredentials = New(KindAuth, "wrong password")
	ErrNotAuthenticated   = New(KindAuth, "not authenticated")
	ErrInvalidToken       = New(KindAuth, "invalid or expired token")

	ErrForbidden = New(KindForbidden, "not authorized")

	ErrPostNotFound  = New(KindNotFound, "could not find post")
	ErrUserNotFound  = New(KindNotFound, "user not found")
	ErrEmailNotFound = New(KindNotFound, "a user with this email could not be found")

	ErrEmailAlreadyExists = New(KindConflict, "e-mail address already exists")

	ErrDatabaseQuery   = New(KindInternal, "database query failed")
	ErrImageStore      = New(KindInternal, "image storage failed")
	ErrTokenIssue      = New(KindInternal, "failed to issue token")
	ErrPasswordHashing = New(KindInternal, "failed to hash password")
	ErrInternal        = New(KindInternal, "internal server error")
)
