package apperror

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Kind classifies a failed operation so callers can pick the right reaction
// without inspecting HTTP status codes themselves.
type Kind int

const (
	// KindInternal covers unexpected conditions: malformed responses,
	// broken local storage, programming errors.
	KindInternal Kind = iota
	// KindNetwork is a transport-level failure: no response at all.
	// Retryable by user action; never retried automatically.
	KindNetwork
	// KindAuthRejected is a 401: the session is no longer valid.
	KindAuthRejected
	// KindForbidden is a 403: identity is valid but the action is not allowed.
	KindForbidden
	// KindNotFound is a 404.
	KindNotFound
	// KindValidation is a 400/422 with server-supplied field errors.
	KindValidation
	// KindConflict is a 409, e.g. a duplicate application.
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindAuthRejected:
		return "auth_rejected"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

type AppError struct {
	Kind    Kind                `json:"kind"`
	Status  int                 `json:"status,omitempty"`
	Message string              `json:"message"`
	Fields  map[string][]string `json:"fields,omitempty"`
	Err     error               `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(kind Kind, status int, message string, err error) *AppError {
	return &AppError{
		Kind:    kind,
		Status:  status,
		Message: message,
		Err:     err,
	}
}

func Network(err error) *AppError {
	return New(KindNetwork, 0, "network failure", err)
}

func AuthRejected(message string) *AppError {
	return New(KindAuthRejected, http.StatusUnauthorized, message, nil)
}

func Forbidden(message string) *AppError {
	return New(KindForbidden, http.StatusForbidden, message, nil)
}

func NotFound(message string) *AppError {
	return New(KindNotFound, http.StatusNotFound, message, nil)
}

func Conflict(message string) *AppError {
	return New(KindConflict, http.StatusConflict, message, nil)
}

func Validation(message string, fields map[string][]string) *AppError {
	e := New(KindValidation, http.StatusBadRequest, message, nil)
	e.Fields = fields
	return e
}

func Internal(err error) *AppError {
	return New(KindInternal, http.StatusInternalServerError, "internal error", err)
}

// KindOf extracts the Kind from an error chain. Unknown errors are internal.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given Kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// AsAppError returns the *AppError in err's chain, wrapping foreign errors
// as internal so callers always get a classified value.
func AsAppError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// FromResponse maps an HTTP error response to an AppError. The server speaks
// two body dialects: {"error": "..."} for plain rejections and a
// field → messages map for validation failures. Both are surfaced verbatim.
func FromResponse(status int, body []byte) *AppError {
	message, fields := parseErrorBody(body)

	switch status {
	case http.StatusUnauthorized:
		if message == "" {
			message = "authentication rejected"
		}
		return AuthRejected(message)
	case http.StatusForbidden:
		if message == "" {
			message = "action not permitted"
		}
		return Forbidden(message)
	case http.StatusNotFound:
		if message == "" {
			message = "resource not found"
		}
		return NotFound(message)
	case http.StatusConflict:
		if message == "" {
			message = "conflict"
		}
		return Conflict(message)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		if message == "" {
			message = "validation failed"
		}
		e := Validation(message, fields)
		e.Status = status
		return e
	default:
		e := New(KindInternal, status, "unexpected server response", nil)
		if message != "" {
			e.Message = message
		}
		return e
	}
}

func parseErrorBody(body []byte) (string, map[string][]string) {
	if len(body) == 0 {
		return "", nil
	}

	var envelope struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Error != "" {
			return envelope.Error, nil
		}
		if envelope.Detail != "" {
			return envelope.Detail, nil
		}
	}

	// Field-error map: values may be a single string or a list of strings.
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || len(raw) == 0 {
		return "", nil
	}
	fields := make(map[string][]string, len(raw))
	for field, value := range raw {
		var list []string
		if err := json.Unmarshal(value, &list); err == nil {
			fields[field] = list
			continue
		}
		var single string
		if err := json.Unmarshal(value, &single); err == nil {
			fields[field] = []string{single}
		}
	}
	if len(fields) == 0 {
		return "", nil
	}
	return "validation failed", fields
}
