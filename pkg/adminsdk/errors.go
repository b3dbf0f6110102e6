package adminsdk

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/lunch/pkg/httpx"
)

// Callable error codes.
const (
	CodeUnauthenticated   = "unauthenticated"
	CodePermissionDenied  = "permission-denied"
	CodeInvalidArgument   = "invalid-argument"
	CodeNotFound          = "not-found"
	CodeResourceExhausted = "resource-exhausted"
	CodeInternal          = "internal"
)

var httpStatusByCode = map[string]int{
	CodeUnauthenticated:   http.StatusUnauthorized,
	CodePermissionDenied:  http.StatusForbidden,
	CodeInvalidArgument:   http.StatusBadRequest,
	CodeNotFound:          http.StatusNotFound,
	CodeResourceExhausted: http.StatusTooManyRequests,
	CodeInternal:          http.StatusInternalServerError,
}

// Error is the callable error body. It is written by the server and
// returned by the client.
type Error struct {
	// Status is the canonical upper-case form of Code, e.g. PERMISSION_DENIED.
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`

	// HTTPStatus is the response status. Not serialised.
	HTTPStatus int `json:"-"`
}

// ErrorEnvelope is the top-level JSON object of a failed call.
type ErrorEnvelope struct {
	Error *Error `json:"error"`
}

// NewError builds an Error for code. Unknown codes are treated as internal.
func NewError(code, message string) *Error {
	status, ok := httpStatusByCode[code]
	if !ok {
		code, status = CodeInternal, http.StatusInternalServerError
	}
	return &Error{
		Status:     StatusName(code),
		Code:       code,
		Message:    message,
		HTTPStatus: status,
	}
}

// StatusName turns "permission-denied" into "PERMISSION_DENIED".
func StatusName(code string) string {
	return strings.ToUpper(strings.ReplaceAll(code, "-", "_"))
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches another *Error with the same code, so callers can compare
// against the Err* values below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// WriteError writes the error envelope with the matching HTTP status.
func (e *Error) WriteError(w http.ResponseWriter) {
	status := e.HTTPStatus
	if status == 0 {
		status = NewError(e.Code, "").HTTPStatus
	}
	httpx.WriteJSON(w, status, ErrorEnvelope{Error: e})
}

// Code-only values for errors.Is.
var (
	ErrUnauthenticated   = NewError(CodeUnauthenticated, "")
	ErrPermissionDenied  = NewError(CodePermissionDenied, "")
	ErrInvalidArgument   = NewError(CodeInvalidArgument, "")
	ErrNotFound          = NewError(CodeNotFound, "")
	ErrResourceExhausted = NewError(CodeResourceExhausted, "")
	ErrInternal          = NewError(CodeInternal, "")
)

// parseErrorResponse turns a non-2xx response body into an *Error.
func parseErrorResponse(resp *http.Response, body []byte) error {
	var env ErrorEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error != nil && env.Error.Code != "" {
		env.Error.HTTPStatus = resp.StatusCode
		return env.Error
	}

	code := CodeInternal
	for c, s := range httpStatusByCode {
		if s == resp.StatusCode {
			code = c
			break
		}
	}
	e := NewError(code, fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)))
	e.HTTPStatus = resp.StatusCode
	return e
}
