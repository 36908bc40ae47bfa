package weather

import (
	"errors"
	"net/http"
)

// ErrUpstream marks failures talking to the provider: transport errors,
// timeouts, an open circuit, or an unaccepted status code. Providers wrap it.
var ErrUpstream = errors.New("upstream request failed")

// Kind classifies gateway failures.
type Kind int

const (
	KindUnexpected Kind = iota
	KindValidation
	KindNetwork
	KindParse
)

type kindInfo struct {
	name    string
	status  int
	message string
}

var kinds = map[Kind]kindInfo{
	KindValidation: {"validation", http.StatusBadRequest, "Invalid request."},
	KindNetwork:    {"network", http.StatusInternalServerError, "Unable to fetch weather data. Please check your internet connection."},
	KindParse:      {"parse", http.StatusInternalServerError, "Error parsing weather data from API."},
	KindUnexpected: {"unexpected", http.StatusInternalServerError, "An unexpected error occurred."},
}

func (k Kind) String() string {
	return kinds[k].name
}

// Error is returned by the gateway for every failure. Msg, when set,
// replaces the kind's default user-facing message. Err is never shown to
// callers.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	s := e.Op + ": " + e.Kind.String()
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf reports the kind of err, or KindUnexpected for anything that is
// not a gateway error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}

// Status returns the HTTP status for err.
func Status(err error) int {
	return kinds[KindOf(err)].status
}

// Message returns the user-facing message for err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Msg != "" {
		return e.Msg
	}
	return kinds[KindOf(err)].message
}

// classify wraps a provider error into a gateway error.
func classify(op string, err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	if errors.Is(err, ErrUpstream) {
		return &Error{Kind: KindNetwork, Op: op, Err: err}
	}
	return &Error{Kind: KindUnexpected, Op: op, Err: err}
}
