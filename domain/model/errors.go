package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrRequestInvalid = errors.New("workspace request invalid")
)

// Remote error kinds. A *RemoteError unwraps to exactly one of these, so
// callers test the class with errors.Is.
var (
	ErrRemoteDisabled    = errors.New("remote provider not configured")
	ErrRemoteUnreachable = errors.New("remote provider unreachable")
	ErrRemoteTimeout     = errors.New("remote request timed out")
	ErrRemoteAuth        = errors.New("remote credential invalid or expired")
	ErrRemotePermission  = errors.New("remote permission denied")
	ErrRemoteRateLimited = errors.New("remote rate limit exceeded")
	ErrRemoteProtocol    = errors.New("remote protocol error")
	ErrRemoteAPI         = errors.New("remote api error")
)

// ConfigurationError reports a bad or missing configuration document, or a
// local I/O failure. It is fatal to the current operation.
type ConfigurationError struct {
	Path  string // offending file, if any
	Field string // offending field (json name), if any
	Msg   string
	Err   error
}

func (e *ConfigurationError) Error() string {
	msg := e.Msg
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s", e.Field, msg)
	}
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", e.Path, msg)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return "configuration error: " + msg
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// RemoteError is a classified failure of a remote provider call.
type RemoteError struct {
	Kind       error    // one of the ErrRemote* sentinels
	Op         string   // operation name, e.g. "CreateRepl"
	StatusCode int      // HTTP status, 0 when no response was received
	Body       string   // raw body for protocol errors
	Messages   []string // API error messages
	Err        error    // underlying transport error
}

func (e *RemoteError) Error() string {
	msg := e.Kind.Error()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	switch {
	case len(e.Messages) > 0:
		msg = fmt.Sprintf("%s: %s", msg, strings.Join(e.Messages, "; "))
	case e.StatusCode != 0 && e.Body != "":
		msg = fmt.Sprintf("%s (status %d): %s", msg, e.StatusCode, e.Body)
	case e.StatusCode != 0:
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *RemoteError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// RemoteKind returns the ErrRemote* sentinel carried by err, or nil when err
// is not a classified remote error.
func RemoteKind(err error) error {
	if errors.Is(err, ErrRemoteDisabled) {
		return ErrRemoteDisabled
	}
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Kind
	}
	return nil
}
