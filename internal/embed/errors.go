package embed

import "fmt"

// Kind is the stable error taxonomy exposed to the UI. The UI matches on
// Kind and displays Error() as the message; OS error codes never cross the
// bridge.
type Kind string

const (
	KindUnsupported   Kind = "unsupported"
	KindNoHostFrame   Kind = "no_host_frame"
	KindNotEmbeddable Kind = "not_embeddable"
	// KindAlreadyEmbedded is reserved. Re-embedding is idempotent success,
	// so the engine never returns it today.
	KindAlreadyEmbedded Kind = "already_embedded"
	KindGone            Kind = "gone"
	KindOsFailure       Kind = "os_failure"
)

// RejectReason explains a NotEmbeddable verdict.
type RejectReason string

const (
	ReasonSelfProcess    RejectReason = "self_process"
	ReasonForbiddenClass RejectReason = "forbidden_class"
)

type Error struct {
	Kind   Kind
	Op     string
	Reason RejectReason
	Class  string
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNotEmbeddable:
		if e.Reason == ReasonSelfProcess {
			return "cannot embed a window of this process"
		}
		return fmt.Sprintf("window class %q cannot be embedded", e.Class)
	case KindNoHostFrame:
		return "host frame is not created yet"
	case KindGone:
		return fmt.Sprintf("%s: window no longer exists", e.Op)
	case KindOsFailure:
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	case KindUnsupported:
		return "operation not supported on this platform"
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the taxonomy kind of err, or "" for nil and foreign errors.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return ""
}

func osFailure(op string, err error) *Error {
	return &Error{Kind: KindOsFailure, Op: op, Err: err}
}

func notEmbeddable(reason RejectReason, class string) *Error {
	return &Error{Kind: KindNotEmbeddable, Reason: reason, Class: class}
}
