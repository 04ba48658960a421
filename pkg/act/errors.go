package act

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why an act call failed.
type ErrorKind string

const (
	KindNotStarted         ErrorKind = "not_started"
	KindExceededMaxSteps   ErrorKind = "exceeded_max_steps"
	KindInvalidModelOutput ErrorKind = "invalid_model_output"
	KindActionFailed       ErrorKind = "action_failed"
	KindModelUnavailable   ErrorKind = "model_unavailable"
	KindCanceled           ErrorKind = "canceled"
)

// ActError is returned by Client.Act and carries how far the call got.
type ActError struct {
	Kind   ErrorKind
	ActID  string
	Prompt string
	Steps  int
	Err    error
}

func (e *ActError) Error() string {
	msg := fmt.Sprintf("act %s after %d steps", e.Kind, e.Steps)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ActError) Unwrap() error { return e.Err }

// Guidance returns a short hint for an operator reading the failure.
func (e *ActError) Guidance() string {
	switch e.Kind {
	case KindNotStarted:
		return "Call Start (or use With) before issuing act calls."
	case KindExceededMaxSteps:
		return "Break the instruction into smaller act calls or raise the step limit."
	case KindInvalidModelOutput:
		return "The model did not reply with a usable action; try rephrasing the instruction."
	case KindActionFailed:
		return "The page did not respond as expected; check the site is reachable and the instruction matches it."
	case KindModelUnavailable:
		return "Check NOVA_ACT_API_KEY and NOVA_ACT_BASE_URL and that the model endpoint is reachable."
	case KindCanceled:
		return "The call was canceled or timed out before finishing."
	default:
		return ""
	}
}

// IsKind reports whether err is an *ActError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var ae *ActError
	return errors.As(err, &ae) && ae.Kind == kind
}

var (
	errAlreadyStarted = errors.New("session already started")
	errNoProvider     = errors.New("no model provider configured")
)
