package types

import "time"

// ActEventType defines the kind of progress event emitted while an act call runs.
type ActEventType string

const (
	EventTypeActStart     ActEventType = "act_start"     // EventTypeActStart indicates an act call has begun.
	EventTypeObservation  ActEventType = "observation"   // EventTypeObservation indicates the page was observed for the model.
	EventTypeModelCall    ActEventType = "model_call"    // EventTypeModelCall indicates the model was asked for the next action.
	EventTypeAction       ActEventType = "action"        // EventTypeAction indicates an action was executed on the page.
	EventTypeActionFailed ActEventType = "action_failed" // EventTypeActionFailed indicates an action could not be executed.
	EventTypeActComplete  ActEventType = "act_complete"  // EventTypeActComplete indicates the model returned a final answer.
	EventTypeActFailed    ActEventType = "act_failed"    // EventTypeActFailed indicates the act call ended with an error.
	EventTypeSessionStart ActEventType = "session_start" // EventTypeSessionStart indicates a browser session opened.
	EventTypeSessionStop  ActEventType = "session_stop"  // EventTypeSessionStop indicates a browser session closed.
)

// ActEvent is a progress notification from an act session. Sensitive values
// are never attached to events.
type ActEvent struct {
	// Metadata holds optional additional information.
	Metadata map[string]interface{}

	// Error is set for failure events.
	Error error

	// Time is when the event was created.
	Time time.Time

	Type      ActEventType
	SessionID string
	ActID     string

	// Step is the 1-based step number within the act call.
	Step int

	// Action is the action kind (click, fill, navigate, ...) for action events.
	Action string

	// Content holds the prompt, the action description or the final response.
	Content string
}

func newActEvent(t ActEventType, sessionID, actID string) *ActEvent {
	return &ActEvent{
		Type:      t,
		SessionID: sessionID,
		ActID:     actID,
		Time:      time.Now(),
		Metadata:  make(map[string]interface{}),
	}
}

// NewActStartEvent creates an act start event.
func NewActStartEvent(sessionID, actID, prompt string) *ActEvent {
	e := newActEvent(EventTypeActStart, sessionID, actID)
	e.Content = prompt
	return e
}

// NewObservationEvent creates an observation event; size is the observation length in tokens.
func NewObservationEvent(sessionID, actID string, step, size int) *ActEvent {
	e := newActEvent(EventTypeObservation, sessionID, actID)
	e.Step = step
	e.Metadata["tokens"] = size
	return e
}

// NewModelCallEvent creates a model call event.
func NewModelCallEvent(sessionID, actID string, step int) *ActEvent {
	e := newActEvent(EventTypeModelCall, sessionID, actID)
	e.Step = step
	return e
}

// NewActionEvent creates an executed-action event.
func NewActionEvent(sessionID, actID string, step int, action, description string) *ActEvent {
	e := newActEvent(EventTypeAction, sessionID, actID)
	e.Step = step
	e.Action = action
	e.Content = description
	return e
}

// NewActionFailedEvent creates a failed-action event.
func NewActionFailedEvent(sessionID, actID string, step int, action string, err error) *ActEvent {
	e := newActEvent(EventTypeActionFailed, sessionID, actID)
	e.Step = step
	e.Action = action
	e.Error = err
	return e
}

// NewActCompleteEvent creates an act completion event.
func NewActCompleteEvent(sessionID, actID string, steps int, response string) *ActEvent {
	e := newActEvent(EventTypeActComplete, sessionID, actID)
	e.Step = steps
	e.Content = response
	return e
}

// NewActFailedEvent creates an act failure event.
func NewActFailedEvent(sessionID, actID string, steps int, err error) *ActEvent {
	e := newActEvent(EventTypeActFailed, sessionID, actID)
	e.Step = steps
	e.Error = err
	return e
}

// NewSessionStartEvent creates a session start event.
func NewSessionStartEvent(sessionID, startingPage string) *ActEvent {
	e := newActEvent(EventTypeSessionStart, sessionID, "")
	e.Content = startingPage
	return e
}

// NewSessionStopEvent creates a session stop event.
func NewSessionStopEvent(sessionID string) *ActEvent {
	return newActEvent(EventTypeSessionStop, sessionID, "")
}

// WithMetadata adds metadata to the event and returns it.
func (e *ActEvent) WithMetadata(key string, value interface{}) *ActEvent {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// IsErrorEvent reports whether the event signals a failure.
func (e *ActEvent) IsErrorEvent() bool {
	return e.Type == EventTypeActionFailed || e.Type == EventTypeActFailed
}

// IsSessionEvent reports whether the event concerns the session lifecycle.
func (e *ActEvent) IsSessionEvent() bool {
	return e.Type == EventTypeSessionStart || e.Type == EventTypeSessionStop
}
