package act

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/entrhq/act-samples/pkg/browser"
	"github.com/entrhq/act-samples/pkg/llm/parser"
)

// ActionType names one step the model can take.
type ActionType string

const (
	ActionClick    ActionType = "click"
	ActionFill     ActionType = "type"
	ActionPress    ActionType = "press"
	ActionNavigate ActionType = "navigate"
	ActionScroll   ActionType = "scroll"
	ActionWait     ActionType = "wait"
	ActionReturn   ActionType = "return"
)

// maxWait caps a single wait action.
const maxWait = 10 * time.Second

// Action is one model decision, decoded from its JSON reply.
type Action struct {
	Type      ActionType      `json:"action"`
	Selector  string          `json:"selector,omitempty"`
	Text      string          `json:"text,omitempty"`
	Submit    bool            `json:"submit,omitempty"`
	URL       string          `json:"url,omitempty"`
	Key       string          `json:"key,omitempty"`
	Direction string          `json:"direction,omitempty"`
	Seconds   float64         `json:"seconds,omitempty"`
	Response  json.RawMessage `json:"response,omitempty"`
	Reason    string          `json:"reason,omitempty"`
}

// parseAction extracts and validates the action in a model reply.
func parseAction(content string) (*Action, error) {
	raw, err := parser.ExtractJSON(content)
	if err != nil {
		return nil, err
	}
	var a Action
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return nil, fmt.Errorf("invalid action JSON: %w", err)
	}
	a.Type = ActionType(strings.ToLower(strings.TrimSpace(string(a.Type))))
	if err := a.validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

func (a *Action) validate() error {
	switch a.Type {
	case ActionClick:
		if a.Selector == "" {
			return errors.New("click requires a selector")
		}
	case ActionFill:
		if a.Selector == "" {
			return errors.New("type requires a selector")
		}
	case ActionPress:
		if a.Key == "" {
			return errors.New("press requires a key")
		}
	case ActionNavigate:
		if a.URL == "" {
			return errors.New("navigate requires a url")
		}
	case ActionScroll:
		if a.Direction == "" {
			a.Direction = string(browser.ScrollDown)
		}
		if a.Direction != string(browser.ScrollDown) && a.Direction != string(browser.ScrollUp) {
			return fmt.Errorf("unknown scroll direction %q", a.Direction)
		}
	case ActionWait:
		if a.Seconds <= 0 {
			a.Seconds = 1
		}
	case ActionReturn:
	case "":
		return errors.New(`reply has no "action" field`)
	default:
		return fmt.Errorf("unknown action %q", a.Type)
	}
	return nil
}

// Describe renders the action for logs and events.
func (a *Action) Describe() string {
	switch a.Type {
	case ActionClick:
		return "click " + a.Selector
	case ActionFill:
		return fmt.Sprintf("type %q into %s", a.Text, a.Selector)
	case ActionPress:
		return "press " + a.Key
	case ActionNavigate:
		return "navigate to " + a.URL
	case ActionScroll:
		return "scroll " + a.Direction
	case ActionWait:
		if a.Selector != "" {
			return fmt.Sprintf("wait up to %.1fs for %s", a.Seconds, a.Selector)
		}
		return fmt.Sprintf("wait %.1fs", a.Seconds)
	case ActionReturn:
		return "return " + string(a.Response)
	default:
		return string(a.Type)
	}
}

// responseText renders the returned payload as text: JSON strings are
// unquoted, anything else is kept as JSON.
func (a *Action) responseText() string {
	if len(a.Response) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(a.Response, &s); err == nil {
		return s
	}
	return string(a.Response)
}

// execute performs the action on the page. Return actions are handled by
// the caller.
func execute(ctx context.Context, page Page, a *Action) error {
	switch a.Type {
	case ActionClick:
		return page.Click(browser.ClickOptions{Selector: a.Selector})
	case ActionFill:
		if err := page.Fill(browser.FillOptions{Selector: a.Selector, Value: a.Text}); err != nil {
			return err
		}
		if a.Submit {
			return page.Press("Enter")
		}
		return nil
	case ActionPress:
		return page.Press(a.Key)
	case ActionNavigate:
		return page.Navigate(a.URL, browser.NavigateOptions{WaitUntil: "domcontentloaded"})
	case ActionScroll:
		return page.Scroll(browser.ScrollDirection(a.Direction), 0)
	case ActionWait:
		d := time.Duration(a.Seconds * float64(time.Second))
		if d > maxWait {
			d = maxWait
		}
		if a.Selector != "" {
			return page.Wait(browser.WaitOptions{
				Selector: a.Selector,
				State:    "visible",
				Timeout:  float64(d.Milliseconds()),
			})
		}
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return nil
		}
	default:
		return fmt.Errorf("action %q cannot be executed", a.Type)
	}
}
