package act

import (
	"fmt"
	"strings"

	"github.com/entrhq/act-samples/pkg/browser"
)

const baseInstructions = `You control a web browser to complete a task for the user.
Each turn you see the current page as cleaned HTML and reply with exactly one JSON object describing the next action.

Available actions:
{"action": "click", "selector": "<css selector>"}
{"action": "type", "selector": "<css selector>", "text": "<text>", "submit": <true to press Enter afterwards>}
{"action": "press", "key": "<key such as Enter, Tab or Escape>"}
{"action": "navigate", "url": "<absolute url>"}
{"action": "scroll", "direction": "down" | "up"}
{"action": "wait", "seconds": <number up to 10>, "selector": "<optional css selector to wait for>"}
{"action": "return", "response": <final answer>}

Rules:
- Prefer selectors built from id, name, aria-label, placeholder or data-* attributes.
- Form field values are hidden from you. Never guess or invent passwords, card numbers or other credentials.
- When the task is complete, or cannot be completed, use "return" with a short explanation or the requested data.
- Reply with the JSON object only.`

// promptBuilder assembles the system prompt for one act call.
type promptBuilder struct {
	task             string
	schemaName       string
	schemaDefinition string
}

func (pb *promptBuilder) system() string {
	var b strings.Builder
	b.WriteString(baseInstructions)

	if pb.schemaDefinition != "" {
		b.WriteString("\n\n<response_schema name=\"")
		b.WriteString(pb.schemaName)
		b.WriteString("\">\n")
		b.WriteString(pb.schemaDefinition)
		b.WriteString("\n</response_schema>\n")
		b.WriteString(`The "response" of your return action must be JSON matching this schema exactly.`)
	}

	b.WriteString("\n\n<task>\n")
	b.WriteString(pb.task)
	b.WriteString("\n</task>")
	return b.String()
}

// observationMessage renders a page observation for the model.
func observationMessage(step, maxSteps int, obs *browser.Observation, html string, truncated bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Step %d of %d.\n", step, maxSteps)
	fmt.Fprintf(&b, "URL: %s\n", obs.URL)
	if obs.Title != "" {
		fmt.Fprintf(&b, "Title: %s\n", obs.Title)
	}
	if obs.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", obs.Description)
	}
	b.WriteString("<page>\n")
	b.WriteString(html)
	if truncated {
		b.WriteString("\n[page truncated; scroll to see more]")
	}
	b.WriteString("\n</page>")
	return b.String()
}

func actionResultMessage(a *Action, err error) string {
	if err != nil {
		return fmt.Sprintf("Action %q failed: %v. Choose a different action.", a.Describe(), err)
	}
	return fmt.Sprintf("Action %q succeeded.", a.Describe())
}

func invalidReplyMessage(err error) string {
	return fmt.Sprintf("Your reply could not be used: %v. Reply with exactly one JSON action object.", err)
}
