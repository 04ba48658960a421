package act

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/entrhq/act-samples/pkg/llm"
	"github.com/entrhq/act-samples/pkg/logging"
	"github.com/entrhq/act-samples/pkg/types"
)

// actRun holds the state of one act call.
type actRun struct {
	client  *Client
	page    Page
	logger  *logging.Logger
	id      string
	prompt  string
	opts    actOptions
	system  string
	history []*types.Message

	steps          int
	invalidReplies int
	actionFailures int
	start          time.Time
	lastURL        string
	trace          []traceStep
}

// Act asks the model to carry out prompt on the page, one action per step,
// until it returns an answer or the step limit is reached.
func (c *Client) Act(ctx context.Context, prompt string, opts ...ActOption) (*Result, error) {
	c.actMu.Lock()
	defer c.actMu.Unlock()

	ao := actOptions{maxSteps: c.opts.MaxSteps}
	for _, opt := range opts {
		opt(&ao)
	}
	if ao.maxSteps <= 0 {
		ao.maxSteps = c.opts.MaxSteps
	}

	run := &actRun{
		client: c,
		page:   c.Page(),
		logger: c.log(),
		id:     uuid.NewString(),
		prompt: prompt,
		opts:   ao,
		start:  time.Now(),
	}
	if run.page == nil {
		return nil, run.fail(KindNotStarted, errors.New("session not started"))
	}

	if ao.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ao.timeout)
		defer cancel()
	}

	pb := promptBuilder{task: prompt}
	if ao.schema != nil {
		def, err := ao.schema.Describe()
		if err != nil {
			return nil, fmt.Errorf("failed to describe schema: %w", err)
		}
		pb.schemaName = ao.schema.Name()
		pb.schemaDefinition = def
	}
	run.system = pb.system()

	run.logger.Infof("Act %s: %s", run.id, prompt)
	c.emit(types.NewActStartEvent(c.sessionID, run.id, prompt))
	return run.loop(ctx)
}

func (r *actRun) loop(ctx context.Context) (*Result, error) {
	for r.steps < r.opts.maxSteps {
		if err := ctx.Err(); err != nil {
			return nil, r.fail(KindCanceled, err)
		}
		r.steps++

		observation, err := r.observe()
		if err != nil {
			return nil, r.fail(KindActionFailed, err)
		}

		r.client.emit(types.NewModelCallEvent(r.client.sessionID, r.id, r.steps))
		reply, err := r.client.provider.Complete(ctx, r.messages(observation), llm.WithJSONMode(), llm.WithTemperature(0))
		if err != nil {
			if ctx.Err() != nil {
				return nil, r.fail(KindCanceled, ctx.Err())
			}
			return nil, r.fail(KindModelUnavailable, err)
		}

		action, err := parseAction(reply.Content)
		if err != nil {
			r.invalidReplies++
			r.logger.Warnf("Act %s step %d: invalid reply: %v", r.id, r.steps, err)
			if r.invalidReplies >= DefaultMaxInvalidReplies {
				r.record("invalid reply", err)
				return nil, r.fail(KindInvalidModelOutput, err)
			}
			r.record("invalid reply", err)
			r.remember(reply.Content, invalidReplyMessage(err))
			continue
		}
		r.invalidReplies = 0

		if action.Type == ActionReturn {
			r.record(action.Describe(), nil)
			return r.finish(ctx, action), nil
		}

		desc := action.Describe()
		err = execute(ctx, r.page, action)
		r.record(desc, err)
		if err != nil {
			if ctx.Err() != nil {
				return nil, r.fail(KindCanceled, ctx.Err())
			}
			r.actionFailures++
			r.logger.Warnf("Act %s step %d: %s failed: %v", r.id, r.steps, desc, err)
			r.client.emit(types.NewActionFailedEvent(r.client.sessionID, r.id, r.steps, string(action.Type), err))
			if r.actionFailures >= DefaultMaxActionFailures {
				return nil, r.fail(KindActionFailed, err)
			}
		} else {
			r.actionFailures = 0
			r.logger.Debugf("Act %s step %d: %s", r.id, r.steps, desc)
			r.client.emit(types.NewActionEvent(r.client.sessionID, r.id, r.steps, string(action.Type), desc))
		}
		r.remember(reply.Content, actionResultMessage(action, err))
	}

	return nil, r.fail(KindExceededMaxSteps, fmt.Errorf("no answer within %d steps", r.opts.maxSteps))
}

// observe captures the page and trims it to the observation token budget.
func (r *actRun) observe() (string, error) {
	budget := r.client.opts.ObservationTokens
	obs, err := r.page.Observe(budget * 8)
	if err != nil {
		return "", fmt.Errorf("failed to observe page: %w", err)
	}
	r.lastURL = obs.URL
	html, cut := r.client.tokenizer.Truncate(obs.HTML, budget)
	tokens := r.client.tokenizer.CountTokens(html)
	r.client.emit(types.NewObservationEvent(r.client.sessionID, r.id, r.steps, tokens).
		WithMetadata("url", obs.URL))
	return observationMessage(r.steps, r.opts.maxSteps, obs, html, cut || obs.Truncated), nil
}

func (r *actRun) messages(observation string) []*types.Message {
	msgs := make([]*types.Message, 0, len(r.history)+2)
	msgs = append(msgs, types.NewSystemMessage(r.system))
	msgs = append(msgs, r.history...)
	return append(msgs, types.NewUserMessage(observation))
}

// remember records a step and keeps the most recent history.
func (r *actRun) remember(reply, outcome string) {
	r.history = append(r.history, types.NewAssistantMessage(reply), types.NewUserMessage(outcome))
	if extra := len(r.history) - DefaultHistoryMessages; extra > 0 {
		r.history = r.history[extra:]
	}
}

func (r *actRun) finish(ctx context.Context, action *Action) *Result {
	result := &Result{
		Response: action.responseText(),
		Metadata: r.metadata(),
	}

	if r.opts.schema != nil {
		raw := []byte(action.Response)
		if len(raw) == 0 {
			raw = []byte("null")
		}
		parsed, err := r.opts.schema.Parse(ctx, raw)
		if err != nil {
			r.logger.Warnf("Act %s: %v", r.id, err)
		} else {
			result.ParsedResponse = parsed
			result.MatchesSchema = true
		}
	}

	r.logger.Infof("Act %s complete in %d steps (matches schema: %t)", r.id, r.steps, result.MatchesSchema)
	r.writeTrace("complete")
	r.client.emit(types.NewActCompleteEvent(r.client.sessionID, r.id, r.steps, result.Response).
		WithMetadata("matches_schema", result.MatchesSchema))
	return result
}

func (r *actRun) metadata() Metadata {
	return Metadata{
		SessionID: r.client.sessionID,
		ActID:     r.id,
		Prompt:    r.prompt,
		NumSteps:  r.steps,
		StartTime: r.start,
		EndTime:   time.Now(),
	}
}

func (r *actRun) fail(kind ErrorKind, err error) error {
	ae := &ActError{Kind: kind, ActID: r.id, Prompt: r.prompt, Steps: r.steps, Err: err}
	r.logger.Errorf("Act %s failed: %v", r.id, ae)
	if kind != KindNotStarted {
		r.writeTrace(string(kind))
	}
	r.client.emit(types.NewActFailedEvent(r.client.sessionID, r.id, r.steps, ae))
	return ae
}
