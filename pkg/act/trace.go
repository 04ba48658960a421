package act

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"
)

// traceStep is one row of an act trace.
type traceStep struct {
	Number  int
	URL     string
	Action  string
	Outcome string
	Failed  bool
}

var traceTemplate = template.Must(template.New("trace").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>act {{.ID}}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; width: 100%; }
td, th { border: 1px solid #ccc; padding: 4px 8px; text-align: left; vertical-align: top; }
tr.failed td { background: #fdecea; }
</style>
</head>
<body>
<h1>{{.Prompt}}</h1>
<p>Session {{.SessionID}} &middot; act {{.ID}} &middot; {{.Status}} &middot; {{.Duration}}</p>
<table>
<tr><th>Step</th><th>URL</th><th>Action</th><th>Outcome</th></tr>
{{range .Steps}}<tr{{if .Failed}} class="failed"{{end}}><td>{{.Number}}</td><td>{{.URL}}</td><td>{{.Action}}</td><td>{{.Outcome}}</td></tr>
{{end}}</table>
</body>
</html>
`))

func (r *actRun) record(action string, err error) {
	step := traceStep{Number: r.steps, URL: r.lastURL, Action: action, Outcome: "ok"}
	if err != nil {
		step.Outcome = err.Error()
		step.Failed = true
	}
	r.trace = append(r.trace, step)
}

// writeTrace saves the act's steps as act_<id>.html in the session's logs
// directory. Typed values never reach the trace; only action descriptions
// and page URLs do.
func (r *actRun) writeTrace(status string) {
	dir := r.client.LogsDirectory()
	if dir == "" {
		return
	}

	path := filepath.Join(dir, fmt.Sprintf("act_%s.html", r.id))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		r.logger.Warnf("Act %s: failed to write trace: %v", r.id, err)
		return
	}
	defer f.Close()

	data := struct {
		ID        string
		SessionID string
		Prompt    string
		Status    string
		Duration  time.Duration
		Steps     []traceStep
	}{
		ID:        r.id,
		SessionID: r.client.sessionID,
		Prompt:    r.prompt,
		Status:    status,
		Duration:  time.Since(r.start).Round(time.Millisecond),
		Steps:     r.trace,
	}
	if err := traceTemplate.Execute(f, data); err != nil {
		r.logger.Warnf("Act %s: failed to write trace: %v", r.id, err)
	}
}
