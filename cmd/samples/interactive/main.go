// Command interactive drives a session from the keyboard: a command menu,
// a workflow that asks before each step, and a debugging session that
// stops at breakpoints.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/entrhq/act-samples/pkg/act"
	"github.com/entrhq/act-samples/pkg/samplekit"
)

const (
	shopPage            = "https://www.amazon.com"
	debugPage           = "https://example.com"
	screenshotName      = "interactive_screenshot.png"
	debugScreenshotName = "debug_screenshot.png"
)

func main() {
	samplekit.Main("interactive", run)
}

// session is the part of *act.Client the interactive demos use.
type session interface {
	Act(ctx context.Context, prompt string, opts ...act.ActOption) (*act.Result, error)
	GoToURL(ctx context.Context, target string) error
	Page() act.Page
}

var _ session = (*act.Client)(nil)

func outputPath(k *samplekit.Kit, name string) string {
	return filepath.Join(k.LogsDir, name)
}

// repl runs menu commands until the user quits, declines to continue or
// closes input. A failed command is reported and the loop goes on.
func repl(ctx context.Context, k *samplekit.Kit, s session) error {
	p := k.Printer
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		p.Section("🎮 Interactive Mode")
		p.Plain("📋 Commands:")
		for i, e := range menu {
			p.Itemf("%d. %s", i+1, e.label)
		}

		input, err := k.Prompt.Line("\n🎯 Choose a command (1-7): ")
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		cmd, arg := parseCommand(input)
		if cmd == cmdQuit {
			p.Infof("👋 Leaving interactive mode")
			return nil
		}
		if cmd == cmdInvalid {
			p.Errorf("Invalid command: %q", input)
		} else if err := runCommand(ctx, k, s, cmd, arg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.Errorf("%v", err)
		}

		more, err := k.Prompt.Confirm("\n❓ Continue?")
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
}

func runCommand(ctx context.Context, k *samplekit.Kit, s session, cmd command, arg string) error {
	p := k.Printer
	entry := entryFor(cmd)
	if arg == "" && entry.ask != "" {
		answer, err := k.Prompt.Line(entry.ask)
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		arg = answer
	}

	switch cmd {
	case cmdGoto:
		if arg == "" {
			return errEmptyArgument
		}
		p.Step("🌐 Opening %s", arg)
		if err := s.GoToURL(ctx, arg); err != nil {
			return err
		}
		p.Successf("Now at %s", s.Page().URL())
		return nil

	case cmdScreenshot:
		path := outputPath(k, screenshotName)
		p.Step("📸 Taking a screenshot...")
		if _, err := s.Page().Screenshot(path, false); err != nil {
			return err
		}
		p.Successf("Saved %s", path)
		return nil
	}

	prompt, err := actPrompt(cmd, arg)
	if err != nil {
		return err
	}
	p.Step("🚀 %s", prompt)
	res, err := s.Act(ctx, prompt)
	if err != nil {
		return err
	}
	p.KeyValue("📄 Result", res.Response)
	return nil
}

var workflow = []struct {
	Description string
	Prompt      string
}{
	{"🔍 Search for a coffee maker", "search for coffee maker"},
	{"📦 Open the first product", "click on the first product"},
	{"🛒 Add it to the cart", "add to cart"},
	{"🎯 Go to the cart", "go to cart"},
}

// stepByStep asks before each workflow step. After a failed step the user
// decides whether to go on; closed input stops there.
func stepByStep(ctx context.Context, k *samplekit.Kit, s session) error {
	p := k.Printer
	p.Infof("📋 The workflow has %d steps:", len(workflow))
	for i, step := range workflow {
		p.Itemf("%d. %s", i+1, step.Description)
	}

	for i, step := range workflow {
		if err := ctx.Err(); err != nil {
			return err
		}
		p.Section(fmt.Sprintf("🔄 Step %d/%d: %s", i+1, len(workflow), step.Description))

		answer, err := k.Prompt.Line("❓ Run this step? (Y/n): ")
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		if !defaultYes(answer) {
			p.Infof("⏭️ Skipped")
			continue
		}

		p.Step("🚀 %s", step.Prompt)
		res, err := s.Act(ctx, step.Prompt)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.Errorf("Step %d failed: %v", i+1, err)
			more, cerr := k.Prompt.Confirm("❓ Continue the workflow?")
			if cerr != nil {
				return cerr
			}
			if !more {
				return fmt.Errorf("workflow stopped at step %d: %w", i+1, err)
			}
			continue
		}
		p.Successf("Done: %s", res.Response)

		if i < len(workflow)-1 {
			k.Prompt.Pause("⏸️ Press Enter for the next step...")
		}
	}
	p.Successf("Workflow complete")
	return nil
}

// debugSession pauses at breakpoints so the page can be inspected between
// act calls.
func debugSession(ctx context.Context, k *samplekit.Kit, s session) error {
	p := k.Printer
	page := s.Page()

	p.Section("🔍 Breakpoint 1: page loaded")
	k.Prompt.Pause("🐛 Inspect the page, then press Enter...")

	res, err := s.Act(ctx, "return the main heading of the page")
	if err != nil {
		return err
	}
	p.KeyValue("📄 Heading", res.Response)

	p.Section("🔍 Breakpoint 2: after reading the heading")
	p.Itemf("1. Save a screenshot")
	p.Itemf("2. Show the page content length")
	p.Itemf("3. Show the current URL")
	p.Itemf("4. Continue")
	choice, err := k.Prompt.Line("🐛 Debug action (1-4): ")
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	switch choice {
	case "1":
		path := outputPath(k, debugScreenshotName)
		if _, err := page.Screenshot(path, false); err != nil {
			return err
		}
		p.Successf("📸 Saved %s", path)
	case "2":
		content, err := page.Content()
		if err != nil {
			return err
		}
		p.KeyValue("📄 Content length", fmt.Sprintf("%d chars", len(content)))
	case "3":
		p.KeyValue("🌐 Current URL", page.URL())
	}

	p.Section("🔍 Breakpoint 3: final action")
	k.Prompt.Pause("🐛 Press Enter to scroll the page...")
	if _, err := s.Act(ctx, "scroll down to see more content"); err != nil {
		return err
	}

	p.Section("🔍 Session summary")
	title, err := page.Title()
	if err != nil {
		return err
	}
	p.KeyValue("📊 Page title", title)
	p.KeyValue("🌐 Final URL", page.URL())
	return nil
}

// withSession runs fn on a fresh client for startingPage.
func withSession(k *samplekit.Kit, startingPage string, fn func(context.Context, *samplekit.Kit, session) error, opts ...act.Option) func(context.Context) error {
	return func(ctx context.Context) error {
		client, err := k.NewClient(startingPage, opts...)
		if err != nil {
			return err
		}
		return client.With(ctx, func(c *act.Client) error {
			k.Printer.Successf("Session started on %s", startingPage)
			return fn(ctx, k, c)
		})
	}
}

func run(ctx context.Context, k *samplekit.Kit) error {
	p := k.Printer
	p.Header("🎮 Sample 08: Interactive Mode")
	p.Infof("💡 Drive the browser yourself between act calls")

	demos := []samplekit.Demo{
		{Name: "Interactive Session", Run: withSession(k, shopPage, repl)},
		{Name: "Step-by-Step Workflow", Run: withSession(k, shopPage, stepByStep)},
		// The debugging session needs a visible window.
		{Name: "Debugging Session", Run: withSession(k, debugPage, debugSession, act.WithHeadless(false))},
	}

	p.Section("📋 Choose a demo")
	for i, d := range demos {
		p.Itemf("%d. %s", i+1, d.Name)
	}
	p.Itemf("%d. Run all", len(demos)+1)

	choice, err := k.Prompt.Line("\n🎯 Choice (1-4): ")
	if errors.Is(err, io.EOF) {
		p.Warningf("No input available, nothing to run")
		return nil
	}
	if err != nil {
		return err
	}
	selected, err := selectDemos(demos, choice)
	if err != nil {
		return err
	}

	results := k.RunDemos(ctx, selected...)

	p.Section("💡 Tips")
	p.Itemf("Start and Stop control the session lifetime")
	p.Itemf("Page() gives direct browser access between act calls")
	p.Itemf("Prompts make natural breakpoints")

	if n := samplekit.Failed(results); n > 0 {
		return fmt.Errorf("%d of %d demos failed", n, len(results))
	}
	return ctx.Err()
}

// selectDemos maps a menu choice to the demos to run; the entry after the
// last demo runs them all.
func selectDemos(demos []samplekit.Demo, choice string) ([]samplekit.Demo, error) {
	for i := range demos {
		if choice == fmt.Sprint(i+1) {
			return demos[i : i+1], nil
		}
	}
	if choice == fmt.Sprint(len(demos)+1) {
		return demos, nil
	}
	return nil, fmt.Errorf("invalid choice %q", choice)
}
