// Command authentication keeps a logged-in browser profile in a user data
// directory, reuses it in a later session and shares it with parallel
// workers through cloned copies.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/entrhq/act-samples/pkg/act"
	"github.com/entrhq/act-samples/pkg/pool"
	"github.com/entrhq/act-samples/pkg/samplekit"
	"github.com/entrhq/act-samples/pkg/schema"
)

const (
	startingPage = "https://amazon.com/"
	workers      = 3
)

func main() {
	samplekit.Main("authentication", run)
}

// loggedIn asks the page whether the user is signed in. ok is false when the
// answer could not be read as a boolean.
func loggedIn(ctx context.Context, c *act.Client) (yes, ok bool, err error) {
	res, err := c.Act(ctx, "Am I logged in?", act.WithSchema(schema.Bool))
	if err != nil {
		return false, false, err
	}
	if !res.MatchesSchema {
		return false, false, nil
	}
	v, _ := schema.Value[bool](res.ParsedResponse)
	return v, true, nil
}

func setupSession(ctx context.Context, k *samplekit.Kit) (string, error) {
	p := k.Printer
	dir, err := os.MkdirTemp("", "act-session-*")
	if err != nil {
		return "", fmt.Errorf("failed to create user data directory: %w", err)
	}
	p.Infof("📁 Created user data directory: %s", dir)

	// No clone: the login must persist in dir.
	client, err := k.NewClient(startingPage, act.WithUserDataDir(dir, false))
	if err != nil {
		return "", err
	}
	err = client.With(ctx, func(c *act.Client) error {
		p.Infof("🔐 Please log into the required websites...")
		k.Prompt.Pause("⏸️ Press Enter after you have finished logging in...")

		yes, ok, err := loggedIn(ctx, c)
		switch {
		case err != nil:
			return err
		case !ok:
			p.Warningf("Cannot determine login status")
		case yes:
			p.Successf("Successfully logged in!")
		default:
			p.Errorf("Not logged in")
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	p.Infof("💾 Session saved at: %s", dir)
	return dir, nil
}

func useSession(k *samplekit.Kit, dir string) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		p := k.Printer
		client, err := k.NewClient(startingPage, act.WithUserDataDir(dir, false), act.WithHeadless(true))
		if err != nil {
			return err
		}
		return client.With(ctx, func(c *act.Client) error {
			p.Step("🔍 Checking login status...")
			yes, ok, err := loggedIn(ctx, c)
			if err != nil {
				return err
			}
			if !ok || !yes {
				p.Errorf("Session expired, need to log in again")
				return nil
			}
			p.Successf("Still logged in!")

			p.Step("🛒 Checking cart...")
			if _, err := c.Act(ctx, "go to my cart"); err != nil {
				return err
			}
			p.Step("📦 Checking order history...")
			_, err = c.Act(ctx, "go to my orders")
			return err
		})
	}
}

// workerStatus reports one worker's view of the shared profile.
func workerStatus(k *samplekit.Kit, dir string) func(ctx context.Context, id int) ([]string, error) {
	return func(ctx context.Context, id int) ([]string, error) {
		client, err := k.NewClient(startingPage, act.WithUserDataDir(dir, true), act.WithHeadless(true))
		if err != nil {
			return nil, err
		}
		status := fmt.Sprintf("Worker %d: Failed", id)
		err = client.With(ctx, func(c *act.Client) error {
			k.Printer.Infof("🔄 Worker %d checking login...", id)
			yes, ok, err := loggedIn(ctx, c)
			if err != nil {
				return err
			}
			if ok && yes {
				status = fmt.Sprintf("Worker %d: Success", id)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return []string{status}, nil
	}
}

func parallelWithCloning(k *samplekit.Kit, dir string) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		ids := []int{1, 2, 3}
		statuses, failures := pool.Collect(ctx, ids, workers, workerStatus(k, dir))
		for _, f := range failures {
			statuses = append(statuses, fmt.Sprintf("Worker %d: Error (%v)", f.Input, f.Err))
		}

		k.Printer.Infof("📊 Parallel processing results:")
		for _, s := range statuses {
			k.Printer.Itemf("%s", s)
		}
		if len(failures) == len(ids) {
			return errors.New("every worker failed")
		}
		return nil
	}
}

func run(ctx context.Context, k *samplekit.Kit) error {
	p := k.Printer
	p.Header("🔐 Sample 04: Authentication & Persistent Sessions")
	p.Infof("📋 Steps:")
	p.Plain("1. Set up an authenticated session")
	p.Plain("2. Reuse the authenticated session")
	p.Plain("3. Parallel workers on cloned profiles")

	p.Section("STEP 1: Set up authenticated session")
	dir, err := setupSession(ctx, k)
	if err != nil {
		return fmt.Errorf("cannot set up session: %w", err)
	}

	results := k.RunDemos(ctx,
		samplekit.Demo{Name: "Use authenticated session", Run: useSession(k, dir)},
		samplekit.Demo{Name: "Parallel processing with cloned profiles", Run: parallelWithCloning(k, dir)},
	)

	p.Section("This example demonstrates")
	p.Itemf("A user data directory for persistent sessions")
	p.Itemf("Working on the profile itself to keep the login")
	p.Itemf("Cloned profiles for parallel workers")
	p.Itemf("The boolean schema for yes/no answers")
	p.Infof("🗂️ Session data saved at: %s", dir)
	p.Tipf("You can delete this directory after testing")

	if n := samplekit.Failed(results); n > 0 {
		return fmt.Errorf("%d of %d demos failed", n, len(results))
	}
	return nil
}
