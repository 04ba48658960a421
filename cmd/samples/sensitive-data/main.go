// Command sensitive-data enters passwords, card details and API tokens by
// typing them on the page directly, so they never pass through an act
// prompt or the model.
package main

import (
	"context"
	"fmt"

	"github.com/entrhq/act-samples/pkg/act"
	"github.com/entrhq/act-samples/pkg/config"
	"github.com/entrhq/act-samples/pkg/samplekit"
	"github.com/entrhq/act-samples/pkg/schema"
)

const (
	envDemoUsername = "DEMO_USERNAME"
	envDemoAPIToken = "DEMO_API_TOKEN"

	defaultUsername = "default_user"
	defaultAPIToken = "default_token"
)

// testCard is a well-known test number accepted by payment sandboxes.
var testCard = struct {
	Number string
	Expiry string
	CVV    string
	Name   string
}{
	Number: "4111111111111111",
	Expiry: "12/25",
	CVV:    "123",
	Name:   "Test User",
}

// field is a page field filled by keyboard after act focuses it.
type field struct {
	focus string
	value string
}

func main() {
	samplekit.Main("sensitive-data", run)
}

// fillFields asks the model to focus each field, then types the value
// without the model seeing it.
func fillFields(ctx context.Context, c *act.Client, fields []field) error {
	for _, f := range fields {
		if _, err := c.Act(ctx, f.focus); err != nil {
			return err
		}
		if err := c.Page().TypeSensitive("", f.value); err != nil {
			return err
		}
	}
	return nil
}

func passwordEntry(k *samplekit.Kit) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		p := k.Printer
		client, err := k.NewClient("https://example.com/login")
		if err != nil {
			return err
		}
		return client.With(ctx, func(c *act.Client) error {
			p.Step("👤 Filling username...")
			if _, err := c.Act(ctx, "enter username 'demo_user' and click on the password field"); err != nil {
				return err
			}

			p.Step("🔐 Enter password (hidden input):")
			password, err := k.Prompt.Password("Password: ")
			if err != nil {
				return fmt.Errorf("no password entered: %w", err)
			}

			p.Step("🔑 Typing password directly on the page...")
			if err := c.Page().TypeSensitive("", password); err != nil {
				return err
			}

			p.Step("🚀 Logging in...")
			if _, err := c.Act(ctx, "click the sign in button"); err != nil {
				return err
			}
			res, err := c.Act(ctx, "Am I successfully logged in?", act.WithSchema(schema.Bool))
			if err != nil {
				return err
			}
			if ok, _ := schema.Value[bool](res.ParsedResponse); res.MatchesSchema && ok {
				p.Successf("Login successful!")
			} else {
				p.Errorf("Login failed")
			}
			return nil
		})
	}
}

func captchaHandling(k *samplekit.Kit) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		p := k.Printer
		client, err := k.NewClient("https://example.com/captcha")
		if err != nil {
			return err
		}
		return client.With(ctx, func(c *act.Client) error {
			p.Step("🔍 Checking for CAPTCHA...")
			res, err := c.Act(ctx, "Is there a captcha on the screen?", act.WithSchema(schema.Bool))
			if err != nil {
				return err
			}
			if found, _ := schema.Value[bool](res.ParsedResponse); res.MatchesSchema && found {
				p.Warningf("🤖 CAPTCHA detected!")
				p.Infof("👤 Please solve the CAPTCHA in the browser window")
				k.Prompt.Pause("Press Enter to continue...")
				if _, err := c.Act(ctx, "submit the form"); err != nil {
					return err
				}
				p.Successf("Form submitted after solving CAPTCHA")
				return nil
			}
			p.Successf("No CAPTCHA found, continuing normally")
			_, err = c.Act(ctx, "submit the form")
			return err
		})
	}
}

func creditCardEntry(k *samplekit.Kit) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		p := k.Printer
		client, err := k.NewClient("https://example.com/checkout")
		if err != nil {
			return err
		}
		return client.With(ctx, func(c *act.Client) error {
			p.Step("💳 Filling credit card information...")
			err := fillFields(ctx, c, []field{
				{"click on the credit card number field", testCard.Number},
				{"click on the expiry date field", testCard.Expiry},
				{"click on the CVV field", testCard.CVV},
				{"click on the cardholder name field", testCard.Name},
			})
			if err != nil {
				return err
			}
			p.Successf("Credit card information typed directly on the page")
			p.Infof("🔒 Sensitive information was not sent to the model")
			_, err = c.Act(ctx, "review the payment information")
			return err
		})
	}
}

// credentials reads the demo login from the environment, falling back to
// placeholders. The returned text is safe to print.
func credentials(getenv config.Getenv) (username, token, shown string) {
	username = getenv(envDemoUsername)
	if username == "" {
		username = defaultUsername
	}
	token = getenv(envDemoAPIToken)
	if token == "" {
		return username, defaultAPIToken, "Using default token"
	}
	return username, token, "API Token from env: " + config.MaskSecret(token, 8)
}

func environmentVariables(k *samplekit.Kit) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		p := k.Printer
		username, token, shown := credentials(k.Getenv)
		p.Infof("👤 Username from env: %s", username)
		p.Infof("🔑 %s", shown)

		client, err := k.NewClient("https://api.example.com/login", act.WithHeadless(true))
		if err != nil {
			return err
		}
		return client.With(ctx, func(c *act.Client) error {
			if _, err := c.Act(ctx, "find the API authentication form"); err != nil {
				return err
			}
			err := fillFields(ctx, c, []field{
				{"click on the username field", username},
				{"click on the API token field", token},
			})
			if err != nil {
				return err
			}
			if _, err := c.Act(ctx, "submit the authentication form"); err != nil {
				return err
			}
			p.Successf("API authentication completed")
			return nil
		})
	}
}

func run(ctx context.Context, k *samplekit.Kit) error {
	p := k.Printer
	p.Header("🔒 Sample 05: Handling Sensitive Information")

	p.Section("Important notes")
	p.Itemf("Never put passwords or other secrets in an act prompt")
	p.Itemf("Type them on the page with Page().TypeSensitive")
	p.Itemf("Read passwords with a hidden prompt")
	p.Itemf("Take credentials from environment variables")
	p.Itemf("Screenshots may show sensitive data that is on screen")

	results := k.RunDemos(ctx,
		samplekit.Demo{Name: "Safe Password Entry", Run: passwordEntry(k)},
		samplekit.Demo{Name: "CAPTCHA Handling", Run: captchaHandling(k)},
		samplekit.Demo{Name: "Credit Card Entry", Run: creditCardEntry(k)},
		samplekit.Demo{Name: "Environment Variables", Run: environmentVariables(k)},
	)

	p.Section("Security checklist")
	p.Itemf("✅ No passwords sent through act")
	p.Itemf("✅ Sensitive input typed directly on the page")
	p.Itemf("✅ CAPTCHA handled with user interaction")
	p.Itemf("✅ Credentials from environment variables")
	p.Itemf("✅ Careful with screenshots")

	if err := ctx.Err(); err != nil {
		return err
	}
	if n := samplekit.Failed(results); n > 0 {
		return fmt.Errorf("%d of %d demos failed", n, len(results))
	}
	return nil
}
