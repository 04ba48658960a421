// Command coffee-maker searches a store for a coffee maker, opens the first
// result and adds it to the cart.
package main

import (
	"context"

	"github.com/entrhq/act-samples/pkg/act"
	"github.com/entrhq/act-samples/pkg/samplekit"
)

const startingPage = "https://www.amazon.com"

// steps are run in order on one session.
var steps = []struct {
	label  string
	prompt string
}{
	{"🔍 Searching for coffee maker...", "search for a coffee maker"},
	{"📦 Selecting first product...", "select the first result"},
	{"🛒 Adding to cart...", "scroll down or up until you see 'add to cart' and then click 'add to cart'"},
}

func main() {
	samplekit.Main("coffee-maker", run)
}

func run(ctx context.Context, k *samplekit.Kit) error {
	p := k.Printer
	p.Header("☕ Sample 01: Order Coffee Maker")
	p.Infof("📖 Following the quick start flow")

	client, err := k.NewClient(startingPage)
	if err != nil {
		return err
	}

	return client.With(ctx, func(c *act.Client) error {
		for _, s := range steps {
			p.Step("%s", s.label)
			res, err := c.Act(ctx, s.prompt)
			if err != nil {
				return err
			}
			p.Verbosef("%s", res.Metadata)
		}
		p.Successf("Successfully added coffee maker to cart!")
		return nil
	})
}
