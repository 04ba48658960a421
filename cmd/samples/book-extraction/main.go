// Command book-extraction extracts the New York Times fiction number-one
// books of a year as a schema-validated list.
package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/entrhq/act-samples/pkg/act"
	"github.com/entrhq/act-samples/pkg/samplekit"
	"github.com/entrhq/act-samples/pkg/schema"
)

const defaultYear = 2023

func main() {
	samplekit.Main("book-extraction", run)
}

// yearArg reads an optional year from the positional arguments.
func yearArg(args []string) (int, error) {
	if len(args) == 0 {
		return defaultYear, nil
	}
	year, err := strconv.Atoi(args[0])
	if err != nil || year < 1931 {
		return 0, fmt.Errorf("invalid year %q", args[0])
	}
	return year, nil
}

func run(ctx context.Context, k *samplekit.Kit) error {
	p := k.Printer
	p.Header("📚 Sample 02: Book Extraction with Schema")

	year, err := yearArg(k.Args)
	if err != nil {
		return err
	}

	client, err := k.NewClient(schema.BestsellerListURL(year))
	if err != nil {
		return err
	}

	return client.With(ctx, func(c *act.Client) error {
		p.Step("📖 Extracting fiction books of %d...", year)
		res, err := c.Act(ctx, "Return the books in the Fiction list", act.WithSchema(schema.BookListSchema))
		if err != nil {
			return err
		}

		if !res.MatchesSchema {
			p.Warningf("The response did not match the book list schema")
			p.KeyValue("Raw response", res.Response)
			return nil
		}

		list, ok := schema.Value[schema.BookList](res.ParsedResponse)
		if !ok {
			return fmt.Errorf("unexpected parsed response %T", res.ParsedResponse)
		}
		printBooks(k, list.Books)
		return nil
	})
}

func printBooks(k *samplekit.Kit, books []schema.Book) {
	k.Printer.Successf("Extracted %d books", len(books))
	for i, b := range books {
		k.Printer.Plain("   %d. %s", i+1, b)
	}
}
