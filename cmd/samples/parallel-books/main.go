// Command parallel-books collects the New York Times fiction number-one
// books of several years, one browser session per year, with a bounded
// worker pool.
package main

import (
	"context"
	"fmt"

	"github.com/entrhq/act-samples/pkg/act"
	"github.com/entrhq/act-samples/pkg/pool"
	"github.com/entrhq/act-samples/pkg/samplekit"
	"github.com/entrhq/act-samples/pkg/schema"
)

const (
	workers = 3
	preview = 5
)

var years = []int{2020, 2021, 2022, 2023}

func main() {
	samplekit.Main("parallel-books", run)
}

// getBooks extracts one year's list in its own headless session.
func getBooks(k *samplekit.Kit) func(ctx context.Context, year int) ([]schema.Book, error) {
	return func(ctx context.Context, year int) ([]schema.Book, error) {
		client, err := k.NewClient(schema.BestsellerListURL(year), act.WithHeadless(true))
		if err != nil {
			return nil, err
		}

		var books []schema.Book
		err = client.With(ctx, func(c *act.Client) error {
			k.Printer.Infof("📖 Worker processing year %d...", year)
			res, err := c.Act(ctx, "Return the books in the Fiction list", act.WithSchema(schema.BookListSchema))
			if err != nil {
				return err
			}
			if !res.MatchesSchema {
				return fmt.Errorf("response for %d did not match the book list schema", year)
			}
			list, ok := schema.Value[schema.BookList](res.ParsedResponse)
			if !ok {
				return fmt.Errorf("unexpected parsed response %T", res.ParsedResponse)
			}
			books = list.Books
			return nil
		})
		if err != nil {
			return nil, err
		}
		k.Printer.Successf("Completed year %d: %d books", year, len(books))
		return books, nil
	}
}

func run(ctx context.Context, k *samplekit.Kit) error {
	p := k.Printer
	p.Header("⚡ Sample 03: Parallel Processing")
	p.Infof("📋 Collecting books from %d years: %v", len(years), years)
	p.Infof("⚡ Using a worker pool of %d sessions", workers)

	books, failures := pool.Collect(ctx, years, workers, getBooks(k),
		pool.OnDone(func(index, count int, err error) {
			if err != nil {
				p.Warningf("No data from year %d: %v", years[index], err)
				return
			}
			p.Infof("📚 Added %d books from year %d", count, years[index])
		}))

	summarize(k, books, len(failures))
	for _, f := range failures {
		k.Logger.Warnf("year %d failed: %v", f.Input, f.Err)
	}
	return ctx.Err()
}

func summarize(k *samplekit.Kit, books []schema.Book, failed int) {
	p := k.Printer
	p.Section("Parallel processing results")
	p.KeyValue("Total books", len(books))
	p.KeyValue("Years", fmt.Sprintf("%v", years))
	if failed > 0 {
		p.KeyValue("Failed years", failed)
	}

	if len(books) == 0 {
		return
	}
	p.Plain("\n📖 Sample books:")
	for i, b := range books {
		if i == preview {
			break
		}
		p.Plain("   %d. %s", i+1, b)
	}
	if extra := len(books) - preview; extra > 0 {
		p.Plain("   ... and %d more books", extra)
	}
}
