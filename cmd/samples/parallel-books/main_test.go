package main

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/entrhq/act-samples/pkg/console"
	"github.com/entrhq/act-samples/pkg/logging"
	"github.com/entrhq/act-samples/pkg/samplekit"
	"github.com/entrhq/act-samples/pkg/schema"
	"github.com/stretchr/testify/assert"
)

func testKit(out *bytes.Buffer) *samplekit.Kit {
	return &samplekit.Kit{
		Name:    "parallel-books",
		Printer: console.New(console.WithWriter(out)),
		Logger:  logging.Discard("parallel-books"),
	}
}

func TestSummarizePreview(t *testing.T) {
	var books []schema.Book
	for i := 1; i <= 8; i++ {
		books = append(books, schema.Book{Title: fmt.Sprintf("Book %d", i), Author: "Author"})
	}

	var out bytes.Buffer
	summarize(testKit(&out), books, 1)

	text := out.String()
	assert.Contains(t, text, "1. Book 1 - Author")
	assert.Contains(t, text, "5. Book 5 - Author")
	assert.NotContains(t, text, "Book 6")
	assert.Contains(t, text, "... and 3 more books")
	assert.Contains(t, text, "Failed years")
}

func TestSummarizeEmpty(t *testing.T) {
	var out bytes.Buffer
	summarize(testKit(&out), nil, 0)
	assert.NotContains(t, out.String(), "Sample books")
	assert.NotContains(t, out.String(), "Failed years")
}
