package schema

import (
	"fmt"

	g "github.com/reoring/goskema/dsl"
)

// Book is one extracted book record.
type Book struct {
	Title  string `json:"title"`
	Author string `json:"author"`
}

func (b Book) String() string {
	return b.Title + " - " + b.Author
}

// BookList is the response shape for book extraction.
type BookList struct {
	Books []Book `json:"books"`
}

var bookSchema = g.ObjectOf[Book]().
	Field("title", g.StringOf[string]()).Required().
	Field("author", g.StringOf[string]()).Required().
	UnknownStrip().
	MustBind()

// BookListSchema matches {"books": [{"title": ..., "author": ...}]}.
var BookListSchema = New[BookList]("book_list", g.ObjectOf[BookList]().
	Field("books", g.ArrayOf[Book](bookSchema)).Required().
	UnknownStrip().
	MustBind())

// BestsellerListURL is the Wikipedia list of New York Times number-one
// books for year, anchored at the fiction section.
func BestsellerListURL(year int) string {
	return fmt.Sprintf("https://en.wikipedia.org/wiki/List_of_The_New_York_Times_number-one_books_of_%d#Fiction", year)
}
