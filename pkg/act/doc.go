// Package act drives a browser with natural-language instructions.
//
// A Client owns one browser session opened on a starting page. Each Act
// call shows the model a cleaned view of the page, executes the single
// JSON action it replies with, and repeats until the model returns an
// answer:
//
//	client, err := act.New("https://www.amazon.com", act.WithHeadless(true))
//	if err != nil {
//	    return err
//	}
//	return client.With(ctx, func(c *act.Client) error {
//	    result, err := c.Act(ctx, "Return the books in the Fiction list",
//	        act.WithSchema(schema.BookListSchema))
//	    if err != nil {
//	        return err
//	    }
//	    if result.MatchesSchema {
//	        books, _ := schema.Value[schema.BookList](result.ParsedResponse)
//	        fmt.Println(len(books.Books))
//	    }
//	    return nil
//	})
//
// Secrets such as passwords must be typed through Page().TypeSensitive,
// never placed in an act prompt. Observations sent to the model never
// include form field values.
package act
