package browser

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// CleanedHTML is a page reduced to the structure a model needs to pick its
// next action.
type CleanedHTML struct {
	HTML        string
	Title       string
	Description string
	Truncated   bool
}

// cleanHTML parses rawHTML and rebuilds it without scripts, styles and
// other noise. Form field values are never copied: value attributes are
// dropped and textarea contents are replaced by a placeholder, so secrets
// typed into the page cannot leak into an observation.
func cleanHTML(rawHTML string, maxLength int) (*CleanedHTML, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	result := &CleanedHTML{
		Title:       extractTitle(doc),
		Description: extractMetaDescription(doc),
	}

	var builder strings.Builder
	var currentLength int
	result.Truncated = cleanNode(doc, &builder, &currentLength, maxLength, 0)
	result.HTML = builder.String()
	return result, nil
}

func cleanNode(n *html.Node, builder *strings.Builder, currentLength *int, maxLength int, depth int) bool {
	if *currentLength >= maxLength {
		return true
	}

	switch n.Type {
	case html.CommentNode, html.DoctypeNode:
		return false
	case html.TextNode:
		return processTextNode(n, builder, currentLength, maxLength)
	case html.ElementNode:
		tag := strings.ToLower(n.Data)
		if isSkippedElement(tag) {
			return false
		}
		return processElementNode(n, tag, builder, currentLength, maxLength, depth)
	default:
		return processChildren(n, builder, currentLength, maxLength, depth)
	}
}

func processTextNode(n *html.Node, builder *strings.Builder, currentLength *int, maxLength int) bool {
	text := strings.Join(strings.Fields(n.Data), " ")
	if text == "" {
		return false
	}

	if *currentLength+len(text) > maxLength {
		remaining := maxLength - *currentLength
		builder.WriteString(text[:remaining])
		builder.WriteString("...")
		*currentLength = maxLength
		return true
	}

	builder.WriteString(text)
	*currentLength += len(text)
	return false
}

func processElementNode(n *html.Node, tag string, builder *strings.Builder, currentLength *int, maxLength int, depth int) bool {
	if depth > 0 && isBlockElement(tag) {
		builder.WriteString("\n")
		builder.WriteString(strings.Repeat("  ", depth))
	}

	start := builder.Len()
	builder.WriteString("<")
	builder.WriteString(tag)
	for _, attr := range n.Attr {
		if shouldPreserveAttribute(tag, attr.Key) {
			fmt.Fprintf(builder, ` %s="%s"`, strings.ToLower(attr.Key), html.EscapeString(attr.Val))
		}
	}
	builder.WriteString(">")
	*currentLength += builder.Len() - start

	var truncated bool
	if tag == "textarea" {
		builder.WriteString("[redacted]")
	} else {
		truncated = processChildren(n, builder, currentLength, maxLength, depth+1)
	}

	if !isVoidElement(tag) {
		if isBlockElement(tag) {
			builder.WriteString("\n")
			builder.WriteString(strings.Repeat("  ", depth))
		}
		builder.WriteString("</")
		builder.WriteString(tag)
		builder.WriteString(">")
		*currentLength += len(tag) + 3
	}

	return truncated
}

func processChildren(n *html.Node, builder *strings.Builder, currentLength *int, maxLength int, depth int) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if cleanNode(c, builder, currentLength, maxLength, depth) {
			return true
		}
	}
	return false
}

var skippedElements = map[string]bool{
	"head":     true,
	"script":   true,
	"style":    true,
	"noscript": true,
	"iframe":   true,
	"embed":    true,
	"object":   true,
	"svg":      true,
	"template": true,
}

func isSkippedElement(tag string) bool {
	return skippedElements[tag]
}

var blockElements = map[string]bool{
	"div": true, "p": true, "section": true, "article": true, "header": true,
	"footer": true, "nav": true, "main": true, "aside": true, "dialog": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"ul": true, "ol": true, "li": true, "table": true, "tr": true, "td": true,
	"th": true, "form": true, "fieldset": true, "blockquote": true, "pre": true,
}

func isBlockElement(tag string) bool {
	return blockElements[tag]
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

func isVoidElement(tag string) bool {
	return voidElements[tag]
}

// shouldPreserveAttribute keeps attributes useful for targeting elements.
// The value attribute is never kept.
func shouldPreserveAttribute(tag, attr string) bool {
	attr = strings.ToLower(attr)
	if attr == "value" {
		return false
	}
	if isGlobalAttribute(attr) || strings.HasPrefix(attr, "data-") {
		return true
	}
	return isTagSpecificAttribute(tag, attr)
}

var globalAttributes = map[string]bool{
	"id":               true,
	"class":            true,
	"role":             true,
	"title":            true,
	"aria-label":       true,
	"aria-describedby": true,
	"aria-expanded":    true,
}

func isGlobalAttribute(attr string) bool {
	return globalAttributes[attr]
}

func isTagSpecificAttribute(tag, attr string) bool {
	switch tag {
	case "a":
		return attr == "href" || attr == "target"
	case "img":
		return attr == "src" || attr == "alt"
	case "input":
		return attr == "name" || attr == "type" || attr == "placeholder" || attr == "accept" || attr == "multiple" || attr == "checked"
	case "textarea", "select":
		return attr == "name" || attr == "placeholder"
	case "option":
		return attr == "selected"
	case "label":
		return attr == "for"
	case "button":
		return attr == "type" || attr == "name" || attr == "disabled"
	case "form":
		return attr == "action" || attr == "method"
	case "table":
		return attr == "summary"
	}
	return false
}

func extractTitle(doc *html.Node) string {
	var title string
	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "title" {
			if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
				title = strings.TrimSpace(n.FirstChild.Data)
			}
			return
		}
		for c := n.FirstChild; c != nil && title == ""; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(doc)
	return title
}

func extractMetaDescription(doc *html.Node) string {
	var description string
	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "meta" {
			var isDescription bool
			var content string
			for _, attr := range n.Attr {
				if attr.Key == "name" && attr.Val == "description" {
					isDescription = true
				}
				if attr.Key == "content" {
					content = attr.Val
				}
			}
			if isDescription && content != "" {
				description = strings.TrimSpace(content)
				return
			}
		}
		for c := n.FirstChild; c != nil && description == ""; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(doc)
	return description
}
