// Package htmlsanitize cleans rich-text content (news, blog posts, event
// descriptions) before it is stored.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var tableElements = []string{"table", "thead", "tbody", "tfoot", "tr", "th", "td"}

var (
	richPolicy  = newRichPolicy()
	stripPolicy = bluemonday.StrictPolicy().AddSpaceWhenStrippingTag(true)
)

func newRichPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").OnElements(tableElements...)
	p.AllowAttrs("colspan", "rowspan").Matching(bluemonday.Integer).OnElements("td", "th")
	p.AllowStyles("text-align", "width", "vertical-align").OnElements(tableElements...)
	return p
}

// Sanitize removes scripts, event handlers, unsafe URLs and disallowed
// elements, keeping ordinary editor markup.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return richPolicy.Sanitize(s)
}

// isPlainText reports whether s has no tag-like markup.
func isPlainText(s string) bool {
	return !(strings.Contains(s, "<") && strings.Contains(s, ">"))
}

// plainTextToHTML escapes s and wraps it in a paragraph, turning newlines
// into <br>.
func plainTextToHTML(s string) string {
	if s == "" {
		return ""
	}
	escaped := html.EscapeString(s)
	return "<p>" + strings.ReplaceAll(escaped, "\n", "<br>") + "</p>"
}

// PrepareContent returns the form of s that is safe to store and render:
// plain text becomes a paragraph, markup is sanitized.
func PrepareContent(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if isPlainText(s) {
		return plainTextToHTML(s)
	}
	return Sanitize(s)
}

// Text strips all markup and returns the unescaped text content.
func Text(s string) string {
	if s == "" {
		return ""
	}
	return strings.Join(strings.Fields(html.UnescapeString(stripPolicy.Sanitize(s))), " ")
}

// WordCount counts whitespace-separated words in the text content of s.
func WordCount(s string) int {
	return len(strings.Fields(Text(s)))
}
