package export

import (
	"strings"

	"golang.org/x/net/html"
)

// Assemble wraps fragment in a standalone HTML document carrying the style's
// stylesheet. The fragment is inserted verbatim.
func Assemble(fragment string, style StyleDescription, title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		title = "Resume"
	}
	var b strings.Builder
	b.Grow(len(fragment) + len(style.CSS) + 256)
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	b.WriteString("<title>")
	b.WriteString(html.EscapeString(title))
	b.WriteString("</title>\n<style>\n")
	b.WriteString(style.CSS)
	b.WriteString("</style>\n</head>\n<body>\n<div class=\"resume\" data-template=\"")
	b.WriteString(html.EscapeString(style.ID))
	b.WriteString("\">")
	b.WriteString(fragment)
	b.WriteString("</div>\n</body>\n</html>\n")
	return b.String()
}
