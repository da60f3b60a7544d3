package markup

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var blockTags = map[string]bool{
	"p": true, "div": true, "section": true, "article": true, "header": true, "footer": true, "main": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"ul": true, "ol": true, "li": true, "table": true, "tr": true, "blockquote": true, "pre": true,
}

var skippedTags = map[string]bool{
	"script": true, "style": true, "head": true, "noscript": true, "template": true,
}

// Text reduces markup to plain text: one line per block element, list items
// prefixed with "- ", table cells separated by " | ". Formatting is dropped.
func Text(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.Join(strings.Fields(tagPattern.ReplaceAllString(fragment, " ")), " ")
	}
	var w textWriter
	for _, n := range doc.Find("body").Nodes {
		w.walk(n)
	}
	w.flush()
	return strings.Join(w.lines, "\n")
}

type textWriter struct {
	lines   []string
	cur     strings.Builder
	prefix  string
	pending bool
}

func (w *textWriter) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		w.text(n.Data)
		return
	case html.ElementNode:
		tag := strings.ToLower(n.Data)
		if skippedTags[tag] {
			return
		}
		switch {
		case tag == "br":
			w.flush()
			return
		case tag == "td" || tag == "th":
			if w.cur.Len() > 0 {
				w.cur.WriteString(" | ")
				w.pending = false
			}
			w.children(n)
			return
		case blockTags[tag]:
			w.flush()
			if tag == "li" {
				w.prefix = "- "
			}
			w.children(n)
			w.flush()
			return
		}
	}
	w.children(n)
}

func (w *textWriter) children(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
}

func (w *textWriter) text(data string) {
	words := strings.Fields(data)
	if len(words) == 0 {
		if w.cur.Len() > 0 && data != "" {
			w.pending = true
		}
		return
	}
	if w.cur.Len() > 0 && (w.pending || startsWithSpace(data)) {
		w.cur.WriteByte(' ')
	}
	w.cur.WriteString(strings.Join(words, " "))
	w.pending = endsWithSpace(data)
}

func (w *textWriter) flush() {
	line := strings.TrimSpace(w.cur.String())
	if line != "" {
		w.lines = append(w.lines, w.prefix+line)
	}
	w.cur.Reset()
	w.prefix = ""
	w.pending = false
}

func startsWithSpace(s string) bool {
	return s != "" && strings.TrimLeft(s[:1], " \t\r\n\f") == ""
}

func endsWithSpace(s string) bool {
	return s != "" && strings.TrimRight(s[len(s)-1:], " \t\r\n\f") == ""
}
