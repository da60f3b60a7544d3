// Package markup cleans up HTML fragments coming from the editor or a model
// and reduces them to plain text.
package markup

import (
	"regexp"
	"sort"
	"strings"
)

// WrapperOpen is the root element added around fragments that lack one.
const WrapperOpen = `<div class="resume-content">`

// balancedTags are the names whose open/close counts Repair evens out.
var balancedTags = []string{
	"div", "p", "ul", "ol", "li",
	"h1", "h2", "h3", "h4", "h5", "h6",
	"span", "strong", "em", "b", "i", "u",
	"section", "table", "tr", "td", "th", "tbody", "thead", "a",
}

var (
	tagPattern    = regexp.MustCompile(`<(/?)([A-Za-z][A-Za-z0-9]*)\b[^<>]*>`)
	entityPattern = regexp.MustCompile(`&(#[0-9]+;|#[xX][0-9A-Fa-f]+;|[A-Za-z][A-Za-z0-9]*;)?`)
	scriptPattern = regexp.MustCompile(`(?i)<script`)
	positionRule  = regexp.MustCompile(`(?i)position\s*:\s*(fixed|absolute)`)
	vhHeightRule  = regexp.MustCompile(`(?i)\b((?:min-|max-)?height)\s*:\s*\d+(?:\.\d+)?vh\b`)
	viewportUnit  = regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?v[wh]\b`)

	tracked   = tagSet(append([]string{"article", "main"}, balancedTags...))
	balanced  = tagSet(balancedTags)
	rootBlock = tagSet([]string{"div", "section", "article", "main"})
)

func tagSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// Repair applies a fixed sequence of best-effort fixes to an HTML fragment.
// It is a heuristic over tag counts, not a parser: missing closers are only
// ever appended at the end and surplus closers are left in place. Running it
// on its own output returns the input unchanged.
//
// Scripts are neutralized before any tag is counted so that every pass sees
// the same tags. A tag never spans a '<', so an unterminated "<a" cannot
// swallow the closers appended after it.
func Repair(fragment string) string {
	out := neutralizeScripts(fragment)
	out = wrapRoot(out)
	out = balance(out)
	out = escapeAmpersands(out)
	return relaxLayout(out)
}

type tagToken struct {
	name    string
	closing bool
	pos     int
}

func scanTags(s string, keep map[string]bool) []tagToken {
	var tokens []tagToken
	for _, m := range tagPattern.FindAllStringSubmatchIndex(s, -1) {
		name := strings.ToLower(s[m[4]:m[5]])
		if !keep[name] {
			continue
		}
		closing := m[3] > m[2]
		if !closing && strings.HasSuffix(s[m[0]:m[1]], "/>") {
			continue
		}
		tokens = append(tokens, tagToken{name: name, closing: closing, pos: m[0]})
	}
	return tokens
}

func wrapRoot(s string) string {
	if singleRooted(s) {
		return s
	}
	return WrapperOpen + s + "</div>"
}

// singleRooted reports whether s is one block element with nothing but
// closing tags and whitespace after it.
func singleRooted(s string) bool {
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, WrapperOpen) {
		return true
	}
	tokens := scanTags(trimmed, tracked)
	if len(tokens) == 0 || tokens[0].pos != 0 || tokens[0].closing || !rootBlock[tokens[0].name] {
		return false
	}

	var stack []string
	for _, tok := range tokens {
		if !tok.closing {
			stack = append(stack, tok.name)
			continue
		}
		idx := lastIndex(stack, tok.name)
		if idx < 0 {
			continue
		}
		stack = stack[:idx]
		if len(stack) == 0 {
			end := tok.pos + strings.Index(trimmed[tok.pos:], ">") + 1
			return onlyClosers(trimmed[end:])
		}
	}
	return true
}

func lastIndex(stack []string, name string) int {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == name {
			return i
		}
	}
	return -1
}

func onlyClosers(rest string) bool {
	stripped := tagPattern.ReplaceAllStringFunc(rest, func(tag string) string {
		m := tagPattern.FindStringSubmatch(tag)
		if m[1] == "/" && balanced[strings.ToLower(m[2])] {
			return ""
		}
		return tag
	})
	return strings.TrimSpace(stripped) == ""
}

func balance(s string) string {
	opens := make(map[string][]int)
	closes := make(map[string]int)
	for _, tok := range scanTags(s, balanced) {
		if tok.closing {
			closes[tok.name]++
		} else {
			opens[tok.name] = append(opens[tok.name], tok.pos)
		}
	}

	var missing []tagToken
	for name, positions := range opens {
		deficit := len(positions) - closes[name]
		if deficit <= 0 {
			continue
		}
		for _, pos := range positions[len(positions)-deficit:] {
			missing = append(missing, tagToken{name: name, pos: pos})
		}
	}
	if len(missing) == 0 {
		return s
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i].pos > missing[j].pos })

	var b strings.Builder
	b.WriteString(s)
	for _, tok := range missing {
		b.WriteString("</" + tok.name + ">")
	}
	return b.String()
}

func escapeAmpersands(s string) string {
	return entityPattern.ReplaceAllStringFunc(s, func(m string) string {
		if m == "&" {
			return "&amp;"
		}
		return m
	})
}

func neutralizeScripts(s string) string {
	return scriptPattern.ReplaceAllStringFunc(s, func(m string) string {
		return "&lt;" + m[1:]
	})
}

func relaxLayout(s string) string {
	s = positionRule.ReplaceAllString(s, "position: relative")
	s = vhHeightRule.ReplaceAllString(s, "$1: auto")
	return viewportUnit.ReplaceAllString(s, "100%")
}
