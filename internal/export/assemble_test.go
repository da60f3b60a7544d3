package export

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"resume-builder/internal/markup"
)

func TestAssembleModernScenario(t *testing.T) {
	style := ResolveStyle("modern")
	doc := Assemble("<h1>X</h1>", style, "X")

	start := strings.Index(doc, "<style>")
	end := strings.Index(doc, "</style>")
	assert.True(t, start >= 0 && end > start)
	assert.Contains(t, doc[start:end], "#2563EB")
	assert.Contains(t, doc, "<h1>X</h1>")
}

func TestAssembleKeepsFragmentVerbatim(t *testing.T) {
	fragment := "<div><p>A &amp; B</p>\n<ul><li>one</li></ul></div><!-- note -->"
	doc := Assemble(fragment, ResolveStyle("minimal"), "")

	assert.Contains(t, doc, fragment)
	assert.Contains(t, doc, "<title>Resume</title>")
}

func TestAssembleEscapesTitle(t *testing.T) {
	doc := Assemble("<p>x</p>", ResolveStyle(""), `</title><script>`)
	assert.Contains(t, doc, "<title>&lt;/title&gt;&lt;script&gt;</title>")
}

func TestAssembleHTMLRoundTripPreservesText(t *testing.T) {
	fragments := []string{
		"<h1>Jane Doe</h1><p>Backend engineer</p>",
		"<div><h2>Skills</h2><ul><li>Go</li><li>SQL</li></ul></div>",
		"<section><p>R&amp;D lead at <strong>Acme</strong></p></section>",
	}
	for _, fragment := range fragments {
		style := ResolveStyle("creative")
		out, err := NewConverter(DefaultTimeout).Convert(context.Background(), Assemble(fragment, style, "Jane"), FormatHTML, style, Options{Title: "Jane"})
		assert.NoError(t, err)
		assert.Equal(t, markup.Text(fragment), markup.Text(string(out.Bytes)))
	}
}
