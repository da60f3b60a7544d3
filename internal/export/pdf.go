package export

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Text PDF layout: US-Letter, Courier 10pt.
const (
	pdfPageWidth    = 612
	pdfPageHeight   = 792
	pdfMarginLeft   = 54
	pdfFirstLineY   = 738
	pdfLeading      = 11
	pdfFontSize     = 10
	PDFColumns      = 90
	PDFLinesPerPage = 60
)

// TextPDF flows plain text onto monospaced pages. It is the degraded export
// path: headings, lists, tables and the template's styling are not carried
// over, only the words in reading order. Lines are wrapped at PDFColumns and
// characters outside Windows-1252 print as '?'.
func TextPDF(text, title string) ([]byte, error) {
	lines := wrapLines(text, PDFColumns)
	var pages [][]string
	for len(lines) > PDFLinesPerPage {
		pages = append(pages, lines[:PDFLinesPerPage])
		lines = lines[PDFLinesPerPage:]
	}
	pages = append(pages, lines)

	title = strings.TrimSpace(title)
	if title == "" {
		title = "Resume"
	}

	w := &pdfWriter{}
	w.buf.WriteString("%PDF-1.4\n%\xE2\xE3\xCF\xD3\n")

	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 5+2*i)
	}
	w.object(1, "<< /Type /Catalog /Pages 2 0 R >>")
	w.object(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)))
	w.object(3, "<< /Type /Font /Subtype /Type1 /BaseFont /Courier /Encoding /WinAnsiEncoding >>")
	w.object(4, fmt.Sprintf("<< /Title (%s) /Producer (Resume Builder) >>", pdfString(title)))

	for i, page := range pages {
		pageID, contentID := 5+2*i, 6+2*i
		w.object(pageID, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %d %d] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>",
			pdfPageWidth, pdfPageHeight, contentID))
		stream := pageStream(page)
		w.object(contentID, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}
	return w.finish(4), nil
}

func pageStream(lines []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "BT\n/F1 %d Tf\n%d TL\n%d %d Td\n", pdfFontSize, pdfLeading, pdfMarginLeft, pdfFirstLineY)
	for i, line := range lines {
		if i > 0 {
			b.WriteString("T*\n")
		}
		fmt.Fprintf(&b, "(%s) Tj\n", pdfString(line))
	}
	b.WriteString("ET")
	return b.String()
}

type pdfWriter struct {
	buf     bytes.Buffer
	offsets []int
}

func (w *pdfWriter) object(id int, body string) {
	for len(w.offsets) < id {
		w.offsets = append(w.offsets, 0)
	}
	w.offsets[id-1] = w.buf.Len()
	fmt.Fprintf(&w.buf, "%d 0 obj\n%s\nendobj\n", id, body)
}

func (w *pdfWriter) finish(infoID int) []byte {
	xref := w.buf.Len()
	fmt.Fprintf(&w.buf, "xref\n0 %d\n", len(w.offsets)+1)
	w.buf.WriteString("0000000000 65535 f \n")
	for _, off := range w.offsets {
		fmt.Fprintf(&w.buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&w.buf, "trailer\n<< /Size %d /Root 1 0 R /Info %d 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(w.offsets)+1, infoID, xref)
	return w.buf.Bytes()
}

// pdfString encodes s as Windows-1252 and escapes it for a literal string.
func pdfString(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == '\t' {
			r = ' '
		}
		if r < 0x20 {
			continue
		}
		c, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			c = '?'
		}
		switch c {
		case '(', ')', '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			if c >= 0x80 {
				fmt.Fprintf(&b, "\\%03o", c)
			} else {
				b.WriteByte(c)
			}
		}
	}
	return b.String()
}

// wrapLines breaks text into lines of at most width runes, splitting on
// spaces where possible. Blank lines are kept.
func wrapLines(text string, width int) []string {
	var out []string
	for _, para := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		var line strings.Builder
		lineLen := 0
		for _, word := range words {
			for utf8.RuneCountInString(word) > width {
				if lineLen > 0 {
					out = append(out, line.String())
					line.Reset()
					lineLen = 0
				}
				cut := byteOffset(word, width)
				out = append(out, word[:cut])
				word = word[cut:]
			}
			n := utf8.RuneCountInString(word)
			if lineLen > 0 && lineLen+1+n > width {
				out = append(out, line.String())
				line.Reset()
				lineLen = 0
			}
			if lineLen > 0 {
				line.WriteByte(' ')
				lineLen++
			}
			line.WriteString(word)
			lineLen += n
		}
		if lineLen > 0 {
			out = append(out, line.String())
		}
	}
	return out
}

func byteOffset(s string, runes int) int {
	i := 0
	for pos := range s {
		if i == runes {
			return pos
		}
		i++
	}
	return len(s)
}
