package export

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var roleStyleIDs = map[Role]string{
	RoleTitle:      "Title",
	RoleSection:    "Heading1",
	RoleSubsection: "Heading2",
	RoleBody:       "Normal",
	RoleBullet:     "ListBullet",
}

var roleStyleNames = map[Role]string{
	RoleTitle:      "Title",
	RoleSection:    "heading 1",
	RoleSubsection: "heading 2",
	RoleBody:       "Normal",
	RoleBullet:     "List Bullet",
}

var docxRoleOrder = []Role{RoleBody, RoleTitle, RoleSection, RoleSubsection, RoleBullet}

var containerTags = map[string]bool{
	"div": true, "section": true, "article": true, "main": true, "header": true, "footer": true,
	"ul": true, "ol": true, "body": true, "blockquote": true, "aside": true, "nav": true,
}

const (
	wordNS    = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	relNS     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	pkgRelNS  = "http://schemas.openxmlformats.org/package/2006/relationships"
	xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

	// US Letter
	pageWidthTwips  = 12240
	pageHeightTwips = 15840
)

// buildDOCX lays the document's body out as Word paragraphs styled by role
// and packages it. ctx is checked between block elements.
func buildDOCX(ctx context.Context, document string, style StyleDescription, title string) ([]byte, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(document))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	root := doc.Find("div.resume").First()
	if root.Length() == 0 {
		root = doc.Find("body").First()
	}

	w := &docxWriter{ctx: ctx, style: style}
	for _, n := range root.Nodes {
		w.container(n)
	}
	if w.err != nil {
		return nil, w.err
	}
	if w.blocks == 0 || w.lastTable {
		w.body.WriteString("<w:p/>")
	}

	documentXML := w.documentXML()
	if err := checkWellFormed(documentXML); err != nil {
		return nil, fmt.Errorf("document.xml: %w", err)
	}
	stylesXML := stylesXML(style)
	if err := checkWellFormed(stylesXML); err != nil {
		return nil, fmt.Errorf("styles.xml: %w", err)
	}

	parts := []struct {
		name string
		body string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", packageRelsXML},
		{"word/document.xml", documentXML},
		{"word/styles.xml", stylesXML},
		{"word/_rels/document.xml.rels", documentRelsXML},
		{"docProps/core.xml", coreXML(title)},
	}

	var out bytes.Buffer
	zw := zip.NewWriter(&out)
	for _, part := range parts {
		f, err := zw.Create(part.name)
		if err != nil {
			return nil, err
		}
		if _, err := io.WriteString(f, part.body); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

type run struct {
	text      string
	bold      bool
	italic    bool
	underline bool
	brk       bool
}

type runProps struct {
	bold, italic, underline bool
}

type docxWriter struct {
	ctx       context.Context
	style     StyleDescription
	body      strings.Builder
	blocks    int
	lastTable bool
	err       error
}

func (w *docxWriter) container(n *html.Node) {
	var pending []*html.Node
	flush := func() {
		if len(pending) > 0 {
			w.paragraph(RoleBody, pending)
			pending = nil
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if w.err != nil {
			return
		}
		if c.Type == html.ElementNode && w.isBlock(c) {
			flush()
			w.block(c)
			continue
		}
		pending = append(pending, c)
	}
	flush()
}

func (w *docxWriter) isBlock(n *html.Node) bool {
	tag := strings.ToLower(n.Data)
	if _, ok := w.style.TagRoles[tag]; ok {
		return true
	}
	return containerTags[tag] || tag == "table" || tag == "hr"
}

func (w *docxWriter) block(n *html.Node) {
	if err := w.ctx.Err(); err != nil {
		w.err = err
		return
	}
	tag := strings.ToLower(n.Data)
	switch {
	case tag == "table":
		w.table(n)
	case tag == "hr":
		w.rule()
	case containerTags[tag]:
		w.container(n)
	default:
		role := w.style.TagRoles[tag]
		var inline, nested []*html.Node
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && w.isBlock(c) {
				nested = append(nested, c)
				continue
			}
			inline = append(inline, c)
		}
		w.paragraph(role, inline)
		for _, c := range nested {
			w.block(c)
		}
	}
}

func (w *docxWriter) paragraph(role Role, nodes []*html.Node) {
	var runs []run
	for _, n := range nodes {
		runs = collectRuns(n, runProps{}, runs)
	}
	runs = trimRuns(runs)
	if len(runs) == 0 {
		return
	}
	if role == RoleBullet {
		runs = append([]run{{text: "•\t"}}, runs...)
	}

	w.body.WriteString(`<w:p><w:pPr><w:pStyle w:val="`)
	w.body.WriteString(roleStyleIDs[role])
	w.body.WriteString(`"/></w:pPr>`)
	for _, r := range runs {
		writeRun(&w.body, r)
	}
	w.body.WriteString(`</w:p>`)
	w.blocks++
	w.lastTable = false
}

func (w *docxWriter) rule() {
	w.body.WriteString(`<w:p><w:pPr><w:pBdr><w:bottom w:val="single" w:sz="6" w:space="1" w:color="`)
	w.body.WriteString(w.style.AccentColor)
	w.body.WriteString(`"/></w:pBdr></w:pPr></w:p>`)
	w.blocks++
	w.lastTable = false
}

func (w *docxWriter) table(n *html.Node) {
	sel := goquery.NewDocumentFromNode(n).Selection
	rows := sel.Find("tr").FilterFunction(func(_ int, row *goquery.Selection) bool {
		return row.Closest("table").IsSelection(sel)
	})

	var tbl strings.Builder
	rowCount, columns := 0, 0
	rows.Each(func(_ int, row *goquery.Selection) {
		cells := row.ChildrenFiltered("td, th")
		if cells.Length() == 0 {
			return
		}
		columns = max(columns, cells.Length())
		tbl.WriteString(`<w:tr><w:trPr><w:cantSplit/></w:trPr>`)
		cells.Each(func(_ int, cell *goquery.Selection) {
			tbl.WriteString(`<w:tc><w:tcPr><w:tcW w:w="0" w:type="auto"/></w:tcPr>`)
			inner := &docxWriter{ctx: w.ctx, style: w.style}
			for _, cn := range cell.Nodes {
				inner.container(cn)
			}
			if inner.err != nil && w.err == nil {
				w.err = inner.err
			}
			if inner.blocks == 0 || inner.lastTable {
				inner.body.WriteString("<w:p/>")
			}
			tbl.WriteString(inner.body.String())
			tbl.WriteString(`</w:tc>`)
		})
		tbl.WriteString(`</w:tr>`)
		rowCount++
	})
	if rowCount == 0 {
		return
	}

	w.body.WriteString(`<w:tbl><w:tblPr><w:tblW w:w="5000" w:type="pct"/><w:tblBorders>`)
	for _, side := range []string{"top", "left", "bottom", "right", "insideH", "insideV"} {
		fmt.Fprintf(&w.body, `<w:%s w:val="single" w:sz="4" w:space="0" w:color="D1D5DB"/>`, side)
	}
	w.body.WriteString(`</w:tblBorders></w:tblPr>`)
	w.body.WriteString(w.tableGrid(columns))
	w.body.WriteString(tbl.String())
	w.body.WriteString(`</w:tbl>`)
	w.blocks++
	w.lastTable = true
}

// tableGrid splits the text width evenly over the widest row.
func (w *docxWriter) tableGrid(columns int) string {
	m := w.style.Margins
	width := max((pageWidthTwips-twips(m.Left)-twips(m.Right))/columns, 1)
	var b strings.Builder
	b.WriteString("<w:tblGrid>")
	for i := 0; i < columns; i++ {
		fmt.Fprintf(&b, `<w:gridCol w:w="%d"/>`, width)
	}
	b.WriteString("</w:tblGrid>")
	return b.String()
}

func collectRuns(n *html.Node, props runProps, runs []run) []run {
	switch n.Type {
	case html.TextNode:
		text := collapseSpace(n.Data)
		if text == "" {
			return runs
		}
		return append(runs, run{text: text, bold: props.bold, italic: props.italic, underline: props.underline})
	case html.ElementNode:
		switch strings.ToLower(n.Data) {
		case "script", "style":
			return runs
		case "br":
			return append(runs, run{brk: true})
		case "strong", "b":
			props.bold = true
		case "em", "i":
			props.italic = true
		case "u", "a":
			props.underline = true
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		runs = collectRuns(c, props, runs)
	}
	return runs
}

func collapseSpace(s string) string {
	if s == "" {
		return ""
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return " "
	}
	out := strings.Join(words, " ")
	if strings.TrimLeft(s[:1], " \t\r\n\f") == "" {
		out = " " + out
	}
	if strings.TrimRight(s[len(s)-1:], " \t\r\n\f") == "" {
		out += " "
	}
	return out
}

func trimRuns(runs []run) []run {
	for len(runs) > 0 && !runs[0].brk {
		runs[0].text = strings.TrimLeft(runs[0].text, " ")
		if runs[0].text != "" {
			break
		}
		runs = runs[1:]
	}
	for len(runs) > 0 && !runs[len(runs)-1].brk {
		last := &runs[len(runs)-1]
		last.text = strings.TrimRight(last.text, " ")
		if last.text != "" {
			break
		}
		runs = runs[:len(runs)-1]
	}
	for _, r := range runs {
		if !r.brk {
			return runs
		}
	}
	return nil
}

func writeRun(b *strings.Builder, r run) {
	b.WriteString("<w:r>")
	if r.bold || r.italic || r.underline {
		b.WriteString("<w:rPr>")
		if r.bold {
			b.WriteString("<w:b/>")
		}
		if r.italic {
			b.WriteString("<w:i/>")
		}
		if r.underline {
			b.WriteString(`<w:u w:val="single"/>`)
		}
		b.WriteString("</w:rPr>")
	}
	if r.brk {
		b.WriteString("<w:br/>")
	} else {
		b.WriteString(`<w:t xml:space="preserve">`)
		b.WriteString(escapeXML(r.text))
		b.WriteString("</w:t>")
	}
	b.WriteString("</w:r>")
}

func (w *docxWriter) documentXML() string {
	m := w.style.Margins
	var b strings.Builder
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, `<w:document xmlns:w="%s" xmlns:r="%s"><w:body>`, wordNS, relNS)
	b.WriteString(w.body.String())
	fmt.Fprintf(&b, `<w:sectPr><w:pgSz w:w="%d" w:h="%d"/><w:pgMar w:top="%d" w:right="%d" w:bottom="%d" w:left="%d" w:header="720" w:footer="720" w:gutter="0"/></w:sectPr>`,
		pageWidthTwips, pageHeightTwips, twips(m.Top), twips(m.Right), twips(m.Bottom), twips(m.Left))
	b.WriteString(`</w:body></w:document>`)
	return b.String()
}

func stylesXML(style StyleDescription) string {
	font := escapeXML(style.FontFamily)
	body := style.Roles[RoleBody]

	var b strings.Builder
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, `<w:styles xmlns:w="%s">`, wordNS)
	fmt.Fprintf(&b, `<w:docDefaults><w:rPrDefault><w:rPr><w:rFonts w:ascii="%s" w:hAnsi="%s" w:cs="%s" w:eastAsia="%s"/><w:sz w:val="%d"/><w:szCs w:val="%d"/></w:rPr></w:rPrDefault>`,
		font, font, font, font, halfPoints(body.SizePt), halfPoints(body.SizePt))
	b.WriteString(`<w:pPrDefault><w:pPr><w:spacing w:after="0" w:line="264" w:lineRule="auto"/></w:pPr></w:pPrDefault></w:docDefaults>`)

	for _, role := range docxRoleOrder {
		rs := style.Roles[role]
		id := roleStyleIDs[role]
		if role == RoleBody {
			fmt.Fprintf(&b, `<w:style w:type="paragraph" w:default="1" w:styleId="%s"><w:name w:val="%s"/><w:qFormat/>`, id, roleStyleNames[role])
		} else {
			fmt.Fprintf(&b, `<w:style w:type="paragraph" w:styleId="%s"><w:name w:val="%s"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:qFormat/>`, id, roleStyleNames[role])
		}
		b.WriteString("<w:pPr>")
		if role == RoleTitle || role == RoleSection || role == RoleSubsection {
			b.WriteString("<w:keepNext/>")
		}
		if role == RoleSection {
			fmt.Fprintf(&b, `<w:pBdr><w:bottom w:val="single" w:sz="6" w:space="1" w:color="%s"/></w:pBdr>`, style.AccentColor)
		}
		fmt.Fprintf(&b, `<w:spacing w:before="%d" w:after="%d"/>`, twips(rs.SpaceBeforePt), twips(rs.SpaceAfterPt))
		if role == RoleBullet {
			b.WriteString(`<w:ind w:left="360" w:hanging="360"/>`)
		}
		b.WriteString("</w:pPr><w:rPr>")
		if rs.Bold {
			b.WriteString("<w:b/>")
		}
		if rs.Italic {
			b.WriteString("<w:i/>")
		}
		if rs.Color != "" {
			fmt.Fprintf(&b, `<w:color w:val="%s"/>`, escapeXML(rs.Color))
		}
		fmt.Fprintf(&b, `<w:sz w:val="%d"/><w:szCs w:val="%d"/>`, halfPoints(rs.SizePt), halfPoints(rs.SizePt))
		b.WriteString("</w:rPr></w:style>")
	}
	b.WriteString("</w:styles>")
	return b.String()
}

func coreXML(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		title = "Resume"
	}
	return xmlHeader + `<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/">` +
		`<dc:title>` + escapeXML(title) + `</dc:title><dc:creator>Resume Builder</dc:creator></cp:coreProperties>`
}

const contentTypesXML = xmlHeader + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>` +
	`<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>` +
	`</Types>`

const packageRelsXML = xmlHeader + `<Relationships xmlns="` + pkgRelNS + `">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>` +
	`</Relationships>`

const documentRelsXML = xmlHeader + `<Relationships xmlns="` + pkgRelNS + `">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>` +
	`</Relationships>`

func twips(pt float64) int {
	return int(pt*20 + 0.5)
}

func halfPoints(pt float64) int {
	return int(pt*2 + 0.5)
}

func escapeXML(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// checkWellFormed decodes the whole part so a malformed package never leaves the converter.
func checkWellFormed(part string) error {
	dec := xml.NewDecoder(strings.NewReader(part))
	for {
		_, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
