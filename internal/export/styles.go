// Package export turns resume markup into downloadable documents.
package export

import (
	"fmt"
	"sort"
	"strings"
)

// Role is a paragraph role shared by every output format.
type Role string

const (
	RoleTitle      Role = "title"
	RoleSection    Role = "section"
	RoleSubsection Role = "subsection"
	RoleBody       Role = "body"
	RoleBullet     Role = "bullet"
)

// DefaultTemplate is used for empty or unknown template ids.
const DefaultTemplate = "professional"

// Margins are page margins in points.
type Margins struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// RoleStyle is the typography applied to one role.
type RoleStyle struct {
	SizePt        float64
	Bold          bool
	Italic        bool
	Color         string
	SpaceBeforePt float64
	SpaceAfterPt  float64
}

// StyleDescription is the resolved look of a template.
type StyleDescription struct {
	ID          string
	Margins     Margins
	FontFamily  string
	AccentColor string
	TextColor   string
	Roles       map[Role]RoleStyle
	TagRoles    map[string]Role
	CSS         string
}

type palette struct {
	font       string
	fallback   string
	accent     string
	text       string
	margin     Margins
	titleSize  float64
	bodySize   float64
	italicSubs bool
	upperHeads bool
}

var templates = map[string]palette{
	"professional": {
		font: "Georgia", fallback: "serif", accent: "1F2937", text: "111827",
		margin: Margins{Top: 54, Right: 54, Bottom: 54, Left: 54}, titleSize: 22, bodySize: 10.5,
	},
	"modern": {
		font: "Helvetica", fallback: "Arial, sans-serif", accent: "2563EB", text: "1F2937",
		margin: Margins{Top: 48, Right: 48, Bottom: 48, Left: 48}, titleSize: 24, bodySize: 10.5,
	},
	"creative": {
		font: "Trebuchet MS", fallback: "sans-serif", accent: "7C3AED", text: "1F2937",
		margin: Margins{Top: 42, Right: 42, Bottom: 42, Left: 42}, titleSize: 26, bodySize: 10.5, italicSubs: true,
	},
	"minimal": {
		font: "Arial", fallback: "sans-serif", accent: "111111", text: "111111",
		margin: Margins{Top: 60, Right: 60, Bottom: 60, Left: 60}, titleSize: 20, bodySize: 10,
	},
	"executive": {
		font: "Garamond", fallback: "serif", accent: "0F3D3E", text: "1A1A1A",
		margin: Margins{Top: 72, Right: 66, Bottom: 72, Left: 66}, titleSize: 24, bodySize: 11, upperHeads: true,
	},
}

// Templates lists the known template ids in a stable order.
func Templates() []string {
	ids := make([]string, 0, len(templates))
	for id := range templates {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// IsKnownTemplate reports whether id names a template.
func IsKnownTemplate(id string) bool {
	_, ok := templates[strings.ToLower(strings.TrimSpace(id))]
	return ok
}

// ResolveStyle returns the style for templateID, falling back to the
// professional template. Each call returns fresh maps.
func ResolveStyle(templateID string) StyleDescription {
	id := strings.ToLower(strings.TrimSpace(templateID))
	p, ok := templates[id]
	if !ok {
		id = DefaultTemplate
		p = templates[id]
	}

	style := StyleDescription{
		ID:          id,
		Margins:     p.margin,
		FontFamily:  p.font,
		AccentColor: p.accent,
		TextColor:   p.text,
		Roles: map[Role]RoleStyle{
			RoleTitle:      {SizePt: p.titleSize, Bold: true, Color: p.accent, SpaceAfterPt: 6},
			RoleSection:    {SizePt: p.bodySize + 3, Bold: true, Color: p.accent, SpaceBeforePt: 12, SpaceAfterPt: 4},
			RoleSubsection: {SizePt: p.bodySize + 1, Bold: true, Italic: p.italicSubs, Color: p.text, SpaceBeforePt: 8, SpaceAfterPt: 2},
			RoleBody:       {SizePt: p.bodySize, Color: p.text, SpaceAfterPt: 4},
			RoleBullet:     {SizePt: p.bodySize, Color: p.text, SpaceAfterPt: 2},
		},
		TagRoles: map[string]Role{
			"h1": RoleTitle,
			"h2": RoleSection,
			"h3": RoleSubsection,
			"h4": RoleSubsection,
			"h5": RoleSubsection,
			"h6": RoleSubsection,
			"p":  RoleBody,
			"li": RoleBullet,
		},
	}
	style.CSS = buildCSS(style, p)
	return style
}

var cssSelectors = []struct {
	role     Role
	selector string
}{
	{RoleTitle, ".resume h1"},
	{RoleSection, ".resume h2"},
	{RoleSubsection, ".resume h3, .resume h4, .resume h5, .resume h6"},
	{RoleBody, ".resume p"},
	{RoleBullet, ".resume li"},
}

func buildCSS(style StyleDescription, p palette) string {
	m := style.Margins
	var b strings.Builder
	fmt.Fprintf(&b, "@page { size: letter; margin: %gpt %gpt %gpt %gpt; }\n", m.Top, m.Right, m.Bottom, m.Left)
	fmt.Fprintf(&b, "body { margin: 0; font-family: '%s', %s; color: #%s; }\n", style.FontFamily, p.fallback, style.TextColor)
	b.WriteString(".resume { max-width: 100%; line-height: 1.35; }\n")
	for _, sel := range cssSelectors {
		rs := style.Roles[sel.role]
		fmt.Fprintf(&b, "%s { font-size: %gpt; color: #%s; margin: %gpt 0 %gpt 0;", sel.selector, rs.SizePt, rs.Color, rs.SpaceBeforePt, rs.SpaceAfterPt)
		if rs.Bold {
			b.WriteString(" font-weight: bold;")
		} else {
			b.WriteString(" font-weight: normal;")
		}
		if rs.Italic {
			b.WriteString(" font-style: italic;")
		}
		if p.upperHeads && sel.role == RoleSection {
			b.WriteString(" text-transform: uppercase; letter-spacing: 0.05em;")
		}
		b.WriteString(" }\n")
	}
	fmt.Fprintf(&b, ".resume h2 { border-bottom: 1px solid #%s; padding-bottom: 2pt; }\n", style.AccentColor)
	b.WriteString(".resume ul { padding-left: 16pt; }\n")
	b.WriteString(".resume table { width: 100%; border-collapse: collapse; }\n")
	b.WriteString(".resume tr { page-break-inside: avoid; break-inside: avoid; }\n")
	fmt.Fprintf(&b, ".resume a { color: #%s; }\n", style.AccentColor)
	return b.String()
}
