package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextOneLinePerBlock(t *testing.T) {
	in := `<div class="resume"><h1>Jane   Doe</h1><p>Backend <strong>engineer</strong> &amp; mentor</p>
<ul><li>Go</li><li>Postgres</li></ul></div>`

	assert.Equal(t, "Jane Doe\nBackend engineer & mentor\n- Go\n- Postgres", Text(in))
}

func TestTextSkipsHeadAndScripts(t *testing.T) {
	in := `<!DOCTYPE html><html><head><title>T</title><style>h1{color:red}</style></head>
<body><script>alert(1)</script><p>Visible</p><br><p>Next</p></body></html>`

	assert.Equal(t, "Visible\nNext", Text(in))
}

func TestTextTableCells(t *testing.T) {
	in := `<table><tr><td>Role</td><td>Years</td></tr><tr><td>Lead</td><td>3</td></tr></table>`
	assert.Equal(t, "Role | Years\nLead | 3", Text(in))
}

func TestTextEmpty(t *testing.T) {
	assert.Equal(t, "", Text(""))
	assert.Equal(t, "", Text("<div>   </div>"))
}
