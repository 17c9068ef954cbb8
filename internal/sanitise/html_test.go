package sanitise

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText_PlainTextPassesThrough(t *testing.T) {
	input := "Revenue grew 40% and ARPU < $50 this quarter."
	assert.Equal(t, input, Text(input))
}

func TestText_StripsTags(t *testing.T) {
	input := "<html><body><p>Hello World</p></body></html>"
	assert.Equal(t, "Hello World", Text(input))
}

func TestText_RemovesScriptsAndStyles(t *testing.T) {
	input := `<html><body>
<script>alert("x")</script>
<style>.a { color: red; }</style>
<p>Visible copy</p>
</body></html>`

	out := Text(input)
	assert.Contains(t, out, "Visible copy")
	assert.NotContains(t, out, "alert")
	assert.NotContains(t, out, "color: red")
}

func TestText_BlockElementsBecomeNewlines(t *testing.T) {
	input := "<div><h1>Welcome Email</h1><p>First line</p><p>Second line</p></div>"

	out := Text(input)
	assert.Contains(t, out, "Welcome Email\nFirst line\nSecond line")
}

func TestText_DecodesEntities(t *testing.T) {
	input := "<p>Fish &amp; Chips &ndash; now 20% off</p>"

	out := Text(input)
	assert.Contains(t, out, "Fish & Chips")
	assert.NotContains(t, out, "&amp;")
}

func TestText_CollapsesWhitespace(t *testing.T) {
	input := "<p>spaced    out</p><br><br><br><p>next</p>"

	out := Text(input)
	assert.Contains(t, out, "spaced out")
	assert.NotContains(t, out, "\n\n\n")
}

func TestText_EmptyInput(t *testing.T) {
	assert.Equal(t, "", Text(""))
}
