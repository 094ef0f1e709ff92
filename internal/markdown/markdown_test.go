package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToHTML(t *testing.T) {
	out, err := ToHTML("Building **things** on ~~paper~~ https://example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "<strong>things</strong>")
	assert.Contains(t, out, "<del>paper</del>")
	assert.Contains(t, out, `<a href="https://example.com">`)
}

func TestToHTMLEscapesRawHTML(t *testing.T) {
	out, err := ToHTML(`<script>alert(1)</script>`)
	require.NoError(t, err)
	assert.False(t, strings.Contains(out, "<script>"))
}

func TestToHTMLEmpty(t *testing.T) {
	out, err := ToHTML("")
	require.NoError(t, err)
	assert.Empty(t, out)
}
