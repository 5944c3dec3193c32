package extractor_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mgrain/sopchat/pkg/extractor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExtract_HTMLBodyOrder(t *testing.T) {
	html := `<html><body>
		<p>Severity levels define response expectations.</p>
		<p>   </p>
		<table>
			<tr><th>Level</th><th>Response</th></tr>
			<tr><td>Sev1</td><td>15 minutes</td></tr>
			<tr><td>  </td><td> </td></tr>
		</table>
		<p>Escalate stale incidents to the duty manager.</p>
	</body></html>`

	e := extractor.New()
	text, err := e.Extract(writeTemp(t, "sop.html", html))
	require.NoError(t, err)

	lines := strings.Split(text, "\n")
	// Two non-empty paragraphs and two non-empty rows, interleaved in
	// source order: paragraph, rows, paragraph.
	require.Len(t, lines, 4)
	assert.Equal(t, "Severity levels define response expectations.", lines[0])
	assert.Equal(t, "Level | Response", lines[1])
	assert.Equal(t, "Sev1 | 15 minutes", lines[2])
	assert.Equal(t, "Escalate stale incidents to the duty manager.", lines[3])
}

func TestExtract_HTMLNoExtractableText(t *testing.T) {
	e := extractor.New()
	text, err := e.Extract(writeTemp(t, "empty.html", "<html><body><div>no paragraphs here</div></body></html>"))
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestExtract_PlainText(t *testing.T) {
	content := "First procedure step.\n\n  Second   step with   spacing.  \n"

	e := extractor.New()
	text, err := e.Extract(writeTemp(t, "sop.txt", content))
	require.NoError(t, err)
	assert.Equal(t, "First procedure step.\nSecond step with spacing.", text)
}

func TestExtract_UnsupportedExtension(t *testing.T) {
	e := extractor.New()
	_, err := e.Extract(writeTemp(t, "sop.xlsx", "cells"))
	require.Error(t, err)
	assert.ErrorIs(t, err, extractor.ErrExtraction)
}

func TestExtract_MissingFile(t *testing.T) {
	e := extractor.New()
	_, err := e.Extract(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, extractor.ErrExtraction)
}

func TestExtract_MalformedDocx(t *testing.T) {
	// A .docx is a zip archive; plain text is not parseable.
	e := extractor.New()
	_, err := e.Extract(writeTemp(t, "sop.docx", "not a zip archive"))
	require.Error(t, err)
	assert.ErrorIs(t, err, extractor.ErrExtraction)
}
