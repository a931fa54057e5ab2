package extractor

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeDocx(t *testing.T, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	return buf.Bytes()
}

func TestExtractDocxParagraphs(t *testing.T) {
	doc := `<?xml version="1.0"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		`<w:p><w:r><w:t>First paragraph</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Second</w:t></w:r><w:r><w:t> paragraph</w:t></w:r></w:p>` +
		`</w:body></w:document>`

	text, err := New().ExtractBytes(makeDocx(t, doc), ".docx")
	require.NoError(t, err)
	assert.Equal(t, "First paragraph\nSecond paragraph", text)
}

func TestExtractDocxTabs(t *testing.T) {
	doc := `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		`<w:p><w:r><w:t>a</w:t><w:tab/><w:t>b</w:t></w:r></w:p>` +
		`</w:body></w:document>`

	text, err := New().ExtractBytes(makeDocx(t, doc), ".docx")
	require.NoError(t, err)
	assert.Equal(t, "a\tb", text)
}

func TestExtractDocxIgnoresTextOutsideParagraphs(t *testing.T) {
	doc := `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		`<w:t>stray</w:t>` +
		`<w:p><w:r><w:t>real</w:t></w:r></w:p>` +
		`</w:body></w:document>`

	text, err := New().ExtractBytes(makeDocx(t, doc), ".docx")
	require.NoError(t, err)
	assert.Equal(t, "real", text)
}

func TestExtractDocxCorrupt(t *testing.T) {
	_, err := New().ExtractBytes([]byte("not a zip archive"), ".docx")
	assert.Error(t, err)
}

func TestExtractDocxMissingDocument(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("some/other.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte("<x/>"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = New().ExtractBytes(buf.Bytes(), ".docx")
	assert.Error(t, err)
}

func TestExtractPDFCorrupt(t *testing.T) {
	_, err := New().ExtractBytes([]byte("%PDF-1.4 truncated garbage"), ".pdf")
	assert.Error(t, err)
}

func TestExtractUnknownExtension(t *testing.T) {
	// Неизвестное расширение отсекает grader, извлечение молча даёт пустоту.
	text, err := New().ExtractBytes([]byte("plain text content"), ".txt")
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestExtractExtensionCaseInsensitive(t *testing.T) {
	doc := `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		`<w:p><w:r><w:t>upper</w:t></w:r></w:p>` +
		`</w:body></w:document>`

	text, err := New().ExtractBytes(makeDocx(t, doc), ".DOCX")
	require.NoError(t, err)
	assert.Equal(t, "upper", text)
}
