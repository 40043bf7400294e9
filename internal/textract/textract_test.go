package textract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromBytesPlainText(t *testing.T) {
	text, err := FromBytes("job.txt", []byte("Go developer, 3 years"))
	require.NoError(t, err)
	assert.Equal(t, "Go developer, 3 years", text)

	text, err = FromBytes("README", []byte("no extension"))
	require.NoError(t, err)
	assert.Equal(t, "no extension", text)
}

func TestFromBytesInvalidUTF8(t *testing.T) {
	text, err := FromBytes("resume.txt", []byte{0xff, 0xfe, 0xfd})
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestFromBytesBrokenDocuments(t *testing.T) {
	_, err := FromBytes("resume.PDF", []byte("not a pdf"))
	assert.Error(t, err)

	_, err = FromBytes("resume.docx", []byte("not a zip"))
	assert.Error(t, err)
}

func TestFromBytesPDF(t *testing.T) {
	text, err := FromBytes("resume.pdf", singlePagePDF("Python developer"))
	require.NoError(t, err)
	assert.Contains(t, text, "Python developer")
}

func TestFromBytesDocx(t *testing.T) {
	body := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>
    <w:p><w:r><w:t>Skills:</w:t><w:tab/><w:t>Go, SQL</w:t></w:r></w:p>
  </w:body>
</w:document>`

	for _, name := range []string{"resume.docx", "resume.DOC"} {
		text, err := FromBytes(name, docxArchive(t, body))
		require.NoError(t, err, name)
		assert.Equal(t, "Jane Doe\nSkills:\tGo, SQL", text, name)
	}
}

func TestFromBytesDocxWithoutDocument(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	_, err := w.Create("word/styles.xml")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, err = FromBytes("resume.docx", buf.Bytes())
	assert.Error(t, err)
}

// singlePagePDF builds a one page PDF showing text in Helvetica.
func singlePagePDF(text string) []byte {
	content := fmt.Sprintf("BT /F1 12 Tf 72 712 Td (%s) Tj ET", text)
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

// docxArchive packs a minimal WordprocessingML package around body.
func docxArchive(t *testing.T, body string) []byte {
	t.Helper()

	parts := []struct{ name, content string }{
		{"[Content_Types].xml", `<?xml version="1.0" encoding="UTF-8"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`},
		{"word/_rels/document.xml.rels", `<?xml version="1.0" encoding="UTF-8"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`},
		{"word/document.xml", body},
	}

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, part := range parts {
		f, err := w.Create(part.name)
		require.NoError(t, err)
		_, err = f.Write([]byte(part.content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.md")
	require.NoError(t, os.WriteFile(path, []byte("# Resume\nPython"), 0o600))

	text, err := FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Resume\nPython", text)

	_, err = FromFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestParagraphs(t *testing.T) {
	documentXML := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>
    <w:p><w:r><w:t xml:space="preserve">Data </w:t></w:r><w:r><w:t>Analyst &amp; Engineer</w:t></w:r></w:p>
    <w:p><w:r><w:t>   </w:t></w:r></w:p>
    <w:p></w:p>
    <w:p><w:r><w:t>Skills:</w:t><w:tab/><w:t>Python</w:t></w:r></w:p>
  </w:body>
</w:document>`

	text, err := paragraphs(documentXML)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nData Analyst & Engineer\nSkills:\tPython", text)
}

func TestParagraphsMalformed(t *testing.T) {
	_, err := paragraphs(`<w:p><w:t>open`)
	assert.Error(t, err)
}
