package export

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

const (
	PDFContentType = "application/pdf"
	linesPerPage   = 60
)

// BuildPDF renders a plain text document in Helvetica on A4 pages. The
// title is repeated at the top of every page. Characters outside
// Windows-1252 are printed as '?'.
func BuildPDF(title string, lines []string) ([]byte, error) {
	pages := paginate(lines, linesPerPage-2)

	// objects 1..3 are catalog, page tree and font; each page adds a page
	// object and a content stream.
	objects := make([]string, 0, 3+2*len(pages))
	kids := make([]string, 0, len(pages))
	for i := range pages {
		kids = append(kids, fmt.Sprintf("%d 0 R", 4+2*i))
	}

	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	)

	for i, page := range pages {
		stream := pageStream(title, page, i+1, len(pages))
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
		)
	}

	var out bytes.Buffer
	out.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = out.Len()
		fmt.Fprintf(&out, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xrefStart := out.Len()
	fmt.Fprintf(&out, "xref\n0 %d\n", len(objects)+1)
	out.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&out, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&out, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF", len(objects)+1, xrefStart)

	return out.Bytes(), nil
}

func pageStream(title string, lines []string, page, total int) string {
	var b strings.Builder
	b.WriteString("BT\n/F1 14 Tf\n16 TL\n50 800 Td\n")
	fmt.Fprintf(&b, "(%s) Tj\n", pdfText(title))
	b.WriteString("/F1 10 Tf\n12 TL\nT*\n")
	for _, line := range lines {
		fmt.Fprintf(&b, "T* (%s) Tj\n", pdfText(line))
	}
	b.WriteString("ET")
	if total > 1 {
		fmt.Fprintf(&b, "\nBT\n/F1 8 Tf\n500 30 Td\n(%s) Tj\nET", pdfText(fmt.Sprintf("Page %d of %d", page, total)))
	}
	return b.String()
}

func paginate(lines []string, size int) [][]string {
	if len(lines) == 0 {
		return [][]string{nil}
	}
	var pages [][]string
	for len(lines) > size {
		pages = append(pages, lines[:size])
		lines = lines[size:]
	}
	return append(pages, lines)
}

var pdfEscaper = strings.NewReplacer("\\", "\\\\", "(", "\\(", ")", "\\)")

func pdfText(v string) string {
	var b strings.Builder
	for _, r := range pdfEscaper.Replace(v) {
		c, ok := charmap.Windows1252.EncodeRune(r)
		if !ok || c < 0x20 {
			c = '?'
		}
		if c < 0x80 {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(&b, "\\%03o", c)
	}
	return b.String()
}
