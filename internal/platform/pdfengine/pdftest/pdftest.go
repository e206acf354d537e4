// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pdftest builds small, valid PDF files for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"strings"
)

// Page describes one generated page. A zero Width/Height inherits the
// 612x792 MediaBox of the page tree.
type Page struct {
	Text   string
	Width  float64
	Height float64
}

// Build returns a PDF with one Helvetica text line per page.
func Build(pages ...Page) []byte {
	var (
		buffer  bytes.Buffer
		offsets []int
	)

	object := func(body string) {
		offsets = append(offsets, buffer.Len())
		fmt.Fprintf(&buffer, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buffer.WriteString("%PDF-1.4\n")

	// Object numbers: 1 catalog, 2 page tree, 3 font, then page/content pairs.
	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}

	object("<< /Type /Catalog /Pages 2 0 R >>")
	object(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d /MediaBox [0 0 612.0 792.0] >>",
		strings.Join(kids, " "), len(pages)))
	object("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	for i, page := range pages {
		box := ""
		if page.Width > 0 && page.Height > 0 {
			box = fmt.Sprintf(" /MediaBox [0 0 %.1f %.1f]", page.Width, page.Height)
		}
		object(fmt.Sprintf("<< /Type /Page /Parent 2 0 R%s /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>",
			box, 5+2*i))

		content := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", escape(page.Text))
		object(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}

	xrefOffset := buffer.Len()
	fmt.Fprintf(&buffer, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, offset := range offsets {
		fmt.Fprintf(&buffer, "%010d 00000 n \n", offset)
	}
	fmt.Fprintf(&buffer, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xrefOffset)

	return buffer.Bytes()
}

// Text builds a document whose pages inherit the default size.
func Text(pages ...string) []byte {
	specs := make([]Page, len(pages))
	for i, text := range pages {
		specs[i] = Page{Text: text}
	}
	return Build(specs...)
}

func escape(text string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return replacer.Replace(text)
}
