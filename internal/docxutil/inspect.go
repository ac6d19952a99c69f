// Package docxutil centralizes the go-docx read/write helpers shared by
// the classifier (structural inspection) and the transcoder and
// text-pipeline artifact writer (document generation).
package docxutil

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fumiama/go-docx"
)

// Structure summarizes the body-level item counts Classify needs to
// decide whether a .docx is pure text.
type Structure struct {
	Paragraphs    int
	NonEmptyParas int
	Tables        int
	Drawings      int
}

// Inspect opens the .docx at path and counts its structural items.
// go-docx represents both inline pictures and embedded graphic objects
// as *docx.Drawing runs — there is no separate vector-shape type, so a
// single counter covers both of spec.md's "image" and "graphic"
// criteria for this format.
func Inspect(path string) (Structure, error) {
	f, err := os.Open(path)
	if err != nil {
		return Structure{}, fmt.Errorf("docxutil: open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Structure{}, fmt.Errorf("docxutil: stat %s: %w", path, err)
	}

	doc, err := docx.Parse(f, info.Size())
	if err != nil {
		return Structure{}, fmt.Errorf("docxutil: parse %s: %w", path, err)
	}

	var s Structure
	for _, item := range doc.Document.Body.Items {
		switch node := item.(type) {
		case *docx.Paragraph:
			s.Paragraphs++
			if strings.TrimSpace(paragraphText(node)) != "" {
				s.NonEmptyParas++
			}
			s.Drawings += countDrawings(node)
		case *docx.Table:
			s.Tables++
		}
	}
	return s, nil
}

func paragraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return buf.String()
}

func countDrawings(para *docx.Paragraph) int {
	count := 0
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if _, ok := rc.(*docx.Drawing); ok {
				count++
			}
		}
	}
	return count
}

// WriteParagraphs generates a minimal .docx containing one paragraph
// per string in paragraphs, in order. Used by the transcoder's native
// txt/md engine and by callers that need to persist a rewritten,
// cleaned artifact back out as .docx.
//
// A paragraph beginning with one or more '#' markers is written with
// the markers stripped, as a plain paragraph rather than a styled
// heading: go-docx's write-side fluent API (AddParagraph/AddText) has
// no documented heading-style setter.
func WriteParagraphs(w io.Writer, paragraphs []string) error {
	doc := docx.New().WithDefaultTheme()
	for _, p := range paragraphs {
		doc.AddParagraph().AddText(stripHeadingMarkers(p))
	}
	_, err := doc.WriteTo(w)
	if err != nil {
		return fmt.Errorf("docxutil: write docx: %w", err)
	}
	return nil
}

func stripHeadingMarkers(p string) string {
	trimmed := strings.TrimLeft(p, "#")
	if trimmed != p {
		return strings.TrimSpace(trimmed)
	}
	return p
}
