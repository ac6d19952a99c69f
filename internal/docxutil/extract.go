package docxutil

import (
	"fmt"
	"os"
	"strings"

	"github.com/fumiama/go-docx"
)

// ExtractText walks a .docx's paragraphs in order and joins their text
// with a blank line between each, for feeding into the text pipeline.
func ExtractText(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("docxutil: open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("docxutil: stat %s: %w", path, err)
	}

	doc, err := docx.Parse(f, info.Size())
	if err != nil {
		return "", fmt.Errorf("docxutil: parse %s: %w", path, err)
	}

	var paragraphs []string
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		if t := strings.TrimSpace(paragraphText(para)); t != "" {
			paragraphs = append(paragraphs, t)
		}
	}
	return strings.Join(paragraphs, "\n\n"), nil
}
