package transcoder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/mdowning/batchkb/internal/docxutil"
)

// NativeTextToDocxEngine wraps a .txt or .md file's paragraphs into a
// minimal .docx, entirely in-process via docxutil/go-docx. It only
// handles .txt/.md inputs converted to ".docx"; anything else reports
// ErrEngineUnavailable so the chain moves on.
type NativeTextToDocxEngine struct{}

func (e *NativeTextToDocxEngine) Name() string { return "native-text-to-docx" }

func (e *NativeTextToDocxEngine) Convert(ctx context.Context, inputPath, outputPath string) error {
	if filepath.Ext(outputPath) != ".docx" {
		return ErrEngineUnavailable
	}
	switch strings.ToLower(filepath.Ext(inputPath)) {
	case ".txt", ".md":
	default:
		return ErrEngineUnavailable
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", inputPath, err)
	}

	var paragraphs []string
	if strings.EqualFold(filepath.Ext(inputPath), ".md") {
		paragraphs = markdownParagraphs(data)
	} else {
		paragraphs = strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n\n")
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outputPath, err)
	}
	defer out.Close()

	return docxutil.WriteParagraphs(out, paragraphs)
}

func markdownParagraphs(src []byte) []string {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	var paragraphs []string
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if n.Type() != ast.TypeBlock {
			continue
		}
		var buf strings.Builder
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			buf.Write(lines.At(i).Value(src))
		}
		if t := strings.TrimSpace(buf.String()); t != "" {
			paragraphs = append(paragraphs, t)
		}
	}
	return paragraphs
}

// NativePDFToDocxEngine extracts a PDF's plain text via ledongthuc/pdf
// and re-wraps it as a .docx, for callers that want a structurally
// inspectable artifact rather than the raw PDF. Inputs other than .pdf
// report ErrEngineUnavailable.
type NativePDFToDocxEngine struct{}

func (e *NativePDFToDocxEngine) Name() string { return "native-pdf-to-docx" }

func (e *NativePDFToDocxEngine) Convert(ctx context.Context, inputPath, outputPath string) error {
	if filepath.Ext(outputPath) != ".docx" || !strings.EqualFold(filepath.Ext(inputPath), ".pdf") {
		return ErrEngineUnavailable
	}

	f, reader, err := pdflib.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", inputPath, err)
	}
	defer f.Close()

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if t := strings.TrimSpace(text); t != "" {
			pages = append(pages, t)
		}
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outputPath, err)
	}
	defer out.Close()

	return docxutil.WriteParagraphs(out, pages)
}
