package classifier

import (
	"fmt"
	"os"
	"regexp"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// imageRefPattern catches bare references to common image files, the
// kind a .txt export of a richer document sometimes leaves behind
// (e.g. "see diagram.png" or a markdown-style image link that a plain
// .txt file can still contain as literal text).
var imageRefPattern = regexp.MustCompile(`(?i)!\[[^\]]*\]\([^)]+\)|\b[\w\-./ ]+\.(?:png|jpe?g|gif|bmp|tiff?|webp|svg)\b`)

// htmlImgPattern catches an HTML <img> tag, which marks both .txt and
// .md files as rich-media.
var htmlImgPattern = regexp.MustCompile(`(?i)<img\b`)

// classifyPlainText handles .txt and .md. Both are text-only unless
// they reference an image: an HTML <img> tag in either; for .md, a
// genuine *ast.Image node in the AST; for .txt, which has no structure
// to walk, a regex scan for image-looking references.
func classifyPlainText(path, ext string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("classifier: read %s: %w", path, err)
	}

	if htmlImgPattern.Match(data) {
		return Result{IsTextOnly: false, Reason: "document contains an HTML <img> tag"}, nil
	}

	if ext == ".md" {
		if hasMarkdownImage(data) {
			return Result{IsTextOnly: false, Reason: "markdown document embeds at least one image"}, nil
		}
		return Result{IsTextOnly: true, Reason: "markdown document has no image references"}, nil
	}

	if imageRefPattern.Match(data) {
		return Result{IsTextOnly: false, Reason: "plain text references an image file"}, nil
	}
	return Result{IsTextOnly: true, Reason: "plain text has no image references"}, nil
}

func hasMarkdownImage(src []byte) bool {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	found := false
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if _, ok := n.(*ast.Image); ok {
			found = true
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return found
}
