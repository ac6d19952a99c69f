// Package classifier implements the pure-text / rich-media decision of
// spec.md §4.2: per-extension rules that decide whether a document's
// textual content can stand alone or whether the original binary must
// be preserved for a human to open.
package classifier

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Result reports the classification outcome for one file.
type Result struct {
	// IsTextOnly is true when the document carries no meaningful
	// non-text content and can safely be represented by its extracted
	// plain text alone.
	IsTextOnly bool
	// Reason is a short, human-readable justification, logged and
	// surfaced in the task manifest.
	Reason string
}

// Classify inspects the file at path (whose extension determines the
// rule applied) and decides whether it is pure-text or rich-media.
// The legacy .doc format has no native structural reader: Classify
// returns UnsupportedWithoutTranscodeError for it, and callers route it
// through a transcoder to .docx first and classify the converted file,
// per spec.md §9's resolution that legacy-ness never overrides a
// rich-media verdict. Legacy .xls and .ppt need no transcode to be
// classified: like .xlsx and .pptx they are rich-media by extension.
func Classify(path string) (Result, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".txt", ".md":
		return classifyPlainText(path, ext)
	case ".docx":
		return classifyDocx(path)
	case ".xlsx", ".xls", ".pptx", ".ppt":
		return Result{IsTextOnly: false, Reason: fmt.Sprintf("%s is always treated as rich-media", ext)}, nil
	case ".pdf":
		return classifyPDF(path)
	case ".doc":
		return Result{}, &UnsupportedWithoutTranscodeError{Extension: ext}
	default:
		// An extension Classify has no rule for is rich-media by
		// default, not an error: per spec.md §4.2/§7, an unrecognised
		// format surfaces as rich-media with a reason, the original
		// preserved untouched alongside it.
		return Result{IsTextOnly: false, Reason: "unsupported format"}, nil
	}
}

// UnsupportedWithoutTranscodeError is returned for legacy binary
// formats that must be transcoded to a modern equivalent before
// Classify can inspect their structure.
type UnsupportedWithoutTranscodeError struct{ Extension string }

func (e *UnsupportedWithoutTranscodeError) Error() string {
	return fmt.Sprintf("classifier: %q requires transcoding before classification", e.Extension)
}
