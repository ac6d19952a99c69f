package textpipeline

import (
	"regexp"
	"strings"
)

// splitParagraphs breaks cleaned text into paragraphs on runs of two or
// more newlines, trimming surrounding whitespace from each piece and
// dropping empty results — spec.md §4.4 stage 3.
func splitParagraphs(s string) []string {
	raw := paragraphBreak.Split(s, -1)
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

var paragraphBreak = regexp.MustCompile(`\n{2,}`)

// joinParagraphs reassembles surviving paragraphs back into a document,
// separated by a blank line, per spec.md §4.4 stage 7.
func joinParagraphs(paragraphs []string) string {
	return strings.Join(paragraphs, "\n\n")
}
