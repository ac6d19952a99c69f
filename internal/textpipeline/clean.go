package textpipeline

import (
	"regexp"
	"strings"
	"unicode"
)

// repairUnicode folds mis-encoded whitespace variants to a regular space,
// normalises line endings to LF, and collapses runs of 4+ newlines down
// to exactly three — spec.md §4.4 stage 1.
func repairUnicode(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	replacer := strings.NewReplacer(
		" ", " ", // non-breaking space
		"​", " ", // zero-width space
		"‌", " ", // zero-width non-joiner
		"‍", " ", // zero-width joiner
		"\xef\xbb\xbf", " ", // BOM / zero-width no-break space
		"　", " ", // full-width (ideographic) space
		" ", " ", // figure space
		"⁠", " ", // word joiner
	)
	s = replacer.Replace(s)

	s = runOfNewlines.ReplaceAllString(s, "\n\n\n")
	return s
}

var runOfNewlines = regexp.MustCompile(`\n{4,}`)

// defaultNoisePatterns mirrors the original kb-jx cleaner's default set:
// bare URLs, email addresses, and standalone page markers (e.g. "第 3
// 页"). Repeated-punctuation runs are handled separately by
// removePunctuationRuns — Go's RE2 engine has no backreferences, so that
// pattern can't be expressed as a single regexp.
var defaultNoisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`https?://[^\s]+`),
	regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`),
	regexp.MustCompile(`第\s*\d+\s*页`),
}

// compileNoisePatterns merges the defaults with caller-supplied custom
// regexes (CUSTOM_NOISE_PATTERNS), per spec.md §4.4 stage 2: "Custom
// patterns compose with defaults."
func compileNoisePatterns(custom []string) ([]*regexp.Regexp, error) {
	patterns := make([]*regexp.Regexp, 0, len(defaultNoisePatterns)+len(custom))
	patterns = append(patterns, defaultNoisePatterns...)
	for _, raw := range custom {
		re, err := regexp.Compile(raw)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, re)
	}
	return patterns, nil
}

// removeNoise applies every regex pattern and the punctuation-run scan,
// replacing matches with the empty string and returning the total match
// count for statistics.
func removeNoise(s string, patterns []*regexp.Regexp) (string, int) {
	count := 0
	for _, re := range patterns {
		matches := re.FindAllStringIndex(s, -1)
		count += len(matches)
		s = re.ReplaceAllString(s, "")
	}
	s, runCount := removePunctuationRuns(s, 6)
	count += runCount
	return s, count
}

// removePunctuationRuns strips runs of the same non-alphanumeric,
// non-space rune repeated minRun or more times (default noise pattern:
// "repeated punctuation runs of length >= 6"). Implemented as a manual
// scan because RE2 can't backreference a captured rune.
func removePunctuationRuns(s string, minRun int) (string, int) {
	runes := []rune(s)
	var out strings.Builder
	out.Grow(len(s))
	count := 0

	i := 0
	for i < len(runes) {
		r := runes[i]
		j := i + 1
		for j < len(runes) && runes[j] == r {
			j++
		}
		runLen := j - i
		if runLen >= minRun && isPunctuationRune(r) {
			count++
		} else {
			out.WriteString(string(runes[i:j]))
		}
		i = j
	}
	return out.String(), count
}

func isPunctuationRune(r rune) bool {
	if unicode.IsSpace(r) || unicode.IsLetter(r) || unicode.IsDigit(r) {
		return false
	}
	return true
}
