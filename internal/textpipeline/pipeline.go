// Package textpipeline implements the cleaning, normalisation and
// deduplication pipeline applied to every extracted document's plain
// text, per spec.md §4.4.
package textpipeline

import (
	"context"
	"log/slog"
	"regexp"

	"github.com/mdowning/batchkb/internal/dedupstore"
)

// Config controls pipeline behaviour, sourced from the process
// configuration (spec.md §6).
type Config struct {
	MinParagraphLen          int
	SimhashDistanceThreshold int
	EnableNearDuplicate      bool
	CustomNoisePatterns      []string
}

// Pipeline runs the seven-stage clean/normalise/dedup sequence for one
// document at a time. A Pipeline is safe for concurrent use; all shared
// state lives in the injected dedupstore.Store.
type Pipeline struct {
	cfg           Config
	noisePatterns []*regexp.Regexp
	store         dedupstore.Store
	log           *slog.Logger
}

// New compiles the noise-pattern set (defaults plus any custom patterns)
// once, so repeated Clean calls don't recompile regexes per document.
func New(cfg Config, store dedupstore.Store, log *slog.Logger) (*Pipeline, error) {
	patterns, err := compileNoisePatterns(cfg.CustomNoisePatterns)
	if err != nil {
		return nil, err
	}
	return &Pipeline{cfg: cfg, noisePatterns: patterns, store: store, log: log}, nil
}

// Clean runs the full pipeline over one document's extracted text and
// reports the outcome plus the stats needed for the task's manifest.
func (p *Pipeline) Clean(ctx context.Context, text string) Result {
	stats := Stats{OriginalLength: len(text)}

	normalized := repairUnicode(text)
	normalized, noiseCount := removeNoise(normalized, p.noisePatterns)
	stats.NoiseRemovedCount = noiseCount
	stats.NormalizedLength = len(normalized)

	docHash := dedupstore.SHA256Hex([]byte(normalized))
	if p.store.IsDocSeen(ctx, docHash) {
		return Result{
			Success:      false,
			DocDuplicate: true,
			CleanedText:  normalized,
			Message:      "document fingerprint already seen",
			Stats:        stats,
		}
	}

	paragraphs := splitParagraphs(normalized)
	stats.ParagraphsOriginal = len(paragraphs)

	kept := make([]string, 0, len(paragraphs))
	for _, para := range paragraphs {
		if len(para) < p.cfg.MinParagraphLen {
			stats.ParagraphsTooShort++
			continue
		}

		paraHash := dedupstore.SHA256Hex([]byte(para))
		if p.store.IsParaSeen(ctx, paraHash) {
			stats.ParagraphsExactDup++
			continue
		}

		sh := Simhash(para)
		if p.cfg.EnableNearDuplicate && p.isNearDuplicate(ctx, sh) {
			stats.ParagraphsNearDup++
			continue
		}

		p.store.MarkPara(ctx, paraHash, sh)
		kept = append(kept, para)
	}
	stats.ParagraphsAfterDedup = len(kept)

	cleaned := joinParagraphs(kept)
	p.store.MarkDoc(ctx, docHash)

	result := Result{
		Success:     true,
		CleanedText: cleaned,
		Stats:       stats,
	}
	if len(kept) == 0 {
		result.Message = "no paragraphs survived cleaning and deduplication"
	}
	return result
}

// isNearDuplicate compares sh against every previously recorded paragraph
// sim-hash and reports whether any falls within the configured Hamming
// distance threshold. Cross-document dedup is inherent here: the store
// holds sim-hashes from every document processed so far, per spec.md
// §9's resolution that ENABLE_CROSS_DOC_DEDUP is implied whenever
// near-duplicate detection is on.
func (p *Pipeline) isNearDuplicate(ctx context.Context, sh uint64) bool {
	for _, seen := range p.store.AllParaSimhashes(ctx) {
		if HammingDistance(sh, seen) <= p.cfg.SimhashDistanceThreshold {
			return true
		}
	}
	return false
}
