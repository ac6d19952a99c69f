// Package dedupstore implements the polymorphic key-value dedup backend
// of spec.md §4.1: a capability set {is_doc_seen, mark_doc, is_para_seen,
// mark_para, get_all_para_simhash, get_stats, clear_all} over two
// variants, memory and networked (Redis).
package dedupstore

import "context"

// Stats reports the current size of each tracked set, mirroring the
// original kb-jx dedup_store.get_stats() shape.
type Stats struct {
	DocCount     int
	ParaCount    int
	SimhashCount int
}

// Store is the capability set every backend implements. Networked
// backends never propagate read/write failures to the caller — per
// spec.md §4.1's failure policy they log and behave as a cache miss or
// no-op instead.
type Store interface {
	// IsDocSeen reports whether a document fingerprint has already been
	// recorded.
	IsDocSeen(ctx context.Context, docHash string) bool

	// MarkDoc records a document fingerprint as seen.
	MarkDoc(ctx context.Context, docHash string)

	// IsParaSeen reports whether a paragraph fingerprint has already been
	// recorded (exact-match dedup).
	IsParaSeen(ctx context.Context, paraHash string) bool

	// MarkPara records a paragraph fingerprint and its sim-hash together.
	// Per spec.md §5's shared-resource policy, set membership is the
	// source of truth when the underlying operation isn't atomic; the
	// sim-hash map is advisory.
	MarkPara(ctx context.Context, paraHash string, simhash uint64)

	// AllParaSimhashes returns every recorded paragraph sim-hash, for
	// near-duplicate Hamming-distance comparison.
	AllParaSimhashes(ctx context.Context) map[string]uint64

	// Stats reports current set sizes.
	Stats(ctx context.Context) Stats

	// ClearAll wipes every tracked set. Intended for test fixtures.
	ClearAll(ctx context.Context)
}
