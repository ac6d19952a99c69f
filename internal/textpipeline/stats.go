package textpipeline

// Stats reports the pipeline's per-document counters, exactly the shape
// spec.md §4.4 documents.
type Stats struct {
	OriginalLength       int
	NormalizedLength     int
	NoiseRemovedCount    int
	ParagraphsOriginal   int
	ParagraphsExactDup   int
	ParagraphsNearDup    int
	ParagraphsTooShort   int
	ParagraphsAfterDedup int
}

// Result is the full TextPipeline output for one document. Success is
// false iff the document itself is a fingerprint-level duplicate;
// CleanedText is always populated (possibly empty, if every paragraph
// was filtered out).
type Result struct {
	Success      bool
	DocDuplicate bool
	CleanedText  string
	Message      string
	Stats        Stats
}
