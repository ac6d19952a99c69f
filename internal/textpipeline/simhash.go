package textpipeline

import (
	"hash/fnv"
	"math/bits"
	"strings"
)

// Simhash computes a 64-bit near-duplicate fingerprint for a paragraph,
// per spec.md §3/§4.4: tokenize on whitespace, hash each token to 64
// bits, then for every bit position vote +1 if the token's bit is set
// and -1 otherwise, summing across tokens. The resulting fingerprint
// has bit i set wherever that position's vote total is positive.
//
// Two paragraphs with a small Hamming distance between their Simhash
// values are considered near-duplicates (HammingDistance, below).
func Simhash(text string) uint64 {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return 0
	}

	var votes [64]int
	for _, tok := range tokens {
		h := tokenHash(tok)
		for bit := 0; bit < 64; bit++ {
			if h&(1<<uint(bit)) != 0 {
				votes[bit]++
			} else {
				votes[bit]--
			}
		}
	}

	var fingerprint uint64
	for bit := 0; bit < 64; bit++ {
		if votes[bit] > 0 {
			fingerprint |= 1 << uint(bit)
		}
	}
	return fingerprint
}

func tokenHash(tok string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(tok))
	return h.Sum64()
}

// HammingDistance returns the number of differing bits between two
// 64-bit fingerprints.
func HammingDistance(a, b uint64) int {
	return bits.OnesCount64(a ^ b)
}
