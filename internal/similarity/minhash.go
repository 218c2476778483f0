package similarity

import (
	"hash/fnv"
	"math"
)

// DefaultMinHashCount is the default number of independent hash seeds. The
// estimate's error shrinks as the count grows; 100 keeps it within a few percent.
const DefaultMinHashCount = 100

// MinHashSignature computes the per-seed minimum FNV hash over a shingle set.
// An empty shingle set yields an all-max signature.
func MinHashSignature(shingles []string, numHashes int) []uint32 {
	sig := make([]uint32, numHashes)
	for i := range sig {
		sig[i] = math.MaxUint32
	}
	for _, shingle := range shingles {
		base := hashShingle(shingle)
		for i := 0; i < numHashes; i++ {
			// XOR with a seed-derived constant gives cheap independent hash families.
			h := base ^ seedMask(uint32(i))
			if h < sig[i] {
				sig[i] = h
			}
		}
	}
	return sig
}

// MinHashSimilarity estimates Jaccard similarity as the fraction of seeds whose
// minima coincide. Signatures must come from the same hash count.
func MinHashSimilarity(sigA, sigB []uint32) float64 {
	if len(sigA) == 0 || len(sigA) != len(sigB) {
		return 0.0
	}
	matches := 0
	for i := range sigA {
		if sigA[i] == sigB[i] {
			matches++
		}
	}
	return float64(matches) / float64(len(sigA))
}

func hashShingle(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}

func seedMask(seed uint32) uint32 {
	// Knuth multiplicative hash spreads small seeds across the word.
	return seed * 2654435761
}
