package similarity

import (
	"math"
)

// TFIDFCosine computes the cosine similarity of pairwise TF-IDF vectors built
// from the two token sequences alone. Document frequencies come from just this
// pair (smoothed, so terms present in both sides keep non-zero weight), which
// keeps every comparison self-contained and independent of corpus order.
func TFIDFCosine(tokensA, tokensB []string) float64 {
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0.0
	}

	tfA := termFrequencies(tokensA)
	tfB := termFrequencies(tokensB)

	vocab := make(map[string]struct{}, len(tfA)+len(tfB))
	for t := range tfA {
		vocab[t] = struct{}{}
	}
	for t := range tfB {
		vocab[t] = struct{}{}
	}

	var dot, normA, normB float64
	for term := range vocab {
		df := 0
		if tfA[term] > 0 {
			df++
		}
		if tfB[term] > 0 {
			df++
		}
		// Smoothed IDF over the two-document collection: ln(3/(1+df)) + 1.
		idf := math.Log(3.0/float64(1+df)) + 1.0

		wa := float64(tfA[term]) * idf
		wb := float64(tfB[term]) * idf
		dot += wa * wb
		normA += wa * wa
		normB += wb * wb
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func termFrequencies(tokens []string) map[string]int {
	tf := make(map[string]int, len(tokens))
	for _, t := range tokens {
		tf[t]++
	}
	return tf
}
