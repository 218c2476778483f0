package models

import (
	"time"
)

// Document is a reference document held by the corpus. Content is immutable once
// ingested: an update is a new document plus a deactivation of the old one, so the
// derived fields never go stale.
type Document struct {
	ID                string    `bson:"documentId" json:"documentId"`
	Title             string    `bson:"title" json:"title"`
	Content           string    `bson:"content" json:"content"`
	SourceURL         string    `bson:"sourceUrl" json:"sourceUrl"`
	SourceType        string    `bson:"sourceType" json:"sourceType"`
	NormalizedContent string    `bson:"normalizedContent" json:"normalizedContent"`
	WordSet           []string  `bson:"wordSet" json:"wordSet"`
	NGramSet          []string  `bson:"ngramSet" json:"ngramSet"`
	ShingleSet        []string  `bson:"shingleSet" json:"shingleSet"`
	Active            bool      `bson:"active" json:"active"`
	CreatedAt         time.Time `bson:"createdAt" json:"createdAt"`
}

// WordLookup returns the word set as a map for O(1) membership tests.
func (d *Document) WordLookup() map[string]struct{} {
	set := make(map[string]struct{}, len(d.WordSet))
	for _, w := range d.WordSet {
		set[w] = struct{}{}
	}
	return set
}

// NGramLookup returns the n-gram set as a map for O(1) membership tests.
func (d *Document) NGramLookup() map[string]struct{} {
	set := make(map[string]struct{}, len(d.NGramSet))
	for _, g := range d.NGramSet {
		set[g] = struct{}{}
	}
	return set
}
