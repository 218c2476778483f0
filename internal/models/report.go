package models

import (
	"time"
)

// CheckState tracks the lifecycle of a similarity check.
type CheckState string

const (
	StatePending   CheckState = "pending"
	StateScanning  CheckState = "scanning"
	StateCompleted CheckState = "completed"
	StateFailed    CheckState = "failed"
)

// Terminal reports whether the state admits no further transitions.
func (s CheckState) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// MetricType identifies which matching strategy produced a span.
type MetricType string

const (
	MetricWordOverlap MetricType = "word-overlap"
	MetricNGram       MetricType = "ngram"
	MetricPhrase      MetricType = "phrase"
	MetricSentence    MetricType = "sentence"
	MetricFuzzy       MetricType = "fuzzy"
)

// MatchSpan is a contiguous character range within the query text that matched a
// corpus document. Offsets index the query, not the source document, and always
// satisfy StartIndex < EndIndex <= len(query).
type MatchSpan struct {
	SourceDocumentID string     `bson:"sourceDocumentId" json:"source_document_id"`
	SourceTitle      string     `bson:"sourceTitle" json:"source_title"`
	SourceURL        string     `bson:"sourceUrl" json:"source_url"`
	MatchedText      string     `bson:"matchedText" json:"matched_text"`
	StartIndex       int        `bson:"startIndex" json:"start_index"`
	EndIndex         int        `bson:"endIndex" json:"end_index"`
	MetricType       MetricType `bson:"metricType" json:"metric_type"`
	Score            float64    `bson:"score" json:"similarity_score"`
}

// Length returns the span width in bytes of the query text.
func (m *MatchSpan) Length() int {
	return m.EndIndex - m.StartIndex
}

// CheckReport is the immutable result of one similarity check. Matches are ordered
// highest score first and capped; OverallScore never exceeds the engine ceiling.
type CheckReport struct {
	CheckID          string      `bson:"checkId" json:"check_id"`
	OverallScore     float64     `bson:"overallScore" json:"overall_score"`
	DocumentsScanned int         `bson:"documentsScanned" json:"documents_scanned"`
	Matches          []MatchSpan `bson:"matches" json:"matches"`
	State            CheckState  `bson:"state" json:"state"`
	ProcessingTime   float64     `bson:"processingTime" json:"processing_time_seconds"`
	CreatedAt        time.Time   `bson:"createdAt" json:"created_at"`
}
