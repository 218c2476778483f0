package models

// CheckRequest is the payload for a similarity check. Threshold fields are optional
// overrides; zero values fall back to the configured defaults.
type CheckRequest struct {
	Text           string  `json:"text" binding:"required"`
	MinSimilarity  float64 `json:"minSimilarity,omitempty"`
	MinCommonWords int     `json:"minCommonWords,omitempty"`
	MaxMatches     int     `json:"maxMatches,omitempty"`
	Strictness     string  `json:"strictness,omitempty"`
	TimeoutSeconds int     `json:"timeoutSeconds,omitempty"`
}

// IngestRequest is the payload for adding a reference document to the corpus.
type IngestRequest struct {
	ID         string `json:"documentId,omitempty"`
	Title      string `json:"title" binding:"required"`
	Content    string `json:"content" binding:"required"`
	SourceURL  string `json:"sourceUrl,omitempty"`
	SourceType string `json:"sourceType,omitempty"`
}

// IngestResponse acknowledges a stored document.
type IngestResponse struct {
	DocumentID string `json:"documentId"`
}

// CorpusStats reports corpus size and whether the external crawler should grow it.
type CorpusStats struct {
	ActiveDocuments int      `json:"active_documents"`
	NeedsMoreData   bool     `json:"needs_more_data"`
	GrowthKeywords  []string `json:"growth_keywords,omitempty"`
}

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
