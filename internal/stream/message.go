package stream

import (
	"errors"
	"fmt"

	"github.com/scribeworks/veritas/internal/models"
)

// ErrMissingField is returned when a stream message lacks a required field.
var ErrMissingField = errors.New("missing required field")

// StreamMessage is one entry read from the document stream.
type StreamMessage struct {
	ID     string
	Fields map[string]string
}

// ParseDocument maps a stream message published by the crawling collaborator to
// an ingest request. Title and content are required; everything else is optional.
func ParseDocument(msg *StreamMessage) (*models.IngestRequest, error) {
	title, ok := msg.Fields["title"]
	if !ok || title == "" {
		return nil, fmt.Errorf("%w: title", ErrMissingField)
	}
	content, ok := msg.Fields["content"]
	if !ok || content == "" {
		return nil, fmt.Errorf("%w: content", ErrMissingField)
	}

	return &models.IngestRequest{
		ID:         msg.Fields["documentId"],
		Title:      title,
		Content:    content,
		SourceURL:  msg.Fields["sourceUrl"],
		SourceType: msg.Fields["sourceType"],
	}, nil
}
