package core

import (
	"context"
	"time"
)

// Field selects what a PlaceIndex lookup matches against.
type Field string

const (
	FieldID           Field = "id"
	FieldName         Field = "name"
	FieldInName       Field = "in_name"
	FieldLastModified Field = "last_modified"
)

// PlaceIndex is the read-only lookup the brain queries. Lookups never fail:
// "not found" is an empty result. For FieldLastModified the value is ignored
// and the result is ordered most recent first.
type PlaceIndex interface {
	Get(field Field, value string) []Place
	Len() int
}

type MentionsRepository interface {
	MarkHandled(ctx context.Context, source, eventID, querent string) (bool, error)
	RecordReply(ctx context.Context, source, eventID, question string, chunks []string) error
	RecordFailure(ctx context.Context, source, eventID, question, reason string) error
	Stats(ctx context.Context) (MentionStats, error)
}

type MentionStats struct {
	Handled     int
	Replies     int
	Failed      int
	LastHandled time.Time
}
