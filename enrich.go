package pixgallery

import (
	"context"
	"strings"
)

// EnrichedImageRecord is a hit together with its derived tags.
type EnrichedImageRecord struct {
	RawImageRecord
	DerivedTags []string `json:"derivedTags"`
}

// Enricher attaches descriptive tags to a hit. Implementations never fail:
// a record that cannot be tagged yields an empty slice.
type Enricher interface {
	Enrich(ctx context.Context, rec RawImageRecord) []string
}

// EnricherFunc adapts an ordinary function to the Enricher interface.
type EnricherFunc func(ctx context.Context, rec RawImageRecord) []string

func (f EnricherFunc) Enrich(ctx context.Context, rec RawImageRecord) []string { return f(ctx, rec) }

// NativeTagEnricher derives tags from the comma-separated tag string already
// present in the search response. It does no I/O.
type NativeTagEnricher struct{}

func (NativeTagEnricher) Enrich(_ context.Context, rec RawImageRecord) []string {
	return SplitNativeTags(rec.Tags)
}

// SplitNativeTags splits a comma-separated tag string and trims each piece.
// Empty pieces are dropped, so "" and " , " both yield an empty slice.
func SplitNativeTags(tags string) []string {
	out := []string{}
	for _, part := range strings.Split(tags, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
