package pixgallery

import (
	"context"
	"reflect"
	"testing"
)

func TestSplitNativeTags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		tags string
		want []string
	}{
		{name: "whitespace trimmed", tags: "cat, outdoor, animal", want: []string{"cat", "outdoor", "animal"}},
		{name: "empty string", tags: "", want: []string{}},
		{name: "only separators", tags: " , ,", want: []string{}},
		{name: "single tag", tags: "sunset", want: []string{"sunset"}},
		{name: "empty pieces dropped", tags: "sea,, sky ,", want: []string{"sea", "sky"}},
		{name: "multi-word tags kept", tags: "red fox, winter forest", want: []string{"red fox", "winter forest"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := SplitNativeTags(tc.tags)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("SplitNativeTags(%q) = %#v, want %#v", tc.tags, got, tc.want)
			}
		})
	}
}

func TestNativeTagEnricher(t *testing.T) {
	t.Parallel()

	got := NativeTagEnricher{}.Enrich(context.Background(), RawImageRecord{ID: 1, Tags: "cat, outdoor, animal"})
	want := []string{"cat", "outdoor", "animal"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Enrich = %v, want %v", got, want)
	}
}

func TestEnricherFunc(t *testing.T) {
	t.Parallel()

	var seen int
	e := EnricherFunc(func(_ context.Context, rec RawImageRecord) []string {
		seen = rec.ID
		return []string{"x"}
	})
	if got := e.Enrich(context.Background(), RawImageRecord{ID: 42}); len(got) != 1 || got[0] != "x" {
		t.Errorf("Enrich = %v", got)
	}
	if seen != 42 {
		t.Errorf("record id = %d, want 42", seen)
	}
}
