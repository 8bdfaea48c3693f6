package pixgallery

import "testing"

func taggedImages(tags ...[]string) []EnrichedImageRecord {
	out := make([]EnrichedImageRecord, len(tags))
	for i, tt := range tags {
		out[i] = EnrichedImageRecord{RawImageRecord: RawImageRecord{ID: i + 1}, DerivedTags: tt}
	}
	return out
}

func TestFilterImages(t *testing.T) {
	t.Parallel()

	images := taggedImages([]string{"dog", "park"}, []string{"cat"}, nil, []string{"Hotdog stand"})

	tests := []struct {
		name    string
		tag     string
		wantIDs []int
	}{
		{name: "lowercase match", tag: "dog", wantIDs: []int{1, 4}},
		{name: "uppercase query", tag: "DOG", wantIDs: []int{1, 4}},
		{name: "substring", tag: "ar", wantIDs: []int{1}},
		{name: "no match", tag: "bird", wantIDs: nil},
		{name: "empty tag matches nothing", tag: "", wantIDs: nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := FilterImages(images, tc.tag)
			if len(got) != len(tc.wantIDs) {
				t.Fatalf("FilterImages(%q) returned %d images, want %d", tc.tag, len(got), len(tc.wantIDs))
			}
			for i, id := range tc.wantIDs {
				if got[i].ID != id {
					t.Errorf("result[%d].ID = %d, want %d", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestFilterImagesDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	images := taggedImages([]string{"dog"}, []string{"cat"})
	_ = FilterImages(images, "cat")
	if images[0].ID != 1 || images[1].ID != 2 {
		t.Errorf("input reordered: %+v", images)
	}
}
