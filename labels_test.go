package pixgallery

import (
	"reflect"
	"testing"
)

func TestParseLabelResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		resp    string
		want    []string
		wantErr bool
	}{
		{name: "plain json", resp: `[{"label":"dog","score":0.9},{"label":"park","score":0.4}]`, want: []string{"dog", "park"}},
		{name: "reordered by score", resp: `[{"label":"tree","score":0.2},{"label":"car","score":0.8}]`, want: []string{"car", "tree"}},
		{name: "fenced", resp: "```json\n[{\"label\":\"cat\",\"score\":1}]\n```", want: []string{"cat"}},
		{name: "bare fence", resp: "```\n[{\"label\":\"cup\",\"score\":1}]\n```", want: []string{"cup"}},
		{name: "lowercased and trimmed", resp: `[{"label":"  Bicycle ","score":0.5}]`, want: []string{"bicycle"}},
		{name: "blank and duplicate labels dropped", resp: `[{"label":"","score":0.9},{"label":"Dog","score":0.8},{"label":"dog","score":0.7}]`, want: []string{"dog"}},
		{name: "empty array", resp: `[]`, want: []string{}},
		{name: "equal scores keep model order", resp: `[{"label":"b","score":0.5},{"label":"a","score":0.5}]`, want: []string{"b", "a"}},
		{name: "prose", resp: "I see a dog", wantErr: true},
		{name: "empty", resp: "", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			preds, err := ParseLabelResponse(tc.resp)
			if tc.wantErr {
				if err == nil {
					t.Errorf("ParseLabelResponse(%q) = %v, want error", tc.resp, preds)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseLabelResponse(%q): %v", tc.resp, err)
			}
			if got := topLabels(preds, len(preds)); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("labels = %v, want %v", got, tc.want)
			}
		})
	}
}
