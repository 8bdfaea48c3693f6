package pixgallery

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// LabelPrompt is the default instruction for vision models used as detectors.
const LabelPrompt = `You are an object detector for a photo gallery.
List the distinct objects clearly visible in this photo.

Return JSON only, no prose, as an array ordered from most to least confident:
[{"label": "dog", "score": 0.93}, {"label": "frisbee", "score": 0.71}]

Rules:
- label is a short lowercase common noun (COCO-style: person, bicycle, car, dog, bench, ...)
- score is your confidence between 0.0 and 1.0
- at most 10 entries, no duplicates
- return [] if nothing recognizable is visible`

// ParseLabelResponse decodes a model reply produced from LabelPrompt into
// predictions ordered by descending score. Markdown code fences are
// tolerated, blank labels are dropped, and labels are lowercased.
func ParseLabelResponse(resp string) ([]Prediction, error) {
	resp = strings.TrimSpace(resp)
	resp = strings.TrimPrefix(resp, "```json")
	resp = strings.TrimPrefix(resp, "```")
	resp = strings.TrimSuffix(resp, "```")
	resp = strings.TrimSpace(resp)

	var raw []struct {
		Label string  `json:"label"`
		Score float64 `json:"score"`
	}
	if err := json.Unmarshal([]byte(resp), &raw); err != nil {
		return nil, fmt.Errorf("parse labels: %w (response: %.200s)", err, resp)
	}

	preds := make([]Prediction, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, r := range raw {
		label := strings.ToLower(strings.TrimSpace(r.Label))
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		preds = append(preds, Prediction{Label: label, Score: r.Score})
	}

	sort.SliceStable(preds, func(i, j int) bool {
		return preds[i].Score > preds[j].Score
	})
	return preds, nil
}
