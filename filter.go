package pixgallery

import "strings"

// FilterImages returns the images whose derived tags contain tag as a
// case-insensitive substring. Order is preserved. An empty tag matches
// nothing; callers treat that case as "reload" instead.
func FilterImages(images []EnrichedImageRecord, tag string) []EnrichedImageRecord {
	needle := strings.ToLower(tag)
	out := make([]EnrichedImageRecord, 0, len(images))
	if needle == "" {
		return out
	}
	for _, img := range images {
		if hasTag(img.DerivedTags, needle) {
			out = append(out, img)
		}
	}
	return out
}

func hasTag(tags []string, lowerNeedle string) bool {
	for _, t := range tags {
		if strings.Contains(strings.ToLower(t), lowerNeedle) {
			return true
		}
	}
	return false
}
