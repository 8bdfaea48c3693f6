package pixgallery

import (
	"bytes"
	"context"
	"net/http"

	"github.com/bep/imagemeta"
)

// metadataMaxBytes bounds the download used for metadata extraction. EXIF,
// IPTC and XMP blocks sit at the head of the file.
const metadataMaxBytes = 1 << 20

// PhotoMetadata holds the attribution and camera fields shown in an image's
// detail view.
type PhotoMetadata struct {
	EXIFArtist    string
	EXIFCopyright string
	CameraMake    string
	CameraModel   string
	IPTCByline    string
	IPTCCopyright string
	IPTCCredit    string
	DCCreator     string
	DCRights      string
}

// Attribution returns the most specific creator credit present, or "".
func (m *PhotoMetadata) Attribution() string {
	if m == nil {
		return ""
	}
	for _, f := range []string{m.EXIFArtist, m.IPTCByline, m.DCCreator, m.IPTCCredit} {
		if f != "" {
			return f
		}
	}
	return ""
}

// Rights returns the first non-empty copyright statement, or "".
func (m *PhotoMetadata) Rights() string {
	if m == nil {
		return ""
	}
	for _, f := range []string{m.EXIFCopyright, m.IPTCCopyright, m.DCRights} {
		if f != "" {
			return f
		}
	}
	return ""
}

// Camera returns "make model", either part, or "".
func (m *PhotoMetadata) Camera() string {
	if m == nil {
		return ""
	}
	switch {
	case m.CameraMake != "" && m.CameraModel != "":
		return m.CameraMake + " " + m.CameraModel
	case m.CameraModel != "":
		return m.CameraModel
	default:
		return m.CameraMake
	}
}

// wantedTags maps (source, tag-name) → true for every tag we care about.
var wantedTags = map[imagemeta.Source]map[string]bool{
	imagemeta.IPTC: {
		"CopyrightNotice": true,
		"Credit":          true,
		"Byline":          true,
	},
	imagemeta.EXIF: {
		"Copyright": true,
		"Artist":    true,
		"Make":      true,
		"Model":     true,
	},
	imagemeta.XMP: {
		"Rights":  true,
		"Creator": true,
	},
}

// ExtractPhotoMetadata parses EXIF/IPTC/XMP metadata from raw image bytes.
// Returns nil if the data is empty or carries none of the wanted fields.
func ExtractPhotoMetadata(data []byte) *PhotoMetadata {
	if len(data) == 0 {
		return nil
	}

	meta := &PhotoMetadata{}
	found := false

	// A truncated download may end in a decode error after the header
	// blocks were read; whatever was found is still returned.
	_, _ = imagemeta.Decode(imagemeta.Options{
		R:       bytes.NewReader(data),
		Sources: imagemeta.EXIF | imagemeta.IPTC | imagemeta.XMP,
		ShouldHandleTag: func(ti imagemeta.TagInfo) bool {
			if tags, ok := wantedTags[ti.Source]; ok {
				return tags[ti.Tag]
			}
			return false
		},
		HandleTag: func(ti imagemeta.TagInfo) error {
			if s := tagValueString(ti.Value); s != "" && setMetadataField(meta, ti.Source, ti.Tag, s) {
				found = true
			}
			return nil
		},
	})

	if !found {
		return nil
	}
	return meta
}

// FetchPhotoMetadata downloads the head of the image at url and extracts its
// metadata. A nil result with a nil error means the image has none.
func FetchPhotoMetadata(ctx context.Context, client *http.Client, url string) (*PhotoMetadata, error) {
	r, err := Download(ctx, client, url, DownloadOpts{MaxBytes: metadataMaxBytes})
	if err != nil {
		return nil, err
	}
	return ExtractPhotoMetadata(r.Data), nil
}

func setMetadataField(meta *PhotoMetadata, src imagemeta.Source, tag, s string) bool {
	switch src {
	case imagemeta.EXIF:
		switch tag {
		case "Artist":
			meta.EXIFArtist = s
		case "Copyright":
			meta.EXIFCopyright = s
		case "Make":
			meta.CameraMake = s
		case "Model":
			meta.CameraModel = s
		default:
			return false
		}
	case imagemeta.IPTC:
		switch tag {
		case "Byline":
			meta.IPTCByline = s
		case "CopyrightNotice":
			meta.IPTCCopyright = s
		case "Credit":
			meta.IPTCCredit = s
		default:
			return false
		}
	case imagemeta.XMP:
		switch tag {
		case "Creator":
			meta.DCCreator = s
		case "Rights":
			meta.DCRights = s
		default:
			return false
		}
	default:
		return false
	}
	return true
}

// tagValueString extracts a string from a tag value.
// XMP values may be string or []string (from altList/seqList).
func tagValueString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []string:
		if len(val) > 0 {
			return val[0]
		}
		return ""
	case []any:
		if len(val) > 0 {
			if s, ok := val[0].(string); ok {
				return s
			}
		}
		return ""
	default:
		return ""
	}
}
