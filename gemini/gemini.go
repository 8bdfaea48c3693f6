// Package gemini provides a pixgallery.Detector backed by a Gemini vision model.
package gemini

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"strings"

	"github.com/anatolykoptev/go-pixgallery"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultModel is used when Options.Model is empty.
const DefaultModel = "gemini-2.5-flash"

// ErrNoAPIKey is returned when neither Options.APIKey nor GEMINI_API_KEY is set.
var ErrNoAPIKey = errors.New("gemini: GEMINI_API_KEY environment variable not set")

// Options configures a Detector.
type Options struct {
	APIKey      string // default: $GEMINI_API_KEY
	Model       string // default: DefaultModel
	Prompt      string // default: pixgallery.LabelPrompt
	JPEGQuality int    // default: 85
}

// Detector labels images by asking a Gemini model for the objects it sees.
type Detector struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	prompt  string
	quality int
}

// New creates the Gemini client and model handle.
func New(ctx context.Context, opts Options) (*Detector, error) {
	apiKey := opts.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	opts.defaults()

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create new gemini client: %w", err)
	}

	model := client.GenerativeModel(opts.Model)
	model.SetTemperature(0)
	model.ResponseMIMEType = "application/json"

	return &Detector{client: client, model: model, prompt: opts.Prompt, quality: opts.JPEGQuality}, nil
}

func (o *Options) defaults() {
	if o.Model == "" {
		o.Model = DefaultModel
	}
	if o.Prompt == "" {
		o.Prompt = pixgallery.LabelPrompt
	}
	if o.JPEGQuality <= 0 || o.JPEGQuality > 100 {
		o.JPEGQuality = 85
	}
}

// Factory returns a pixgallery.DetectorFactory that builds a Detector on
// first use.
func Factory(opts Options) pixgallery.DetectorFactory {
	return func(ctx context.Context) (pixgallery.Detector, error) {
		return New(ctx, opts)
	}
}

// Detect sends img as JPEG together with the label prompt and parses the
// ranked label list from the reply. Gemini does not localize, so Box is zero.
func (d *Detector) Detect(ctx context.Context, img image.Image) ([]pixgallery.Prediction, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: d.quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}

	resp, err := d.model.GenerateContent(ctx, genai.ImageData("jpeg", buf.Bytes()), genai.Text(d.prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	text, err := responseText(resp)
	if err != nil {
		return nil, err
	}
	return pixgallery.ParseLabelResponse(text)
}

// Close releases the underlying client.
func (d *Detector) Close() error {
	return d.client.Close()
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned from Gemini")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("empty content returned from Gemini")
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("unexpected response format from Gemini")
	}
	return sb.String(), nil
}
