package gemini

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"example/image-colorizer/internal/download"

	"gitlab.com/tozd/go/errors"
	"google.golang.org/genai"
)

var ErrNoImage = errors.Base("model returned no image")

type generateFunc func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

func SetupClient(ctx context.Context, project, location string) (*genai.Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  project,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, errors.Errorf("creating genai client: %w", err)
	}
	return client, nil
}

// GetConfig asks for an image part alongside any text in the reply.
func GetConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	}
}

func GetPrompt() string {
	return `You are a photo restoration specialist. The attached image is a black-and-white or faded photograph.
Return a colorized version of the same photograph as an image.
Keep the composition, framing, faces and every detail unchanged; only add natural, realistic color.
Do not add text, borders or watermarks.`
}

// Colorizer colorizes images with a Gemini image model and hands the result
// back as a data URL.
type Colorizer struct {
	generate generateFunc
	model    string
}

func NewColorizer(client *genai.Client, model string) *Colorizer {
	return &Colorizer{
		generate: client.Models.GenerateContent,
		model:    model,
	}
}

func (c *Colorizer) ColorizeFile(ctx context.Context, path string) (string, error) {
	imageBytes, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Errorf("reading %s: %w", path, err)
	}

	return c.colorize(ctx, &genai.Part{
		InlineData: &genai.Blob{Data: imageBytes, MIMEType: mimeType(path)},
	})
}

func (c *Colorizer) ColorizeURL(ctx context.Context, url string) (string, error) {
	return c.colorize(ctx, &genai.Part{
		FileData: &genai.FileData{FileURI: url, MIMEType: mimeType(url)},
	})
}

func (c *Colorizer) colorize(ctx context.Context, image *genai.Part) (string, error) {
	parts := []*genai.Part{
		{Text: GetPrompt()},
		image,
	}

	result, err := c.generate(ctx, c.model, []*genai.Content{{Parts: parts}}, GetConfig())
	if err != nil {
		return "", errors.Errorf("generating content: %w", err)
	}
	if result == nil {
		return "", errors.WithStack(ErrNoImage)
	}

	for _, candidate := range result.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return download.EncodeDataURL(part.InlineData.MIMEType, part.InlineData.Data), nil
			}
		}
	}
	return "", errors.WithStack(ErrNoImage)
}

var imageTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".bmp":  "image/bmp",
	".gif":  "image/gif",
}

func mimeType(name string) string {
	if t, ok := imageTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return t
	}
	return "image/jpeg"
}
