package gemini

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"google.golang.org/genai"

	domain "github.com/vehiscan/odometer-api/internal/domain/analysis"
)

// Options are the generation parameters for one client. Zero values are
// replaced by the defaults the service has always run with.
type Options struct {
	Model             string
	Temperature       float32
	TopP              float32
	TopK              float32
	MaxOutputTokens   int32
	SystemInstruction string
}

const defaultModel = "gemini-2.0-flash-exp"

func (o Options) withDefaults() Options {
	if o.Model == "" {
		o.Model = defaultModel
	}
	if o.Temperature == 0 {
		o.Temperature = 1
	}
	if o.TopP == 0 {
		o.TopP = 0.95
	}
	if o.TopK == 0 {
		o.TopK = 40
	}
	if o.MaxOutputTokens == 0 {
		o.MaxOutputTokens = 8192
	}
	return o
}

// Client adapts the Gemini API to the analysis.Vision port.
type Client struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
}

func NewClient(ctx context.Context, apiKey string, opts Options) (*Client, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	opts = opts.withDefaults()
	cfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(opts.Temperature),
		TopP:             genai.Ptr(opts.TopP),
		TopK:             genai.Ptr(opts.TopK),
		MaxOutputTokens:  opts.MaxOutputTokens,
		ResponseMIMEType: "text/plain",
	}
	if opts.SystemInstruction != "" {
		cfg.SystemInstruction = genai.NewContentFromText(opts.SystemInstruction, genai.RoleUser)
	}

	return &Client{client: cli, model: opts.Model, config: cfg}, nil
}

// UploadFile pushes a local file to the Gemini file store and returns the
// provider's handle. The local path doubles as the display name.
func (c *Client) UploadFile(ctx context.Context, localPath, mimeType string) (domain.RemoteFile, error) {
	f, err := c.client.Files.UploadFromPath(ctx, localPath, &genai.UploadFileConfig{
		MIMEType:    mimeType,
		DisplayName: localPath,
	})
	if err != nil {
		return domain.RemoteFile{}, wrapErr("upload file", err)
	}
	log.Printf("gemini: uploaded %s as %s", f.DisplayName, f.Name)
	return domain.RemoteFile{URI: f.URI, MIMEType: f.MIMEType}, nil
}

// Describe sends one user turn carrying the file reference and the
// instruction, and returns the model's text.
func (c *Client) Describe(ctx context.Context, file domain.RemoteFile, instruction string) (string, error) {
	parts := []*genai.Part{
		genai.NewPartFromURI(file.URI, file.MIMEType),
		genai.NewPartFromText(instruction),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, c.config)
	if err != nil {
		return "", wrapErr("generate content", err)
	}

	var out strings.Builder
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, p := range resp.Candidates[0].Content.Parts {
			if p.Text != "" {
				out.WriteString(p.Text)
			}
		}
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("gemini: %w", domain.ErrEmptyReply)
	}
	return out.String(), nil
}

func wrapErr(op string, err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		return fmt.Errorf("gemini: %s: %w", op, domain.ErrQuotaExceeded)
	}
	return fmt.Errorf("gemini: %s: %w", op, err)
}
