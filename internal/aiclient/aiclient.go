// Package aiclient wraps the Gemini multimodal model used to read shift
// listings out of screenshots.
package aiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

const (
	DefaultModel    = "gemini-1.5-flash"
	defaultAttempts = 3
	defaultBackoff  = 300 * time.Millisecond
)

// ErrEmptyResponse is returned when the model answered without any text.
var ErrEmptyResponse = errors.New("aiclient: empty response")

// AIClient sends an image plus an instruction to Gemini and returns the
// model's text answer.
type AIClient struct {
	client   *genai.Client
	model    string
	attempts int
	backoff  time.Duration
	sleep    func(ctx context.Context, d time.Duration) error
	logger   logrus.FieldLogger
}

// NewAIClient creates and returns a new AIClient.
func NewAIClient(ctx context.Context, apiKey, model string, logger logrus.FieldLogger) (*AIClient, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("aiclient: API key is required")
	}
	if model = strings.TrimSpace(model); model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	logger.WithField("model", model).Info("Gemini client initialized")

	return &AIClient{
		client:   client,
		model:    model,
		attempts: defaultAttempts,
		backoff:  defaultBackoff,
		sleep:    sleepCtx,
		logger:   logger,
	}, nil
}

// Close releases the underlying connection.
func (c *AIClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// ReadImage asks the model to follow instruction against image. Transient
// failures are retried with a linear backoff.
func (c *AIClient) ReadImage(ctx context.Context, image []byte, instruction string) (string, error) {
	m := c.client.GenerativeModel(c.model)
	m.SetTemperature(0)

	parts := []genai.Part{
		&genai.Blob{MIMEType: imageMIME(image), Data: image},
		genai.Text(instruction),
	}

	return c.generate(ctx, func(ctx context.Context) (*genai.GenerateContentResponse, error) {
		return m.GenerateContent(ctx, parts...)
	})
}

// generate runs call up to c.attempts times, waiting attempt*backoff between
// tries. There is no wait after the last attempt.
func (c *AIClient) generate(ctx context.Context, call func(context.Context) (*genai.GenerateContentResponse, error)) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		resp, err := call(ctx)
		if err != nil {
			lastErr = err
			c.logger.WithError(err).WithField("attempt", attempt).Warn("Gemini request failed")
			if attempt == c.attempts {
				break
			}
			if err := c.sleep(ctx, time.Duration(attempt)*c.backoff); err != nil {
				return "", err
			}
			continue
		}

		txt := firstText(resp)
		if txt == "" {
			return "", ErrEmptyResponse
		}
		return txt, nil
	}
	return "", fmt.Errorf("gemini generate content: %w", lastErr)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String()
}

// imageMIME sniffs the upload. Screenshots are nearly always PNG or JPEG.
func imageMIME(data []byte) string {
	ct := http.DetectContentType(data)
	if strings.HasPrefix(ct, "image/") {
		return ct
	}
	return "image/jpeg"
}
